// Package client provides an HTTP client for a running runnerdb server.
//
// Example:
//
//	c := client.New(client.WithPort(8001))
//
//	results, err := c.Search("jane doe", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
package client
