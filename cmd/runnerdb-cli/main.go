package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/kballard/go-shellquote"

	"github.com/dvoa-timing/runnerdb/pkg/client"
)

const helpText = `Available commands:

search <term> [limit]
  Ranked name search. Quote multi-word names: search "jane doe" 10

runners
  Dump every indexed runner.

stats
  Show index size and source file metadata.

help
  Show this help message.

exit
  Quit.`

func main() {
	host := flag.String("host", "127.0.0.1", "runnerdb server host")
	port := flag.Int("port", 8001, "runnerdb server port")
	flag.Parse()

	c := client.New(client.WithHost(*host), client.WithPort(*port))

	fmt.Printf("runnerdb at http://%s:%d\n", *host, *port)
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input error:", err)
			return
		}

		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if done := run(c, args); done {
			return
		}
	}
}

// run executes one command, returning true when the REPL should exit.
func run(c *client.Client, args []string) bool {
	switch args[0] {
	case "exit", "quit":
		return true

	case "help":
		fmt.Println(helpText)

	case "search":
		if len(args) < 2 || len(args) > 3 {
			fmt.Println("usage: search <term> [limit]")
			return false
		}
		limit := 0
		if len(args) == 3 {
			n, err := strconv.Atoi(args[2])
			if err != nil || n < 1 {
				fmt.Println("limit must be a positive integer")
				return false
			}
			limit = n
		}
		results, err := c.Search(args[1], limit)
		if err != nil {
			fmt.Println("error:", err)
			return false
		}
		if len(results) == 0 {
			fmt.Println("no matches")
			return false
		}
		for _, r := range results {
			printRunner(r)
		}

	case "runners":
		runners, err := c.AllRunners()
		if err != nil {
			fmt.Println("error:", err)
			return false
		}
		for _, r := range runners {
			printRunner(r)
		}
		fmt.Printf("%d runners\n", len(runners))

	case "stats":
		stats, err := c.Stats()
		if err != nil {
			fmt.Println("error:", err)
			return false
		}
		fmt.Printf("runners:  %d\n", stats.TotalRunners)
		fmt.Printf("file:     %s\n", stats.FilePath)
		fmt.Printf("modified: %s\n", stats.LastModified)
		fmt.Printf("checked:  %s\n", stats.LastChecked)

	default:
		fmt.Println("unknown command; 'help' lists the available ones")
	}
	return false
}

func printRunner(r client.Runner) {
	fmt.Printf("%-30s", r.FullName())
	if r.CardNumber > 0 {
		fmt.Printf(" card=%d", r.CardNumber)
	}
	if r.ClubNumber > 0 {
		fmt.Printf(" club=%d", r.ClubNumber)
	}
	if r.BirthYear > 0 {
		fmt.Printf(" born=%d", r.BirthYear)
	}
	if r.Sex != "" {
		fmt.Printf(" sex=%s", r.Sex)
	}
	if r.Nationality != "" {
		fmt.Printf(" nat=%s", r.Nationality)
	}
	fmt.Printf(" id=%d\n", r.ID)
}
