package runnerdb

import "errors"

// ErrNoDatabase means no candidate path currently exists on disk. It is
// returned per query; resolution is retried on the next query rather than
// cached as a permanent failure.
var ErrNoDatabase = errors.New("runner database not found")
