// Command lendingdesk runs lending desk operations against the journal.
//
// Every invocation opens a desk on the configured journal, runs one operation and renders the
// outcome. The demo subcommand runs a seeded session on an in-memory journal instead.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
