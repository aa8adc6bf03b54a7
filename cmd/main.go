// ats-ingest pulls job postings from applicant-tracking systems, normalizes
// them and derives a categorized skills profile for each one.
//
// Subcommands:
//   - fetch: print canonical records for a batch of employers
//   - skills: print the skill report for a piece of text
//   - serve: HTTP API plus the periodic ingest
package main

import (
	"fmt"
	"os"

	"jobmate/ats-ingest/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
