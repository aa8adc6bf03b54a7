package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobmate/ats-ingest/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills [text ...]",
	Short: "Print the skill report for a piece of text",
	Long: `Match, normalize and categorize the skills mentioned in the given text.
Without arguments the text is read from stdin.

Examples:
  ats-ingest skills "Python, React, PostgreSQL, AWS, Docker"
  curl -s https://example.com/job.txt | ats-ingest skills`,
	RunE: runSkills,
}

func runSkills(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(raw)
	}
	return printJSON(skills.ExtractFromJob(text))
}
