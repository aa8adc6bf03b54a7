package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jobmate/ats-ingest/internal/config"
	"jobmate/ats-ingest/internal/model"
	"jobmate/ats-ingest/internal/skills"
)

var (
	fetchEmployersFile string
	fetchWithSkills    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [platform:identifier ...]",
	Short: "Fetch postings and print them as JSON",
	Long: `Fetch open postings for every employer and print the canonical records as a
JSON array on stdout. Employers come from the employers file unless given as
arguments.

Examples:
  ats-ingest fetch
  ats-ingest fetch --employers ./boards.yaml --skills
  ats-ingest fetch structured-api:airbnb secondary-api:netflix`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchEmployersFile, "employers", "", "employer YAML file (default $EMPLOYERS_FILE)")
	fetchCmd.Flags().BoolVar(&fetchWithSkills, "skills", false, "attach a skill report to every record")
}

func runFetch(cmd *cobra.Command, args []string) error {
	employers, err := employersFromArgs(args)
	if err != nil {
		return err
	}
	if len(employers) == 0 {
		path := fetchEmployersFile
		if path == "" {
			path = cfg.EmployersFile
		}
		if employers, err = config.LoadEmployers(path); err != nil {
			return err
		}
	}

	b := &batchRunner{cfg: cfg, log: logger}
	jobs, err := b.Fetch(cmd.Context(), employers)
	if err != nil {
		return err
	}

	var out any = jobs
	if fetchWithSkills {
		enriched := make([]model.EnrichedJob, len(jobs))
		for i, j := range jobs {
			enriched[i] = skills.ForJob(j)
		}
		out = enriched
	}
	return printJSON(out)
}

// employersFromArgs parses "platform:identifier" pairs. The identifier
// doubles as the label.
func employersFromArgs(args []string) ([]model.Employer, error) {
	employers := make([]model.Employer, 0, len(args))
	for _, arg := range args {
		raw, id, ok := strings.Cut(arg, ":")
		if !ok || raw == "" || id == "" {
			return nil, fmt.Errorf("expected platform:identifier, got %q", arg)
		}
		p, err := model.ParsePlatform(raw)
		if err != nil {
			return nil, err
		}
		employers = append(employers, model.Employer{Label: id, Platform: p, Identifier: id})
	}
	return employers, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
