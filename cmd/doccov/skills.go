package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/greyhaven-ai/doccov/pkg/presenter"
	"github.com/greyhaven-ai/doccov/pkg/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Work with plugin skill definitions",
}

var skillsValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate SKILL.md files under a skills directory",
	Long: `Validate checks every skill directory under the given path (default
./skills): the SKILL.md must exist and its frontmatter must carry a
well-formed name and description.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "./skills"
		if len(args) == 1 {
			dir = args[0]
		}

		result, err := skills.ValidateDir(dir)
		if err != nil {
			return err
		}

		for _, finding := range result.Findings {
			switch finding.Severity {
			case skills.SeverityError:
				presenter.Error(errors.New(finding.Message), finding.Path)
			default:
				presenter.Warning(finding.String())
			}
		}

		if result.HasErrors() {
			failed := make(map[string]bool)
			for _, finding := range result.Findings {
				if finding.Severity == skills.SeverityError {
					failed[finding.Skill] = true
				}
			}
			return &exitCodeError{code: 1, err: errors.Errorf("%d of %d skill(s) failed validation", len(failed), result.Checked)}
		}
		presenter.Success(fmt.Sprintf("%d skill(s) validated", result.Checked))
		return nil
	},
}

func init() {
	skillsCmd.AddCommand(withTracing(skillsValidateCmd))
}
