package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/greyhaven-ai/doccov/pkg/manifest"
	"github.com/greyhaven-ai/doccov/pkg/presenter"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Work with plugin manifest files",
}

var manifestValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate plugin.json manifests under a plugins directory",
	Long: `Validate checks the manifest of every plugin directory under the given
path (default .). Each plugin must carry a well-formed manifest with the
required fields and an author object.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		results, err := manifest.ValidateAll(root)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return errors.Errorf("no plugin directories found under %s", root)
		}

		invalid := 0
		for _, result := range results {
			if result.Valid() {
				presenter.Info(fmt.Sprintf("%s: ok", result.Plugin))
				continue
			}
			invalid++
			for _, issue := range result.Issues {
				presenter.Error(errors.New(issue.Message), result.Plugin)
			}
		}

		if invalid > 0 {
			return &exitCodeError{code: 1, err: errors.Errorf("%d of %d plugin(s) failed validation", invalid, len(results))}
		}
		presenter.Success(fmt.Sprintf("%d plugin(s) validated", len(results)))
		return nil
	},
}

var manifestSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for plugin manifests",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := manifest.Schema()
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" || output == "-" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
			return errors.Wrapf(err, "cannot write schema to %s", output)
		}
		presenter.Success("schema written to " + output)
		return nil
	},
}

func init() {
	manifestSchemaCmd.Flags().StringP("output", "o", "-", "Schema output path; - for stdout")
	manifestCmd.AddCommand(withTracing(manifestValidateCmd))
	manifestCmd.AddCommand(withTracing(manifestSchemaCmd))
}
