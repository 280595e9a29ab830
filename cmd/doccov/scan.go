package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/greyhaven-ai/doccov/pkg/gate"
	"github.com/greyhaven-ai/doccov/pkg/presenter"
	"github.com/greyhaven-ai/doccov/pkg/report"
	"github.com/greyhaven-ai/doccov/pkg/scan"

	_ "github.com/greyhaven-ai/doccov/pkg/extract/python"
	_ "github.com/greyhaven-ai/doccov/pkg/extract/ts"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a source tree and report documentation coverage",
	Long: `Scan walks the given root, extracts publicly exported declarations from
TypeScript and Python sources, scores how many carry documentation, and
renders a report. With --threshold the command exits non-zero when
coverage falls short, making it suitable as a CI gate.`,
	RunE: runScan,
}

func init() {
	flags := scanCmd.Flags()
	flags.StringP("root", "r", ".", "Root directory to scan")
	flags.StringSliceP("lang", "l", nil, "Languages to scan (ts, py); default all")
	flags.StringSlice("include", nil, "Glob patterns of files to include")
	flags.StringSlice("exclude", nil, "Glob patterns of files to exclude")
	flags.StringSlice("ignore", nil, "Glob patterns of declaration names to ignore")
	flags.Float64P("threshold", "t", 0, "Minimum coverage ratio in [0,1]; 0 never fails")
	flags.StringP("format", "f", "markdown", "Report format (markdown, html, json)")
	flags.StringP("output", "o", "-", "Report output path; - for stdout")
	flags.Int("min-doc-length", 0, "Minimum characters for a doc comment to count")
	flags.Int("concurrency", 0, "Files parsed in parallel; 0 uses all CPUs")
	flags.Bool("watch", false, "Rescan whenever sources change")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	root, _ := flags.GetString("root")
	languages, _ := flags.GetStringSlice("lang")
	includes, _ := flags.GetStringSlice("include")
	excludes, _ := flags.GetStringSlice("exclude")
	ignore, _ := flags.GetStringSlice("ignore")
	threshold, _ := flags.GetFloat64("threshold")
	format, _ := flags.GetString("format")
	output, _ := flags.GetString("output")
	minDocLength, _ := flags.GetInt("min-doc-length")
	concurrency, _ := flags.GetInt("concurrency")
	watch, _ := flags.GetBool("watch")

	if threshold < 0 || threshold > 1 {
		return errors.Errorf("threshold must be between 0 and 1, got %g", threshold)
	}

	opts := scan.Options{
		Root:           root,
		Languages:      languages,
		Includes:       includes,
		Excludes:       excludes,
		IgnorePatterns: ignore,
		MinDocLength:   minDocLength,
		Concurrency:    concurrency,
	}

	render := func(result *scan.Result) error {
		if err := report.Write(result, format, output); err != nil {
			return err
		}
		presenter.Stats(&presenter.CoverageStats{
			Total:       result.Coverage.Total,
			Documented:  result.Coverage.Documented,
			Ratio:       result.Coverage.Ratio,
			FilesParsed: result.FilesParsed,
			FileErrors:  len(result.FileErrors),
		})
		return nil
	}

	if watch {
		// Watch mode reports continuously and never gates; stop with
		// Ctrl-C.
		err := scan.Watch(ctx, scan.WatchOptions{
			Scan: opts,
			OnResult: func(result *scan.Result) {
				if err := render(result); err != nil {
					presenter.Error(err, "rendering report")
				}
			},
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	result, err := scan.Run(ctx, opts)
	if err != nil {
		return err
	}
	if err := render(result); err != nil {
		return err
	}

	decision, err := gate.Evaluate(result.Coverage.Ratio, threshold)
	if err != nil {
		return err
	}
	if !decision.Pass {
		return &exitCodeError{code: decision.ExitCode(), err: errors.New(decision.Message())}
	}
	presenter.Success(decision.Message())
	return nil
}
