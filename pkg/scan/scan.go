// Package scan orchestrates a documentation coverage scan: walk the source
// tree, extract declarations per file, then score the result. Extraction
// runs concurrently per file; results merge in path order so repeated scans
// of an unchanged tree are identical.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/greyhaven-ai/doccov/pkg/extract"
	"github.com/greyhaven-ai/doccov/pkg/logger"
	"github.com/greyhaven-ai/doccov/pkg/score"
	"github.com/greyhaven-ai/doccov/pkg/telemetry"
	"github.com/greyhaven-ai/doccov/pkg/walker"
)

// Options configure a scan.
type Options struct {
	// Root is the directory to scan.
	Root string
	// Languages restricts the scan to the named languages. Empty means
	// every registered language.
	Languages []string
	// Includes and Excludes are doublestar glob patterns relative to Root.
	// Empty Includes derives patterns from the selected languages'
	// extensions.
	Includes []string
	Excludes []string
	// MinDocLength and IgnorePatterns are passed through to the scorer.
	MinDocLength   int
	IgnorePatterns []string
	// Concurrency bounds the number of files parsed in parallel.
	// Zero means runtime.NumCPU().
	Concurrency int
}

// Result is the complete outcome of one scan.
type Result struct {
	// ScanID uniquely identifies this scan run.
	ScanID    string        `json:"scanId"`
	Root      string        `json:"root"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	// Languages lists the languages that were scanned for.
	Languages []string `json:"languages"`
	// FilesScanned counts files handed to an extractor; FilesParsed counts
	// those that parsed cleanly.
	FilesScanned int                    `json:"filesScanned"`
	FilesParsed  int                    `json:"filesParsed"`
	Warnings     []walker.Warning       `json:"warnings,omitempty"`
	FileErrors   []*extract.FileError   `json:"fileErrors,omitempty"`
	Declarations []*extract.Declaration `json:"declarations"`
	Coverage     *score.Report          `json:"coverage"`
}

// Run executes a single scan.
func Run(ctx context.Context, opts Options) (*Result, error) {
	var result *Result
	err := telemetry.WithSpan(ctx, "scan.run", func(ctx context.Context) error {
		var err error
		result, err = run(ctx, opts)
		return err
	}, attribute.String("scan.root", opts.Root))
	return result, err
}

func run(ctx context.Context, opts Options) (*Result, error) {
	log := logger.G(ctx)
	start := time.Now()

	languages, err := resolveLanguages(opts.Languages)
	if err != nil {
		return nil, err
	}

	scorer, err := score.New(score.Options{
		MinDocLength:   opts.MinDocLength,
		IgnorePatterns: opts.IgnorePatterns,
	})
	if err != nil {
		return nil, err
	}

	includes := opts.Includes
	if len(includes) == 0 {
		includes = defaultIncludes(languages)
	}

	walked, err := walker.Walk(ctx, walker.Config{
		Root:     opts.Root,
		Includes: includes,
		Excludes: opts.Excludes,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range walked.Warnings {
		log.WithField("path", w.Path).Warn(w.Message)
	}

	files := filterByLanguage(walked.Files, languages)
	log.WithField("files", len(files)).WithField("root", opts.Root).Debug("walk complete")

	fileResults, warnings, err := extractAll(ctx, opts.Root, files, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ScanID:    uuid.NewString(),
		Root:      opts.Root,
		StartedAt: start,
		Languages: languages,
		Warnings:  append(walked.Warnings, warnings...),
	}

	for _, fr := range fileResults {
		result.FilesScanned++
		if fr.Err != nil {
			result.FileErrors = append(result.FileErrors, fr.Err)
			log.WithField("file", fr.Err.File).Warn(fr.Err.Message)
			continue
		}
		result.FilesParsed++
		result.Declarations = append(result.Declarations, fr.Declarations...)
	}

	result.Declarations = extract.DedupeDeclarations(result.Declarations)
	result.Coverage = scorer.Score(result.Declarations)
	result.Duration = time.Since(start)

	telemetry.SetAttributes(ctx,
		attribute.Int("scan.files", result.FilesScanned),
		attribute.Int("scan.declarations", result.Coverage.Total),
		attribute.Float64("scan.ratio", result.Coverage.Ratio),
	)
	log.WithField("declarations", result.Coverage.Total).
		WithField("documented", result.Coverage.Documented).
		Debug("scan complete")

	return result, nil
}

// extractAll parses the given files concurrently, preserving path order in
// the returned slice. Unreadable files become warnings, not failures.
func extractAll(ctx context.Context, root string, files []string, concurrency int) ([]*extract.FileResult, []walker.Warning, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	results := make([]*extract.FileResult, len(files))
	warnings := make([]walker.Warning, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, rel := range files {
		i, rel := i, rel
		g.Go(func() error {
			lang, ok := extract.DefaultRegistry.LanguageForExtension(filepath.Ext(rel))
			if !ok {
				return nil
			}
			extractor, err := extract.DefaultRegistry.Create(lang)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(filepath.Join(root, rel))
			if err != nil {
				warnings[i] = walker.Warning{Path: rel, Message: "unreadable file skipped: " + err.Error()}
				return nil
			}

			fr, err := extractor.ExtractFile(ctx, rel, src)
			if err != nil {
				return errors.Wrapf(err, "extracting %s", rel)
			}
			results[i] = fr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := make([]*extract.FileResult, 0, len(results))
	var warns []walker.Warning
	for i, fr := range results {
		if warnings[i].Path != "" {
			warns = append(warns, warnings[i])
		}
		if fr != nil {
			out = append(out, fr)
		}
	}
	return out, warns, nil
}

// languageAliases maps the short names accepted on the command line to the
// registry names the extractors register under.
var languageAliases = map[string]string{
	"ts": "typescript",
	"py": "python",
}

// resolveLanguages validates the requested languages against the registry,
// expanding short aliases and defaulting to everything registered.
func resolveLanguages(requested []string) ([]string, error) {
	if len(requested) == 0 {
		langs := extract.DefaultRegistry.Languages()
		sort.Strings(langs)
		return langs, nil
	}

	var merr *multierror.Error
	out := make([]string, 0, len(requested))
	seen := make(map[string]bool)
	for _, lang := range requested {
		if alias, ok := languageAliases[lang]; ok {
			lang = alias
		}
		if !extract.DefaultRegistry.HasLanguage(lang) {
			merr = multierror.Append(merr, errors.Errorf("unsupported language %q", lang))
			continue
		}
		if !seen[lang] {
			seen[lang] = true
			out = append(out, lang)
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// defaultIncludes builds walk patterns covering the selected languages'
// file extensions.
func defaultIncludes(languages []string) []string {
	var patterns []string
	for _, lang := range languages {
		for _, ext := range extract.DefaultRegistry.ExtensionsFor(lang) {
			patterns = append(patterns, "**/*"+ext)
		}
	}
	return patterns
}

// filterByLanguage keeps files whose extension maps to a selected language.
func filterByLanguage(files, languages []string) []string {
	selected := make(map[string]bool, len(languages))
	for _, lang := range languages {
		selected[lang] = true
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		lang, ok := extract.DefaultRegistry.LanguageForExtension(filepath.Ext(f))
		if ok && selected[lang] {
			out = append(out, f)
		}
	}
	return out
}
