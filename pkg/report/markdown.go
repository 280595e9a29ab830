package report

import (
	"fmt"
	"io"

	"github.com/greyhaven-ai/doccov/pkg/scan"
)

func init() {
	Register("markdown", func() Renderer { return &markdownRenderer{} })
}

type markdownRenderer struct{}

func (r *markdownRenderer) Format() string {
	return "markdown"
}

func (r *markdownRenderer) Render(w io.Writer, result *scan.Result) error {
	coverage := result.Coverage

	fmt.Fprintf(w, "# Documentation Coverage\n\n")
	fmt.Fprintf(w, "- **Root:** `%s`\n", result.Root)
	fmt.Fprintf(w, "- **Coverage:** %.1f%% (%d of %d declarations documented)\n",
		coverage.Ratio*100, coverage.Documented, coverage.Total)
	fmt.Fprintf(w, "- **Files:** %d scanned, %d parsed\n", result.FilesScanned, result.FilesParsed)
	if coverage.Ignored > 0 {
		fmt.Fprintf(w, "- **Ignored declarations:** %d\n", coverage.Ignored)
	}
	fmt.Fprintln(w)

	if len(coverage.ByKind) > 0 {
		fmt.Fprintln(w, "## By Kind")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Kind | Documented | Total | Coverage |")
		fmt.Fprintln(w, "|------|-----------:|------:|---------:|")
		for _, kc := range coverage.ByKind {
			fmt.Fprintf(w, "| %s | %d | %d | %.1f%% |\n", kc.Kind, kc.Documented, kc.Total, kc.Ratio*100)
		}
		fmt.Fprintln(w)
	}

	if len(coverage.ByFile) > 0 {
		fmt.Fprintln(w, "## By File")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| File | Documented | Total | Coverage |")
		fmt.Fprintln(w, "|------|-----------:|------:|---------:|")
		for _, fc := range coverage.ByFile {
			fmt.Fprintf(w, "| `%s` | %d | %d | %.1f%% |\n", fc.File, fc.Documented, fc.Total, fc.Ratio*100)
		}
		fmt.Fprintln(w)
	}

	if len(coverage.Undocumented) > 0 {
		fmt.Fprintln(w, "## Undocumented Declarations")
		fmt.Fprintln(w)
		for _, d := range coverage.Undocumented {
			fmt.Fprintf(w, "- `%s` %s (`%s`)\n", d.Location(), d.Name, d.Kind)
		}
		fmt.Fprintln(w)
	}

	if len(result.FileErrors) > 0 {
		fmt.Fprintln(w, "## Parse Errors")
		fmt.Fprintln(w)
		for _, fe := range result.FileErrors {
			fmt.Fprintf(w, "- `%s`: %s\n", fe.File, fe.Message)
		}
		fmt.Fprintln(w)
	}

	return nil
}
