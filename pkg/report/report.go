// Package report renders scan results in multiple output formats. Renderers
// register themselves by format name; markdown, html and json ship built in.
package report

import (
	"io"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/greyhaven-ai/doccov/pkg/scan"
)

// Renderer writes one representation of a scan result.
type Renderer interface {
	// Format returns the renderer's registry key, e.g. "markdown".
	Format() string
	Render(w io.Writer, result *scan.Result) error
}

var (
	mu        sync.RWMutex
	renderers = map[string]func() Renderer{}
)

// Register adds a renderer factory under a format name. Later registrations
// for the same name win.
func Register(format string, factory func() Renderer) {
	mu.Lock()
	defer mu.Unlock()
	renderers[format] = factory
}

// New returns a renderer for the named format.
func New(format string) (Renderer, error) {
	mu.RLock()
	factory, ok := renderers[format]
	mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown report format %q (available: %v)", format, Formats())
	}
	return factory(), nil
}

// Formats lists the registered format names in sorted order.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(renderers))
	for name := range renderers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Write renders the result in the given format to the output path. The
// path "-" or "" writes to stdout. An unwritable destination is reported
// as a wrapped error naming the path.
func Write(result *scan.Result, format, output string) error {
	renderer, err := New(format)
	if err != nil {
		return err
	}

	if output == "" || output == "-" {
		return renderer.Render(os.Stdout, result)
	}

	f, err := os.Create(output)
	if err != nil {
		return errors.Wrapf(err, "cannot write report to %s", output)
	}
	if err := renderer.Render(f, result); err != nil {
		f.Close()
		return errors.Wrapf(err, "rendering %s report", format)
	}
	return errors.Wrapf(f.Close(), "cannot write report to %s", output)
}
