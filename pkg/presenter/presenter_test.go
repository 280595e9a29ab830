package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	p := NewWithOptions(&out, &errOut, ColorNever)
	return p, &out, &errOut
}

func TestErrorOutput(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "scan failed")
	assert.Contains(t, errOut.String(), "[ERROR] scan failed: boom")
	assert.Empty(t, out.String())

	errOut.Reset()
	p.Error(nil, "ignored")
	assert.Empty(t, errOut.String())
}

func TestQuietModeSuppressesNonErrors(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Success("done")
	p.Warning("careful")
	p.Info("hello")
	p.Section("Results")
	p.Separator()
	p.Stats(&CoverageStats{Total: 2, Documented: 1, Ratio: 0.5})
	assert.Empty(t, out.String())

	// Errors still get through.
	p.Error(errors.New("boom"), "")
	assert.Contains(t, errOut.String(), "boom")
}

func TestStatsFormatting(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Stats(&CoverageStats{Total: 10, Documented: 8, Ratio: 0.8, FilesParsed: 3, FileErrors: 1})
	assert.Contains(t, out.String(), "Documented: 8/10 (80.0%)")
	assert.Contains(t, out.String(), "Parse errors: 1")

	out.Reset()
	p.Stats(nil)
	assert.Empty(t, out.String())
}

func TestSectionUnderline(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Section("Undocumented")
	assert.Contains(t, out.String(), "Undocumented\n------------\n")
}
