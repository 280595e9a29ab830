package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/greyhaven-ai/doccov/pkg/scan"
	"github.com/greyhaven-ai/doccov/pkg/version"
)

func init() {
	Register("json", func() Renderer { return &jsonRenderer{} })
}

// jsonEnvelope wraps a scan result with tool metadata so consumers can
// detect schema drift.
type jsonEnvelope struct {
	Tool        string `json:"tool"`
	ToolVersion string `json:"toolVersion"`
	GeneratedAt string `json:"generatedAt"`
	*scan.Result
}

type jsonRenderer struct{}

func (r *jsonRenderer) Format() string {
	return "json"
}

func (r *jsonRenderer) Render(w io.Writer, result *scan.Result) error {
	envelope := jsonEnvelope{
		Tool:        "doccov",
		ToolVersion: version.Get().Version,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Result:      result,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(envelope), "encode json report")
}
