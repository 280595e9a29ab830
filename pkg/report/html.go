package report

import (
	"html/template"
	"io"

	"github.com/pkg/errors"

	"github.com/greyhaven-ai/doccov/pkg/scan"
)

func init() {
	Register("html", func() Renderer { return &htmlRenderer{} })
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Documentation Coverage</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1f2328; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5rem; }
th, td { border: 1px solid #d1d9e0; padding: 0.4rem 0.7rem; text-align: left; }
th { background: #f6f8fa; }
td.num { text-align: right; }
.pass { color: #1a7f37; }
.fail { color: #cf222e; }
code { background: #f6f8fa; padding: 0.1rem 0.3rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>Documentation Coverage</h1>
<p>
Root <code>{{.Root}}</code> —
<strong>{{printf "%.1f" (pct .Coverage.Ratio)}}%</strong>
({{.Coverage.Documented}} of {{.Coverage.Total}} declarations documented,
{{.FilesScanned}} files scanned)
</p>

{{if .Coverage.ByKind}}
<h2>By Kind</h2>
<table>
<tr><th>Kind</th><th>Documented</th><th>Total</th><th>Coverage</th></tr>
{{range .Coverage.ByKind}}
<tr><td>{{.Kind}}</td><td class="num">{{.Documented}}</td><td class="num">{{.Total}}</td><td class="num">{{printf "%.1f" (pct .Ratio)}}%</td></tr>
{{end}}
</table>
{{end}}

{{if .Coverage.ByFile}}
<h2>By File</h2>
<table>
<tr><th>File</th><th>Documented</th><th>Total</th><th>Coverage</th></tr>
{{range .Coverage.ByFile}}
<tr><td><code>{{.File}}</code></td><td class="num">{{.Documented}}</td><td class="num">{{.Total}}</td><td class="num">{{printf "%.1f" (pct .Ratio)}}%</td></tr>
{{end}}
</table>
{{end}}

{{if .Coverage.Undocumented}}
<h2>Undocumented Declarations</h2>
<table>
<tr><th>Location</th><th>Name</th><th>Kind</th></tr>
{{range .Coverage.Undocumented}}
<tr><td><code>{{.Location}}</code></td><td>{{.Name}}</td><td>{{.Kind}}</td></tr>
{{end}}
</table>
{{end}}

{{if .FileErrors}}
<h2>Parse Errors</h2>
<ul>
{{range .FileErrors}}<li><code>{{.File}}</code>: {{.Message}}</li>{{end}}
</ul>
{{end}}
</body>
</html>
`

type htmlRenderer struct {
	tmpl *template.Template
}

func (r *htmlRenderer) Format() string {
	return "html"
}

func (r *htmlRenderer) Render(w io.Writer, result *scan.Result) error {
	if r.tmpl == nil {
		tmpl, err := template.New("coverage").Funcs(template.FuncMap{
			"pct": func(ratio float64) float64 { return ratio * 100 },
		}).Parse(htmlTemplate)
		if err != nil {
			return errors.Wrap(err, "parse html template")
		}
		r.tmpl = tmpl
	}
	return errors.Wrap(r.tmpl.Execute(w, result), "render html report")
}
