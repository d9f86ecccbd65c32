package journal

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"
)

var reportFuncs = template.FuncMap{
	"ts": func(t time.Time) string {
		if t.IsZero() {
			return "(none)"
		}
		return t.UTC().Format(time.RFC3339)
	},
	"pct": func(n, d int64) float64 {
		if d == 0 {
			return 0
		}
		return 100 * float64(n) / float64(d)
	},
}

var reportTemplate = template.Must(template.New("run").Funcs(reportFuncs).Parse(RunOrgTemplate))

// FormatRunOrg renders a run as an Org-mode block with the facts in a
// PROPERTIES drawer.
func FormatRunOrg(r RunRecord) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render run %s: %w", r.RunID, err)
	}
	return buf.String(), nil
}

// WriteRunOrg renders a run into path.
func WriteRunOrg(path string, r RunRecord) error {
	s, err := FormatRunOrg(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const RunOrgTemplate = `* RUN: {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:CREATED:     {{ts .Created}}
:START:       {{ts .Start}}
:END:         {{ts .End}}
:SAMPLES:     {{.Samples}}
:BARS:        {{.Bars}}
:VALUES:      {{.Values}}
:MATH_ERRORS: {{.MathErrors}}
:END:

** Summary
| Measure     | Count |
|-------------+-------|
| Samples     | {{.Samples}} |
| Bars        | {{.Bars}} |
| Values      | {{.Values}} |
| Math errors | {{.MathErrors}} ({{printf "%.2f" (pct .MathErrors .Values)}}%) |
{{- if .Config }}

** Config
#+begin_src yaml
{{printf "%s" .Config}}
#+end_src
{{- end }}
`
