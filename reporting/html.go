package reporting

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/webspec/webspec/types"
)

const htmlReportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Feature.Name}} — execution report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 10px; }
.passed { color: #1a7f37; }
.failed { color: #cf222e; }
.skipped { color: #9a6700; }
.pending { color: #57606a; }
.step-error { color: #cf222e; font-size: 0.9em; padding-left: 2em; }
</style>
</head>
<body>
<h1>{{.Feature.Name}}</h1>
<p>Status: <span class="{{statusClass .Status}}">{{statusText .Status}}</span>
 · {{formatMS .DurationMS}} · {{.Timestamp}}</p>
<table>
<tr><th></th><th>Total</th><th>Passed</th><th>Failed</th><th>Skipped</th></tr>
<tr><td>Scenarios</td><td>{{.Summary.TotalScenarios}}</td><td>{{.Summary.PassedScenarios}}</td><td>{{.Summary.FailedScenarios}}</td><td>{{.Summary.SkippedScenarios}}</td></tr>
<tr><td>Steps</td><td>{{.Summary.TotalSteps}}</td><td>{{.Summary.PassedSteps}}</td><td>{{.Summary.FailedSteps}}</td><td>{{.Summary.SkippedSteps}}</td></tr>
</table>
{{range .Scenarios}}
<h2 class="{{statusClass .Status}}">{{.Name}} ({{formatMS .DurationMS}})</h2>
<ul>
{{range .Steps}}
<li class="{{statusClass .Status}}">{{.Keyword}} {{.Text}} — {{statusText .Status}} ({{formatMS .DurationMS}})</li>
{{if .Error}}<div class="step-error">{{.Error.Message}}</div>{{end}}
{{end}}
</ul>
{{end}}
</body>
</html>
`

// FormatHTML renders one feature result as a standalone HTML page.
func FormatHTML(result *types.ExecutionResult) (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"formatMS":    formatMS,
		"statusText":  statusText,
		"statusClass": func(s types.Status) string { return string(s) },
	}).Parse(htmlReportTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, result); err != nil {
		return "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return buf.String(), nil
}
