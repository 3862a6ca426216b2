package document

import (
	"bytes"
	"fmt"
	"html/template"
)

// ContentWidth is the CSS pixel width the document is laid out at
const ContentWidth = 800

var pageTemplate = template.Must(template.New("complaint").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  html, body { margin: 0; padding: 0; background: #ffffff; }
  body { width: {{.Width}}px; box-sizing: border-box; padding: 40px;
         font-family: 'Times New Roman', serif; font-size: 12px; line-height: 1.6; color: #333; }
  .caption { text-align: center; font-weight: bold; margin-bottom: 30px; }
  .caption .forum { font-size: 18px; margin-bottom: 10px; }
  .caption .commission { font-size: 16px; margin-bottom: 5px; }
  .caption .location { font-size: 14px; margin-bottom: 20px; }
  .matter { font-weight: bold; font-size: 16px; margin-bottom: 10px; text-decoration: underline; }
  .party { margin-bottom: 15px; }
  .party .role { font-weight: bold; margin-bottom: 5px; }
  .field { margin-bottom: 8px; }
  .field .label { font-weight: bold; }
  .field .value { margin-left: 20px; }
  .versus { text-align: center; font-weight: bold; margin: 20px 0; font-size: 16px; }
  .title { text-align: center; font-weight: bold; font-size: 16px; margin: 30px 0 20px 0; text-decoration: underline; }
  .section { margin-bottom: 20px; }
  .section.page-start { margin-top: 60px; }
  .section .heading { font-weight: bold; margin-bottom: 8px; }
  .section .body { margin-left: 20px; text-align: justify; }
  .section .body p { margin: 0 0 8px 0; white-space: pre-wrap; }
  .signature { margin-top: 40px; }
  .signature .line { border-top: 1px solid #000; width: 200px; margin-top: 30px; }
</style>
</head>
<body>
{{with .Content}}
<div class="caption">
  <div class="forum">{{.Forum}}</div>
  <div class="commission">{{.Commission}}</div>
  <div class="location">{{.Location}}</div>
</div>

<div class="matter">IN THE MATTER OF:</div>
{{template "party" .Complainant}}
<div class="versus">Versus</div>
{{template "party" .Opposite}}

<div class="title">{{.Title}}</div>

{{range .Sections}}
<div class="section{{if .StartsPage}} page-start{{end}}">
  <div class="heading">{{.Number}}. {{.Title}}</div>
  <div class="body">
    {{range .Paragraphs}}<p>{{if .Label}}<strong>{{.Label}}:</strong> {{end}}{{.Text}}</p>{{end}}
    {{range .Bullets}}<p>• {{.}}</p>{{end}}
  </div>
</div>
{{end}}

<div class="signature">
  {{range .Signature}}<div class="field"><span class="label">{{.Label}}:</span><span class="value">{{.Value}}</span></div>{{end}}
  <div class="field"><span class="label">Signature:</span><div class="line"></div><span class="value">(Complainant)</span></div>
</div>
{{end}}
</body>
</html>
{{define "party"}}
<div class="party">
  <div class="role">{{.Role}}</div>
  {{range .Fields}}<div class="field"><span class="label">{{.Label}}:</span><span class="value">{{.Value}}</span></div>{{end}}
</div>
{{end}}`))

// HTML renders the content tree as a standalone page. All user-supplied
// values are escaped.
func (c *Content) HTML() (string, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Width   int
		Content *Content
	}{ContentWidth, c})
	if err != nil {
		return "", fmt.Errorf("failed to execute document template: %w", err)
	}
	return buf.String(), nil
}
