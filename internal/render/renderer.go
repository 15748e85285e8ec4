package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"resume-builder/pkg/models"
)

// Renderer turns resume documents into self-contained HTML pages
type Renderer struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
}

// NewRenderer parses the page template once
func NewRenderer() *Renderer {
	r := &Renderer{policy: bluemonday.StrictPolicy()}
	funcMap := template.FuncMap{
		"clean": r.clean,
		"color": func(s string) template.CSS { return template.CSS(s) },
	}
	r.tmpl = template.Must(template.New("resume").Funcs(funcMap).Parse(pageTemplate))
	return r
}

// clean strips markup from user text; the policy output is already escaped.
// Text that is nothing but an angle-bracketed token, such as "<Go>", would
// be stripped to nothing, so it is kept and escaped instead.
func (r *Renderer) clean(s string) template.HTML {
	sanitized := r.policy.Sanitize(s)
	if strings.TrimSpace(sanitized) == "" && strings.TrimSpace(s) != "" {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(sanitized)
}

// Render builds doc for templateID and target and executes the page template
func (r *Renderer) Render(doc *models.ResumeDocument, templateID string, target Target) (string, error) {
	return r.RenderDocument(Build(doc, templateID, target))
}

// RenderDocument executes the page template for an already built tree
func (r *Renderer) RenderDocument(d Document) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Header.Name}} - Resume</title>
<style>
@import url('https://fonts.googleapis.com/css2?family=Inter:wght@400;600;700&display=swap');
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: 'Inter', sans-serif; font-size: 11px; line-height: 1.4; color: #374151; background: white; padding: 30px; max-width: 210mm; margin: 0 auto; }
@page { size: A4; margin: 0; }
@media print {
  body { padding: 20px; font-size: 10px; }
  .no-break { page-break-inside: avoid; }
}
.header { border-bottom: 2px solid {{color .Template.Palette.Primary}}; padding-bottom: 12px; margin-bottom: 20px; }
.name { font-size: 28px; font-weight: 700; color: {{color .Template.Palette.Primary}}; margin-bottom: 8px; }
.contact-info { display: flex; flex-wrap: wrap; gap: 20px; font-size: 10px; color: #6b7280; }
.section { margin-bottom: 18px; }
.section-title { font-size: 14px; font-weight: 700; color: {{color .Template.Palette.Primary}}; margin-bottom: 8px; padding-bottom: 3px; border-bottom: 1px solid {{color .Template.Palette.Secondary}}; text-transform: uppercase; letter-spacing: 0.5px; }
.summary { text-align: justify; line-height: 1.5; }
.skills-container { display: flex; flex-wrap: wrap; gap: 6px; }
.skill { background-color: {{color .Template.Palette.Secondary}}; color: white; padding: 4px 10px; border-radius: 4px; font-size: 9px; font-weight: 600; }
.two-column { display: grid; grid-template-columns: 1fr 1fr; gap: 25px; margin-top: 10px; }
.item { margin-bottom: 12px; }
.item-header { display: flex; justify-content: space-between; align-items: flex-start; margin-bottom: 4px; }
.item-title { font-size: 12px; font-weight: 600; color: #1f2937; }
.accent { font-size: 11px; font-weight: 600; color: {{color .Template.Palette.Secondary}}; }
.meta { font-size: 9px; color: #6b7280; font-weight: 600; white-space: nowrap; }
.description { font-size: 10px; line-height: 1.4; text-align: justify; margin-top: 3px; }
.project-link { font-size: 10px; color: {{color .Template.Palette.Accent}}; }
.list-item { font-size: 10px; margin-bottom: 3px; padding-left: 12px; position: relative; }
.list-item:before { content: "\2022"; position: absolute; left: 0; color: {{color .Template.Palette.Primary}}; font-weight: bold; }
@media screen and (max-width: 768px) {
  .two-column { grid-template-columns: 1fr; gap: 15px; }
  .contact-info { flex-direction: column; gap: 8px; }
  .item-header { flex-direction: column; }
}
</style>
</head>
<body class="{{.Target}}" data-template="{{.Template.ID}}">
<div class="header">
  <div class="name">{{clean .Header.Name}}</div>
  <div class="contact-info">{{range .Header.Contacts}}
    <span>{{clean .}}</span>{{end}}
  </div>
</div>
{{with .Summary}}
<div class="section" data-section="{{.Kind}}">
  <div class="section-title">{{.Title}}</div>
  {{range .Bullets}}<div class="summary">{{clean .}}</div>{{end}}
</div>
{{end}}
{{with .Skills}}
<div class="section" data-section="{{.Kind}}">
  <div class="section-title">{{.Title}}</div>
  <div class="skills-container">{{range .Bullets}}<span class="skill">{{clean .}}</span>{{end}}</div>
</div>
{{end}}
<div class="two-column">
  <div class="left-column">{{range .Left}}{{template "section" .}}{{end}}</div>
  <div class="right-column">{{range .Right}}{{template "section" .}}{{end}}</div>
</div>
</body>
</html>
{{define "section"}}
<div class="section" data-section="{{.Kind}}">
  <div class="section-title">{{.Title}}</div>
  {{range .Items}}
  <div class="item no-break">
    <div class="item-header">
      <div>
        <div class="item-title">{{clean .Title}}</div>
        {{if .Subtitle}}<div class="accent">{{clean .Subtitle}}</div>{{end}}
        {{if .Detail}}<div class="detail accent">{{clean .Detail}}</div>{{end}}
      </div>
      {{if .Meta}}<div class="meta">{{clean .Meta}}</div>{{end}}
    </div>
    {{if .Description}}<div class="description">{{clean .Description}}</div>{{end}}
    {{if .LinkLabel}}<span class="project-link">{{.LinkLabel}}</span>{{end}}
  </div>
  {{end}}
  {{range .Bullets}}<div class="list-item">{{clean .}}</div>{{end}}
</div>
{{end}}`
