package render

import (
	"regexp"

	"resume-builder/internal/catalog"
	"resume-builder/pkg/models"
)

// Target selects between the export layout and the on-screen preview
type Target int

const (
	TargetPrint Target = iota
	TargetPreview
)

func (t Target) String() string {
	if t == TargetPreview {
		return "preview"
	}
	return "print"
}

// Print truncation limits
const (
	PrintProjectLimit       = 3
	PrintCertificationLimit = 5
	PrintAchievementLimit   = 4
)

// SectionKind identifies a rendered section
type SectionKind string

const (
	SectionSummary        SectionKind = "summary"
	SectionSkills         SectionKind = "skills"
	SectionExperience     SectionKind = "experience"
	SectionProjects       SectionKind = "projects"
	SectionEducation      SectionKind = "education"
	SectionCertifications SectionKind = "certifications"
	SectionAchievements   SectionKind = "achievements"
)

// Header is the name block with its contact line
type Header struct {
	Name     string
	Contacts []string
}

// Item is one record inside a section. Unused fields stay empty.
type Item struct {
	Title       string
	Subtitle    string
	Meta        string
	Detail      string
	Description string
	LinkLabel   string
}

// Section is a titled block of items or bullets
type Section struct {
	Kind    SectionKind
	Title   string
	Items   []Item
	Bullets []string
}

// Document is the styled tree produced from a resume. It holds copies only.
type Document struct {
	Template catalog.TemplateDescriptor
	Target   Target
	Header   Header
	Summary  *Section
	Skills   *Section
	Left     []Section
	Right    []Section
}

// Preview reports whether the document targets the on-screen preview
func (d Document) Preview() bool { return d.Target == TargetPreview }

// Build turns doc into a section tree for the given template and target.
// Unknown template ids fall back to the default template.
func Build(doc *models.ResumeDocument, templateID string, target Target) Document {
	out := Document{
		Template: catalog.ResolveTemplate(templateID),
		Target:   target,
	}
	if doc == nil {
		return out
	}

	out.Header = buildHeader(doc.PersonalInfo, target)

	if doc.Summary != "" {
		out.Summary = &Section{Kind: SectionSummary, Title: "Professional Summary", Bullets: []string{doc.Summary}}
	}
	if len(doc.Skills) > 0 {
		out.Skills = &Section{Kind: SectionSkills, Title: "Technical Skills", Bullets: append([]string(nil), doc.Skills...)}
	}

	if s, ok := experienceSection(doc.Experience); ok {
		out.Left = append(out.Left, s)
	}
	if s, ok := projectsSection(doc.Projects, target); ok {
		out.Left = append(out.Left, s)
	}

	if s, ok := educationSection(doc.Education); ok {
		out.Right = append(out.Right, s)
	}
	if s, ok := bulletSection(SectionCertifications, "Certifications", doc.Certifications, limitFor(target, PrintCertificationLimit)); ok {
		out.Right = append(out.Right, s)
	}
	if s, ok := bulletSection(SectionAchievements, "Achievements", doc.Achievements, limitFor(target, PrintAchievementLimit)); ok {
		out.Right = append(out.Right, s)
	}

	return out
}

func buildHeader(p models.PersonalInfo, target Target) Header {
	h := Header{
		Name:     p.FullName,
		Contacts: []string{p.Email, p.Phone, p.Location},
	}
	labels := [3]string{"LinkedIn Profile", "GitHub Profile", "Portfolio Website"}
	if target == TargetPreview {
		labels = [3]string{"LinkedIn", "GitHub", "Portfolio"}
	}
	for i, v := range []string{p.LinkedIn, p.Github, p.Portfolio} {
		if v != "" {
			h.Contacts = append(h.Contacts, labels[i])
		}
	}
	return h
}

func experienceSection(entries []models.ExperienceEntry) (Section, bool) {
	s := Section{Kind: SectionExperience, Title: "Professional Experience"}
	for _, e := range entries {
		if !e.Renderable() {
			continue
		}
		s.Items = append(s.Items, Item{
			Title:       e.Position,
			Subtitle:    e.Company,
			Meta:        e.Duration,
			Description: e.Description,
		})
	}
	return s, len(s.Items) > 0
}

func projectsSection(entries []models.ProjectEntry, target Target) (Section, bool) {
	s := Section{Kind: SectionProjects, Title: "Projects"}
	limit := limitFor(target, PrintProjectLimit)
	for _, p := range entries {
		if !p.Renderable() {
			continue
		}
		if limit > 0 && len(s.Items) == limit {
			break
		}
		item := Item{
			Title:       p.Name,
			Detail:      "Technologies: " + p.Technologies,
			Description: p.Description,
		}
		if target == TargetPreview && p.Link != "" {
			item.LinkLabel = "View Project"
		}
		s.Items = append(s.Items, item)
	}
	return s, len(s.Items) > 0
}

func educationSection(entries []models.EducationEntry) (Section, bool) {
	s := Section{Kind: SectionEducation, Title: "Education"}
	for _, e := range entries {
		if !e.Renderable() {
			continue
		}
		item := Item{
			Title:    e.Degree,
			Subtitle: e.Institution,
			Meta:     e.Year,
		}
		if e.GPA != "" {
			item.Detail = "GPA: " + e.GPA
		}
		s.Items = append(s.Items, item)
	}
	return s, len(s.Items) > 0
}

func bulletSection(kind SectionKind, title string, items []string, limit int) (Section, bool) {
	if len(items) == 0 {
		return Section{}, false
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return Section{Kind: kind, Title: title, Bullets: append([]string(nil), items...)}, true
}

// limitFor returns the print limit, or 0 (unbounded) for the preview
func limitFor(target Target, limit int) int {
	if target == TargetPreview {
		return 0
	}
	return limit
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Filename is the suggested download name for a resume owner
func Filename(fullName string) string {
	if fullName == "" {
		return "Resume.pdf"
	}
	return whitespaceRe.ReplaceAllString(fullName, "_") + "_Resume.pdf"
}
