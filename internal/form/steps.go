package form

import (
	"fmt"
	"strings"

	"resume-builder/internal/catalog"
	"resume-builder/pkg/models"
)

// StepKind enumerates the form steps in order
type StepKind int

const (
	StepPersonalInfo StepKind = iota
	StepSummary
	StepSkills
	StepExperience
	StepEducation
	StepProjects
	StepExtras

	TotalSteps = int(StepExtras) + 1
)

// Step is one page of the form. Every step can describe itself for display,
// report missing required fields, and normalize its slice of the document
// when the user leaves it.
type Step interface {
	Kind() StepKind
	Title() string
	Render(doc *models.ResumeDocument, role catalog.RoleDescriptor) StepView
	Validate(doc *models.ResumeDocument) []string
	Commit(doc *models.ResumeDocument)
}

// FieldView describes one input
type FieldView struct {
	Path        string `json:"path"`
	Label       string `json:"label"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Multiline   bool   `json:"multiline,omitempty"`
}

// ListView describes a tag-style list with its pending input
type ListView struct {
	Section     models.ListSection `json:"section"`
	Label       string             `json:"label"`
	Placeholder string             `json:"placeholder"`
	Input       string             `json:"input"`
	Items       []string           `json:"items"`
	Required    bool               `json:"required"`
}

// EntryView describes one record of a repeatable section
type EntryView struct {
	Section models.EntrySection `json:"section"`
	Index   int                 `json:"index"`
	Fields  []FieldView         `json:"fields"`
}

// StepView is everything a client needs to draw the current step
type StepView struct {
	Index    int         `json:"index"`
	Title    string      `json:"title"`
	Progress string      `json:"progress"`
	Percent  int         `json:"percent"`
	Hint     string      `json:"hint,omitempty"`
	Hints    []string    `json:"hints,omitempty"`
	Fields   []FieldView `json:"fields,omitempty"`
	Lists    []ListView  `json:"lists,omitempty"`
	Entries  []EntryView `json:"entries,omitempty"`
	Missing  []string    `json:"missing,omitempty"`
	First    bool        `json:"first"`
	Last     bool        `json:"last"`
}

func newStepView(s Step) StepView {
	i := int(s.Kind())
	return StepView{
		Index:    i,
		Title:    s.Title(),
		Progress: fmt.Sprintf("Step %d of %d", i+1, TotalSteps),
		Percent:  ((i+1)*100 + TotalSteps/2) / TotalSteps,
		First:    i == 0,
		Last:     i == TotalSteps-1,
	}
}

func defaultSteps() [TotalSteps]Step {
	return [TotalSteps]Step{
		personalInfoStep{},
		summaryStep{},
		skillsStep{},
		experienceStep{},
		educationStep{},
		projectsStep{},
		extrasStep{},
	}
}

// ===== Personal information =====

type personalInfoStep struct{}

func (personalInfoStep) Kind() StepKind { return StepPersonalInfo }
func (personalInfoStep) Title() string  { return "Personal Information" }

func (s personalInfoStep) Render(doc *models.ResumeDocument, _ catalog.RoleDescriptor) StepView {
	p := doc.PersonalInfo
	v := newStepView(s)
	v.Fields = []FieldView{
		{Path: "personalInfo.fullName", Label: "Full Name", Value: p.FullName, Placeholder: "John Doe", Required: true},
		{Path: "personalInfo.email", Label: "Email", Value: p.Email, Placeholder: "john@example.com", Required: true},
		{Path: "personalInfo.phone", Label: "Phone", Value: p.Phone, Placeholder: "+1 (555) 123-4567", Required: true},
		{Path: "personalInfo.location", Label: "Location", Value: p.Location, Placeholder: "City, State", Required: true},
		{Path: "personalInfo.linkedin", Label: "LinkedIn Profile", Value: p.LinkedIn, Placeholder: "linkedin.com/in/johndoe"},
		{Path: "personalInfo.github", Label: "GitHub Profile", Value: p.Github, Placeholder: "github.com/johndoe"},
		{Path: "personalInfo.portfolio", Label: "Portfolio Website", Value: p.Portfolio, Placeholder: "www.johndoe.com"},
	}
	v.Missing = s.Validate(doc)
	return v
}

func (personalInfoStep) Validate(doc *models.ResumeDocument) []string {
	p := doc.PersonalInfo
	return missing(
		"personalInfo.fullName", p.FullName,
		"personalInfo.email", p.Email,
		"personalInfo.phone", p.Phone,
		"personalInfo.location", p.Location,
	)
}

func (personalInfoStep) Commit(*models.ResumeDocument) {}

// ===== Summary =====

type summaryStep struct{}

func (summaryStep) Kind() StepKind { return StepSummary }
func (summaryStep) Title() string  { return "Professional Summary" }

func (s summaryStep) Render(doc *models.ResumeDocument, role catalog.RoleDescriptor) StepView {
	v := newStepView(s)
	v.Fields = []FieldView{{
		Path:        "summary",
		Label:       "Professional Summary",
		Value:       doc.Summary,
		Placeholder: role.SummaryPlaceholder,
		Required:    true,
		Multiline:   true,
	}}
	v.Hint = "Write a compelling 3-4 sentence summary highlighting your experience and goals."
	v.Missing = s.Validate(doc)
	return v
}

func (summaryStep) Validate(doc *models.ResumeDocument) []string {
	return missing("summary", doc.Summary)
}

func (summaryStep) Commit(*models.ResumeDocument) {}

// ===== Skills =====

type skillsStep struct{}

func (skillsStep) Kind() StepKind { return StepSkills }
func (skillsStep) Title() string  { return "Skills" }

func (s skillsStep) Render(doc *models.ResumeDocument, role catalog.RoleDescriptor) StepView {
	v := newStepView(s)
	v.Lists = []ListView{{
		Section:     models.SectionSkills,
		Label:       "Technical Skills",
		Placeholder: "Add a skill...",
		Items:       append([]string(nil), doc.Skills...),
		Required:    true,
	}}
	v.Hint = "Add skills relevant to " + strings.ToLower(role.DisplayTitle)
	v.Hints = append([]string(nil), role.SkillCategoryHints...)
	v.Missing = s.Validate(doc)
	return v
}

func (skillsStep) Validate(doc *models.ResumeDocument) []string {
	if len(doc.Skills) == 0 {
		return []string{"skills"}
	}
	return nil
}

func (skillsStep) Commit(doc *models.ResumeDocument) {
	if doc.Skills == nil {
		doc.Skills = []string{}
	}
}

// ===== Experience =====

type experienceStep struct{}

func (experienceStep) Kind() StepKind { return StepExperience }
func (experienceStep) Title() string  { return "Experience" }

func (s experienceStep) Render(doc *models.ResumeDocument, _ catalog.RoleDescriptor) StepView {
	v := newStepView(s)
	for i, e := range doc.Experience {
		prefix := entryPath(models.SectionExperience, i)
		v.Entries = append(v.Entries, EntryView{
			Section: models.SectionExperience,
			Index:   i,
			Fields: []FieldView{
				{Path: prefix + "company", Label: "Company", Value: e.Company, Placeholder: "Company Name", Required: true},
				{Path: prefix + "position", Label: "Position", Value: e.Position, Placeholder: "Job Title", Required: true},
				{Path: prefix + "duration", Label: "Duration", Value: e.Duration, Placeholder: "Jan 2023 - Present", Required: true},
				{Path: prefix + "description", Label: "Description", Value: e.Description, Placeholder: "Describe your responsibilities and achievements...", Required: true, Multiline: true},
			},
		})
	}
	v.Missing = s.Validate(doc)
	return v
}

func (experienceStep) Validate(doc *models.ResumeDocument) []string {
	var out []string
	for i, e := range doc.Experience {
		if e == (models.ExperienceEntry{}) {
			continue
		}
		prefix := entryPath(models.SectionExperience, i)
		out = append(out, missing(
			prefix+"company", e.Company,
			prefix+"position", e.Position,
			prefix+"duration", e.Duration,
			prefix+"description", e.Description,
		)...)
	}
	return out
}

func (experienceStep) Commit(doc *models.ResumeDocument) {
	if len(doc.Experience) == 0 {
		doc.Experience = []models.ExperienceEntry{{}}
	}
}

// ===== Education =====

type educationStep struct{}

func (educationStep) Kind() StepKind { return StepEducation }
func (educationStep) Title() string  { return "Education" }

func (s educationStep) Render(doc *models.ResumeDocument, _ catalog.RoleDescriptor) StepView {
	v := newStepView(s)
	for i, e := range doc.Education {
		prefix := entryPath(models.SectionEducation, i)
		v.Entries = append(v.Entries, EntryView{
			Section: models.SectionEducation,
			Index:   i,
			Fields: []FieldView{
				{Path: prefix + "institution", Label: "Institution", Value: e.Institution, Placeholder: "University Name", Required: true},
				{Path: prefix + "degree", Label: "Degree", Value: e.Degree, Placeholder: "Bachelor of Science in Computer Science", Required: true},
				{Path: prefix + "year", Label: "Year", Value: e.Year, Placeholder: "2020-2024", Required: true},
				{Path: prefix + "gpa", Label: "GPA (Optional)", Value: e.GPA, Placeholder: "3.8/4.0"},
			},
		})
	}
	v.Missing = s.Validate(doc)
	return v
}

func (educationStep) Validate(doc *models.ResumeDocument) []string {
	var out []string
	for i, e := range doc.Education {
		if e == (models.EducationEntry{}) {
			continue
		}
		prefix := entryPath(models.SectionEducation, i)
		out = append(out, missing(
			prefix+"institution", e.Institution,
			prefix+"degree", e.Degree,
			prefix+"year", e.Year,
		)...)
	}
	return out
}

func (educationStep) Commit(doc *models.ResumeDocument) {
	if len(doc.Education) == 0 {
		doc.Education = []models.EducationEntry{{}}
	}
}

// ===== Projects =====

type projectsStep struct{}

func (projectsStep) Kind() StepKind { return StepProjects }
func (projectsStep) Title() string  { return "Projects" }

func (s projectsStep) Render(doc *models.ResumeDocument, role catalog.RoleDescriptor) StepView {
	v := newStepView(s)
	v.Hint = role.ProjectFocusHint
	for i, p := range doc.Projects {
		prefix := entryPath(models.SectionProjects, i)
		v.Entries = append(v.Entries, EntryView{
			Section: models.SectionProjects,
			Index:   i,
			Fields: []FieldView{
				{Path: prefix + "name", Label: "Project Name", Value: p.Name, Placeholder: "Project Name", Required: true},
				{Path: prefix + "technologies", Label: "Technologies Used", Value: p.Technologies, Placeholder: "React, Node.js, MongoDB", Required: true},
				{Path: prefix + "description", Label: "Description", Value: p.Description, Placeholder: "Describe what the project does and your role...", Required: true, Multiline: true},
				{Path: prefix + "link", Label: "Project Link (Optional)", Value: p.Link, Placeholder: "https://github.com/username/project"},
			},
		})
	}
	v.Missing = s.Validate(doc)
	return v
}

func (projectsStep) Validate(doc *models.ResumeDocument) []string {
	var out []string
	for i, p := range doc.Projects {
		if p == (models.ProjectEntry{}) {
			continue
		}
		prefix := entryPath(models.SectionProjects, i)
		out = append(out, missing(
			prefix+"name", p.Name,
			prefix+"technologies", p.Technologies,
			prefix+"description", p.Description,
		)...)
	}
	return out
}

func (projectsStep) Commit(doc *models.ResumeDocument) {
	if len(doc.Projects) == 0 {
		doc.Projects = []models.ProjectEntry{{}}
	}
}

// ===== Certifications & achievements =====

type extrasStep struct{}

func (extrasStep) Kind() StepKind { return StepExtras }
func (extrasStep) Title() string  { return "Certifications & Achievements" }

func (s extrasStep) Render(doc *models.ResumeDocument, _ catalog.RoleDescriptor) StepView {
	v := newStepView(s)
	v.Lists = []ListView{
		{
			Section:     models.SectionCertifications,
			Label:       "Certifications",
			Placeholder: "Add a certification...",
			Items:       append([]string(nil), doc.Certifications...),
		},
		{
			Section:     models.SectionAchievements,
			Label:       "Achievements",
			Placeholder: "Add an achievement...",
			Items:       append([]string(nil), doc.Achievements...),
		},
	}
	return v
}

func (extrasStep) Validate(*models.ResumeDocument) []string { return nil }

func (extrasStep) Commit(doc *models.ResumeDocument) {
	if doc.Certifications == nil {
		doc.Certifications = []string{}
	}
	if doc.Achievements == nil {
		doc.Achievements = []string{}
	}
}

// ===== helpers =====

func entryPath(section models.EntrySection, index int) string {
	return fmt.Sprintf("%s.%d.", section, index)
}

// missing takes path/value pairs and returns the paths whose value is blank
func missing(pairs ...string) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			out = append(out, pairs[i])
		}
	}
	return out
}
