package models

// PersonalInfo holds the header block of a resume.
// FullName, Email, Phone and Location are required for a usable document
// but are not enforced here.
type PersonalInfo struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Github    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// ExperienceEntry is one row of the experience section
type ExperienceEntry struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Renderable reports whether the entry should appear in rendered output
func (e ExperienceEntry) Renderable() bool { return e.Company != "" }

// EducationEntry is one row of the education section
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
	GPA         string `json:"gpa,omitempty"`
}

// Renderable reports whether the entry should appear in rendered output
func (e EducationEntry) Renderable() bool { return e.Institution != "" }

// ProjectEntry is one row of the projects section
type ProjectEntry struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link,omitempty"`
}

// Renderable reports whether the entry should appear in rendered output
func (e ProjectEntry) Renderable() bool { return e.Name != "" }

// ResumeDocument is the canonical resume record built by the form and
// consumed by the renderer. Optional fields use the empty string for absent.
type ResumeDocument struct {
	PersonalInfo   PersonalInfo      `json:"personalInfo"`
	Summary        string            `json:"summary"`
	Skills         []string          `json:"skills"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Projects       []ProjectEntry    `json:"projects"`
	Certifications []string          `json:"certifications"`
	Achievements   []string          `json:"achievements"`
	Role           string            `json:"role"`
}

// NewResumeDocument returns an empty document for the given role with one
// blank row in every repeatable section.
func NewResumeDocument(role string) *ResumeDocument {
	return &ResumeDocument{
		Skills:         []string{},
		Experience:     []ExperienceEntry{{}},
		Education:      []EducationEntry{{}},
		Projects:       []ProjectEntry{{}},
		Certifications: []string{},
		Achievements:   []string{},
		Role:           role,
	}
}

// Clone returns a deep copy so callers can hand the document out without
// sharing backing arrays.
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.Skills = cloneSlice(d.Skills)
	out.Experience = cloneSlice(d.Experience)
	out.Education = cloneSlice(d.Education)
	out.Projects = cloneSlice(d.Projects)
	out.Certifications = cloneSlice(d.Certifications)
	out.Achievements = cloneSlice(d.Achievements)
	return &out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// ListSection names a repeatable string list of the document
type ListSection string

const (
	SectionSkills         ListSection = "skills"
	SectionCertifications ListSection = "certifications"
	SectionAchievements   ListSection = "achievements"
)

// Valid reports whether s is one of the known list sections
func (s ListSection) Valid() bool {
	switch s {
	case SectionSkills, SectionCertifications, SectionAchievements:
		return true
	default:
		return false
	}
}

// EntrySection names a repeatable record section of the document
type EntrySection string

const (
	SectionExperience EntrySection = "experience"
	SectionEducation  EntrySection = "education"
	SectionProjects   EntrySection = "projects"
)

// Valid reports whether s is one of the known entry sections
func (s EntrySection) Valid() bool {
	switch s {
	case SectionExperience, SectionEducation, SectionProjects:
		return true
	default:
		return false
	}
}

// List returns a pointer to the list backing the section, or nil
func (d *ResumeDocument) List(section ListSection) *[]string {
	switch section {
	case SectionSkills:
		return &d.Skills
	case SectionCertifications:
		return &d.Certifications
	case SectionAchievements:
		return &d.Achievements
	default:
		return nil
	}
}

// EntryCount returns the number of records in a repeatable section
func (d *ResumeDocument) EntryCount(section EntrySection) int {
	switch section {
	case SectionExperience:
		return len(d.Experience)
	case SectionEducation:
		return len(d.Education)
	case SectionProjects:
		return len(d.Projects)
	default:
		return 0
	}
}
