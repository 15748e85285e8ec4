package catalog

import "strings"

// TemplateID identifies a visual template. Templates differ by palette only.
type TemplateID string

const (
	Modern   TemplateID = "modern"
	Classic  TemplateID = "classic"
	Creative TemplateID = "creative"
	Minimal  TemplateID = "minimal"
	Tech     TemplateID = "tech"

	DefaultTemplate = Modern
)

var templateOrder = []TemplateID{Modern, Classic, Creative, Minimal, Tech}

// Palette is the three-color parameter set of a template
type Palette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// TemplateDescriptor describes one template
type TemplateDescriptor struct {
	ID          TemplateID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Preview     string     `json:"preview"`
	Palette     Palette    `json:"colors"`
}

// Valid reports whether id is a catalog template
func (id TemplateID) Valid() bool {
	_, ok := Template(id)
	return ok
}

// Template returns the descriptor for id. Unknown ids return false.
func Template(id TemplateID) (TemplateDescriptor, bool) {
	switch id {
	case Modern:
		return TemplateDescriptor{
			ID:          id,
			Name:        "Modern Professional",
			Description: "Clean and contemporary design with accent colors",
			Preview:     "A sleek design with blue accents and modern typography",
			Palette:     Palette{Primary: "#2563eb", Secondary: "#3b82f6", Accent: "#1e40af"},
		}, true
	case Classic:
		return TemplateDescriptor{
			ID:          id,
			Name:        "Classic Traditional",
			Description: "Traditional layout perfect for conservative industries",
			Preview:     "Professional black and white design with traditional formatting",
			Palette:     Palette{Primary: "#374151", Secondary: "#4b5563", Accent: "#1f2937"},
		}, true
	case Creative:
		return TemplateDescriptor{
			ID:          id,
			Name:        "Creative Edge",
			Description: "Bold design for creative and tech professionals",
			Preview:     "Eye-catching design with purple accents and creative layout",
			Palette:     Palette{Primary: "#7c3aed", Secondary: "#8b5cf6", Accent: "#6d28d9"},
		}, true
	case Minimal:
		return TemplateDescriptor{
			ID:          id,
			Name:        "Minimal Clean",
			Description: "Minimalist approach focusing on content",
			Preview:     "Clean, minimal design with plenty of white space",
			Palette:     Palette{Primary: "#059669", Secondary: "#10b981", Accent: "#047857"},
		}, true
	case Tech:
		return TemplateDescriptor{
			ID:          id,
			Name:        "Tech Focused",
			Description: "Perfect for software developers and engineers",
			Preview:     "Tech-oriented design with orange accents and code-friendly fonts",
			Palette:     Palette{Primary: "#ea580c", Secondary: "#f97316", Accent: "#c2410c"},
		}, true
	default:
		return TemplateDescriptor{}, false
	}
}

// ParseTemplate maps a raw identifier onto the closed template set
func ParseTemplate(s string) (TemplateID, bool) {
	id := TemplateID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", false
	}
	return id, true
}

// ResolveTemplate never fails: unknown or empty ids fall back to DefaultTemplate
func ResolveTemplate(s string) TemplateDescriptor {
	id, ok := ParseTemplate(s)
	if !ok {
		id = DefaultTemplate
	}
	desc, _ := Template(id)
	return desc
}

// Templates lists every template in display order
func Templates() []TemplateDescriptor {
	out := make([]TemplateDescriptor, 0, len(templateOrder))
	for _, id := range templateOrder {
		desc, _ := Template(id)
		out = append(out, desc)
	}
	return out
}
