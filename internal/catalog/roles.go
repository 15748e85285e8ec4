package catalog

import "strings"

// RoleID identifies a target job role. The set is closed; see Roles.
type RoleID string

const (
	SoftwareDeveloper  RoleID = "software-developer"
	WebDeveloper       RoleID = "web-developer"
	DataAnalyst        RoleID = "data-analyst"
	FrontendDeveloper  RoleID = "frontend-developer"
	BackendDeveloper   RoleID = "backend-developer"
	AndroidDeveloper   RoleID = "android-developer"
	NetworkingEngineer RoleID = "networking-engineer"
	AIMLEngineer       RoleID = "ai-ml-engineer"
)

var roleOrder = []RoleID{
	SoftwareDeveloper,
	WebDeveloper,
	DataAnalyst,
	FrontendDeveloper,
	BackendDeveloper,
	AndroidDeveloper,
	NetworkingEngineer,
	AIMLEngineer,
}

// RoleDescriptor is the form copy attached to a role
type RoleDescriptor struct {
	ID                 RoleID   `json:"id"`
	DisplayTitle       string   `json:"title"`
	Description        string   `json:"description"`
	SkillCategoryHints []string `json:"skill_categories"`
	ProjectFocusHint   string   `json:"project_focus"`
	SummaryPlaceholder string   `json:"summary_placeholder"`
}

// Known reports whether the descriptor came from the catalog
func (r RoleDescriptor) Known() bool { return r.ID.Valid() && r.DisplayTitle != "" }

// Valid reports whether id is a catalog role
func (id RoleID) Valid() bool {
	_, ok := Role(id)
	return ok
}

// ParseRole maps a raw identifier onto the closed role set
func ParseRole(s string) (RoleID, bool) {
	id := RoleID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", false
	}
	return id, true
}

// Role returns the descriptor for id. Unknown ids return false.
func Role(id RoleID) (RoleDescriptor, bool) {
	switch id {
	case SoftwareDeveloper:
		return RoleDescriptor{
			ID:                 id,
			DisplayTitle:       "Software Developer",
			Description:        "Full-stack development with multiple programming languages",
			SkillCategoryHints: []string{"Programming Languages", "Frameworks", "Databases", "Tools & Technologies"},
			ProjectFocusHint:   "Software applications and systems you've built",
			SummaryPlaceholder: "Passionate software developer with experience in full-stack development...",
		}, true
	case WebDeveloper:
		return RoleDescriptor{
			ID:                 id,
			DisplayTitle:       "Web Developer",
			Description:        "Frontend and backend web development",
			SkillCategoryHints: []string{"Frontend Technologies", "Backend Technologies", "Databases", "Tools"},
			ProjectFocusHint:   "Web applications and websites you've developed",
			SummaryPlaceholder: "Creative web developer specializing in responsive and user-friendly websites...",
		}, true
	case DataAnalyst:
		return RoleDescriptor{
			ID:                 id,
			DisplayTitle:       "Data Analyst",
			Description:        "Data analysis, visualization, and insights",
			SkillCategoryHints: []string{"Programming Languages", "Data Analysis Tools", "Databases", "Visualization"},
			ProjectFocusHint:   "Data analysis projects and insights you've generated",
			SummaryPlaceholder: "Detail-oriented data analyst with expertise in extracting insights from complex datasets...",
		}, true
	case FrontendDeveloper:
		return RoleDescriptor{
			ID:                 id,
			DisplayTitle:       "Frontend Developer",
			Description:        "User interface and user experience development",
			SkillCategoryHints: []string{"JavaScript Frameworks", "CSS Frameworks", "Build Tools", "Design Tools"},
			ProjectFocusHint:   "User interfaces and frontend applications you've created",
			SummaryPlaceholder: "Frontend developer passionate about creating intuitive user experiences...",
		}, true
	case BackendDeveloper:
		return RoleDescriptor{
			ID:                 id,
			DisplayTitle:       "Backend Developer",
			Description:        "Server-side development and API design",
			SkillCategoryHints: []string{"Server Languages", "Databases", "Cloud Services", "APIs"},
			ProjectFocusHint:   "Backend systems and APIs you've developed",
			SummaryPlaceholder: "Backend developer experienced in building scalable server-side applications...",
		}, true
	case AndroidDeveloper:
		return RoleDescriptor{
			ID:                 id,
			DisplayTitle:       "Android Developer",
			Description:        "Mobile application development for Android",
			SkillCategoryHints: []string{"Programming Languages", "Android Technologies", "Databases", "Tools"},
			ProjectFocusHint:   "Mobile applications you've developed for Android",
			SummaryPlaceholder: "Android developer with experience in creating user-friendly mobile applications...",
		}, true
	case NetworkingEngineer:
		return RoleDescriptor{
			ID:                 id,
			DisplayTitle:       "Networking Engineer",
			Description:        "Network infrastructure and security",
			SkillCategoryHints: []string{"Network Protocols", "Hardware", "Security", "Monitoring Tools"},
			ProjectFocusHint:   "Network infrastructure projects and implementations",
			SummaryPlaceholder: "Networking engineer with expertise in designing and maintaining network infrastructure...",
		}, true
	case AIMLEngineer:
		return RoleDescriptor{
			ID:                 id,
			DisplayTitle:       "AI/ML Engineer",
			Description:        "Artificial Intelligence and Machine Learning",
			SkillCategoryHints: []string{"Programming Languages", "ML Frameworks", "Data Processing", "Cloud Platforms"},
			ProjectFocusHint:   "AI/ML models and systems you've developed",
			SummaryPlaceholder: "AI/ML engineer passionate about developing intelligent systems and solutions...",
		}, true
	default:
		return RoleDescriptor{}, false
	}
}

// LookupRole resolves a raw identifier and fails open: unknown ids get a
// descriptor carrying only the id, so callers render blank copy.
func LookupRole(s string) RoleDescriptor {
	if id, ok := ParseRole(s); ok {
		desc, _ := Role(id)
		return desc
	}
	return RoleDescriptor{ID: RoleID(s)}
}

// Roles lists every role in display order
func Roles() []RoleDescriptor {
	out := make([]RoleDescriptor, 0, len(roleOrder))
	for _, id := range roleOrder {
		desc, _ := Role(id)
		out = append(out, desc)
	}
	return out
}
