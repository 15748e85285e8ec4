package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"resume-builder/internal/catalog"
	"resume-builder/internal/logging"
	"resume-builder/internal/session"
	"resume-builder/pkg/models"
)

// Sentinel errors to allow precise mapping in handlers
var (
	ErrUnknownField    = errors.New("unknown_field")
	ErrUnknownSection  = errors.New("unknown_section")
	ErrIndexOutOfRange = errors.New("index_out_of_range")
)

// Engine owns one resume document while it is being filled in. All methods
// are safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	session *session.Session
	roleID  string
	role    catalog.RoleDescriptor
	doc     *models.ResumeDocument
	step    int
	inputs  map[models.ListSection]string
	steps   [TotalSteps]Step
	logger  logging.Logger
}

// NewEngine starts an empty document for role at the first step
func NewEngine(sess *session.Session, role string) *Engine {
	return newEngine(sess, role, models.NewResumeDocument(role))
}

// Resume rebuilds an engine around a previously stored document. Every step
// commits once so repeatable sections regain their blank row.
func Resume(sess *session.Session, doc *models.ResumeDocument) *Engine {
	if doc == nil {
		doc = models.NewResumeDocument("")
	}
	e := newEngine(sess, doc.Role, doc.Clone())
	for _, s := range e.steps {
		s.Commit(e.doc)
	}
	return e
}

func newEngine(sess *session.Session, role string, doc *models.ResumeDocument) *Engine {
	e := &Engine{
		session: sess,
		roleID:  role,
		role:    catalog.LookupRole(role),
		doc:     doc,
		inputs:  make(map[models.ListSection]string),
		steps:   defaultSteps(),
		logger:  logging.GetGlobalLogger(),
	}
	if sess != nil {
		e.logger = e.logger.WithField("session_id", sess.ID)
	}
	return e
}

// SetField writes one scalar of the document addressed by a dotted path
func (e *Engine) SetField(path, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	field := scalarField(e.doc, path)
	if field == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	*field = value
	return nil
}

func scalarField(doc *models.ResumeDocument, path string) *string {
	p := &doc.PersonalInfo
	switch path {
	case "personalInfo.fullName":
		return &p.FullName
	case "personalInfo.email":
		return &p.Email
	case "personalInfo.phone":
		return &p.Phone
	case "personalInfo.location":
		return &p.Location
	case "personalInfo.linkedin":
		return &p.LinkedIn
	case "personalInfo.github":
		return &p.Github
	case "personalInfo.portfolio":
		return &p.Portfolio
	case "summary":
		return &doc.Summary
	default:
		return nil
	}
}

// SetListInput replaces the pending input of a list section
func (e *Engine) SetListInput(section models.ListSection, value string) error {
	if !section.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inputs[section] = value
	return nil
}

// ListInput returns the pending input of a list section
func (e *Engine) ListInput(section models.ListSection) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inputs[section]
}

// AddListItem appends the trimmed value. Blank values are ignored and
// reported with false. The section's pending input is cleared on success.
func (e *Engine) AddListItem(section models.ListSection, value string) (bool, error) {
	if !section.Valid() {
		return false, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addListItem(section, value), nil
}

func (e *Engine) addListItem(section models.ListSection, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	list := e.doc.List(section)
	*list = append(*list, value)
	e.inputs[section] = ""
	return true
}

// CommitListInput adds the section's pending input as a new item
func (e *Engine) CommitListInput(section models.ListSection) (bool, error) {
	if !section.Valid() {
		return false, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addListItem(section, e.inputs[section]), nil
}

// RemoveListItem deletes the item at index. Out of range is a no-op.
func (e *Engine) RemoveListItem(section models.ListSection, index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.doc.List(section)
	if list == nil || index < 0 || index >= len(*list) {
		return false
	}
	items := *list
	*list = append(items[:index:index], items[index+1:]...)
	return true
}

// AddRepeatableEntry appends a blank record and returns its index
func (e *Engine) AddRepeatableEntry(section models.EntrySection) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch section {
	case models.SectionExperience:
		e.doc.Experience = append(e.doc.Experience, models.ExperienceEntry{})
	case models.SectionEducation:
		e.doc.Education = append(e.doc.Education, models.EducationEntry{})
	case models.SectionProjects:
		e.doc.Projects = append(e.doc.Projects, models.ProjectEntry{})
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return e.doc.EntryCount(section) - 1, nil
}

// EditRepeatableField writes one field of an existing record. The section
// never grows implicitly.
func (e *Engine) EditRepeatableField(section models.EntrySection, index int, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !section.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	if n := e.doc.EntryCount(section); index < 0 || index >= n {
		return fmt.Errorf("%w: %s[%d] has %d entries", ErrIndexOutOfRange, section, index, n)
	}

	target := entryField(e.doc, section, index, field)
	if target == nil {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, field)
	}
	*target = value
	return nil
}

func entryField(doc *models.ResumeDocument, section models.EntrySection, index int, field string) *string {
	switch section {
	case models.SectionExperience:
		x := &doc.Experience[index]
		switch field {
		case "company":
			return &x.Company
		case "position":
			return &x.Position
		case "duration":
			return &x.Duration
		case "description":
			return &x.Description
		}
	case models.SectionEducation:
		x := &doc.Education[index]
		switch field {
		case "institution":
			return &x.Institution
		case "degree":
			return &x.Degree
		case "year":
			return &x.Year
		case "gpa":
			return &x.GPA
		}
	case models.SectionProjects:
		x := &doc.Projects[index]
		switch field {
		case "name":
			return &x.Name
		case "description":
			return &x.Description
		case "technologies":
			return &x.Technologies
		case "link":
			return &x.Link
		}
	}
	return nil
}

// GoToStep moves to step n, clamped to the valid range, and returns the
// resulting index
func (e *Engine) GoToStep(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveTo(n)
}

// Next advances one step
func (e *Engine) Next() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveTo(e.step + 1)
}

// Previous goes back one step
func (e *Engine) Previous() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moveTo(e.step - 1)
}

func (e *Engine) moveTo(n int) int {
	if n < 0 {
		n = 0
	}
	if n > TotalSteps-1 {
		n = TotalSteps - 1
	}
	if n != e.step {
		e.steps[e.step].Commit(e.doc)
		e.step = n
	}
	return e.step
}

// Submit attaches the role and stores the document in the session. It may be
// called from any step; required fields are advisory.
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.steps[e.step].Commit(e.doc)
	e.doc.Role = e.roleID

	if e.session == nil {
		return fmt.Errorf("%w: engine has no session", session.ErrPersistence)
	}
	if err := e.session.SaveDocument(ctx, e.doc); err != nil {
		e.logger.Error("Resume submission failed", map[string]interface{}{
			"step":  e.step,
			"error": err.Error(),
		})
		return err
	}

	e.logger.Info("Resume submitted", map[string]interface{}{
		"role":         e.roleID,
		"step":         e.step,
		"missing_cnt":  len(e.missingLocked()),
		"skills_cnt":   len(e.doc.Skills),
		"projects_cnt": len(e.doc.Projects),
	})
	return nil
}

func (e *Engine) missingLocked() []string {
	var out []string
	for _, s := range e.steps {
		out = append(out, s.Validate(e.doc)...)
	}
	return out
}

// Missing lists required fields that are still blank across all steps
func (e *Engine) Missing() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.missingLocked()
}

// Document returns a deep copy of the current document
func (e *Engine) Document() *models.ResumeDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Step returns the current step index
func (e *Engine) Step() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

// Role returns the descriptor the engine was created with
func (e *Engine) Role() catalog.RoleDescriptor {
	return e.role
}

// Session returns the injected session handle
func (e *Engine) Session() *session.Session {
	return e.session
}

// View renders the current step, including pending list inputs
func (e *Engine) View() StepView {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := e.steps[e.step].Render(e.doc, e.role)
	for i := range v.Lists {
		v.Lists[i].Input = e.inputs[v.Lists[i].Section]
	}
	return v
}
