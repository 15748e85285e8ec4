package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"resume-builder/internal/logging"
	"resume-builder/pkg/models"
)

// Fixed keys inside a session
const (
	ResumeDataKey       = "resumeData"
	SelectedTemplateKey = "selectedTemplate"
)

// Sentinel errors to allow precise mapping in handlers
var (
	ErrPersistence    = errors.New("persistence_error")
	ErrMissingSession = errors.New("missing_session")
)

// Session is the explicit handle to one user's transient storage. It is
// created when a role is selected and cleared when a new session starts.
type Session struct {
	ID    string
	store Store
}

// New creates a session with a fresh id
func New(store Store) *Session {
	return &Session{ID: uuid.New().String(), store: store}
}

// Open returns a handle to an existing session id
func Open(store Store, id string) *Session {
	return &Session{ID: id, store: store}
}

func (s *Session) key(name string) string {
	return fmt.Sprintf("session:%s:%s", s.ID, name)
}

// SaveDocument serializes doc under ResumeDataKey
func (s *Session) SaveDocument(ctx context.Context, doc *models.ResumeDocument) error {
	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err := s.store.Set(ctx, s.key(ResumeDataKey), data); err != nil {
		logging.GetGlobalLogger().Error("Failed to persist resume data", map[string]interface{}{
			"session_id": s.ID,
			"size_bytes": len(data),
			"error":      err.Error(),
		})
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// LoadDocument reads the submitted document. A missing key is reported as
// ErrMissingSession so callers can send the user back to role selection.
func (s *Session) LoadDocument(ctx context.Context) (*models.ResumeDocument, error) {
	data, err := s.store.Get(ctx, s.key(ResumeDataKey))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrMissingSession
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return doc, nil
}

// SaveTemplate remembers the template the user last previewed
func (s *Session) SaveTemplate(ctx context.Context, templateID string) error {
	if err := s.store.Set(ctx, s.key(SelectedTemplateKey), []byte(templateID)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// LoadTemplate returns the selected template, or "" when none was chosen
func (s *Session) LoadTemplate(ctx context.Context) (string, error) {
	data, err := s.store.Get(ctx, s.key(SelectedTemplateKey))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return string(data), nil
}

// Clear drops every key of the session
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Del(ctx, s.key(ResumeDataKey), s.key(SelectedTemplateKey)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// Encode serializes a document for storage
func Encode(doc *models.ResumeDocument) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	return json.Marshal(doc)
}

// Decode parses a stored document
func Decode(data []byte) (*models.ResumeDocument, error) {
	var doc models.ResumeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode resume data: %w", err)
	}
	return &doc, nil
}
