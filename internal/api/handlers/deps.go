package handlers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"resume-builder/internal/api/validation"
	"resume-builder/internal/background"
	"resume-builder/internal/config"
	"resume-builder/internal/contact"
	"resume-builder/internal/form"
	"resume-builder/internal/render"
	"resume-builder/internal/session"
	"resume-builder/pkg/models"
)

var requestValidator *validator.Validate

func init() {
	requestValidator = validator.New()
	validation.RegisterResumeValidators(requestValidator)
}

// ExportQueue is the background side of the export endpoints
type ExportQueue interface {
	SubmitExport(ctx context.Context, processID, sessionID string, doc *models.ResumeDocument, templateID string) error
	Cancel(ctx context.Context, processID string) error
	GetTaskResult(ctx context.Context, processID string) (*background.TaskResult, error)
	Artifact(ctx context.Context, processID string) (*background.TaskResult, error)
	ListTasks(ctx context.Context) ([]*background.TaskResult, error)
	IsHealthy() bool
}

// ContactSender forwards contact form submissions
type ContactSender interface {
	Send(ctx context.Context, req models.ContactRequest) error
}

// Deps bundles everything the handlers need
type Deps struct {
	Config   *config.Config
	Store    session.Store
	Engines  *form.Registry
	Renderer *render.Renderer
	Exports  ExportQueue
	Contact  ContactSender
	Limiter  *contact.Limiter
}

// engineFor returns the live engine for the session in the path. An engine
// that is not in memory is rebuilt from the submitted document, if any.
func (d *Deps) engineFor(c echo.Context) (*form.Engine, error) {
	id, err := sessionID(c)
	if err != nil {
		return nil, err
	}
	if engine, ok := d.Engines.Get(id); ok {
		return engine, nil
	}

	sess := session.Open(d.Store, id)
	doc, err := sess.LoadDocument(c.Request().Context())
	if err != nil {
		return nil, err
	}
	// a concurrent request may have restored the engine first
	return d.Engines.GetOrPut(id, form.Resume(sess, doc)), nil
}

// submitted loads the document stored by the last submit
func (d *Deps) submitted(c echo.Context) (*session.Session, *models.ResumeDocument, error) {
	id, err := sessionID(c)
	if err != nil {
		return nil, nil, err
	}
	sess := session.Open(d.Store, id)
	doc, err := sess.LoadDocument(c.Request().Context())
	if err != nil {
		return nil, nil, err
	}
	return sess, doc, nil
}

// sessionID validates the :id path parameter. Malformed ids can never have
// stored data, so they are reported as a missing session.
func sessionID(c echo.Context) (string, error) {
	var path models.SessionPath
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &path); err != nil {
		return "", session.ErrMissingSession
	}
	if err := requestValidator.Struct(path); err != nil {
		return "", session.ErrMissingSession
	}
	return path.ID, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errBadBody
	}
	return validateRequest(req)
}

// validateRequest validates a request that was already bound
func validateRequest(req interface{}) error {
	if err := requestValidator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &validationError{errs: verrs}
		}
		return &validationError{}
	}
	return nil
}
