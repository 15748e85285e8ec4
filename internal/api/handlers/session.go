package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/form"
	"resume-builder/internal/logging"
	"resume-builder/internal/session"
	"resume-builder/pkg/models"
)

// CreateSessionHandler starts a form session for the chosen role
func CreateSessionHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger().WithContext(c.Request().Context())

		var req models.CreateSessionRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		sess := session.New(d.Store)
		engine := form.NewEngine(sess, req.Role)
		d.Engines.Put(sess.ID, engine)

		logger.Info("Session created", map[string]interface{}{
			"session_id": sess.ID,
			"role":       engine.Role().ID,
			"requested":  req.Role,
		})

		return c.JSON(http.StatusCreated, models.SessionResponse{
			SessionID: sess.ID,
			Role:      engine.Role(),
			Step:      engine.View(),
		})
	}
}

// DeleteSessionHandler clears everything stored for a session
func DeleteSessionHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sessionID(c)
		if err != nil {
			return respondError(c, err)
		}

		if err := session.Open(d.Store, id).Clear(c.Request().Context()); err != nil {
			return respondError(c, err)
		}
		d.Engines.Delete(id)

		logging.GetGlobalLogger().WithContext(c.Request().Context()).Info("Session cleared", map[string]interface{}{
			"session_id": id,
		})
		return c.NoContent(http.StatusNoContent)
	}
}
