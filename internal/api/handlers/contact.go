package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/contact"
	"resume-builder/internal/logging"
	"resume-builder/pkg/models"
)

// Shown after a message was handed to the upstream form service
const contactSuccessMessage = "Thank you for your message! We'll get back to you soon."

// ContactHandler forwards a contact form submission. JSON and form-encoded
// bodies are both accepted.
func ContactHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var req models.ContactRequest
		if err := c.Bind(&req); err != nil {
			return respondError(c, errBadBody)
		}
		contact.Normalize(&req)
		if err := validateRequest(&req); err != nil {
			return respondError(c, err)
		}

		if d.Limiter != nil && !d.Limiter.Allow(c.RealIP()) {
			return respondError(c, contact.ErrRateLimited)
		}

		if err := d.Contact.Send(ctx, req); err != nil {
			return respondError(c, err)
		}

		logging.GetGlobalLogger().WithContext(ctx).Info("Contact message forwarded", map[string]interface{}{
			"inquiry_type": req.InquiryType,
		})
		return c.JSON(http.StatusOK, models.MessageResponse{Status: "SUCCESS", Message: contactSuccessMessage})
	}
}
