package contact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"resume-builder/internal/config"
	"resume-builder/internal/logging"
	"resume-builder/internal/logging/types"
	"resume-builder/pkg/models"
)

// Sentinel errors to allow precise mapping in handlers
var (
	ErrNotConfigured = errors.New("contact_not_configured")
	ErrInvalid       = errors.New("contact_invalid")
	ErrDelivery      = errors.New("contact_delivery_failed")
	ErrRateLimited   = errors.New("contact_rate_limited")
)

// InquiryTypes maps the accepted inquiry keys to the labels sent upstream
var InquiryTypes = map[string]string{
	"general": "General Inquiry",
	"support": "Technical Support",
	"bug":     "Bug Report",
	"feature": "Feature Request",
}

// Client forwards contact messages to a form relay endpoint
type Client struct {
	endpoint    string
	redirectURL string
	httpClient  *http.Client
	validate    *validator.Validate
	logger      types.Logger
}

// NewClient creates a client from configuration. A missing endpoint is
// reported on Send, not here, so the rest of the service can run without it.
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Contact.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return NewClientWithHTTP(cfg.Contact.Endpoint, cfg.Contact.RedirectURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client with an explicit transport
func NewClientWithHTTP(endpoint, redirectURL string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:    endpoint,
		redirectURL: redirectURL,
		httpClient:  httpClient,
		validate:    validator.New(),
		logger:      logging.GetGlobalLogger(),
	}
}

// Normalize trims every field of req in place
func Normalize(req *models.ContactRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.InquiryType = strings.ToLower(strings.TrimSpace(req.InquiryType))
	req.Message = strings.TrimSpace(req.Message)
}

// Encode builds the form body posted to the relay
func (c *Client) Encode(req models.ContactRequest) url.Values {
	form := url.Values{}
	form.Set("name", req.Name)
	form.Set("email", req.Email)
	form.Set("subject", req.Subject)
	form.Set("inquiryType", InquiryTypes[req.InquiryType])
	form.Set("message", req.Message)
	form.Set("_captcha", "false")
	form.Set("_subject", fmt.Sprintf("[%s] %s", InquiryTypes[req.InquiryType], req.Subject))
	if c.redirectURL != "" {
		form.Set("_next", c.redirectURL)
	}
	return form
}

// Send validates req and posts it to the relay endpoint
func (c *Client) Send(ctx context.Context, req models.ContactRequest) error {
	if c.endpoint == "" || strings.Contains(c.endpoint, "${") {
		return ErrNotConfigured
	}

	Normalize(&req)
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	body := c.Encode(req).Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Failed to deliver contact message", map[string]interface{}{
			"inquiry_type": req.InquiryType,
			"error":        err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 400 {
		c.logger.Error("Contact relay rejected message", map[string]interface{}{
			"inquiry_type": req.InquiryType,
			"status_code":  resp.StatusCode,
		})
		return fmt.Errorf("%w: relay returned %d", ErrDelivery, resp.StatusCode)
	}

	c.logger.Info("Contact message delivered", map[string]interface{}{
		"inquiry_type": req.InquiryType,
		"status_code":  resp.StatusCode,
	})
	return nil
}
