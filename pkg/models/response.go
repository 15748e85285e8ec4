package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// FailureResponse is the envelope returned by resume endpoints on error
type FailureResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewFailure builds a FAILURE envelope
func NewFailure(code, message string) FailureResponse {
	return FailureResponse{Status: "FAILURE", Message: message, Error: code}
}

// SessionResponse is returned when a session is created or its form is read
type SessionResponse struct {
	SessionID string      `json:"session_id"`
	Role      interface{} `json:"role"`
	Step      interface{} `json:"step"`
}

// SubmitResponse tells the client where to go after a successful submit
type SubmitResponse struct {
	Status string `json:"status"`
	Next   string `json:"next"`
}

// FormMutationResponse reports the effect of a form edit and the refreshed step
type FormMutationResponse struct {
	Changed bool        `json:"changed"`
	Index   *int        `json:"index,omitempty"`
	Step    interface{} `json:"step"`
}

// MessageResponse is a plain status plus human-readable message
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
