package models

import (
	"time"
)

// AsyncStatus represents the status of an async operation
type AsyncStatus string

const (
	AsyncStatusAccepted   AsyncStatus = "ACCEPTED"
	AsyncStatusProcessing AsyncStatus = "PROCESSING"
	AsyncStatusSuccess    AsyncStatus = "SUCCESS"
	AsyncStatusFailure    AsyncStatus = "FAILURE"
	AsyncStatusCancelled  AsyncStatus = "CANCELLED"
)

// AsyncExportResponse represents the immediate response from the export endpoint
type AsyncExportResponse struct {
	ProcessID string      `json:"processId"`
	Status    AsyncStatus `json:"status"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// AsyncTaskStatusResponse represents the response for task status queries
type AsyncTaskStatusResponse struct {
	ProcessID      string                 `json:"processId"`
	Status         AsyncStatus            `json:"status"`
	Data           interface{}            `json:"data,omitempty"`
	Error          string                 `json:"error,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
	CompletedAt    *time.Time             `json:"completedAt,omitempty"`
	ProcessingTime *time.Duration         `json:"processingTime,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// AsyncExportCompletionData is the data attached to a finished export
type AsyncExportCompletionData struct {
	Filename  string `json:"filename"`
	Message   string `json:"message"`
	SizeBytes int    `json:"size_bytes"`
	ExportURL string `json:"export_url,omitempty"`
	Download  string `json:"download,omitempty"`
}

// CreateAsyncExportResponse creates a successful async export response
func CreateAsyncExportResponse(processID string) *AsyncExportResponse {
	return &AsyncExportResponse{
		ProcessID: processID,
		Status:    AsyncStatusAccepted,
		Message:   "Export request accepted for background processing",
		Timestamp: time.Now(),
	}
}
