package background

import (
	"time"

	"resume-builder/internal/logging"
	"resume-builder/internal/logging/types"
	"resume-builder/pkg/utils"
)

// TaskCompletionLogger writes task lifecycle events
type TaskCompletionLogger struct {
	logger types.Logger
}

// NewTaskCompletionLogger creates a new task completion logger
func NewTaskCompletionLogger() *TaskCompletionLogger {
	return &TaskCompletionLogger{
		logger: logging.GetGlobalLogger(),
	}
}

func (l *TaskCompletionLogger) LogTaskAccepted(processID string, taskType TaskType) {
	l.logger.Info("Task accepted", map[string]interface{}{
		"process_id": processID,
		"operation":  string(taskType),
	})
}

func (l *TaskCompletionLogger) LogTaskStart(processID string, taskType TaskType) {
	l.logger.Info("Task started", map[string]interface{}{
		"process_id": processID,
		"operation":  string(taskType),
	})
}

func (l *TaskCompletionLogger) LogTaskError(processID string, taskType TaskType, err error) {
	l.logger.Error("Task failed", map[string]interface{}{
		"process_id": processID,
		"operation":  string(taskType),
		"error":      err.Error(),
	})
}

func (l *TaskCompletionLogger) LogTaskCancelled(processID string, taskType TaskType) {
	l.logger.Warn("Task cancelled", map[string]interface{}{
		"process_id": processID,
		"operation":  string(taskType),
	})
}

func (l *TaskCompletionLogger) LogTaskSuccess(processID string, taskType TaskType, processingTime time.Duration) {
	l.logger.Info("Task succeeded", map[string]interface{}{
		"process_id":      processID,
		"operation":       string(taskType),
		"processing_time": utils.FormatDuration(processingTime),
	})
}

// LogTaskCompletion emits one structured record per finished task
func (l *TaskCompletionLogger) LogTaskCompletion(result *TaskResult) {
	processingTime := "0s"
	if result.ProcessingTime != nil {
		processingTime = utils.FormatDuration(*result.ProcessingTime)
	}
	fields := map[string]interface{}{
		"process_id":      result.ProcessID,
		"operation":       string(result.Type),
		"status":          string(result.Status),
		"processing_time": processingTime,
		"artifact_bytes":  len(result.Artifact),
	}
	if result.Error != "" {
		fields["error"] = result.Error
	}
	for k, v := range result.Metadata {
		fields[k] = v
	}
	l.logger.Info("Task completed", fields)
}
