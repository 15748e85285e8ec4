package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"resume-builder/internal/config"
	"resume-builder/internal/exporter"
	"resume-builder/internal/logging"
	"resume-builder/internal/logging/types"
	"resume-builder/pkg/models"
)

// Task manager configuration constants
const (
	DefaultMaxWorkers   = 2
	DefaultMaxQueueSize = 50

	MinWorkers   = 1
	MinQueueSize = 1

	MaxWorkers   = 64
	MaxQueueSize = 10000

	cleanupInterval = 5 * time.Minute
)

// ResumeExporter runs one export to completion
type ResumeExporter interface {
	ExportResume(ctx context.Context, sessionID string, doc *models.ResumeDocument, templateID string) (*exporter.Outcome, error)
}

// TaskExecution represents a queued task
type TaskExecution struct {
	ProcessID   string
	Type        TaskType
	Context     context.Context
	Cancel      context.CancelFunc
	ExecuteFunc func(context.Context) (*TaskResult, error)
}

// TaskManager runs exports on a bounded worker pool and keeps their results
// until they expire
type TaskManager struct {
	store      TaskStore
	exporter   ResumeExporter
	logger     *TaskCompletionLogger
	appLogger  types.Logger
	maxTaskAge time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	running bool

	taskChan     chan *TaskExecution
	maxWorkers   int
	maxQueueSize int

	activeMu sync.Mutex
	active   map[string]context.CancelFunc
}

// validateTaskManagerConfig validates and returns safe configuration values
func validateTaskManagerConfig(cfg *config.Config) (maxWorkers, maxQueueSize int, err error) {
	maxWorkers = cfg.Export.Workers
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	} else if maxWorkers < MinWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) is below minimum (%d)", maxWorkers, MinWorkers)
	} else if maxWorkers > MaxWorkers {
		return 0, 0, fmt.Errorf("worker pool size (%d) exceeds maximum (%d)", maxWorkers, MaxWorkers)
	}

	maxQueueSize = cfg.Export.QueueSize
	if maxQueueSize <= 0 {
		maxQueueSize = DefaultMaxQueueSize
	} else if maxQueueSize < MinQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) is below minimum (%d)", maxQueueSize, MinQueueSize)
	} else if maxQueueSize > MaxQueueSize {
		return 0, 0, fmt.Errorf("queue size (%d) exceeds maximum (%d)", maxQueueSize, MaxQueueSize)
	}

	return maxWorkers, maxQueueSize, nil
}

// NewTaskManager creates a new task manager
func NewTaskManager(cfg *config.Config, store TaskStore, exp ResumeExporter) *TaskManager {
	logger := logging.GetGlobalLogger()

	maxWorkers, maxQueueSize, err := validateTaskManagerConfig(cfg)
	if err != nil {
		logger.Warn("Task manager configuration validation failed, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		maxWorkers = DefaultMaxWorkers
		maxQueueSize = DefaultMaxQueueSize
	}

	logger.Info("Task manager configuration initialized", map[string]interface{}{
		"max_workers":    maxWorkers,
		"max_queue_size": maxQueueSize,
		"using_defaults": err != nil,
	})

	return &TaskManager{
		store:        store,
		exporter:     exp,
		logger:       NewTaskCompletionLogger(),
		appLogger:    logger,
		maxTaskAge:   cfg.Export.MaxTaskAge,
		maxWorkers:   maxWorkers,
		maxQueueSize: maxQueueSize,
		taskChan:     make(chan *TaskExecution, maxQueueSize),
		active:       make(map[string]context.CancelFunc),
	}
}

// Start starts the workers and the cleanup loop
func (tm *TaskManager) Start(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.running {
		return fmt.Errorf("task manager already running")
	}

	tm.ctx, tm.cancel = context.WithCancel(ctx)
	tm.running = true

	for i := 0; i < tm.maxWorkers; i++ {
		tm.wg.Add(1)
		go tm.worker(i)
	}

	if tm.maxTaskAge > 0 {
		tm.wg.Add(1)
		go tm.cleanupRoutine()
	}

	tm.appLogger.Info("Task manager started", map[string]interface{}{
		"max_workers": tm.maxWorkers,
	})
	return nil
}

// Stop cancels running exports and waits for the workers
func (tm *TaskManager) Stop(ctx context.Context) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if !tm.running {
		return nil
	}

	tm.appLogger.Info("Stopping task manager...", map[string]interface{}{})
	tm.cancel()

	done := make(chan struct{})
	go func() {
		tm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		tm.appLogger.Info("Task manager stopped gracefully", map[string]interface{}{})
	case <-ctx.Done():
		tm.appLogger.Warn("Task manager shutdown timed out", map[string]interface{}{})
	}

	tm.running = false
	return nil
}

// IsHealthy checks if the task manager is running
func (tm *TaskManager) IsHealthy() bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.running && tm.ctx.Err() == nil
}

// SubmitExport queues an export of doc. The document is copied so later
// edits do not affect the queued export.
func (tm *TaskManager) SubmitExport(ctx context.Context, processID, sessionID string, doc *models.ResumeDocument, templateID string) error {
	if !tm.IsHealthy() {
		return ErrNotRunning
	}

	result := &TaskResult{
		ProcessID: processID,
		Type:      TaskTypeExport,
		Status:    TaskStatusAccepted,
		CreatedAt: time.Now(),
		Metadata: map[string]interface{}{
			"session_id": sessionID,
			"template":   templateID,
		},
	}
	if err := tm.store.Store(ctx, result); err != nil {
		return fmt.Errorf("failed to store task result: %w", err)
	}
	tm.logger.LogTaskAccepted(processID, TaskTypeExport)

	snapshot := doc.Clone()
	taskCtx, cancelFunc := context.WithCancel(tm.ctx)
	execution := &TaskExecution{
		ProcessID: processID,
		Type:      TaskTypeExport,
		Context:   taskCtx,
		Cancel:    cancelFunc,
		ExecuteFunc: func(execCtx context.Context) (*TaskResult, error) {
			return tm.executeExportTask(execCtx, processID, sessionID, snapshot, templateID)
		},
	}

	tm.activeMu.Lock()
	tm.active[processID] = cancelFunc
	tm.activeMu.Unlock()

	select {
	case tm.taskChan <- execution:
		return nil
	default:
		tm.forget(processID)
		cancelFunc()
		_ = tm.store.Delete(context.Background(), processID)
		return ErrQueueFull
	}
}

// Cancel stops a queued or running export
func (tm *TaskManager) Cancel(ctx context.Context, processID string) error {
	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return err
	}
	if result.Status.Terminal() {
		return ErrTaskFinished
	}

	tm.activeMu.Lock()
	cancel, ok := tm.active[processID]
	tm.activeMu.Unlock()
	if ok {
		cancel()
	}

	tm.appLogger.Info("Export cancellation requested", map[string]interface{}{
		"process_id": processID,
	})
	return nil
}

// GetTaskResult retrieves the result of a task by process ID
func (tm *TaskManager) GetTaskResult(ctx context.Context, processID string) (*TaskResult, error) {
	return tm.store.Get(ctx, processID)
}

// ListTasks lists all known tasks
func (tm *TaskManager) ListTasks(ctx context.Context) ([]*TaskResult, error) {
	return tm.store.List(ctx)
}

func (tm *TaskManager) forget(processID string) {
	tm.activeMu.Lock()
	delete(tm.active, processID)
	tm.activeMu.Unlock()
}

// worker processes tasks from the task channel
func (tm *TaskManager) worker(workerID int) {
	defer tm.wg.Done()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case task := <-tm.taskChan:
			tm.processTask(workerID, task)
		}
	}
}

// processTask runs a single task and records its outcome
func (tm *TaskManager) processTask(workerID int, task *TaskExecution) {
	startTime := time.Now()
	defer tm.forget(task.ProcessID)
	defer task.Cancel()

	if err := tm.updateTaskStatus(task.ProcessID, TaskStatusProcessing); err != nil {
		tm.appLogger.Error("Failed to update task status to processing", map[string]interface{}{
			"process_id": task.ProcessID,
			"error":      err.Error(),
		})
	}
	tm.logger.LogTaskStart(task.ProcessID, task.Type)

	var (
		result *TaskResult
		err    error
	)
	if task.Context.Err() != nil {
		err = fmt.Errorf("%w: %v", exporter.ErrCancelled, task.Context.Err())
	} else {
		result, err = task.ExecuteFunc(task.Context)
	}
	processingTime := time.Since(startTime)
	completedAt := time.Now()

	if result == nil {
		existing, getErr := tm.store.Get(context.Background(), task.ProcessID)
		if getErr != nil {
			existing = &TaskResult{ProcessID: task.ProcessID, Type: task.Type, CreatedAt: startTime}
		}
		result = existing
	}
	result.ProcessingTime = &processingTime
	result.CompletedAt = &completedAt

	switch {
	case err == nil:
		result.Status = TaskStatusSuccess
		tm.logger.LogTaskSuccess(task.ProcessID, task.Type, processingTime)
	case errors.Is(err, exporter.ErrCancelled):
		result.Status = TaskStatusCancelled
		result.Error = err.Error()
		tm.logger.LogTaskCancelled(task.ProcessID, task.Type)
	default:
		result.Status = TaskStatusFailure
		result.Error = err.Error()
		tm.logger.LogTaskError(task.ProcessID, task.Type, err)
	}

	tm.appLogger.Debug("Task processed", map[string]interface{}{
		"worker_id":  workerID,
		"process_id": task.ProcessID,
		"status":     string(result.Status),
	})

	if err := tm.store.Update(context.Background(), result); err != nil {
		tm.appLogger.Error("Failed to store task result", map[string]interface{}{
			"process_id": task.ProcessID,
			"error":      err.Error(),
		})
	}
	tm.logger.LogTaskCompletion(result)
}

// executeExportTask runs the exporter and shapes its outcome into a result
func (tm *TaskManager) executeExportTask(ctx context.Context, processID, sessionID string, doc *models.ResumeDocument, templateID string) (*TaskResult, error) {
	existing, err := tm.store.Get(ctx, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve existing task result: %w", err)
	}

	outcome, err := tm.exporter.ExportResume(ctx, sessionID, doc, templateID)
	if outcome != nil {
		existing.Data = &models.AsyncExportCompletionData{
			Filename:  outcome.Filename,
			Message:   outcome.Message,
			SizeBytes: len(outcome.PDF),
			ExportURL: outcome.URL,
		}
	}
	if err != nil {
		return existing, err
	}

	existing.Artifact = outcome.PDF
	if data, ok := existing.Data.(*models.AsyncExportCompletionData); ok {
		data.Download = fmt.Sprintf("/api/v1/exports/%s/download", processID)
	}
	return existing, nil
}

// updateTaskStatus updates the status of a task
func (tm *TaskManager) updateTaskStatus(processID string, status TaskStatus) error {
	result, err := tm.store.Get(context.Background(), processID)
	if err != nil {
		return err
	}
	result.Status = status
	return tm.store.Update(context.Background(), result)
}

// cleanupRoutine drops finished results older than the configured age
func (tm *TaskManager) cleanupRoutine() {
	defer tm.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tm.ctx.Done():
			return
		case <-ticker.C:
			removed, err := tm.store.Cleanup(tm.ctx, tm.maxTaskAge)
			if err != nil {
				tm.appLogger.Error("Failed to cleanup expired tasks", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			if removed > 0 {
				tm.appLogger.Debug("Expired tasks removed", map[string]interface{}{
					"removed": removed,
				})
			}
		}
	}
}

// Artifact returns a finished export including its PDF bytes
func (tm *TaskManager) Artifact(ctx context.Context, processID string) (*TaskResult, error) {
	result, err := tm.store.Get(ctx, processID)
	if err != nil {
		return nil, err
	}
	if result.Status != TaskStatusSuccess || len(result.Artifact) == 0 {
		return nil, ErrNoArtifact
	}
	return result, nil
}
