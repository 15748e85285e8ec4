package exporter

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// User-facing outcome messages
const (
	SuccessMessage   = "Print dialog opened! Please select 'Save as PDF' or your preferred printer."
	FailureMessage   = "Failed to open print dialog. Please ensure popups are allowed and try again."
	CancelledMessage = "Export cancelled. Your resume data is unchanged; you can try again."
	TimeoutMessage   = "Export timed out. Your resume data is unchanged; you can try again."
)

// State is the lifecycle position of an Export
type State int

const (
	StatePending State = iota
	StateOpened
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateOpened:
		return "opened"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s is a settled state
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// CancelReason explains a cancelled export
type CancelReason string

const (
	ReasonUser    CancelReason = "user"
	ReasonTimeout CancelReason = "timeout"
)

var errUserCancelled = errors.New("export cancelled by user")

// PrintSurface produces a printable document from a self-contained page
type PrintSurface interface {
	Print(ctx context.Context, html string) ([]byte, error)
}

// Result is the settled outcome of an Export
type Result struct {
	State    State
	PDF      []byte
	Filename string
	Message  string
	Reason   CancelReason
	Err      error
}

// Export is a single-shot print job. It moves from pending to opened when
// started and settles exactly once into completed, cancelled or failed.
type Export struct {
	surface  PrintSurface
	html     string
	filename string

	mu     sync.Mutex
	state  State
	result Result
	cancel context.CancelCauseFunc

	once sync.Once
	done chan struct{}
}

// NewExport prepares a print of html; filename is reported in the result
func NewExport(surface PrintSurface, html, filename string) *Export {
	return &Export{
		surface:  surface,
		html:     html,
		filename: filename,
		done:     make(chan struct{}),
	}
}

// Start opens the print surface and returns immediately. Printing stops when
// ctx is done or Cancel is called. Calling Start more than once is a no-op.
func (e *Export) Start(ctx context.Context) {
	e.mu.Lock()
	if e.state != StatePending {
		e.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancelCause(ctx)
	e.cancel = cancel
	e.state = StateOpened
	e.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			e.settleCancelled(ctx)
		case <-e.done:
		}
	}()

	go e.run(ctx)
}

func (e *Export) run(ctx context.Context) {
	pdf, err := e.surface.Print(ctx, e.html)
	switch {
	case ctx.Err() != nil:
		e.settleCancelled(ctx)
	case err != nil:
		e.settle(Result{
			State:    StateFailed,
			Filename: e.filename,
			Message:  FailureMessage,
			Err:      fmt.Errorf("%w: %v", ErrExport, err),
		})
	default:
		e.settle(Result{
			State:    StateCompleted,
			PDF:      pdf,
			Filename: e.filename,
			Message:  SuccessMessage,
		})
	}
}

func (e *Export) settleCancelled(ctx context.Context) {
	r := Result{State: StateCancelled, Filename: e.filename, Reason: ReasonUser, Message: CancelledMessage}
	if errors.Is(context.Cause(ctx), context.DeadlineExceeded) {
		r.Reason = ReasonTimeout
		r.Message = TimeoutMessage
	}
	e.settle(r)
}

func (e *Export) settle(r Result) {
	e.once.Do(func() {
		e.mu.Lock()
		e.state = r.State
		e.result = r
		cancel := e.cancel
		e.mu.Unlock()

		close(e.done)
		if cancel != nil {
			cancel(nil)
		}
	})
}

// Cancel closes the print surface. A pending export settles immediately.
func (e *Export) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	pending := e.state == StatePending
	e.mu.Unlock()

	if pending {
		e.settle(Result{State: StateCancelled, Filename: e.filename, Reason: ReasonUser, Message: CancelledMessage})
		return
	}
	if cancel != nil {
		cancel(errUserCancelled)
	}
}

// Done is closed once the export has settled
func (e *Export) Done() <-chan struct{} { return e.done }

// State returns the current lifecycle state
func (e *Export) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Result returns the settled outcome, or just the current state while the
// export is still running
func (e *Export) Result() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Terminal() {
		return Result{State: e.state, Filename: e.filename}
	}
	return e.result
}

// Wait blocks until the export settles or ctx is done
func (e *Export) Wait(ctx context.Context) (Result, error) {
	select {
	case <-e.done:
		return e.Result(), nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
