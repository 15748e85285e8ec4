package exporter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/render"
	"resume-builder/pkg/models"
)

type fakeSurface struct {
	pdf   []byte
	err   error
	block bool
	calls atomic.Int32

	mu   sync.Mutex
	html string
}

func (f *fakeSurface) Print(ctx context.Context, html string) ([]byte, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.html = html
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.pdf, f.err
}

type fakeUploader struct {
	err       error
	sessionID string
	filename  string
}

func (u *fakeUploader) UploadResumePDF(_ context.Context, sessionID, filename string, _ []byte) (string, error) {
	u.sessionID = sessionID
	u.filename = filename
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example.com/" + filename, nil
}

func waitSettled(t *testing.T, e *Export) Result {
	t.Helper()
	select {
	case <-e.Done():
		return e.Result()
	case <-time.After(2 * time.Second):
		t.Fatal("export did not settle")
		return Result{}
	}
}

func TestExportCompletes(t *testing.T) {
	surface := &fakeSurface{pdf: []byte("%PDF-1.4")}
	e := NewExport(surface, "<html></html>", "Jane_Doe_Resume.pdf")
	assert.Equal(t, StatePending, e.State())

	e.Start(context.Background())
	res := waitSettled(t, e)

	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, []byte("%PDF-1.4"), res.PDF)
	assert.Equal(t, SuccessMessage, res.Message)
	assert.Equal(t, "Jane_Doe_Resume.pdf", res.Filename)
	assert.NoError(t, res.Err)
}

func TestExportFailureWrapsErrExport(t *testing.T) {
	e := NewExport(&fakeSurface{err: errors.New("popup blocked")}, "", "Resume.pdf")
	e.Start(context.Background())
	res := waitSettled(t, e)

	assert.Equal(t, StateFailed, res.State)
	assert.True(t, errors.Is(res.Err, ErrExport))
	assert.Equal(t, FailureMessage, res.Message)
}

func TestExportUserCancel(t *testing.T) {
	e := NewExport(&fakeSurface{block: true}, "", "Resume.pdf")
	e.Start(context.Background())
	assert.Equal(t, StateOpened, e.State())

	e.Cancel()
	res := waitSettled(t, e)
	assert.Equal(t, StateCancelled, res.State)
	assert.Equal(t, ReasonUser, res.Reason)
}

func TestExportTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	e := NewExport(&fakeSurface{block: true}, "", "Resume.pdf")
	e.Start(ctx)
	res := waitSettled(t, e)

	assert.Equal(t, StateCancelled, res.State)
	assert.Equal(t, ReasonTimeout, res.Reason)
	assert.Equal(t, TimeoutMessage, res.Message)
}

func TestCancelBeforeStartSettles(t *testing.T) {
	surface := &fakeSurface{pdf: []byte("x")}
	e := NewExport(surface, "", "Resume.pdf")
	e.Cancel()
	res := waitSettled(t, e)
	assert.Equal(t, StateCancelled, res.State)

	e.Start(context.Background())
	assert.Equal(t, StateCancelled, e.State())
	assert.Equal(t, int32(0), surface.calls.Load())
}

func TestExportSettlesOnce(t *testing.T) {
	e := NewExport(&fakeSurface{pdf: []byte("x")}, "", "Resume.pdf")
	e.Start(context.Background())
	e.Start(context.Background())
	res := waitSettled(t, e)

	e.Cancel()
	e.Cancel()
	assert.Equal(t, res, e.Result())
	assert.Equal(t, StateCompleted, e.State())
}

func TestResultWhileRunning(t *testing.T) {
	e := NewExport(&fakeSurface{block: true}, "", "Resume.pdf")
	e.Start(context.Background())
	defer e.Cancel()

	res := e.Result()
	assert.Equal(t, StateOpened, res.State)
	assert.Nil(t, res.PDF)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := e.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func sampleDoc() *models.ResumeDocument {
	doc := models.NewResumeDocument("software-developer")
	doc.PersonalInfo.FullName = "Jane Doe"
	doc.Skills = []string{"Rust"}
	return doc
}

func TestExportResumeUploads(t *testing.T) {
	surface := &fakeSurface{pdf: []byte("%PDF")}
	uploader := &fakeUploader{}
	x := NewExporter(render.NewRenderer(), surface, uploader, time.Second)

	doc := sampleDoc()
	before := doc.Clone()
	out, err := x.ExportResume(context.Background(), "sess-1", doc, "creative")
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, out.State)
	assert.Equal(t, "Jane_Doe_Resume.pdf", out.Filename)
	assert.Equal(t, "https://cdn.example.com/Jane_Doe_Resume.pdf", out.URL)
	assert.Equal(t, "sess-1", uploader.sessionID)
	assert.Contains(t, surface.html, "#7c3aed")
	assert.Equal(t, before, doc)
}

func TestExportResumeWithoutUploader(t *testing.T) {
	x := NewExporter(render.NewRenderer(), &fakeSurface{pdf: []byte("%PDF")}, nil, 0)
	out, err := x.ExportResume(context.Background(), "sess-1", sampleDoc(), "modern")
	require.NoError(t, err)
	assert.Empty(t, out.URL)
}

func TestExportResumeErrors(t *testing.T) {
	x := NewExporter(render.NewRenderer(), &fakeSurface{err: errors.New("boom")}, nil, time.Second)
	out, err := x.ExportResume(context.Background(), "s", sampleDoc(), "modern")
	assert.ErrorIs(t, err, ErrExport)
	assert.Equal(t, FailureMessage, out.Message)

	x = NewExporter(render.NewRenderer(), &fakeSurface{block: true}, nil, 20*time.Millisecond)
	out, err = x.ExportResume(context.Background(), "s", sampleDoc(), "modern")
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, ReasonTimeout, out.Reason)

	x = NewExporter(render.NewRenderer(), &fakeSurface{pdf: []byte("x")}, &fakeUploader{err: errors.New("denied")}, time.Second)
	_, err = x.ExportResume(context.Background(), "s", sampleDoc(), "modern")
	assert.ErrorIs(t, err, ErrUpload)
}
