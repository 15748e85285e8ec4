package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/api/handlers"
	"resume-builder/internal/background"
	"resume-builder/internal/config"
	"resume-builder/internal/contact"
	"resume-builder/internal/exporter"
	"resume-builder/internal/form"
	"resume-builder/internal/render"
	"resume-builder/internal/session"
	"resume-builder/pkg/models"
)

type stubExporter struct{}

func (stubExporter) ExportResume(_ context.Context, _ string, doc *models.ResumeDocument, _ string) (*exporter.Outcome, error) {
	return &exporter.Outcome{Result: exporter.Result{
		State:    exporter.StateCompleted,
		PDF:      []byte("%PDF-1.4 test"),
		Filename: render.Filename(doc.PersonalInfo.FullName),
		Message:  exporter.SuccessMessage,
	}}, nil
}

type brokenStore struct {
	*session.MemoryStore
}

func (brokenStore) Ping(context.Context) error { return errors.New("connection refused") }

type testServer struct {
	e       *echo.Echo
	deps    *handlers.Deps
	relayed chan url.Values
}

func newTestServer(t *testing.T, store session.Store) *testServer {
	t.Helper()

	relayed := make(chan url.Values, 8)
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if assert.NoError(t, r.ParseForm()) {
			relayed <- r.PostForm
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(relay.Close)

	cfg := config.Default()
	cfg.Export.Workers = 1
	tm := background.NewTaskManager(cfg, background.NewInMemoryTaskStore(), stubExporter{})
	require.NoError(t, tm.Start(context.Background()))
	t.Cleanup(func() { _ = tm.Stop(context.Background()) })

	d := &handlers.Deps{
		Config:   cfg,
		Store:    store,
		Engines:  form.NewRegistry(),
		Renderer: render.NewRenderer(),
		Exports:  tm,
		Contact:  contact.NewClientWithHTTP(relay.URL, "https://example.com/thanks", relay.Client()),
		Limiter:  contact.NewLimiter(2),
	}
	e := echo.New()
	SetupRoutes(e, d)
	return &testServer{e: e, deps: d, relayed: relayed}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func (s *testServer) createSession(t *testing.T, role string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/sessions", models.CreateSessionRequest{Role: role})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		SessionID string                 `json:"session_id"`
		Role      map[string]interface{} `json:"role"`
		Step      form.StepView          `json:"step"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func (s *testServer) fillAndSubmit(t *testing.T, id string) {
	t.Helper()
	base := "/api/v1/sessions/" + id + "/form"
	fields := map[string]string{
		"personalInfo.fullName": "Jane  Doe",
		"personalInfo.email":    "jane@example.com",
		"personalInfo.phone":    "555-0100",
		"personalInfo.location": "Berlin",
		"summary":               "Backend engineer",
	}
	for path, value := range fields {
		rec := s.do(t, http.MethodPut, base+"/fields", models.SetFieldRequest{Path: path, Value: value})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	skill := "Go"
	rec := s.do(t, http.MethodPost, base+"/lists/skills", models.ListItemRequest{Value: &skill})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var submit models.SubmitResponse
	decode(t, rec, &submit)
	assert.Equal(t, "/templates", submit.Next)
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))

	rec := s.do(t, http.MethodGet, "/api/v1/roles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var roles []map[string]interface{}
	decode(t, rec, &roles)
	assert.Len(t, roles, 8)

	rec = s.do(t, http.MethodGet, "/api/v1/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var templates []map[string]interface{}
	decode(t, rec, &templates)
	require.Len(t, templates, 5)
	assert.Equal(t, "modern", templates[0]["id"])
}

func TestGetRole(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))

	rec := s.do(t, http.MethodGet, "/api/v1/roles/networking-engineer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var role map[string]interface{}
	decode(t, rec, &role)
	assert.Equal(t, "networking-engineer", role["id"])

	rec = s.do(t, http.MethodGet, "/api/v1/roles/astronaut", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var failure models.FailureResponse
	decode(t, rec, &failure)
	assert.Equal(t, "UNKNOWN_ROLE", failure.Error)
}

func TestCreateSessionReturnsFirstStep(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))

	rec := s.do(t, http.MethodPost, "/api/v1/sessions", models.CreateSessionRequest{Role: "backend-developer"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		SessionID string                 `json:"session_id"`
		Role      map[string]interface{} `json:"role"`
		Step      form.StepView          `json:"step"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "backend-developer", resp.Role["id"])
	assert.Equal(t, 0, resp.Step.Index)
	assert.Equal(t, "Step 1 of 7", resp.Step.Progress)
	assert.True(t, resp.Step.First)
	assert.Equal(t, 1, s.deps.Engines.Len())
}

func TestCreateSessionRequiresRole(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))

	rec := s.do(t, http.MethodPost, "/api/v1/sessions", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var failure models.FailureResponse
	decode(t, rec, &failure)
	assert.Equal(t, "FAILURE", failure.Status)
	assert.Equal(t, "VALIDATION_ERROR", failure.Error)
}

func TestFormEditing(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	id := s.createSession(t, "software-developer")
	base := "/api/v1/sessions/" + id + "/form"

	t.Run("unknown field", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, base+"/fields", models.SetFieldRequest{Path: "personalInfo.age", Value: "40"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("commit pending list input", func(t *testing.T) {
		pending := "  Kubernetes "
		rec := s.do(t, http.MethodPut, base+"/lists/skills/input", models.ListItemRequest{Value: &pending})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodPost, base+"/lists/skills", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.FormMutationResponse
		decode(t, rec, &resp)
		assert.True(t, resp.Changed)

		engine, ok := s.deps.Engines.Get(id)
		require.True(t, ok)
		assert.Equal(t, []string{"Kubernetes"}, engine.Document().Skills)
		assert.Empty(t, engine.ListInput(models.SectionSkills))
	})

	t.Run("remove list item out of range is a no-op", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, base+"/lists/skills/9", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.FormMutationResponse
		decode(t, rec, &resp)
		assert.False(t, resp.Changed)
	})

	t.Run("unknown list section", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, base+"/lists/hobbies/0", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		value := "Chess"
		rec = s.do(t, http.MethodPut, base+"/lists/hobbies/input", models.ListItemRequest{Value: &value})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var failure models.FailureResponse
		decode(t, rec, &failure)
		assert.Equal(t, "VALIDATION_ERROR", failure.Error)
	})

	t.Run("non-numeric list index", func(t *testing.T) {
		rec := s.do(t, http.MethodDelete, base+"/lists/skills/first", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("add and edit entry", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, base+"/entries/experience", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.FormMutationResponse
		decode(t, rec, &resp)
		require.NotNil(t, resp.Index)
		assert.Equal(t, 1, *resp.Index)

		rec = s.do(t, http.MethodPut, base+"/entries/experience/1", models.EditEntryRequest{Field: "company", Value: "Acme"})
		require.Equal(t, http.StatusOK, rec.Code)

		engine, _ := s.deps.Engines.Get(id)
		assert.Equal(t, "Acme", engine.Document().Experience[1].Company)
	})

	t.Run("edit entry out of range", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, base+"/entries/experience/7", models.EditEntryRequest{Field: "company", Value: "Acme"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var failure models.FailureResponse
		decode(t, rec, &failure)
		assert.Equal(t, "INDEX_OUT_OF_RANGE", failure.Error)
	})

	t.Run("step navigation clamps", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, base+"/step", models.StepRequest{Action: "goto", Step: 42})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Changed bool          `json:"changed"`
			Step    form.StepView `json:"step"`
		}
		decode(t, rec, &resp)
		assert.Equal(t, form.TotalSteps-1, resp.Step.Index)
		assert.True(t, resp.Step.Last)

		rec = s.do(t, http.MethodPost, base+"/step", models.StepRequest{Action: "sideways"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUnknownSessionRedirectsToRoleSelection(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))

	paths := []string{
		"/api/v1/sessions/0b8f3c2e-6a4d-4f7e-9c1a-2d3e4f5a6b7c/form",
		"/api/v1/sessions/0b8f3c2e-6a4d-4f7e-9c1a-2d3e4f5a6b7c/preview/modern",
		"/api/v1/sessions/not-a-session/print/modern",
	}
	for _, path := range paths {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)

		var failure models.FailureResponse
		decode(t, rec, &failure)
		assert.Equal(t, "MISSING_SESSION", failure.Error)
		assert.Equal(t, "/", failure.Redirect)
	}
}

func TestPreviewBeforeSubmitIsMissing(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	id := s.createSession(t, "web-developer")

	rec := s.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/preview/modern", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitPersistenceFailure(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(16))
	id := s.createSession(t, "data-analyst")

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/form/submit", nil)
	assert.Equal(t, http.StatusInsufficientStorage, rec.Code)

	var failure models.FailureResponse
	decode(t, rec, &failure)
	assert.Equal(t, "PERSISTENCE_ERROR", failure.Error)
}

func TestSubmittedSessionSurvivesEngineEviction(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	id := s.createSession(t, "frontend-developer")
	s.fillAndSubmit(t, id)

	s.deps.Engines.Delete(id)

	rec := s.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/form", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	engine, ok := s.deps.Engines.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Jane  Doe", engine.Document().PersonalInfo.FullName)
}

func TestPreviewAndPrint(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	id := s.createSession(t, "software-developer")
	s.fillAndSubmit(t, id)

	rec := s.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/preview/creative", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Jane  Doe", strings.TrimSpace(doc.Find(".name").First().Text()))
	assert.Equal(t, "creative", doc.Find("body").AttrOr("data-template", ""))

	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/print/unknown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err = goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "modern", doc.Find("body").AttrOr("data-template", ""))
	assert.True(t, doc.Find("body").HasClass("print"))
}

func TestSelectTemplate(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	id := s.createSession(t, "software-developer")

	rec := s.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/template", models.SelectTemplateRequest{Template: "tech"})
	assert.Equal(t, http.StatusNotFound, rec.Code, "template selection needs a submitted resume")

	s.fillAndSubmit(t, id)

	rec = s.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/template", models.SelectTemplateRequest{Template: "neon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/template", models.SelectTemplateRequest{Template: "tech"})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := session.Open(s.deps.Store, id).LoadTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tech", stored)
}

func TestExportLifecycle(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	id := s.createSession(t, "ai-ml-engineer")
	s.fillAndSubmit(t, id)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/export", models.ExportResumeRequest{Template: "minimal"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var accepted models.AsyncExportResponse
	decode(t, rec, &accepted)
	require.True(t, strings.HasPrefix(accepted.ProcessID, "exp_"))
	assert.Equal(t, models.AsyncStatusAccepted, accepted.Status)

	statusPath := "/api/v1/exports/" + accepted.ProcessID
	require.Eventually(t, func() bool {
		rec := s.do(t, http.MethodGet, statusPath, nil)
		var status models.AsyncTaskStatusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.Status == models.AsyncStatusSuccess
	}, 2*time.Second, 10*time.Millisecond)

	rec = s.do(t, http.MethodGet, statusPath+"/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="Jane_Doe_Resume.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "%PDF-1.4 test", rec.Body.String())

	rec = s.do(t, http.MethodDelete, statusPath, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/exports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []models.AsyncTaskStatusResponse
	decode(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, accepted.ProcessID, listed[0].ProcessID)

	other := s.createSession(t, "software-developer")
	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+other+"/exports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestExportUnknownProcess(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))

	rec := s.do(t, http.MethodGet, "/api/v1/exports/exp_missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/exports/exp_missing/download", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	id := s.createSession(t, "software-developer")
	s.fillAndSubmit(t, id)

	rec := s.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, s.deps.Engines.Len())

	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/preview/modern", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContact(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	valid := models.ContactRequest{
		Name:        "  Jane Doe ",
		Email:       "jane@example.com",
		Subject:     "Hello",
		InquiryType: "Support",
		Message:     "The export button does nothing.",
	}

	rec := s.do(t, http.MethodPost, "/api/v1/contact", valid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	posted := <-s.relayed
	assert.Equal(t, "Jane Doe", posted.Get("name"))
	assert.Equal(t, "false", posted.Get("_captcha"))

	invalid := valid
	invalid.Email = "not-an-email"
	rec = s.do(t, http.MethodPost, "/api/v1/contact", invalid)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/contact", valid)
	require.Equal(t, http.StatusOK, rec.Code)
	<-s.relayed

	rec = s.do(t, http.MethodPost, "/api/v1/contact", valid)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestContactFormEncoded(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))

	values := url.Values{
		"name":        {"Sam"},
		"email":       {"sam@example.com"},
		"subject":     {"Feature"},
		"inquiryType": {"feature"},
		"message":     {"Please add a dark template."},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	posted := <-s.relayed
	assert.Equal(t, "Please add a dark template.", posted.Get("message"))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	broken := newTestServer(t, brokenStore{session.NewMemoryStore(0)})
	rec := broken.do(t, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var health models.HealthResponse
	decode(t, rec, &health)
	assert.Equal(t, "unavailable", health.Checks["session_store"])
}

func TestEvictedEngineIsRestoredOnce(t *testing.T) {
	s := newTestServer(t, session.NewMemoryStore(0))
	id := s.createSession(t, "backend-developer")
	s.fillAndSubmit(t, id)
	s.deps.Engines.Delete(id)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+id+"/form", nil)
			s.e.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	first, ok := s.deps.Engines.Get(id)
	require.True(t, ok)
	rec := s.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/form/fields", models.SetFieldRequest{Path: "summary", Value: "Edited"})
	require.Equal(t, http.StatusOK, rec.Code)

	current, ok := s.deps.Engines.Get(id)
	require.True(t, ok)
	assert.Same(t, first, current)
	assert.Equal(t, "Edited", current.Document().Summary)
}
