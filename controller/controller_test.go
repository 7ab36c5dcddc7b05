package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Netcracker/qubership-roadmap-service/exception"
	"github.com/Netcracker/qubership-roadmap-service/service"
	"github.com/Netcracker/qubership-roadmap-service/view"
	"github.com/gorilla/mux"
)

const testRoadmapId = "7f3c8f5e-2b8a-4c1e-9a53-0d1f2e3a4b5c"

type fakeRoadmapService struct {
	service.RoadmapService
	lastId     string
	lastFormat string
	exportErr  error
}

func (f *fakeRoadmapService) GetRoadmap(ctx context.Context, id string) (*view.Roadmap, error) {
	f.lastId = id
	if id != testRoadmapId {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.EntityNotFound,
			Message: exception.EntityNotFoundMsg,
			Params:  map[string]interface{}{"entity": "Roadmap", "id": id},
		}
	}
	return &view.Roadmap{Id: id, Title: "Go"}, nil
}

func (f *fakeRoadmapService) CreateRoadmap(ctx context.Context, req view.RoadmapReq) (*view.Roadmap, error) {
	return &view.Roadmap{Id: testRoadmapId, Title: req.Title}, nil
}

func (f *fakeRoadmapService) ExportRoadmap(ctx context.Context, id string, format string) (*service.ExportedRoadmap, error) {
	f.lastFormat = format
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return &service.ExportedRoadmap{Data: []byte("# Go\n"), ContentType: "text/markdown; charset=utf-8", FileName: "go.md"}, nil
}

type fakeSystemInfoService struct {
	service.SystemInfoService
	production bool
}

func (f fakeSystemInfoService) IsProductionMode() bool { return f.production }

func newRoadmapRouter(svc service.RoadmapService) *mux.Router {
	c := NewRoadmapController(svc)
	r := mux.NewRouter()
	r.HandleFunc("/roadmaps", c.CreateRoadmap).Methods(http.MethodPost)
	r.HandleFunc("/roadmaps/{id}", c.GetRoadmap).Methods(http.MethodGet)
	r.HandleFunc("/roadmaps/{id}/export", c.ExportRoadmap).Methods(http.MethodGet)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) exception.CustomError {
	t.Helper()
	var customErr exception.CustomError
	if err := json.Unmarshal(rec.Body.Bytes(), &customErr); err != nil {
		t.Fatalf("error body %q is not json: %v", rec.Body.String(), err)
	}
	return customErr
}

func TestGetRoadmap(t *testing.T) {
	svc := &fakeRoadmapService{}
	router := newRoadmapRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roadmaps/"+testRoadmapId, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got view.Roadmap
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || got.Id != testRoadmapId {
		t.Errorf("body = %s, err = %v", rec.Body.String(), err)
	}
}

func TestGetRoadmap_InvalidId(t *testing.T) {
	svc := &fakeRoadmapService{}
	rec := httptest.NewRecorder()
	newRoadmapRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roadmaps/not-a-uuid", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got.Message != exception.InvalidRoadmapIdMsg {
		t.Errorf("message = %q", got.Message)
	}
	if svc.lastId != "" {
		t.Error("service was called with an invalid id")
	}
}

func TestGetRoadmap_NotFoundMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	missing := "00000000-0000-0000-0000-000000000000"
	newRoadmapRouter(&fakeRoadmapService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roadmaps/"+missing, nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec); got.Message != "Roadmap with id "+missing+" is not found" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestCreateRoadmap_BadBody(t *testing.T) {
	router := newRoadmapRouter(&fakeRoadmapService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roadmaps", strings.NewReader("{broken")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roadmaps", strings.NewReader(`{"title":"Go"}`)))
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
}

func TestExportRoadmap(t *testing.T) {
	svc := &fakeRoadmapService{}
	router := newRoadmapRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roadmaps/"+testRoadmapId+"/export?format=markdown&disposition=inline", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `inline; filename="go.md"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/markdown") {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Body.String() != "# Go\n" || svc.lastFormat != "markdown" {
		t.Errorf("body = %q, format = %q", rec.Body.String(), svc.lastFormat)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roadmaps/"+testRoadmapId+"/export?disposition=download", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown disposition", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roadmaps/"+testRoadmapId+"/export", nil))
	if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "attachment;") {
		t.Errorf("default Content-Disposition = %q", got)
	}
}

func TestNoteController_InvalidRoadmapId(t *testing.T) {
	c := NewNoteController(nil)
	r := mux.NewRouter()
	r.HandleFunc("/roadmaps/{roadmapId}/notes", c.GetNotes).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roadmaps/123/notes", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got.Message != "Invalid roadmap ID format" {
		t.Errorf("message = %q", got.Message)
	}
}

func TestCatalogController(t *testing.T) {
	catalogService, err := service.NewCatalogService([]byte(`
categories:
  - name: devops
    roadmaps: [DevOps, Docker]
skill_based:
  - title: Docker
    sections:
      - title: Images
`))
	if err != nil {
		t.Fatalf("NewCatalogService() error = %v", err)
	}
	c := NewCatalogController(catalogService)

	rec := httptest.NewRecorder()
	c.MatchTopic(rec, httptest.NewRequest(http.MethodGet, "/catalog/match?topic=docker", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var match view.CatalogMatch
	if err := json.Unmarshal(rec.Body.Bytes(), &match); err != nil {
		t.Fatalf("body = %s: %v", rec.Body.String(), err)
	}
	if match.Topic != "docker" || strings.Join(match.Roadmaps, ",") != "DevOps,Docker" {
		t.Errorf("match = %+v", match)
	}

	rec = httptest.NewRecorder()
	c.MatchTopic(rec, httptest.NewRequest(http.MethodGet, "/catalog/match", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 without topic", rec.Code)
	}
}

func TestHealthController(t *testing.T) {
	readyChan := make(chan bool)
	c := NewHealthController(readyChan, fakeSystemInfoService{production: true})

	rec := httptest.NewRecorder()
	c.HandleReadyRequest(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("ready status before start = %d, want 404", rec.Code)
	}

	readyChan <- true
	close(readyChan)
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		rec = httptest.NewRecorder()
		c.HandleReadyRequest(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		if rec.Code == http.StatusOK {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("ready status after start = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	c.HandleLiveRequest(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c.HandleHealthRequest(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	var health view.HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("body = %s: %v", rec.Body.String(), err)
	}
	if health.Status != "OK" || health.Environment != "production" {
		t.Errorf("health = %+v", health)
	}
}

func TestCleanupController_ProductionMode(t *testing.T) {
	c := NewCleanupController(nil, nil, fakeSystemInfoService{production: true})
	rec := httptest.NewRecorder()
	c.ClearTestData(rec, httptest.NewRequest(http.MethodDelete, "/admin/test-data/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCleanupController_NotAdmin(t *testing.T) {
	c := NewCleanupController(nil, service.NewAuthorizationService(), fakeSystemInfoService{})
	rec := httptest.NewRecorder()
	c.ClearTestData(rec, httptest.NewRequest(http.MethodDelete, "/admin/test-data/1", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestGetGenerationTask_InvalidId(t *testing.T) {
	c := NewGenerationController(nil, nil, nil)
	r := mux.NewRouter()
	r.HandleFunc("/generation/tasks/{taskId}", c.GetGenerationTask).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generation/tasks/abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != exception.InvalidParameterValue {
		t.Errorf("code = %q", got.Code)
	}
}
