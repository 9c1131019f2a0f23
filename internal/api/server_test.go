package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/framelift/tabshell/internal/shell"
	"github.com/framelift/tabshell/internal/snapshot"
	"github.com/framelift/tabshell/internal/uistream"
)

type stubService struct {
	tabs      []shell.Tab
	active    int64
	navigated []string
	closed    []int64
	activated []int64
	backs     int
	reloads   int
	err       error
}

func (s *stubService) ListTabs(ctx context.Context) ([]shell.Tab, int64, error) {
	return s.tabs, s.active, s.err
}
func (s *stubService) OpenTab(ctx context.Context, url string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return 7, nil
}
func (s *stubService) CloseTab(ctx context.Context, id int64) error {
	s.closed = append(s.closed, id)
	return s.err
}
func (s *stubService) CloseActiveTab(ctx context.Context) error { return s.err }
func (s *stubService) ActivateTab(ctx context.Context, id int64) error {
	s.activated = append(s.activated, id)
	return s.err
}
func (s *stubService) Navigate(ctx context.Context, input string) error {
	s.navigated = append(s.navigated, input)
	return s.err
}
func (s *stubService) GoBack(ctx context.Context) error    { s.backs++; return s.err }
func (s *stubService) GoForward(ctx context.Context) error { return s.err }
func (s *stubService) Reload(ctx context.Context) error    { s.reloads++; return s.err }
func (s *stubService) CurrentURL(ctx context.Context) (string, int64, error) {
	return "https://example.com", s.active, s.err
}
func (s *stubService) Status(ctx context.Context) (shell.Status, error) {
	return shell.Status{Level: shell.StatusReady}, s.err
}
func (s *stubService) ShellPage(ctx context.Context) string {
	return "<!doctype html><title>tabshell</title>"
}
func (s *stubService) TakeScreenshot(ctx context.Context, notes string) (snapshot.Meta, error) {
	if s.err != nil {
		return snapshot.Meta{}, s.err
	}
	return snapshot.Meta{ID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", Notes: notes}, nil
}
func (s *stubService) ListScreenshots(ctx context.Context) ([]snapshot.Meta, error) {
	return nil, s.err
}
func (s *stubService) GetScreenshot(ctx context.Context, id string) (snapshot.Meta, error) {
	if s.err != nil {
		return snapshot.Meta{}, s.err
	}
	return snapshot.Meta{ID: id}, nil
}
func (s *stubService) ReadScreenshotImage(ctx context.Context, id string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("png-bytes"), nil
}
func (s *stubService) DeleteScreenshot(ctx context.Context, id string) error { return s.err }

func newTestServer(svc Service) http.Handler {
	return NewServer(svc, uistream.NewBroker())
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestShellPageRoute(t *testing.T) {
	h := newTestServer(&stubService{})
	w := doJSON(t, h, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q, want text/html", ct)
	}
	if !strings.Contains(w.Body.String(), "tabshell") {
		t.Fatalf("shell page body = %q, want rendered chrome", w.Body.String())
	}
}

func TestDocsDarkMode(t *testing.T) {
	h := newTestServer(&stubService{})
	w := doJSON(t, h, http.MethodGet, "/docs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `data-theme="dark"`) {
		t.Fatalf("docs missing dark theme marker")
	}
}

func TestListTabs(t *testing.T) {
	svc := &stubService{
		tabs:   []shell.Tab{{ID: 1, URL: "https://example.com", Title: "Example"}},
		active: 1,
	}
	w := doJSON(t, newTestServer(svc), http.MethodGet, "/api/v1/tabs", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got struct {
		Tabs        []shell.Tab `json:"tabs"`
		ActiveTabID int64       `json:"active_tab_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Tabs) != 1 || got.Tabs[0].Title != "Example" {
		t.Fatalf("tabs = %+v, want one tab titled Example", got.Tabs)
	}
	if got.ActiveTabID != 1 {
		t.Fatalf("active_tab_id = %d, want 1", got.ActiveTabID)
	}
}

func TestListTabs_EmptyIsArray(t *testing.T) {
	w := doJSON(t, newTestServer(&stubService{}), http.MethodGet, "/api/v1/tabs", "")
	if !strings.Contains(w.Body.String(), `"tabs":[]`) {
		t.Fatalf("body = %q, want empty tabs array", w.Body.String())
	}
}

func TestOpenTab(t *testing.T) {
	w := doJSON(t, newTestServer(&stubService{}), http.MethodPost, "/api/v1/tabs", `{"url":"https://example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"tab_id":7`) {
		t.Fatalf("body = %q, want tab_id 7", w.Body.String())
	}
}

func TestActivateTab_NotFound(t *testing.T) {
	svc := &stubService{err: &shell.CodedError{Code: shell.CodeTabNotFound, Message: "tab 42 not found"}}
	w := doJSON(t, newTestServer(svc), http.MethodPost, "/api/v1/tabs/42/activate", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestCloseTab(t *testing.T) {
	svc := &stubService{}
	w := doJSON(t, newTestServer(svc), http.MethodDelete, "/api/v1/tabs/3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if len(svc.closed) != 1 || svc.closed[0] != 3 {
		t.Fatalf("closed = %v, want [3]", svc.closed)
	}
}

func TestNavigate_ValidationError(t *testing.T) {
	svc := &stubService{err: &shell.CodedError{Code: shell.CodeValidation, Message: "input is required"}}
	w := doJSON(t, newTestServer(svc), http.MethodPost, "/api/v1/navigate", `{"input":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestNavigate_PassesInput(t *testing.T) {
	svc := &stubService{}
	w := doJSON(t, newTestServer(svc), http.MethodPost, "/api/v1/navigate", `{"input":"golang concurrency"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if len(svc.navigated) != 1 || svc.navigated[0] != "golang concurrency" {
		t.Fatalf("navigated = %v, want [golang concurrency]", svc.navigated)
	}
}

func TestHistoryBack(t *testing.T) {
	svc := &stubService{}
	w := doJSON(t, newTestServer(svc), http.MethodPost, "/api/v1/history/back", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if svc.backs != 1 {
		t.Fatalf("backs = %d, want 1", svc.backs)
	}
}

func TestCurrentURL(t *testing.T) {
	w := doJSON(t, newTestServer(&stubService{active: 2}), http.MethodGet, "/api/v1/url", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"url":"https://example.com"`) {
		t.Fatalf("body = %q, want current url", w.Body.String())
	}
}

func TestLoadStatus(t *testing.T) {
	w := doJSON(t, newTestServer(&stubService{}), http.MethodGet, "/api/v1/status", "")
	if !strings.Contains(w.Body.String(), `"level":"ready"`) {
		t.Fatalf("body = %q, want ready level", w.Body.String())
	}
}

func TestTakeScreenshot(t *testing.T) {
	w := doJSON(t, newTestServer(&stubService{}), http.MethodPost, "/api/v1/screenshot", `{"notes":"login page"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "/api/v1/screenshots/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d/image") {
		t.Fatalf("body = %q, want image url", w.Body.String())
	}
}

func TestScreenshotImage(t *testing.T) {
	w := doJSON(t, newTestServer(&stubService{}), http.MethodGet, "/api/v1/screenshots/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d/image", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q, want image/png", ct)
	}
	if w.Body.String() != "png-bytes" {
		t.Fatalf("body = %q, want raw image bytes", w.Body.String())
	}
}

func TestScreenshot_NotFound(t *testing.T) {
	svc := &stubService{err: &shell.CodedError{Code: shell.CodeScreenshotNotFound, Message: "screenshot not found"}}
	w := doJSON(t, newTestServer(svc), http.MethodGet, "/api/v1/screenshots/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestEventsStream(t *testing.T) {
	broker := uistream.NewBroker()
	h := NewServer(&stubService{}, broker)
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q, want text/event-stream", ct)
	}
}
