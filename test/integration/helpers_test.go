//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/framelift/tabshell/internal/api"
	"github.com/framelift/tabshell/internal/controller"
	"github.com/framelift/tabshell/internal/shell"
	"github.com/framelift/tabshell/internal/snapshot"
	"github.com/framelift/tabshell/internal/uistream"
)

// Env wires the full API stack over an in-memory surface host so the HTTP
// contract can be exercised without a running browser.
type Env struct {
	Server  *httptest.Server
	Shell   *shell.Shell
	Factory *memFactory
	Broker  *uistream.Broker
}

type memSurface struct {
	url       string
	history   []string
	pos       int
	activated int
	closed    bool
}

func (m *memSurface) Navigate(_ context.Context, url string) error {
	m.history = m.history[:m.pos+1]
	m.history = append(m.history, url)
	m.pos = len(m.history) - 1
	m.url = url
	return nil
}
func (m *memSurface) CanGoBack(context.Context) bool    { return m.pos > 0 }
func (m *memSurface) CanGoForward(context.Context) bool { return m.pos < len(m.history)-1 }
func (m *memSurface) GoBack(context.Context) error {
	if m.pos > 0 {
		m.pos--
		m.url = m.history[m.pos]
	}
	return nil
}
func (m *memSurface) GoForward(context.Context) error {
	if m.pos < len(m.history)-1 {
		m.pos++
		m.url = m.history[m.pos]
	}
	return nil
}
func (m *memSurface) Reload(context.Context) error   { return nil }
func (m *memSurface) Activate(context.Context) error { m.activated++; return nil }
func (m *memSurface) Screenshot(context.Context) ([]byte, error) {
	return []byte("fake-png"), nil
}
func (m *memSurface) Close() error { m.closed = true; return nil }

type memFactory struct {
	surfaces []*memSurface
}

func (f *memFactory) Resolve(context.Context) error { return nil }

func (f *memFactory) Create(_ context.Context, url string, _ shell.SurfaceHandler) (shell.Surface, error) {
	s := &memSurface{history: []string{""}}
	if url != "" {
		_ = s.Navigate(context.Background(), url)
	}
	f.surfaces = append(f.surfaces, s)
	return s, nil
}

func newEnv(t *testing.T) *Env {
	t.Helper()

	factory := &memFactory{}
	broker := uistream.NewBroker()
	sh := shell.NewShell(factory, shell.Options{
		Theme:          shell.ThemeDark,
		ShowTabs:       true,
		ShowNavigation: true,
		ShowStatusBar:  true,
		Sink:           broker,
	})
	if err := sh.Init(context.Background()); err != nil {
		t.Fatalf("Init() = %v; want nil", err)
	}

	snaps, err := snapshot.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() = %v; want nil", err)
	}

	srv := httptest.NewServer(api.NewServer(controller.NewService(sh, snaps), broker))
	t.Cleanup(srv.Close)
	t.Cleanup(sh.Close)

	return &Env{Server: srv, Shell: sh, Factory: factory, Broker: broker}
}

func (e *Env) GET(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.Server.Client().Get(e.Server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (e *Env) POST(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := e.Server.Client().Post(e.Server.URL+path, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (e *Env) DELETE(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, e.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	resp, err := e.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

func requireStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d; want %d: %s", resp.StatusCode, want, body)
	}
}

func decodeBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return string(body)
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}
