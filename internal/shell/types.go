package shell

import "context"

// Tab is one browsing context. IDs are handed out sequentially for the
// lifetime of a Shell and never reused.
type Tab struct {
	ID    int64  `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// StatusLevel describes the load state of the active surface.
type StatusLevel string

const (
	StatusIdle    StatusLevel = "idle"
	StatusLoading StatusLevel = "loading"
	StatusReady   StatusLevel = "ready"
	StatusError   StatusLevel = "error"
)

// Status mirrors the active surface's load state for the status bar.
type Status struct {
	Level   StatusLevel `json:"level"`
	Message string      `json:"message,omitempty"`
}

// Surface is the host content primitive backing one tab. Implementations own
// their navigation history and in-flight load state; the shell only mirrors
// the subset needed for display.
type Surface interface {
	Navigate(ctx context.Context, url string) error
	CanGoBack(ctx context.Context) bool
	CanGoForward(ctx context.Context) bool
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
	Reload(ctx context.Context) error
	Activate(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// SurfaceHandler receives lifecycle callbacks from a surface. Handlers are
// invoked from whatever goroutine the host delivers events on.
type SurfaceHandler interface {
	LoadStarted()
	LoadFinished()
	// LoadFailed reports a terminal load failure. Superseded navigations are
	// delivered with canceled=true and must not be surfaced as errors.
	LoadFailed(errorText string, canceled bool)
	TitleChanged(title string)
	Navigated(url string)
}

// SurfaceFactory creates one surface per tab. Create may return an error when
// the surface host is unreachable; Resolve is called once during Init to
// verify the host exists at all.
type SurfaceFactory interface {
	Resolve(ctx context.Context) error
	Create(ctx context.Context, url string, handler SurfaceHandler) (Surface, error)
}

// Callbacks are optional observers invoked on shell state changes. Nil
// members are skipped.
type Callbacks struct {
	OnNavigate    func(tab Tab, url string)
	OnTitleChange func(tab Tab, title string)
	OnLoadStart   func(tab Tab)
	OnLoadEnd     func(tab Tab)
	OnError       func(tab Tab, err error)
}

// EventSink receives UI refresh events so connected shell pages can
// re-render. The zero sink drops everything.
type EventSink interface {
	Publish(kind string, payload string)
}

type nopSink struct{}

func (nopSink) Publish(string, string) {}
