package shell

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// Theme selects the visual style of the rendered shell chrome.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Options configure a Shell. Zero-value visibility toggles mean hidden;
// config.Load applies the documented defaults (all visible).
type Options struct {
	// Container names the surface host mount target (the CDP endpoint URL).
	// Used only for error reporting when the host cannot be resolved.
	Container string

	Theme          Theme
	ShowTabs       bool
	ShowNavigation bool
	ShowStatusBar  bool
	StartURL       string
	SearchURL      string

	Callbacks Callbacks
	Sink      EventSink
}

// Shell owns the ordered tab collection, the active-tab reference and the
// status mirror. All mutations are serialized by its mutex; surface lifecycle
// events arrive on host goroutines.
type Shell struct {
	factory SurfaceFactory
	opts    Options
	cb      Callbacks
	sink    EventSink

	mu          sync.Mutex
	initialized bool
	nextID      int64
	tabs        []*Tab
	surfaces    map[int64]Surface
	activeID    int64
	status      Status
}

func NewShell(factory SurfaceFactory, opts Options) *Shell {
	if opts.Theme != ThemeLight {
		opts.Theme = ThemeDark
	}
	if opts.SearchURL == "" {
		opts.SearchURL = DefaultSearchURL
	}
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}
	return &Shell{
		factory:  factory,
		opts:     opts,
		cb:       opts.Callbacks,
		sink:     sink,
		surfaces: make(map[int64]Surface),
		status:   Status{Level: StatusIdle},
	}
}

// Init resolves the surface host, installs shared styles and opens the
// initial tab seeded with the configured start URL. Subsequent calls are
// no-ops. A host that cannot be resolved is the only fatal fault, reported
// as *ContainerNotFoundError.
func (s *Shell) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return nil
	}
	s.initialized = true
	s.mu.Unlock()

	if err := s.factory.Resolve(ctx); err != nil {
		s.mu.Lock()
		s.initialized = false
		s.mu.Unlock()
		return &ContainerNotFoundError{Target: s.opts.Container, Cause: err}
	}

	InstallStyles(StyleKey)

	if _, err := s.NewTab(ctx, s.opts.StartURL); err != nil {
		return err
	}
	return nil
}

// NewTab appends a tab, creates its surface and makes it active. The url may
// be empty, producing an empty "New Tab". Returns the new tab's id.
func (s *Shell) NewTab(ctx context.Context, url string) (int64, error) {
	// The tab record is registered before the surface exists so lifecycle
	// events fired during creation (the seeded navigation) find their tab.
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.tabs = append(s.tabs, &Tab{ID: id, URL: url, Title: "New Tab"})
	prevActive := s.activeID
	s.activeID = id
	s.mu.Unlock()

	surface, err := s.factory.Create(ctx, url, &surfaceHandler{shell: s, tabID: id})
	if err != nil {
		s.mu.Lock()
		if idx := s.indexLocked(id); idx >= 0 {
			s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)
		}
		if s.activeID == id {
			s.activeID = prevActive
		}
		s.mu.Unlock()
		return 0, &CodedError{Code: CodeSurfaceFailure, Message: "create content surface", Cause: err}
	}

	s.mu.Lock()
	s.surfaces[id] = surface
	current := url
	if tab := s.tabLocked(id); tab != nil {
		current = tab.URL
	}
	s.mu.Unlock()

	_ = surface.Activate(ctx)
	s.publishTabs()
	s.publishNavigate(current)
	return id, nil
}

// CloseTab removes the tab and destroys its surface. Closing the active tab
// activates the tab now occupying the same position, or the last tab when the
// closed one was last. Unknown ids are silent no-ops.
func (s *Shell) CloseTab(ctx context.Context, id int64) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	surface := s.surfaces[id]
	delete(s.surfaces, id)
	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)

	var next Surface
	var nextURL string
	activeClosed := s.activeID == id
	if activeClosed {
		if len(s.tabs) == 0 {
			s.activeID = 0
			s.status = Status{Level: StatusIdle}
		} else {
			if idx > len(s.tabs)-1 {
				idx = len(s.tabs) - 1
			}
			s.activeID = s.tabs[idx].ID
			next = s.surfaces[s.activeID]
			nextURL = s.tabs[idx].URL
		}
	}
	s.mu.Unlock()

	if surface != nil {
		_ = surface.Close()
	}
	if next != nil {
		_ = next.Activate(ctx)
	}
	s.publishTabs()
	s.publishStatus()
	// The successor's URL drives the address bar; an empty collection resets
	// it to the empty display.
	if activeClosed {
		s.publishNavigate(nextURL)
	}
}

// SwitchTab makes the tab with the given id active. Unknown ids are rejected
// outright, leaving the previous active tab untouched.
func (s *Shell) SwitchTab(ctx context.Context, id int64) {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return
	}
	s.activeID = id
	surface := s.surfaces[id]
	url := s.tabLocked(id).URL
	s.mu.Unlock()

	if surface != nil {
		_ = surface.Activate(ctx)
	}
	s.publishTabs()
	s.publishNavigate(url)
}

// Navigate classifies free-text input and routes the resolved URL to the
// active surface, opening a new tab when none is active. Empty input is a
// no-op.
func (s *Shell) Navigate(ctx context.Context, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	resolved := ResolveInput(raw, s.opts.SearchURL)

	s.mu.Lock()
	tab := s.tabLocked(s.activeID)
	if tab == nil {
		s.mu.Unlock()
		_, err := s.NewTab(ctx, resolved)
		return err
	}
	tab.URL = resolved
	surface := s.surfaces[tab.ID]
	s.mu.Unlock()

	s.publishTabs()
	if surface != nil {
		if err := surface.Navigate(ctx, resolved); err != nil {
			return &CodedError{Code: CodeSurfaceFailure, Message: "navigate", Cause: err}
		}
	}
	return nil
}

// GoBack delegates to the active surface; a surface with no back history is a
// silent no-op.
func (s *Shell) GoBack(ctx context.Context) error {
	surface := s.activeSurface()
	if surface == nil || !surface.CanGoBack(ctx) {
		return nil
	}
	return surface.GoBack(ctx)
}

// GoForward delegates to the active surface; no forward history is a silent
// no-op.
func (s *Shell) GoForward(ctx context.Context) error {
	surface := s.activeSurface()
	if surface == nil || !surface.CanGoForward(ctx) {
		return nil
	}
	return surface.GoForward(ctx)
}

// Reload reloads the active surface when one exists.
func (s *Shell) Reload(ctx context.Context) error {
	surface := s.activeSurface()
	if surface == nil {
		return nil
	}
	return surface.Reload(ctx)
}

// CurrentURL returns the active tab's url, or empty when no tab is active.
func (s *Shell) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tab := s.tabLocked(s.activeID); tab != nil {
		return tab.URL
	}
	return ""
}

// Tabs returns a snapshot of the tab collection.
func (s *Shell) Tabs() []Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Tab, len(s.tabs))
	for i, t := range s.tabs {
		out[i] = *t
	}
	return out
}

// ActiveTabID returns the active tab's id, or 0 when none is active.
func (s *Shell) ActiveTabID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Status returns the mirrored load state of the active surface.
func (s *Shell) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ScreenshotActive captures the active surface.
func (s *Shell) ScreenshotActive(ctx context.Context) ([]byte, error) {
	surface := s.activeSurface()
	if surface == nil {
		return nil, &CodedError{Code: CodeTabNotFound, Message: "no active tab"}
	}
	return surface.Screenshot(ctx)
}

// Close destroys all surfaces. The shell is unusable afterwards.
func (s *Shell) Close() {
	s.mu.Lock()
	surfaces := s.surfaces
	s.surfaces = make(map[int64]Surface)
	s.tabs = nil
	s.activeID = 0
	s.mu.Unlock()

	for _, surface := range surfaces {
		_ = surface.Close()
	}
}

func (s *Shell) indexLocked(id int64) int {
	for i, t := range s.tabs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Shell) tabLocked(id int64) *Tab {
	if i := s.indexLocked(id); i >= 0 {
		return s.tabs[i]
	}
	return nil
}

func (s *Shell) activeSurface() Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surfaces[s.activeID]
}

func (s *Shell) publishTabs() {
	s.mu.Lock()
	strip := renderTabStrip(s.tabs, s.activeID)
	s.mu.Unlock()
	s.sink.Publish("tabs", strip)
}

func (s *Shell) publishStatus() {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()
	if data, err := json.Marshal(status); err == nil {
		s.sink.Publish("status", string(data))
	}
}

func (s *Shell) publishNavigate(url string) {
	s.sink.Publish("navigate", url)
}
