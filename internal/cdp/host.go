// Package cdp binds shell content surfaces to real browser tabs over the
// Chrome DevTools Protocol.
package cdp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/framelift/tabshell/internal/headerstrip"
	"github.com/framelift/tabshell/internal/shell"
)

// Host manages the browser connection and creates one surface per tab. It
// implements shell.SurfaceFactory.
type Host struct {
	cdpURL       string
	userAgent    string
	stripHeaders bool

	mu          sync.RWMutex
	connected   bool
	allocCtx    context.Context
	allocCancel context.CancelFunc
	rootCtx     context.Context
	rootCancel  context.CancelFunc
	surfaces    map[target.ID]*Surface
}

func NewHost(cdpURL, userAgent string, stripHeaders bool) *Host {
	return &Host{
		cdpURL:       cdpURL,
		userAgent:    userAgent,
		stripHeaders: stripHeaders,
		surfaces:     make(map[target.ID]*Surface),
	}
}

// Resolve connects to the browser on first call; later calls are no-ops.
// Shell.Init reports a failure here as its container-not-found fault.
func (h *Host) Resolve(ctx context.Context) error {
	return h.Connect(ctx)
}

// Connect establishes the CDP connection and starts routing browser-level
// events (title changes) to surfaces.
func (h *Host) Connect(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connected {
		return nil
	}

	slog.Info("connecting to browser", "url", h.cdpURL)
	h.allocCtx, h.allocCancel = chromedp.NewRemoteAllocator(context.Background(), h.cdpURL)
	h.rootCtx, h.rootCancel = chromedp.NewContext(h.allocCtx)

	if err := chromedp.Run(h.rootCtx); err != nil {
		h.allocCancel()
		h.allocCtx, h.rootCtx = nil, nil
		return fmt.Errorf("failed to connect to browser: %w", err)
	}

	chromedp.ListenBrowser(h.rootCtx, h.onBrowserEvent)
	h.connected = true
	slog.Info("browser connected", "url", h.cdpURL)
	return nil
}

// ShowChrome points the browser's anchor tab at the shell chrome page.
func (h *Host) ShowChrome(ctx context.Context, url string) error {
	h.mu.RLock()
	rootCtx := h.rootCtx
	h.mu.RUnlock()
	if rootCtx == nil {
		return fmt.Errorf("not connected")
	}
	return chromedp.Run(rootCtx, chromedp.Navigate(url))
}

// Create opens a new browser tab and wires its lifecycle events to handler.
func (h *Host) Create(ctx context.Context, url string, handler shell.SurfaceHandler) (shell.Surface, error) {
	h.mu.RLock()
	allocCtx := h.allocCtx
	h.mu.RUnlock()
	if allocCtx == nil {
		return nil, fmt.Errorf("not connected")
	}

	tabCtx, cancel := chromedp.NewContext(allocCtx)
	s, err := newSurface(tabCtx, cancel, h.userAgent, handler)
	if err != nil {
		cancel()
		return nil, err
	}
	s.detach = func() { h.remove(s.id) }

	if h.stripHeaders {
		if err := headerstrip.Enable(tabCtx); err != nil {
			slog.Warn("header stripping unavailable for tab", "target_id", s.id, "error", err)
		}
	}

	h.mu.Lock()
	h.surfaces[s.id] = s
	h.mu.Unlock()

	if url != "" {
		if err := s.Navigate(ctx, url); err != nil {
			slog.Warn("initial navigation failed", "target_id", s.id, "url", url, "error", err)
		}
	}

	slog.Info("surface created", "target_id", s.id, "url", url)
	return s, nil
}

// SurfaceCount reports how many surfaces are attached.
func (h *Host) SurfaceCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.surfaces)
}

// Close tears down every surface and the browser connection.
func (h *Host) Close() error {
	h.mu.Lock()
	surfaces := h.surfaces
	h.surfaces = make(map[target.ID]*Surface)
	rootCancel, allocCancel := h.rootCancel, h.allocCancel
	h.rootCancel, h.allocCancel = nil, nil
	h.connected = false
	h.mu.Unlock()

	for _, s := range surfaces {
		s.detach = nil
		_ = s.Close()
		headerstrip.Forget(string(s.id))
	}
	if rootCancel != nil {
		rootCancel()
	}
	if allocCancel != nil {
		allocCancel()
	}
	slog.Info("browser connection closed")
	return nil
}

func (h *Host) remove(id target.ID) {
	h.mu.Lock()
	delete(h.surfaces, id)
	h.mu.Unlock()
	headerstrip.Forget(string(id))
}

// onBrowserEvent routes browser-scoped target events to their surfaces.
func (h *Host) onBrowserEvent(ev interface{}) {
	info, ok := ev.(*target.EventTargetInfoChanged)
	if !ok || info.TargetInfo == nil || info.TargetInfo.Type != "page" {
		return
	}
	h.mu.RLock()
	s := h.surfaces[info.TargetInfo.TargetID]
	h.mu.RUnlock()
	if s != nil {
		s.titleChanged(info.TargetInfo.Title)
	}
}
