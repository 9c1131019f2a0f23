package cdp

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/framelift/tabshell/internal/shell"
)

// Surface is one browser tab implementing shell.Surface. The tab owns its
// navigation history; the surface only issues commands and forwards
// lifecycle events.
type Surface struct {
	id      target.ID
	ctx     context.Context
	cancel  context.CancelFunc
	handler shell.SurfaceHandler
	detach  func()

	mu        sync.Mutex
	lastTitle string
}

func newSurface(tabCtx context.Context, cancel context.CancelFunc, userAgent string, handler shell.SurfaceHandler) (*Surface, error) {
	actions := []chromedp.Action{network.Enable(), page.Enable()}
	if userAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(userAgent))
	}
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, fmt.Errorf("failed to enable network/page domains: %w", err)
	}

	c := chromedp.FromContext(tabCtx)
	s := &Surface{
		id:      c.Target.TargetID,
		ctx:     tabCtx,
		cancel:  cancel,
		handler: handler,
	}
	chromedp.ListenTarget(tabCtx, s.onEvent)
	return s, nil
}

// TargetID exposes the browser target backing this surface.
func (s *Surface) TargetID() string { return string(s.id) }

// Navigate starts loading url without waiting for the load to finish; any
// in-flight load on this tab is superseded by the browser.
func (s *Surface) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, errText, _, err := page.Navigate(url).Do(ctx)
		if err != nil {
			return err
		}
		if errText != "" {
			return fmt.Errorf("navigate %s: %s", url, errText)
		}
		return nil
	}))
}

func (s *Surface) CanGoBack(ctx context.Context) bool {
	idx, entries, err := s.history(ctx)
	return err == nil && idx > 0 && len(entries) > 0
}

func (s *Surface) CanGoForward(ctx context.Context) bool {
	idx, entries, err := s.history(ctx)
	return err == nil && idx >= 0 && int(idx) < len(entries)-1
}

func (s *Surface) GoBack(ctx context.Context) error {
	return s.step(ctx, -1)
}

func (s *Surface) GoForward(ctx context.Context) error {
	return s.step(ctx, +1)
}

// step moves within the tab's navigation history; out-of-range moves are
// silent no-ops.
func (s *Surface) step(ctx context.Context, delta int) error {
	return s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		idx, entries, err := page.GetNavigationHistory().Do(ctx)
		if err != nil {
			return err
		}
		next := int(idx) + delta
		if next < 0 || next >= len(entries) {
			return nil
		}
		return page.NavigateToHistoryEntry(entries[next].ID).Do(ctx)
	}))
}

func (s *Surface) Reload(ctx context.Context) error {
	return s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return page.Reload().Do(ctx)
	}))
}

// Activate brings the tab to the front of the browser window.
func (s *Surface) Activate(ctx context.Context) error {
	return s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return page.BringToFront().Do(ctx)
	}))
}

func (s *Surface) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

// Close destroys the browser tab.
func (s *Surface) Close() error {
	if s.detach != nil {
		s.detach()
	}
	return chromedp.Cancel(s.ctx)
}

func (s *Surface) history(ctx context.Context) (int64, []*page.NavigationEntry, error) {
	var idx int64
	var entries []*page.NavigationEntry
	err := s.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		idx, entries, err = page.GetNavigationHistory().Do(ctx)
		return err
	}))
	return idx, entries, err
}

// run executes actions on the tab context, honoring the caller's deadline.
func (s *Surface) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(s.ctx, actions...)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// onEvent translates CDP events into surface lifecycle callbacks. Main-frame
// events are identified by the frame id matching the target id.
func (s *Surface) onEvent(ev interface{}) {
	switch e := ev.(type) {
	case *page.EventFrameStartedLoading:
		if s.isMainFrame(string(e.FrameID)) {
			s.handler.LoadStarted()
		}
	case *page.EventFrameStoppedLoading:
		if s.isMainFrame(string(e.FrameID)) {
			s.handler.LoadFinished()
		}
	case *page.EventFrameNavigated:
		if e.Frame != nil && e.Frame.ParentID == "" {
			s.handler.Navigated(e.Frame.URL)
		}
	case *page.EventNavigatedWithinDocument:
		if s.isMainFrame(string(e.FrameID)) {
			s.handler.Navigated(e.URL)
		}
	case *network.EventLoadingFailed:
		if e.Type == network.ResourceTypeDocument {
			s.handler.LoadFailed(e.ErrorText, e.Canceled)
		}
	}
}

func (s *Surface) isMainFrame(frameID string) bool {
	return frameID == string(s.id)
}

func (s *Surface) titleChanged(title string) {
	s.mu.Lock()
	if title == s.lastTitle {
		s.mu.Unlock()
		return
	}
	s.lastTitle = title
	s.mu.Unlock()
	s.handler.TitleChanged(title)
}
