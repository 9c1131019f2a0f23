package headerstrip

import (
	"context"
	"log/slog"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/chromedp"
)

var interceptRegistry = struct {
	mu   sync.Mutex
	seen map[string]bool
}{seen: make(map[string]bool)}

// Enable registers response-stage interception on a chromedp tab context.
// Every paused response is continued with the stripped header set; responses
// are never dropped or stalled. Calling Enable twice for the same target is
// a no-op after the first registration.
func Enable(ctx context.Context) error {
	pattern := []*fetch.RequestPattern{{URLPattern: "*", RequestStage: fetch.RequestStageResponse}}
	if err := chromedp.Run(ctx, fetch.Enable().WithPatterns(pattern)); err != nil {
		return err
	}

	c := chromedp.FromContext(ctx)
	if c == nil || c.Target == nil {
		return nil
	}
	targetID := string(c.Target.TargetID)

	interceptRegistry.mu.Lock()
	already := interceptRegistry.seen[targetID]
	interceptRegistry.seen[targetID] = true
	interceptRegistry.mu.Unlock()
	if already {
		return nil
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		pause, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		// Continuation is a CDP command; it must not run on the event
		// dispatch goroutine.
		go continuePaused(ctx, pause)
	})

	slog.Debug("header stripping enabled", "target_id", targetID)
	return nil
}

// Forget drops the registration guard for a closed target so the registry
// does not grow over the shell's lifetime.
func Forget(targetID string) {
	interceptRegistry.mu.Lock()
	delete(interceptRegistry.seen, targetID)
	interceptRegistry.mu.Unlock()
}

func continuePaused(ctx context.Context, ev *fetch.EventRequestPaused) {
	c := chromedp.FromContext(ctx)
	if c == nil || c.Target == nil {
		return
	}
	ectx := cdp.WithExecutor(ctx, c.Target)

	// Request-stage and failed pauses carry no response headers; let them
	// proceed untouched.
	if ev.ResponseErrorReason != "" || ev.ResponseStatusCode == 0 {
		if err := fetch.ContinueRequest(ev.RequestID).Do(ectx); err != nil {
			slog.Debug("continue request failed", "request_id", ev.RequestID, "error", err)
		}
		return
	}

	err := fetch.ContinueResponse(ev.RequestID).
		WithResponseCode(ev.ResponseStatusCode).
		WithResponseHeaders(Filter(ev.ResponseHeaders)).
		Do(ectx)
	if err != nil {
		slog.Debug("continue response failed", "request_id", ev.RequestID, "url", ev.Request.URL, "error", err)
	}
}
