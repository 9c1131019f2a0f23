//go:build integration

package integration

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
)

type tabListing struct {
	Tabs []struct {
		ID    int64  `json:"id"`
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"tabs"`
	ActiveTabID int64 `json:"active_tab_id"`
}

func TestInitialTabPresent(t *testing.T) {
	env := newEnv(t)

	resp := env.GET(t, "/api/v1/tabs")
	requireStatus(t, resp, http.StatusOK)
	listing := decodeJSON[tabListing](t, resp)

	if len(listing.Tabs) != 1 {
		t.Fatalf("tabs = %d; want 1", len(listing.Tabs))
	}
	if listing.Tabs[0].Title != "New Tab" {
		t.Fatalf("title = %q; want %q", listing.Tabs[0].Title, "New Tab")
	}
	if listing.ActiveTabID != listing.Tabs[0].ID {
		t.Fatalf("active = %d; want %d", listing.ActiveTabID, listing.Tabs[0].ID)
	}
}

func TestOpenActivateCloseFlow(t *testing.T) {
	env := newEnv(t)

	resp := env.POST(t, "/api/v1/tabs", `{"url":"https://example.com"}`)
	requireStatus(t, resp, http.StatusOK)
	opened := decodeJSON[struct {
		TabID int64 `json:"tab_id"`
	}](t, resp)

	resp = env.GET(t, "/api/v1/tabs")
	listing := decodeJSON[tabListing](t, resp)
	if len(listing.Tabs) != 2 {
		t.Fatalf("tabs = %d; want 2", len(listing.Tabs))
	}
	if listing.ActiveTabID != opened.TabID {
		t.Fatalf("active = %d; want newly opened %d", listing.ActiveTabID, opened.TabID)
	}

	first := listing.Tabs[0].ID
	resp = env.POST(t, "/api/v1/tabs/"+itoa(first)+"/activate", "")
	requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.DELETE(t, "/api/v1/tabs/"+itoa(opened.TabID))
	requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.GET(t, "/api/v1/tabs")
	listing = decodeJSON[tabListing](t, resp)
	if len(listing.Tabs) != 1 {
		t.Fatalf("tabs = %d; want 1", len(listing.Tabs))
	}
	if listing.ActiveTabID != first {
		t.Fatalf("active = %d; want %d", listing.ActiveTabID, first)
	}
}

func TestActivateUnknownTabIs404(t *testing.T) {
	env := newEnv(t)

	resp := env.POST(t, "/api/v1/tabs/9999/activate", "")
	requireStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestNavigateAndHistoryFlow(t *testing.T) {
	env := newEnv(t)

	resp := env.POST(t, "/api/v1/navigate", `{"input":"example.com"}`)
	requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.GET(t, "/api/v1/url")
	current := decodeJSON[struct {
		URL string `json:"url"`
	}](t, resp)
	if current.URL != "https://example.com" {
		t.Fatalf("url = %q; want %q", current.URL, "https://example.com")
	}

	resp = env.POST(t, "/api/v1/navigate", `{"input":"https://example.org/page"}`)
	requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.POST(t, "/api/v1/history/back", "")
	requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	surface := env.Factory.surfaces[0]
	if surface.url != "https://example.com" {
		t.Fatalf("surface url after back = %q; want %q", surface.url, "https://example.com")
	}

	resp = env.POST(t, "/api/v1/history/forward", "")
	requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	if surface.url != "https://example.org/page" {
		t.Fatalf("surface url after forward = %q; want %q", surface.url, "https://example.org/page")
	}
}

func TestSearchQueryRouting(t *testing.T) {
	env := newEnv(t)

	resp := env.POST(t, "/api/v1/navigate", `{"input":"tabbed browser shells"}`)
	requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.GET(t, "/api/v1/url")
	current := decodeJSON[struct {
		URL string `json:"url"`
	}](t, resp)
	if !strings.Contains(current.URL, "duckduckgo.com") {
		t.Fatalf("url = %q; want search engine url", current.URL)
	}
	if !strings.Contains(current.URL, "tabbed%20browser%20shells") {
		t.Fatalf("url = %q; want percent-encoded query", current.URL)
	}
}

func TestScreenshotFlow(t *testing.T) {
	env := newEnv(t)

	resp := env.POST(t, "/api/v1/screenshot", `{"notes":"smoke"}`)
	requireStatus(t, resp, http.StatusOK)
	taken := decodeJSON[struct {
		Screenshot struct {
			ID    string `json:"id"`
			Notes string `json:"notes"`
		} `json:"screenshot"`
		URL string `json:"url"`
	}](t, resp)
	if taken.Screenshot.Notes != "smoke" {
		t.Fatalf("notes = %q; want %q", taken.Screenshot.Notes, "smoke")
	}

	resp = env.GET(t, taken.URL)
	requireStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q; want image/png", ct)
	}
	resp.Body.Close()

	resp = env.DELETE(t, "/api/v1/screenshots/"+taken.Screenshot.ID)
	requireStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = env.GET(t, "/api/v1/screenshots/"+taken.Screenshot.ID)
	requireStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()
}

func TestShellChromePage(t *testing.T) {
	env := newEnv(t)

	resp := env.GET(t, "/")
	requireStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if !strings.Contains(body, `id="tabs"`) {
		t.Fatalf("chrome page missing tab strip")
	}
	if !strings.Contains(body, "New Tab") {
		t.Fatalf("chrome page missing initial tab")
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
