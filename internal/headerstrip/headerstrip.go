// Package headerstrip removes framing and content-security response headers
// so embedded pages cannot refuse to load. It intercepts responses at the
// Fetch domain of each browser target and continues every paused response
// with the filtered header set.
package headerstrip

import (
	"net/http"

	"github.com/chromedp/cdproto/fetch"
)

// StrippedHeaders are removed from every intercepted response, by exact
// case-sensitive match. Both common casings of each name are covered; all
// other headers pass through unmodified.
var StrippedHeaders = []string{
	"x-frame-options",
	"X-Frame-Options",
	"content-security-policy",
	"Content-Security-Policy",
	"content-security-policy-report-only",
	"Content-Security-Policy-Report-Only",
}

var stripped = func() map[string]bool {
	m := make(map[string]bool, len(StrippedHeaders))
	for _, name := range StrippedHeaders {
		m[name] = true
	}
	return m
}()

// Strip deletes the stripped header names from h in place. Matching is
// exact on the stored key, deliberately bypassing canonicalization.
func Strip(h http.Header) {
	for _, name := range StrippedHeaders {
		delete(h, name)
	}
}

// Filter returns entries with the stripped header names removed.
func Filter(entries []*fetch.HeaderEntry) []*fetch.HeaderEntry {
	out := make([]*fetch.HeaderEntry, 0, len(entries))
	for _, e := range entries {
		if stripped[e.Name] {
			continue
		}
		out = append(out, e)
	}
	return out
}
