package shell

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultSearchURL is the query template used when address-bar input does not
// look like an address. The raw input is percent-encoded and appended.
const DefaultSearchURL = "https://duckduckgo.com/?q="

var (
	domainRe   = regexp.MustCompile(`(?i)^(https?://)?([a-z0-9-]+\.)+[a-z]{2,}(:\d+)?(/\S*)?$`)
	loopbackRe = regexp.MustCompile(`(?i)^(https?://)?(localhost|127\.0\.0\.1)(:\d+)?(/\S*)?$`)
)

// ResolveInput classifies free-text address-bar input. Input that matches a
// domain-with-TLD or localhost/loopback pattern is treated as a direct
// address and gets an https:// scheme when none is present. Anything else is
// rewritten into a search query against searchURL (falling back to
// DefaultSearchURL when empty).
func ResolveInput(raw, searchURL string) string {
	input := strings.TrimSpace(raw)
	if input == "" {
		return ""
	}

	if domainRe.MatchString(input) || loopbackRe.MatchString(input) {
		lower := strings.ToLower(input)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return "https://" + input
		}
		return input
	}

	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	return searchURL + encodeQuery(input)
}

// encodeQuery percent-encodes a search query, using %20 for spaces.
func encodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}
