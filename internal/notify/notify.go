// Package notify pushes plain-text notices to an ntfy-style HTTP endpoint.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// LoadFailure formats a page-load failure notice for a tab.
func LoadFailure(tabID int64, url, errorText string) string {
	return fmt.Sprintf("tabshell: load failed on tab %d (%s): %s", tabID, url, errorText)
}

// Send posts a message to the endpoint. A nil client uses
// http.DefaultClient.
func Send(ctx context.Context, client *http.Client, endpoint, message string) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(message))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification failed: status=%d", resp.StatusCode)
	}
	return nil
}
