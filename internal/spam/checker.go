package spam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"modctl/internal/model"
)

// Checker scores a comment for spam. The verdict contract is 0 (ham),
// 1 (maybe spam) or 2 (blatant spam); anything else breaks the caller.
type Checker interface {
	Score(ctx context.Context, comment *model.Comment, meta map[string]string) (int, error)
}

// HTTPChecker talks to an Akismet-style comment-check endpoint. The response
// body is "true" or "false"; blatant spam additionally carries the
// X-Akismet-Pro-Tip: discard header.
type HTTPChecker struct {
	endpoint string
	client   *http.Client
}

func NewHTTPChecker(endpoint string) *HTTPChecker {
	return &HTTPChecker{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPChecker) Score(ctx context.Context, comment *model.Comment, meta map[string]string) (int, error) {
	form := url.Values{}
	form.Set("blog", meta["permalink"])
	form.Set("comment_type", "comment")
	form.Set("comment_author", comment.Author)
	form.Set("comment_author_email", comment.Email)
	form.Set("comment_content", comment.Text)
	form.Set("user_agent", meta["user_agent"])
	form.Set("referrer", meta["referrer"])
	form.Set("permalink", meta["permalink"])

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("spam check request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("spam check response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("spam check returned status %d", resp.StatusCode)
	}

	answer := strings.TrimSpace(string(body))
	if answer == "invalid" {
		return 0, fmt.Errorf("spam check rejected the request: %s", resp.Header.Get("X-Akismet-Debug-Help"))
	}
	if resp.Header.Get("X-Akismet-Pro-Tip") == "discard" {
		return 2, nil
	}
	if answer == "true" {
		return 1, nil
	}
	return 0, nil
}
