package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// httpClient wraps http.Client with timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{client: &http.Client{Timeout: timeout}}
}

// get performs a GET request and returns status and body.
func (c *httpClient) get(ctx context.Context, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// fetchWord calls GET /daily-word once.
func (c *httpClient) fetchWord(ctx context.Context, baseURL, testDate string) (Word, error) {
	target := baseURL + "/daily-word"
	if testDate != "" {
		target += "?testdate=" + url.QueryEscape(testDate)
	}

	status, body, err := c.get(ctx, target)
	if err != nil {
		return Word{}, err
	}
	if status != http.StatusOK {
		return Word{}, fmt.Errorf("daily word returned status %d", status)
	}

	var w Word
	if err := json.Unmarshal(body, &w); err != nil {
		return Word{}, fmt.Errorf("decode daily word: %w", err)
	}
	return w, nil
}
