package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned for responses with a client or server error code.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// readResponseBody reads the whole body, refusing responses with an error status.
func readResponseBody(r *http.Response, url string) ([]byte, error) {
	defer r.Body.Close()
	if r.StatusCode >= 400 {
		return nil, &StatusError{URL: url, Status: r.Status, Code: r.StatusCode}
	}
	return io.ReadAll(r.Body)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error during GET request to %s: %w", url, err)
	}
	return readResponseBody(res, url)
}

func jsonGet[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var data T

	url := c.baseURL + endpoint
	body, err := c.get(ctx, url)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return data, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return data, nil
}
