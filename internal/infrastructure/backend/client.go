// Package backend is the HTTP transport to the storefront REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/example/delicias-storefront/internal/apperrors"
)

// Client sends requests relative to the API base URL, e.g.
// "http://localhost:8000/api". Cookies set by the backend are kept for
// later requests, as a browser would with credentials included.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client with a cookie jar. A zero timeout never times out.
func NewClient(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout, Jar: jar})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends body, when non-nil, JSON-encoded. Transport failures come back as
// *apperrors.NetworkError; the caller owns the response body otherwise.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &apperrors.NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.NetworkError{Op: op, Err: err}
	}
	return resp, nil
}

// GetJSON issues a GET and decodes a 2xx body into out. Any other status is
// a *apperrors.NetworkError carrying the status code.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	op := http.MethodGet + " " + path
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &apperrors.NetworkError{Op: op, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperrors.NetworkError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// DecodeBody reads the whole response body as JSON into out and closes it.
func DecodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return io.ErrUnexpectedEOF
	}
	return json.Unmarshal(data, out)
}
