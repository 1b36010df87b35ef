// Package httpclient wraps http.Client with the JSON conventions of the
// planner backend API.
package httpclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Wrapper hides the HTTP plumbing behind verb helpers. Request and
// response bodies are JSON except for DoGETBytes, which hands back the
// raw payload for the feed and report endpoints.
type Wrapper interface {
	DoGET(url string, out any) error
	DoGETBytes(url string) (data []byte, contentType string, err error)
	DoPOST(url string, in, out any) error
	DoPUT(url string, in, out any) error
	DoDELETE(url string) error
}

type wrapper struct {
	client  *http.Client
	baseURL url.URL
	logger  *slog.Logger
}

// resolveURL resolves a URL string against the base URL
func (c *wrapper) resolveURL(urlStr string) (*url.URL, error) {
	ref, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %q: %w", urlStr, err)
	}
	return c.baseURL.ResolveReference(ref), nil
}

// NewWrapper creates a new client wrapper with logging
func NewWrapper(client *http.Client, baseURL url.URL, logger *slog.Logger) (Wrapper, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &wrapper{client: client, baseURL: baseURL, logger: logger}, nil
}

// StatusError reports a non-2xx response. Message carries the backend's
// error string when the body held one.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d (%s)", e.StatusCode, e.Message)
}
