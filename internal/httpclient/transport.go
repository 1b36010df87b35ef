package httpclient

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// TokenTransport implements http.RoundTripper and adds bearer-token
// authentication to outgoing requests.
type TokenTransport struct {
	Token     string
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewTokenTransport creates a new TokenTransport with the given token
// and optional underlying transport. If transport is nil,
// http.DefaultTransport will be used.
func NewTokenTransport(token string, transport http.RoundTripper, logger *slog.Logger) *TokenTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TokenTransport{
		Token:     token,
		Transport: transport,
		Logger:    logger,
	}
}

// RoundTrip implements the http.RoundTripper interface. It adds the
// bearer token to the request and delegates to the underlying transport.
func (t *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Log request details
	reqBody := ""
	if req.Body != nil {
		bodyBytes, err := io.ReadAll(req.Body)
		if err == nil {
			reqBody = string(bodyBytes)
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes)) // Reset the body
		}
	}

	t.Logger.Debug("outgoing request",
		"method", req.Method,
		"url", req.URL.String(),
		"body", reqBody)

	if t.Token == "" {
		return nil, errors.New("bearer token cannot be empty")
	}
	if t.Transport == nil {
		return nil, errors.New("transport cannot be nil")
	}
	req.Header.Set("Authorization", "Bearer "+t.Token)
	resp, err := t.Transport.RoundTrip(req)

	if err == nil && resp != nil {
		t.Logger.Debug("incoming response", "status", resp.Status)
	}

	return resp, err
}
