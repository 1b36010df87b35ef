package httpclient

import (
	"fmt"
	"io"
	"net/http"
)

// DoGET sends a GET request and decodes the JSON response into out.
func (c *wrapper) DoGET(urlStr string, out any) error {
	if err := c.do(http.MethodGet, urlStr, nil, out); err != nil {
		return err
	}
	c.logger.Debug("GET request complete", "url", urlStr)
	return nil
}

// DoGETBytes sends a GET request and returns the raw body. The feed and
// report endpoints answer with iCalendar and XML rather than JSON.
func (c *wrapper) DoGETBytes(urlStr string) ([]byte, string, error) {
	c.logger.Debug("starting GET request", "url", urlStr)

	resolvedURL, err := c.resolveURL(urlStr)
	if err != nil {
		c.logger.Debug("failed to resolve URL", "url", urlStr, "error", err)
		return nil, "", fmt.Errorf("failed to resolve URL %q: %w", urlStr, err)
	}

	resp, err := c.client.Get(resolvedURL.String())
	if err != nil {
		c.logger.Debug("request failed", "error", err)
		return nil, "", fmt.Errorf("failed to send GET request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("received response", "status", resp.Status)

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("unexpected status code",
			"status_code", resp.StatusCode,
			"status", resp.Status)
		return nil, "", &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("GET request complete", "url", urlStr, "bytes", len(data))
	return data, resp.Header.Get("Content-Type"), nil
}
