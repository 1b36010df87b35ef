package httpclient

import "net/http"

// DoPOST sends a JSON POST request, decoding the response into out when
// out is non-nil.
func (c *wrapper) DoPOST(urlStr string, in, out any) error {
	if err := c.do(http.MethodPost, urlStr, in, out); err != nil {
		return err
	}
	c.logger.Debug("POST request complete", "url", urlStr)
	return nil
}
