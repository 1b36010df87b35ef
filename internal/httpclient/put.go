package httpclient

import "net/http"

// DoPUT sends a JSON PUT request, decoding the response into out when
// out is non-nil.
func (c *wrapper) DoPUT(urlStr string, in, out any) error {
	if err := c.do(http.MethodPut, urlStr, in, out); err != nil {
		return err
	}
	c.logger.Debug("PUT request complete", "url", urlStr)
	return nil
}
