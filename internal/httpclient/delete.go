package httpclient

import "net/http"

// DoDELETE sends a DELETE request and checks the status code.
func (c *wrapper) DoDELETE(urlStr string) error {
	if err := c.do(http.MethodDelete, urlStr, nil, nil); err != nil {
		return err
	}
	c.logger.Debug("DELETE request complete", "url", urlStr)
	return nil
}
