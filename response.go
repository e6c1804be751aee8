package scrape

import (
	"io"
	"net/http"
)

// ReadResponse reads and closes the body of resp. A non-2xx status is
// reported as an *HTTPError carrying the body text.
func ReadResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var url string
		if resp.Request != nil && resp.Request.URL != nil {
			url = resp.Request.URL.String()
		}
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
