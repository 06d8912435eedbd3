package models

import "net/http"

// Response is the outcome of one probe request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// IsSuccess reports whether the response is a 2xx or 3xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// IsDirectlySuccess reports whether the response is a 2xx, with no
// redirect in between.
func (r *Response) IsDirectlySuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsServerError reports whether the target answered with a 5xx.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

// ContentType returns the media type of the response, without
// parameters.
func (r *Response) ContentType() string {
	ct := r.Header.Get("Content-Type")
	for i := 0; i < len(ct); i++ {
		if ct[i] == ';' {
			return ct[:i]
		}
	}
	return ct
}
