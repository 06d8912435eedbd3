package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

type HTTPMethod string

const (
	MethodGET  HTTPMethod = "GET"
	MethodPOST HTTPMethod = "POST"
)

// ParamLocation indicates where a parameter travels in the request.
type ParamLocation string

const (
	LocationQuery ParamLocation = "query"
	LocationBody  ParamLocation = "body"
)

// Param is a single request parameter. Order matters: parameters are
// re-encoded in the order they were parsed.
type Param struct {
	Name     string        `json:"name"`
	Value    string        `json:"value"`
	Location ParamLocation `json:"location"`
}

// Request is a crawled target request. It is immutable once handed to
// the transport; probe requests are derived copies built with
// WithParamValue.
type Request struct {
	ID     string     `json:"id"`
	Method HTTPMethod `json:"method"`
	URL    string     `json:"url"` // scheme://host/path, no query string
	Params []Param    `json:"params"`
}

// NewRequest parses a raw URL (and optional form-encoded body) into a
// Request. Query parameters keep their document order.
func NewRequest(method HTTPMethod, rawURL, body string) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}

	req := &Request{
		ID:     uuid.NewString(),
		Method: method,
	}

	req.Params = append(req.Params, parsePairs(u.RawQuery, LocationQuery)...)
	if body != "" {
		req.Params = append(req.Params, parsePairs(body, LocationBody)...)
	}

	u.RawQuery = ""
	u.Fragment = ""
	req.URL = u.String()
	return req, nil
}

func parsePairs(encoded string, loc ParamLocation) []Param {
	var params []Param
	for _, pair := range strings.Split(encoded, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		if n, err := url.QueryUnescape(name); err == nil {
			name = n
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		params = append(params, Param{Name: name, Value: value, Location: loc})
	}
	return params
}

// WithParamValue returns a deep copy of the request with the value of
// one parameter replaced. The receiver is left untouched.
func (r *Request) WithParamValue(name, value string) *Request {
	clone := &Request{
		ID:     r.ID,
		Method: r.Method,
		URL:    r.URL,
		Params: make([]Param, len(r.Params)),
	}
	copy(clone.Params, r.Params)
	for i := range clone.Params {
		if clone.Params[i].Name == name {
			clone.Params[i].Value = value
		}
	}
	return clone
}

// EncodedQuery returns the form-encoded query string, preserving
// parameter order.
func (r *Request) EncodedQuery() string {
	return encodePairs(r.Params, LocationQuery)
}

// EncodedBody returns the form-encoded body, preserving parameter order.
func (r *Request) EncodedBody() string {
	return encodePairs(r.Params, LocationBody)
}

func encodePairs(params []Param, loc ParamLocation) string {
	var sb strings.Builder
	for _, p := range params {
		if p.Location != loc {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// FullURL returns the request URL with its query string attached.
func (r *Request) FullURL() string {
	qs := r.EncodedQuery()
	if qs == "" {
		return r.URL
	}
	return r.URL + "?" + qs
}

// ParamNames lists parameter names for one location, in order and
// without duplicates.
func (r *Request) ParamNames(loc ParamLocation) []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range r.Params {
		if p.Location != loc || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	return names
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s", r.Method, r.FullURL())
}
