package pipeline

import (
	"net/http"
	"net/url"
)

// Descriptor fully describes one API call. The pipeline never modifies it;
// headers and query are copied before the request is built.
type Descriptor struct {
	Method  string
	Path    string      // Relative to the configured base URL, e.g. "/v1/auth/me"
	Query   url.Values  // Optional
	Body    any         // JSON encoded; []byte and json.RawMessage are sent as is
	Headers http.Header // Optional. A caller supplied Authorization wins over the session token.

	// Public marks endpoints that work without a session (login, register,
	// refresh). A 401 from them means bad credentials, not an expired session.
	Public bool

	// Origin is the navigation path to come back to after re-login. Empty means
	// the navigator's current path.
	Origin string
}

func Get(path string, query url.Values) Descriptor {
	return Descriptor{Method: http.MethodGet, Path: path, Query: query}
}

func Post(path string, body any) Descriptor {
	return Descriptor{Method: http.MethodPost, Path: path, Body: body}
}

func Put(path string, body any) Descriptor {
	return Descriptor{Method: http.MethodPut, Path: path, Body: body}
}

func Delete(path string) Descriptor {
	return Descriptor{Method: http.MethodDelete, Path: path}
}

// AsPublic returns a copy of d marked Public.
func (d Descriptor) AsPublic() Descriptor {
	d.Public = true
	return d
}
