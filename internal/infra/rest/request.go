package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const _servicesPath = "/services/data/%s/sobjects/%s/"

type Request struct {
	Method string
	Path   string
	Fields map[string]any
}

// NewCreateRequest builds the request that creates a record of objectType.
func NewCreateRequest(apiVersion, objectType string, fields map[string]any) Request {
	return Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf(_servicesPath, url.PathEscape(apiVersion), url.PathEscape(objectType)),
		Fields: fields,
	}
}

// NewDeleteRequest builds the request that deletes the record objectID of objectType.
func NewDeleteRequest(apiVersion, objectType, objectID string) Request {
	return Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf(_servicesPath, url.PathEscape(apiVersion), url.PathEscape(objectType)) + url.PathEscape(objectID),
	}
}

func (r Request) encodeBody() ([]byte, error) {
	if r.Fields == nil {
		return nil, nil
	}
	return json.Marshal(r.Fields)
}

type Response struct {
	StatusCode int
	Body       []byte
}

func (r Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// AsJSONObject decodes the body as a JSON object.
func (r Response) AsJSONObject() (map[string]any, error) {
	var object map[string]any
	if err := json.Unmarshal(r.Body, &object); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	if object == nil {
		return nil, fmt.Errorf("decoding response body: not a JSON object")
	}
	return object, nil
}

// AsyncResponse is what SendAsync delivers once the request completes.
type AsyncResponse struct {
	Response Response
	Err      error
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("rest API error: status %d, body: %s", e.StatusCode, e.Body)
}
