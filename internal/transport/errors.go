package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport marks failures below HTTP: refused connections, resets,
// cancelled contexts.
var ErrTransport = errors.New("transport failure")

// APIError is returned for any non-2xx response. Error() is the
// human-readable message only.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAPIError reports whether err carries an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type errorBody struct {
	Message string `json:"message"`
}

func newAPIError(resp *http.Response, raw []byte) *APIError {
	status := statusLine(resp)
	msg := status

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		msg = body.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     status,
		Message:    msg,
	}
}

func statusLine(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", resp.StatusCode, text)
	}
	return fmt.Sprintf("API Error: %d", resp.StatusCode)
}
