package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// NonFieldErrors is the key the server uses for form-level messages.
const NonFieldErrors = "non_field_errors"

// FieldErrors maps a form field to its validation messages.
type FieldErrors map[string][]string

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Method     string
	URL        string
	Detail     string      // "detail" message, if the body carried one
	Fields     FieldErrors // field payload, if the body carried one
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" && len(e.Fields) > 0 {
		msg = e.Fields.String()
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, msg)
}

// String renders the messages as "field: msg; field: msg" in key order.
func (f FieldErrors) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(f[k], " "))
	}
	return strings.Join(parts, "; ")
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// ValidationErrors returns the field payload of a 4xx validation failure.
func ValidationErrors(err error) (FieldErrors, bool) {
	apiErr, ok := AsError(err)
	if !ok || apiErr.StatusCode < 400 || apiErr.StatusCode >= 500 || len(apiErr.Fields) == 0 {
		return nil, false
	}
	return apiErr.Fields, true
}

// newError consumes resp.Body and builds the *Error for a failed response.
func newError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	if resp.Request != nil {
		apiErr.Method = resp.Request.Method
		apiErr.URL = resp.Request.URL.String()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
		if len(apiErr.Detail) > 200 {
			apiErr.Detail = apiErr.Detail[:200]
		}
		return apiErr
	}

	for key, raw := range payload {
		if key == "detail" {
			_ = json.Unmarshal(raw, &apiErr.Detail)
			continue
		}
		if messages := decodeMessages(raw); len(messages) > 0 {
			if apiErr.Fields == nil {
				apiErr.Fields = FieldErrors{}
			}
			apiErr.Fields[key] = messages
		}
	}
	return apiErr
}

// decodeMessages accepts either ["a", "b"] or "a".
func decodeMessages(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}
