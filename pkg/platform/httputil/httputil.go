// Package httputil holds the JSON response helpers shared by every handler.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "cruddur/pkg/domain-errors"
	"cruddur/pkg/platform/sentinel"
)

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a service error into an HTTP response.
//
// Validation failures are answered with 422 and their detail codes as a bare
// JSON array, untouched. Internal errors never leak their description.
func WriteError(w http.ResponseWriter, err error) {
	var de *dErrors.Error
	if !errors.As(err, &de) {
		if errors.Is(err, sentinel.ErrNotFound) {
			de = dErrors.New(dErrors.CodeNotFound, "resource not found")
		} else {
			de = dErrors.New(dErrors.CodeInternal, "internal error")
		}
	}

	status := dErrors.ToHTTPStatus(de.Code)
	if de.Code == dErrors.CodeValidation {
		details := de.Details
		if details == nil {
			details = []string{}
		}
		WriteJSON(w, status, details)
		return
	}

	body := map[string]string{"error": string(de.Code)}
	if status != http.StatusInternalServerError && de.Message != "" {
		body["error_description"] = de.Message
	}
	WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into dst, returning a bad-request error on failure.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
