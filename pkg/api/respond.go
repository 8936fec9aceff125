package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	apperr "github.com/matzehuels/tickergrid/pkg/errors"
	"github.com/matzehuels/tickergrid/pkg/observability"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error     string      `json:"error"`
	Code      apperr.Code `json:"code"`
	RequestID string      `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)

	code := apperr.GetCode(err)
	msg := apperr.UserMessage(err)
	if code == "" {
		code = apperr.ErrCodeInternal
		msg = "internal error"
	}
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     msg,
		Code:      code,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.New(apperr.ErrCodeInvalidInput, "request body larger than %d bytes", MaxBodyBytes)
		}
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return nil
}

func errNotFound(r *http.Request) error {
	return apperr.New(apperr.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func etag(hash string) string {
	return fmt.Sprintf("%q", hash)
}
