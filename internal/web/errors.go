package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/rshade/usertable/internal/logging"
)

// Request validation errors.
var (
	ErrUnknownAction = errors.New("unknown page action")
	ErrUnknownField  = errors.New("unknown field")
	ErrInvalidSize   = errors.New("invalid page size")
)

// ErrorResponse is the JSON body of an error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// respondError logs err and writes it as JSON with the given status.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	ev := logging.FromContext(ctx).Warn()
	if status >= http.StatusInternalServerError {
		ev = logging.FromContext(ctx).Error()
	}
	ev.Ctx(ctx).Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")

	writeJSON(w, r, status, ErrorResponse{Error: err.Error(), RequestID: reqID})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctx := r.Context()
		logging.FromContext(ctx).Error().Ctx(ctx).Err(err).Msg("json encode failed")
	}
}
