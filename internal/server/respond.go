package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	gojson "github.com/goccy/go-json"

	brerrors "github.com/matzehuels/brushlink/pkg/errors"
	"github.com/matzehuels/brushlink/pkg/observability"
	"github.com/matzehuels/brushlink/pkg/session"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    brerrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = gojson.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	var (
		status = brerrors.HTTPStatus(err)
		code   = brerrors.GetCode(err)
		msg    = brerrors.UserMessage(err)
	)
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrClosed):
		status, code, msg = http.StatusNotFound, brerrors.ErrCodeSessionNotFound, err.Error()
	case errors.As(err, &maxErr):
		status, code = http.StatusRequestEntityTooLarge, brerrors.ErrCodeInvalidInput
	case code == "":
		code = brerrors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// observe logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
