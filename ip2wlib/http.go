package ip2wlib

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	contentTypeJSON  = "application/json; charset=utf-8"
	contentTypePlain = "text/plain"
)

type httpHandler struct {
	pipeline *Pipeline
	logger   Logger
}

func (h httpHandler) handleWeather(w http.ResponseWriter, req *http.Request) {
	ip, ok := MatchPath(req.URL.Path)
	if !ok {
		h.handleNotFound(w, req)

		return
	}

	body, err := h.pipeline.Resolve(req.Context(), ip)
	if err != nil {
		e := newPipelineHTTPError(err, SettingsFromContext(req.Context()))

		h.logger.RequestServed(RequestIDFromContext(req.Context()), req.RemoteAddr, ip, e.StatusCode(), err)
		h.sendError(w, e)

		return
	}

	h.logger.RequestServed(RequestIDFromContext(req.Context()), req.RemoteAddr, ip, http.StatusOK, nil)
	h.sendJSON(w, body)
}

func (h httpHandler) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	h.sendError(w, &httpError{
		message:    "Not Found",
		statusCode: http.StatusNotFound,
	})
}

func (h httpHandler) sendJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	w.Write(body) // nolint: errcheck
}

func (h httpHandler) sendError(w http.ResponseWriter, e *httpError) {
	w.Header().Set("Content-Type", contentTypePlain)
	w.WriteHeader(e.StatusCode())
	io.WriteString(w, e.Message()) // nolint: errcheck
}

// NewHTTPHandler returns a handler which serves GET /ip2w/<ipv4>.
// Each request goes through the same chain of stages: panic recovery,
// real ip detection, request id, settings injection and routing. Any
// other path gets 404.
//
// If settings are nil, every request ends up with 500.
func NewHTTPHandler(pipeline *Pipeline, settings *Settings, logger Logger) http.Handler {
	handler := httpHandler{
		pipeline: pipeline,
		logger:   logger,
	}
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(middleware.RealIP)
	router.Use(requestIDMiddleware)
	router.Use(settingsMiddleware(settings))

	router.NotFound(handler.handleNotFound)
	router.Get(RoutePrefix+"*", handler.handleWeather)

	return router
}
