package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edgenode-io/edgenode/internal/jsondoc"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/adopt", s.handleAdopt)

		// HTTP mirror of the MQTT config/command topics.
		r.Post("/config", s.handleConfig)
		r.Post("/command", s.handleCommand)
		r.Post("/mqtt", s.handleMQTT)
		r.Post("/restart", s.handleRestart)
	})

	// Firmware-registered handlers.
	for _, route := range s.custom {
		r.Method(route.method, route.pattern, route.handler)
	}

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

// handleAdopt returns a freshly built adoption descriptor.
func (s *Server) handleAdopt(w http.ResponseWriter, _ *http.Request) {
	doc := s.adoption()
	payload, err := doc.MarshalJSON()
	if err != nil {
		writeInternalError(w, "encoding adoption descriptor")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload) //nolint:errcheck // Best-effort write to response
}

// handleConfig dispatches a config document through the node dispatcher.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, s.onConfig)
}

// handleCommand dispatches a command document through the node dispatcher.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, s.onCmd)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, handler func(doc *jsondoc.Doc)) {
	if handler == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "dispatcher not ready")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "reading request body")
		return
	}
	doc, err := jsondoc.Parse(body)
	if err != nil {
		writeBadRequest(w, "invalid json payload")
		return
	}

	handler(doc)
	w.WriteHeader(http.StatusNoContent)
}

// handleMQTT persists broker connection overrides. The overrides take
// effect on the next restart; the response does not wait for one.
func (s *Server) handleMQTT(w http.ResponseWriter, r *http.Request) {
	if s.onMQTT == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "settings store not ready")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "reading request body")
		return
	}
	doc, err := jsondoc.Parse(body)
	if err != nil {
		writeBadRequest(w, "invalid json payload")
		return
	}

	if err := s.onMQTT(doc); err != nil {
		writeInternalError(w, "persisting broker settings")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRestart triggers a node restart after the response is written.
func (s *Server) handleRestart(w http.ResponseWriter, _ *http.Request) {
	if s.restart == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "restart not available")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"restarting": true})
	go s.restart()
}
