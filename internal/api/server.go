// Package api exposes the bot over HTTP. The transport/UI layer posts
// message activities to /v1/messages and renders the returned text or
// card payload.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"devbot/internal/bot"
	"devbot/internal/common"
)

type Server struct {
	router     chi.Router
	dispatcher *bot.Dispatcher
}

func NewServer(dispatcher *bot.Dispatcher) (*Server, error) {
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	srv := &Server{
		router:     chi.NewRouter(),
		dispatcher: dispatcher,
	}
	srv.routes()
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("api: request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Post("/v1/messages", s.handleMessages)
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var act activity
	if err := json.NewDecoder(r.Body).Decode(&act); err != nil {
		logger.Warn("api: activity decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if act.Text == "" && len(act.Attachments) == 0 && act.Value == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("empty activity"))
		return
	}
	logger.Info("api: activity received",
		"text_length", len(act.Text),
		"attachments", len(act.Attachments),
		"has_value", act.Value != nil,
	)
	reply := s.dispatcher.Handle(r.Context(), bot.IncomingMessage{
		Text:        act.Text,
		Attachments: act.Attachments,
		Value:       act.Value,
	})
	writeJSON(w, http.StatusOK, toReplyActivity(reply))
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
