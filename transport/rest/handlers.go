package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

type gameSession interface {
	State() entity.State
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	StateHandler(w http.ResponseWriter, _ *http.Request)
}

type handlers struct {
	logger  *slog.Logger
	session gameSession
}

func NewHandlers(logger *slog.Logger, session gameSession) Handlers {
	return &handlers{
		logger:  logger.With("component", "rest"),
		session: session,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) StateHandler(w http.ResponseWriter, _ *http.Request) {
	body, err := json.Marshal(that.session.State())
	if err != nil {
		that.logger.Error("failed to marshal state", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(body); err != nil {
		that.logger.Error("failed to write state", "error", err)
	}
}
