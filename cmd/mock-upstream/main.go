// Command mock-upstream imitates the accounting data API for local runs:
// basic-auth sessions plus a script endpoint that returns a sample chart of
// accounts as a JSON string.
package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	env "github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	"github.com/josh-kwaku/ledger-sync/internal/logging"
)

//go:embed accounts.json
var sampleAccounts string

type config struct {
	Port     int    `env:"MOCK_PORT" envDefault:"8081"`
	Username string `env:"MOCK_USERNAME" envDefault:"apitest"`
	Password string `env:"MOCK_PASSWORD" envDefault:"test123"`
	Layout   string `env:"MOCK_LAYOUT" envDefault:"testdb"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
}

type server struct {
	cfg    config
	tokens sync.Map
}

func main() {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Init("mock-upstream", "info", cfg.AppEnv)

	s := &server{cfg: cfg}

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("mock upstream started", "addr", addr)
	if err := http.ListenAndServe(addr, s.routes()); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /sessions", s.login)
	mux.HandleFunc("DELETE /sessions/{token}", s.logout)
	mux.HandleFunc("PATCH /layouts/{layout}/records/{id}", s.runScript)
	return mux
}

type message struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"response": map[string]any{},
		"messages": []message{{Code: code, Message: msg}},
	})
}

func (s *server) login(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || user != s.cfg.Username || pass != s.cfg.Password {
		slog.Warn("login rejected", "user", user)
		writeMessage(w, http.StatusUnauthorized, "212", "Invalid user account and/or password; please try again")
		return
	}

	token := uuid.NewString()
	s.tokens.Store(token, struct{}{})
	slog.Info("session opened", "user", user)

	writeJSON(w, http.StatusOK, map[string]any{
		"response": map[string]string{"token": token},
		"messages": []message{{Code: "0", Message: "OK"}},
	})
}

func (s *server) logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.tokens.LoadAndDelete(r.PathValue("token")); !ok {
		writeMessage(w, http.StatusUnauthorized, "952", "Invalid FileMaker Data API token")
		return
	}
	writeMessage(w, http.StatusOK, "0", "OK")
}

func (s *server) runScript(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if _, ok := s.tokens.Load(token); !ok {
		writeMessage(w, http.StatusUnauthorized, "952", "Invalid FileMaker Data API token")
		return
	}
	if r.PathValue("layout") != s.cfg.Layout {
		writeMessage(w, http.StatusNotFound, "105", "Layout is missing")
		return
	}

	var req struct {
		Script string `json:"script"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Script == "" {
		writeMessage(w, http.StatusBadRequest, "960", "Script name is required")
		return
	}

	slog.Info("script executed", "script", req.Script, "record", r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{
		"response": map[string]any{
			"scriptResult": sampleAccounts,
			"modId":        "1",
		},
		"messages": []message{{Code: "0", Message: "OK"}},
	})
}
