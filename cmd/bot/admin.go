package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/logstore"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/memory"
	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
)

// startTime records when the service was initialized for uptime reporting
var startTime = time.Now()

// listLimit caps the admin log listing.
const listLimit = 10

// adminServer exposes the health, log-query, status and metrics endpoints.
type adminServer struct {
	server      *http.Server
	logs        *logstore.Store
	transcripts *memory.Store
}

func newAdminServer(port string, logs *logstore.Store, transcripts *memory.Store) *adminServer {
	a := &adminServer{
		logs:        logs,
		transcripts: transcripts,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", a.handleLogs)            // Log listing with optional filters
	mux.HandleFunc("/health", a.handleHealth)    // Health check endpoint
	mux.HandleFunc("/status", a.handleStatus)    // Service status endpoint
	mux.HandleFunc("/memory", a.handleMemory)    // Transcript clear endpoint
	mux.Handle("/metrics", promhttp.Handler())   // Prometheus metrics endpoint

	a.server = &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a
}

// Start begins serving in the background.
func (a *adminServer) Start() {
	go func() {
		logrus.Infof("Admin server starting on port %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Error starting admin server: %v", err)
		}
	}()
}

// Stop shuts the server down gracefully.
func (a *adminServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		logrus.Warnf("Admin server shutdown failed: %v", err)
	}
}

// handleHealth is a simple health check endpoint.
func (a *adminServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// handleStatus provides service status, uptime and transcript occupancy.
func (a *adminServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "operational",
		"uptime":  time.Since(startTime).String(),
		"version": "1.0.0",
		"memory":  a.transcripts.Stats(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleMemory clears one chat's conversation transcript.
func (a *adminServer) handleMemory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	chatID, err := strconv.ParseInt(r.URL.Query().Get("chatId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid chatId", http.StatusBadRequest)
		return
	}

	cleared := a.transcripts.Clear(chatID)
	logrus.Infof("Admin cleared transcript for chat %d: %t", chatID, cleared)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{
		"cleared": cleared,
	})
}

// handleLogs returns the most recent query log entries, optionally
// filtered by exact input text and chat ID.
func (a *adminServer) handleLogs(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	input := r.URL.Query().Get("input")
	var chatID int64
	if raw := r.URL.Query().Get("chatId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid chatId", http.StatusBadRequest)
			return
		}
		chatID = parsed
	}

	entries, err := a.logs.List(r.Context(), input, chatID, listLimit)
	if err != nil {
		logrus.Warnf("Log listing failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []model.QueryLogEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
