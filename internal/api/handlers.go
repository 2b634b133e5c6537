package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"episode_syncer/internal/domain"
)

// SyncService is the part of the sync service the API needs.
type SyncService interface {
	CountFor(id domain.ShowID) (int, bool)
	LastSyncFailed() bool
	LastSyncTime() (string, bool)
	Running() bool
	RunSync(ctx context.Context) (*domain.SyncReport, error)
}

type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

type EpisodeCountResponse struct {
	ShowID domain.ShowID `json:"show_id"`
	Count  int           `json:"count"`
}

type SyncStatusResponse struct {
	LastSyncTime   *string `json:"last_sync_time"`
	LastSyncFailed bool    `json:"last_sync_failed"`
	Running        bool    `json:"running"`
}

type Handler struct {
	svc        SyncService
	baseCtx    context.Context
	runTimeout time.Duration
	logger     *slog.Logger
}

// NewHandler creates the API handlers. Runs triggered over HTTP outlive the
// request and are bound to baseCtx instead.
func NewHandler(baseCtx context.Context, svc SyncService, runTimeout time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		svc:        svc,
		baseCtx:    baseCtx,
		runTimeout: runTimeout,
		logger:     logger.With("component", "api"),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &Response{Status: "ok"})
}

func (h *Handler) EpisodeCount(w http.ResponseWriter, r *http.Request) {
	id := domain.ShowID(chi.URLParam(r, "showID"))
	if id.Key() == "" {
		respondError(w, http.StatusBadRequest, "show id is required")
		return
	}

	count, ok := h.svc.CountFor(id)
	if !ok {
		respondError(w, http.StatusNotFound, "show not synced")
		return
	}

	respondJSON(w, http.StatusOK, &Response{
		Status: "ok",
		Data:   EpisodeCountResponse{ShowID: id, Count: count},
	})
}

func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	status := SyncStatusResponse{
		LastSyncFailed: h.svc.LastSyncFailed(),
		Running:        h.svc.Running(),
	}
	if cursor, ok := h.svc.LastSyncTime(); ok {
		status.LastSyncTime = &cursor
	}

	respondJSON(w, http.StatusOK, &Response{Status: "ok", Data: status})
}

// TriggerSync starts a run in the background and answers 202, or 409 when a
// run is already in flight.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if h.svc.Running() {
		respondError(w, http.StatusConflict, domain.ErrSyncInProgress.Error())
		return
	}

	go h.runSync()

	respondJSON(w, http.StatusAccepted, &Response{Status: "accepted"})
}

func (h *Handler) runSync() {
	ctx := h.baseCtx
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	_, err := h.svc.RunSync(ctx)
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		h.logger.Info("sync already running")
	case err != nil:
		h.logger.Error("triggered sync failed", "error", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, response *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &Response{Status: "error", Error: message})
}
