package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"episode_syncer/internal/config"
	"episode_syncer/internal/domain"
	"episode_syncer/internal/metrics"
)

const persistTimeout = 30 * time.Second

// SyncService keeps the per-show episode counts in sync with the catalog.
// It is the only writer of the persisted SyncState.
type SyncService struct {
	catalog    Catalog
	library    LibraryIndex
	syncState  SyncStateStore
	publisher  Publisher
	reconciler *Reconciler
	logger     *slog.Logger
	config     config.SyncConfig

	running atomic.Bool

	mu   sync.RWMutex
	view *EpisodeCountStore
}

func NewSyncService(
	catalog Catalog,
	library LibraryIndex,
	syncState SyncStateStore,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
	language string,
) *SyncService {
	logger = logger.With("source", catalog.ID())
	return &SyncService{
		catalog:    catalog,
		library:    library,
		syncState:  syncState,
		publisher:  publisher,
		reconciler: NewReconciler(catalog, language, cfg.Workers, logger),
		logger:     logger,
		config:     cfg,
		view:       NewEpisodeCountStore(nil),
	}
}

// Prime loads the persisted state so the read methods answer before the
// first run completes.
func (s *SyncService) Prime(ctx context.Context) error {
	state, err := s.syncState.Load(ctx, s.catalog.ID())
	if err != nil {
		return fmt.Errorf("load sync state: %w", err)
	}
	s.publish(state)
	return nil
}

// CountFor returns the last known number of aired regular episodes of a show.
func (s *SyncService) CountFor(id domain.ShowID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Get(id)
}

// LastSyncFailed reports whether the most recent run hit any failure.
func (s *SyncService) LastSyncFailed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Failed()
}

// LastSyncTime returns the catalog cursor of the last successful run.
func (s *SyncService) LastSyncTime() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Cursor()
}

// Running reports whether a run is in progress.
func (s *SyncService) Running() bool {
	return s.running.Load()
}

// RunSync performs one synchronisation run. Catalog failures never make it
// return an error; they are reported through the returned report and
// LastSyncFailed. Errors are returned only when the state could not be
// loaded or saved.
func (s *SyncService) RunSync(ctx context.Context) (*domain.SyncReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, domain.ErrSyncInProgress
	}
	defer s.running.Store(false)

	startTime := time.Now()
	report := &domain.SyncReport{RunID: uuid.NewString()}
	logger := s.logger.With("run_id", report.RunID)

	state, err := s.syncState.Load(ctx, s.catalog.ID())
	if err != nil {
		s.markFailed()
		return nil, fmt.Errorf("load sync state: %w", err)
	}
	store := NewEpisodeCountStore(state)

	report.Mode = domain.ModeIncremental
	if _, synced := store.Cursor(); !synced {
		report.Mode = domain.ModeFirst
	}

	logger.Info("starting sync",
		"source_name", s.catalog.Name(),
		"mode", report.Mode,
		"known_shows", store.Len(),
		"workers", s.config.Workers,
	)

	library, err := s.library.ShowIDs(ctx)
	if err != nil {
		report.RecordFailure(&domain.FetchError{Phase: domain.PhaseLibrary, Err: err})
		logger.Error("failed to list library shows", "error", err)
	} else {
		switch report.Mode {
		case domain.ModeFirst:
			s.reconciler.RunFirst(ctx, store, library, report)
		default:
			s.reconciler.RunIncremental(ctx, store, library, report)
			if s.config.PruneRemoved && !report.LastSyncFailed {
				report.Pruned = store.Prune(library)
			}
		}
	}

	store.SetFailed(report.LastSyncFailed)
	report.Cursor, _ = store.Cursor()

	// The run context may already be canceled; completed work is saved anyway.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	snapshot := store.Snapshot()
	if err := s.syncState.Save(saveCtx, s.catalog.ID(), snapshot); err != nil {
		s.markFailed()
		metrics.RecordRun(report, false)
		return report, fmt.Errorf("save sync state: %w", err)
	}
	s.publish(snapshot)

	report.Duration = time.Since(startTime)
	metrics.RecordRun(report, true)
	metrics.SetKnownShows(len(snapshot.Counts))

	if report.LastSyncFailed {
		logger.Warn("sync completed with failures",
			"mode", report.Mode,
			"updated", report.Updated,
			"added", report.Added,
			"failed", report.Failed,
			"failure", report.Failure,
			"failure_kind", report.FailureKind,
			"duration", report.Duration,
		)
	} else {
		logger.Info("sync completed",
			"mode", report.Mode,
			"changed", report.Changed,
			"updated", report.Updated,
			"added", report.Added,
			"pruned", report.Pruned,
			"cursor", report.Cursor,
			"duration", report.Duration,
		)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(saveCtx, report); err != nil {
			logger.Warn("failed to publish sync report", "error", err)
		}
	}

	return report, nil
}

func (s *SyncService) publish(state *domain.SyncState) {
	view := NewEpisodeCountStore(state)
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
}

// markFailed flags the read view as failed while it keeps serving the last
// persisted records and cursor.
func (s *SyncService) markFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SetFailed(true)
}
