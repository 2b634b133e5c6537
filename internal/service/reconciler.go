package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"episode_syncer/internal/domain"
	"episode_syncer/internal/metrics"
)

// Diff is the work an incremental run has to do.
type Diff struct {
	// ToUpdate holds known shows the catalog reported as changed that are
	// still in the library, using the ids as the store knows them.
	ToUpdate []domain.ShowID
	// ToAdd holds library shows the store has never seen.
	ToAdd []domain.ShowID
}

// ComputeDiff returns toUpdate = changed ∩ known ∩ library and
// toAdd = library \ known. Identifiers are compared case-insensitively and
// each result is free of duplicates, in input order.
func ComputeDiff(library, known, changed []domain.ShowID) Diff {
	knownByKey := make(map[string]domain.ShowID, len(known))
	for _, id := range known {
		if _, ok := knownByKey[id.Key()]; !ok {
			knownByKey[id.Key()] = id
		}
	}
	inLibrary := keySet(library)

	var diff Diff

	seen := make(map[string]struct{}, len(changed))
	for _, id := range changed {
		key := id.Key()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		stored, isKnown := knownByKey[key]
		if _, present := inLibrary[key]; isKnown && present {
			diff.ToUpdate = append(diff.ToUpdate, stored)
		}
	}

	seen = make(map[string]struct{}, len(library))
	for _, id := range library {
		key := id.Key()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, isKnown := knownByKey[key]; !isKnown {
			diff.ToAdd = append(diff.ToAdd, id)
		}
	}

	return diff
}

func keySet(ids []domain.ShowID) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if key := id.Key(); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// Reconciler applies catalog changes to an EpisodeCountStore.
type Reconciler struct {
	catalog  Catalog
	language string
	workers  int
	logger   *slog.Logger
}

func NewReconciler(catalog Catalog, language string, workers int, logger *slog.Logger) *Reconciler {
	if workers < 1 {
		workers = 1
	}
	return &Reconciler{
		catalog:  catalog,
		language: language,
		workers:  workers,
		logger:   logger,
	}
}

// RunFirst fetches a count for every library show. Failures do not stop the
// pass, but the cursor is only recorded when every fetch succeeded so the
// next run starts over.
func (r *Reconciler) RunFirst(ctx context.Context, store *EpisodeCountStore, library []domain.ShowID, report *domain.SyncReport) {
	all := ComputeDiff(library, nil, nil).ToAdd

	r.logger.Info("first run", "shows", len(all))

	if !r.runPhase(ctx, domain.PhaseAdd, all, store, report, false) {
		return
	}

	r.advanceCursor(ctx, store, report)
}

// RunIncremental refetches the shows changed since the stored cursor, then
// the shows new to the library. A failure stops the current phase and
// leaves the cursor alone so the same window is requested again.
func (r *Reconciler) RunIncremental(ctx context.Context, store *EpisodeCountStore, library []domain.ShowID, report *domain.SyncReport) {
	cursor, _ := store.Cursor()

	changed, err := r.catalog.GetChangedShowIDs(ctx, cursor)
	if err != nil {
		report.RecordFailure(&domain.FetchError{Phase: domain.PhaseChanges, Err: err})
		return
	}
	report.Changed = len(changed)

	diff := ComputeDiff(library, store.KnownIDs(), changed)

	r.logger.Info("incremental run",
		"since", cursor,
		"changed", len(changed),
		"to_update", len(diff.ToUpdate),
		"to_add", len(diff.ToAdd),
	)

	if !r.runPhase(ctx, domain.PhaseUpdate, diff.ToUpdate, store, report, true) {
		return
	}
	if !r.runPhase(ctx, domain.PhaseAdd, diff.ToAdd, store, report, true) {
		return
	}

	r.advanceCursor(ctx, store, report)
}

func (r *Reconciler) advanceCursor(ctx context.Context, store *EpisodeCountStore, report *domain.SyncReport) {
	cursor, err := r.catalog.GetServerCursor(ctx)
	if err != nil {
		report.RecordFailure(&domain.FetchError{Phase: domain.PhaseCursor, Err: err})
		return
	}
	store.SetCursor(cursor)
}

// runPhase fetches the count of every id and reports whether all of them
// succeeded. With stopOnFailure the first failure cancels fetches in flight
// and keeps pending ones from starting.
func (r *Reconciler) runPhase(
	ctx context.Context,
	phase domain.Phase,
	ids []domain.ShowID,
	store *EpisodeCountStore,
	report *domain.SyncReport,
	stopOnFailure bool,
) bool {
	if len(ids) == 0 {
		return true
	}

	phaseCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu        sync.Mutex
		succeeded int
		failed    bool
	)

	p := pool.New().WithContext(phaseCtx).WithMaxGoroutines(r.workers)

	for _, id := range ids {
		if phaseCtx.Err() != nil {
			break
		}

		id := id
		p.Go(func(fetchCtx context.Context) error {
			if fetchCtx.Err() != nil {
				return nil
			}

			count, err := r.catalog.FetchEpisodeCount(fetchCtx, id, r.language)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				// Fetches canceled because a sibling failed are not failures
				// of their own.
				if failed && fetchCtx.Err() != nil && ctx.Err() == nil {
					return nil
				}
				failed = true
				report.RecordFailure(&domain.FetchError{ShowID: id, Phase: phase, Err: err})
				metrics.RecordFetch(phase, false)
				r.logger.Warn("fetch episode count failed",
					"phase", phase,
					"show_id", id,
					"error", err,
				)
				if stopOnFailure {
					cancel()
				}
				return err
			}

			store.Upsert(id, count)
			succeeded++
			metrics.RecordFetch(phase, true)
			switch phase {
			case domain.PhaseUpdate:
				report.Updated++
			default:
				report.Added++
			}
			return nil
		})
	}

	_ = p.Wait()

	if !failed && succeeded < len(ids) {
		// The run context ended before every fetch could start.
		report.RecordFailure(&domain.FetchError{Phase: phase, Err: context.Cause(ctx)})
		failed = true
	}

	return !failed
}
