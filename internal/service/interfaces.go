package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"episode_syncer/internal/domain"
)

// Catalog is the remote episode metadata catalog.
type Catalog interface {
	ID() string
	Name() string
	GetServerCursor(ctx context.Context) (string, error)
	GetChangedShowIDs(ctx context.Context, since string) ([]domain.ShowID, error)
	FetchEpisodeCount(ctx context.Context, showID domain.ShowID, languageHint string) (int, error)
}

// LibraryIndex lists the shows currently present in the host library.
type LibraryIndex interface {
	ShowIDs(ctx context.Context) ([]domain.ShowID, error)
}

type SyncStateStore interface {
	Load(ctx context.Context, sourceID string) (*domain.SyncState, error)
	Save(ctx context.Context, sourceID string, state *domain.SyncState) error
}

// Publisher announces finished runs. It may be nil.
type Publisher interface {
	Publish(ctx context.Context, report *domain.SyncReport) error
}
