package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"episode_syncer/internal/config"
	"episode_syncer/internal/domain"
	"episode_syncer/internal/service/mocks"
)

type SyncServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	catalog   *mocks.MockCatalog
	library   *mocks.MockLibraryIndex
	syncState *mocks.MockSyncStateStore
	publisher *mocks.MockPublisher

	service *SyncService
	cfg     config.SyncConfig
	logger  *slog.Logger

	saved []*domain.SyncState
}

func (s *SyncServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.catalog = mocks.NewMockCatalog(s.ctrl)
	s.library = mocks.NewMockLibraryIndex(s.ctrl)
	s.syncState = mocks.NewMockSyncStateStore(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.cfg = config.SyncConfig{
		Interval: 24 * time.Hour,
		Timeout:  time.Hour,
		Workers:  1,
	}
	s.saved = nil

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.catalog.EXPECT().ID().Return("tvdb").AnyTimes()
	s.catalog.EXPECT().Name().Return("TheTVDB").AnyTimes()

	s.service = s.newService(s.cfg)
}

func (s *SyncServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func (s *SyncServiceTestSuite) newService(cfg config.SyncConfig) *SyncService {
	return NewSyncService(s.catalog, s.library, s.syncState, s.publisher, s.logger, cfg, "en")
}

func (s *SyncServiceTestSuite) expectLoad(cursor *string, counts map[domain.ShowID]int) {
	state := &domain.SyncState{LastUpdateTime: cursor, Counts: counts}
	s.syncState.EXPECT().Load(gomock.Any(), "tvdb").Return(state, nil)
}

func (s *SyncServiceTestSuite) expectSave() {
	s.syncState.EXPECT().Save(gomock.Any(), "tvdb", gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, state *domain.SyncState) error {
			s.NoError(ctx.Err(), "state must be saved with a live context")
			s.saved = append(s.saved, state.Clone())
			return nil
		},
	)
}

func (s *SyncServiceTestSuite) expectFetch(id domain.ShowID, count int, err error) *gomock.Call {
	return s.catalog.EXPECT().FetchEpisodeCount(gomock.Any(), id, "en").Return(count, err)
}

func (s *SyncServiceTestSuite) lastSaved() *domain.SyncState {
	s.Require().NotEmpty(s.saved)
	return s.saved[len(s.saved)-1]
}

func ptr(v string) *string {
	return &v
}

func (s *SyncServiceTestSuite) TestRunSync_IncrementalScenario() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"S1": 10, "S2": 5})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"S1", "S2", "S3"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return([]domain.ShowID{"S1"}, nil)
	gomock.InOrder(
		s.expectFetch("S1", 12, nil),
		s.expectFetch("S3", 7, nil),
		s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("200", nil),
	)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.Equal(domain.ModeIncremental, report.Mode)
	s.Equal(1, report.Changed)
	s.Equal(1, report.Updated)
	s.Equal(1, report.Added)
	s.False(report.LastSyncFailed)
	s.Equal("200", report.Cursor)
	s.NotEmpty(report.RunID)

	saved := s.lastSaved()
	s.Equal(map[domain.ShowID]int{"S1": 12, "S2": 5, "S3": 7}, saved.Counts)
	s.Require().NotNil(saved.LastUpdateTime)
	s.Equal("200", *saved.LastUpdateTime)
	s.False(saved.LastSyncFailed)

	count, ok := s.service.CountFor("s3")
	s.True(ok)
	s.Equal(7, count)
	s.False(s.service.LastSyncFailed())
	cursor, ok := s.service.LastSyncTime()
	s.True(ok)
	s.Equal("200", cursor)
}

func (s *SyncServiceTestSuite) TestRunSync_FirstRunSuccess() {
	ctx := context.Background()

	s.expectLoad(nil, nil)
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A", "B", "a"}, nil)
	gomock.InOrder(
		s.expectFetch("A", 1, nil),
		s.expectFetch("B", 2, nil),
		s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("300", nil),
	)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.Equal(domain.ModeFirst, report.Mode)
	s.Equal(2, report.Added)

	saved := s.lastSaved()
	s.Equal(map[domain.ShowID]int{"A": 1, "B": 2}, saved.Counts)
	s.Require().NotNil(saved.LastUpdateTime)
	s.Equal("300", *saved.LastUpdateTime)
	s.False(saved.LastSyncFailed)
}

func (s *SyncServiceTestSuite) TestRunSync_FirstRunFailureKeepsCursorNull() {
	ctx := context.Background()

	s.expectLoad(nil, nil)
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A", "B", "C"}, nil)
	gomock.InOrder(
		s.expectFetch("A", 1, nil),
		s.expectFetch("B", 0, fmt.Errorf("fetch archive: %w", domain.ErrUnreachable)),
		s.expectFetch("C", 3, nil),
	)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.True(report.LastSyncFailed)
	s.Equal(1, report.Failed)
	s.Equal(domain.ShowID("B"), report.FailedShow)
	s.Equal("unreachable", report.FailureKind)

	saved := s.lastSaved()
	s.Nil(saved.LastUpdateTime)
	s.True(saved.LastSyncFailed)
	s.Equal(map[domain.ShowID]int{"A": 1, "C": 3}, saved.Counts)

	_, ok := s.service.LastSyncTime()
	s.False(ok)
	s.True(s.service.LastSyncFailed())
}

func (s *SyncServiceTestSuite) TestRunSync_FirstRunRetriesEverythingNextTime() {
	ctx := context.Background()

	// A previous first run left partial records and no cursor.
	s.expectLoad(nil, map[domain.ShowID]int{"A": 1})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A", "B"}, nil)
	gomock.InOrder(
		s.expectFetch("A", 2, nil),
		s.expectFetch("B", 4, nil),
		s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("400", nil),
	)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.Equal(domain.ModeFirst, report.Mode)
	s.Equal(map[domain.ShowID]int{"A": 2, "B": 4}, s.lastSaved().Counts)
}

func (s *SyncServiceTestSuite) TestRunSync_IncrementalFailureDoesNotRegress() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 10, "B": 20, "C": 30})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A", "B", "C", "D"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return([]domain.ShowID{"A", "B", "C"}, nil)
	gomock.InOrder(
		s.expectFetch("A", 11, nil),
		s.expectFetch("B", 0, fmt.Errorf("read archive: %w", domain.ErrArchive)),
	)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.True(report.LastSyncFailed)
	s.Equal(domain.ShowID("B"), report.FailedShow)
	s.Equal("archive", report.FailureKind)
	s.Equal(domain.PhaseUpdate, report.Failure.Phase)

	saved := s.lastSaved()
	s.Equal(map[domain.ShowID]int{"A": 11, "B": 20, "C": 30}, saved.Counts)
	s.Require().NotNil(saved.LastUpdateTime)
	s.Equal("100", *saved.LastUpdateTime)
	s.True(saved.LastSyncFailed)
}

func (s *SyncServiceTestSuite) TestRunSync_AddPhaseFailureKeepsCursor() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 10})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A", "N1", "N2"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return(nil, nil)
	gomock.InOrder(
		s.expectFetch("N1", 3, nil),
		s.expectFetch("N2", 0, fmt.Errorf("decode: %w", domain.ErrParse)),
	)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.True(report.LastSyncFailed)
	s.Equal("parse", report.FailureKind)

	saved := s.lastSaved()
	s.Equal(map[domain.ShowID]int{"A": 10, "N1": 3}, saved.Counts)
	s.Equal("100", *saved.LastUpdateTime)
}

func (s *SyncServiceTestSuite) TestRunSync_ChangeFeedFailure() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 10})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A", "B"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return(nil, domain.ErrUnreachable)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.True(report.LastSyncFailed)
	s.Equal(domain.PhaseChanges, report.Failure.Phase)

	saved := s.lastSaved()
	s.Equal("100", *saved.LastUpdateTime)
	s.Equal(map[domain.ShowID]int{"A": 10}, saved.Counts)
}

func (s *SyncServiceTestSuite) TestRunSync_CursorFailureAfterPhases() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 10})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return([]domain.ShowID{"A"}, nil)
	s.expectFetch("A", 11, nil)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("", domain.ErrParse)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.True(report.LastSyncFailed)
	s.Equal(domain.PhaseCursor, report.Failure.Phase)

	saved := s.lastSaved()
	s.Equal("100", *saved.LastUpdateTime)
	s.Equal(11, saved.Counts["A"])
}

func (s *SyncServiceTestSuite) TestRunSync_CaseInsensitiveMatching() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"ab12": 3})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"AB12"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return([]domain.ShowID{"Ab12"}, nil)
	s.expectFetch("ab12", 4, nil)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("101", nil)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.Equal(0, report.Added)
	s.Equal(map[domain.ShowID]int{"ab12": 4}, s.lastSaved().Counts)
}

func (s *SyncServiceTestSuite) TestRunSync_Idempotent() {
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		s.syncState.EXPECT().Load(gomock.Any(), "tvdb").DoAndReturn(
			func(context.Context, string) (*domain.SyncState, error) {
				if len(s.saved) == 0 {
					return &domain.SyncState{
						LastUpdateTime: ptr("100"),
						Counts:         map[domain.ShowID]int{"A": 1, "B": 2},
					}, nil
				}
				return s.lastSaved().Clone(), nil
			},
		)
	}
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A", "B", "C"}, nil).Times(2)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), gomock.Any()).Return([]domain.ShowID{"A"}, nil).Times(2)
	s.expectFetch("A", 5, nil).Times(2)
	s.expectFetch("C", 9, nil).Times(1)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("200", nil).Times(2)
	s.syncState.EXPECT().Save(gomock.Any(), "tvdb", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, state *domain.SyncState) error {
			s.saved = append(s.saved, state.Clone())
			return nil
		},
	).Times(2)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := s.service.RunSync(ctx)
	s.Require().NoError(err)
	_, err = s.service.RunSync(ctx)
	s.Require().NoError(err)

	s.Require().Len(s.saved, 2)
	s.Equal(s.saved[0], s.saved[1])
}

func (s *SyncServiceTestSuite) TestRunSync_CancellationPersistsProgress() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A", "B", "C"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return(nil, nil)
	s.expectFetch("A", 1, nil)
	s.catalog.EXPECT().FetchEpisodeCount(gomock.Any(), domain.ShowID("B"), "en").DoAndReturn(
		func(ctx context.Context, _ domain.ShowID, _ string) (int, error) {
			cancel()
			return 0, ctx.Err()
		},
	)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.True(report.LastSyncFailed)
	s.Equal("canceled", report.FailureKind)

	saved := s.lastSaved()
	s.Equal(map[domain.ShowID]int{"A": 1}, saved.Counts)
	s.Equal("100", *saved.LastUpdateTime)
}

func (s *SyncServiceTestSuite) TestRunSync_LibraryFailure() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 1})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return(nil, errors.New("connection refused"))
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.True(report.LastSyncFailed)
	s.Equal(domain.PhaseLibrary, report.Failure.Phase)
	s.Equal("100", *s.lastSaved().LastUpdateTime)
}

func (s *SyncServiceTestSuite) TestRunSync_LoadError() {
	ctx := context.Background()

	s.syncState.EXPECT().Load(gomock.Any(), "tvdb").Return(nil, errors.New("db down"))

	report, err := s.service.RunSync(ctx)

	s.Error(err)
	s.Nil(report)
	s.Contains(err.Error(), "load sync state")
	s.True(s.service.LastSyncFailed())
}

func (s *SyncServiceTestSuite) TestRunSync_SaveError() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 1})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return(nil, nil)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("101", nil)
	s.syncState.EXPECT().Save(gomock.Any(), "tvdb", gomock.Any()).Return(errors.New("db down"))

	report, err := s.service.RunSync(ctx)

	s.Error(err)
	s.NotNil(report)
	s.Contains(err.Error(), "save sync state")

	// Readers keep serving the last persisted state.
	_, ok := s.service.LastSyncTime()
	s.False(ok)
	s.True(s.service.LastSyncFailed())
}

func (s *SyncServiceTestSuite) TestRunSync_PublisherErrorIgnored() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 1})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return(nil, nil)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("101", nil)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	report, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.False(report.LastSyncFailed)
}

func (s *SyncServiceTestSuite) TestRunSync_PublisherNil() {
	ctx := context.Background()

	service := NewSyncService(s.catalog, s.library, s.syncState, nil, s.logger, s.cfg, "en")

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 1})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return(nil, nil)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("101", nil)
	s.expectSave()

	report, err := service.RunSync(ctx)

	s.NoError(err)
	s.Equal("101", report.Cursor)
}

func (s *SyncServiceTestSuite) TestRunSync_PruneRemoved() {
	ctx := context.Background()

	cfg := s.cfg
	cfg.PruneRemoved = true
	service := s.newService(cfg)

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 1, "Gone": 2})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"a"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return([]domain.ShowID{"Gone"}, nil)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("101", nil)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := service.RunSync(ctx)

	s.NoError(err)
	s.Equal(1, report.Pruned)
	s.Equal(map[domain.ShowID]int{"A": 1}, s.lastSaved().Counts)
}

func (s *SyncServiceTestSuite) TestRunSync_NeverPrunesByDefault() {
	ctx := context.Background()

	s.expectLoad(ptr("100"), map[domain.ShowID]int{"A": 1, "Gone": 2})
	s.library.EXPECT().ShowIDs(gomock.Any()).Return([]domain.ShowID{"A"}, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return(nil, nil)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("101", nil)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.service.RunSync(ctx)

	s.NoError(err)
	s.Equal(map[domain.ShowID]int{"A": 1, "Gone": 2}, s.lastSaved().Counts)
}

func (s *SyncServiceTestSuite) TestRunSync_RejectsOverlappingRun() {
	ctx := context.Background()

	s.syncState.EXPECT().Load(gomock.Any(), "tvdb").DoAndReturn(
		func(ctx context.Context, _ string) (*domain.SyncState, error) {
			_, err := s.service.RunSync(ctx)
			s.ErrorIs(err, domain.ErrSyncInProgress)
			return nil, errors.New("stop")
		},
	)

	_, err := s.service.RunSync(ctx)

	s.Error(err)
}

func (s *SyncServiceTestSuite) TestRunSync_ParallelFirstRun() {
	ctx := context.Background()

	cfg := s.cfg
	cfg.Workers = 4
	service := s.newService(cfg)

	library := make([]domain.ShowID, 0, 20)
	want := make(map[domain.ShowID]int, 20)
	for i := 0; i < 20; i++ {
		id := domain.ShowID(fmt.Sprintf("%d", 1000+i))
		library = append(library, id)
		want[id] = i
	}

	s.expectLoad(nil, nil)
	s.library.EXPECT().ShowIDs(gomock.Any()).Return(library, nil)
	s.catalog.EXPECT().FetchEpisodeCount(gomock.Any(), gomock.Any(), "en").DoAndReturn(
		func(_ context.Context, id domain.ShowID, _ string) (int, error) {
			return want[id], nil
		},
	).Times(20)
	s.catalog.EXPECT().GetServerCursor(gomock.Any()).Return("500", nil)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := service.RunSync(ctx)

	s.NoError(err)
	s.Equal(20, report.Added)
	s.Equal(want, s.lastSaved().Counts)
}

func (s *SyncServiceTestSuite) TestRunSync_ParallelPhaseStopsOnFailure() {
	ctx := context.Background()

	cfg := s.cfg
	cfg.Workers = 2
	service := s.newService(cfg)

	known := map[domain.ShowID]int{}
	var changed []domain.ShowID
	for i := 0; i < 50; i++ {
		id := domain.ShowID(fmt.Sprintf("%d", i))
		known[id] = -1
		changed = append(changed, id)
	}

	var (
		mu      sync.Mutex
		started int
	)

	s.expectLoad(ptr("100"), known)
	s.library.EXPECT().ShowIDs(gomock.Any()).Return(changed, nil)
	s.catalog.EXPECT().GetChangedShowIDs(gomock.Any(), "100").Return(changed, nil)
	s.catalog.EXPECT().FetchEpisodeCount(gomock.Any(), gomock.Any(), "en").DoAndReturn(
		func(ctx context.Context, id domain.ShowID, _ string) (int, error) {
			mu.Lock()
			started++
			mu.Unlock()
			if id == "0" {
				return 0, domain.ErrUnreachable
			}
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(20 * time.Millisecond):
				return 1, nil
			}
		},
	).MinTimes(1)
	s.expectSave()
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	report, err := service.RunSync(ctx)

	s.NoError(err)
	s.True(report.LastSyncFailed)
	s.Equal(domain.ShowID("0"), report.FailedShow)
	s.Equal(1, report.Failed)
	s.Less(started, 50)
	s.Equal("100", *s.lastSaved().LastUpdateTime)
}

func (s *SyncServiceTestSuite) TestPrime() {
	ctx := context.Background()

	s.expectLoad(ptr("42"), map[domain.ShowID]int{"A": 3})
	s.syncState.EXPECT().Load(gomock.Any(), "tvdb").Return(nil, errors.New("db down"))

	s.NoError(s.service.Prime(ctx))

	count, ok := s.service.CountFor("a")
	s.True(ok)
	s.Equal(3, count)
	cursor, ok := s.service.LastSyncTime()
	s.True(ok)
	s.Equal("42", cursor)

	s.Error(s.service.Prime(ctx))
}
