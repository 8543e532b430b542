package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hub/internal/domain/entity"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/domain/repository"
	"hub/internal/domain/service"
	"hub/internal/usecase"

	"go.uber.org/fx"
)

// statsStore implements the StatsStore interface.
type statsStore struct {
	remote   repository.DocumentStore
	users    usecase.UserStore
	posts    usecase.PostStore
	recorder service.OperationRecorder
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	snapshot  entity.FranchiseStats
	refreshed bool
	status    usecase.Status
}

// StatsStoreParams holds dependencies for StatsStore, injected by Fx.
type StatsStoreParams struct {
	fx.In

	Remote   repository.DocumentStore
	Users    usecase.UserStore
	Posts    usecase.PostStore
	Recorder service.OperationRecorder `optional:"true"`
	Logger   *slog.Logger
}

// NewStatsStore is the constructor for statsStore.
func NewStatsStore(params StatsStoreParams) usecase.StatsStore {
	recorder := params.Recorder
	if recorder == nil {
		recorder = service.NopRecorder{}
	}

	return &statsStore{
		remote:   params.Remote,
		users:    params.Users,
		posts:    params.Posts,
		recorder: recorder,
		logger:   params.Logger.With(slog.String("store", "stats")),
		now:      time.Now,
	}
}

// Refresh recomputes the franchise counts from the remote users collection.
func (s *statsStore) Refresh(ctx context.Context) (entity.FranchiseStats, error) {
	s.mu.Lock()
	s.status.Loading = true
	s.mu.Unlock()

	q := repository.Query{Collection: usersCollection}.Where("role", string(entity.RoleFranchise))

	start := time.Now()
	docs, err := s.remote.Get(ctx, q)
	s.recorder.ObserveRemote("stats", "get", time.Since(start), err)
	if err == nil {
		var actors []entity.Actor
		actors, err = decodeActors(docs)
		if err == nil {
			return s.store(ComputeFranchiseStats(actors, s.now())), nil
		}
	}

	loadErr := domainerrors.NewRemoteError(domainerrors.ErrLoadFailed, "stats.refresh", err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Loading = false
	s.status.LastError = loadErr
	s.status.LastErrorAt = s.now()
	s.logger.Error("Failed to refresh franchise stats", slog.Any("error", err))

	return s.snapshot, loadErr
}

func (s *statsStore) store(stats entity.FranchiseStats) entity.FranchiseStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = stats
	s.refreshed = true
	s.status = usecase.Status{LoadedAt: stats.RefreshedAt, Size: stats.Total}

	return stats
}

func decodeActors(docs []repository.Document) ([]entity.Actor, error) {
	actors := make([]entity.Actor, 0, len(docs))
	for _, doc := range docs {
		actor, err := decodeActor(doc)
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}

	return actors, nil
}

func (s *statsStore) Snapshot() (entity.FranchiseStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot, s.refreshed
}

func (s *statsStore) Status() usecase.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Engagement summarizes the locally held users and posts.
func (s *statsStore) Engagement(now time.Time) entity.EngagementSummary {
	return SummarizeEngagement(s.users.All(), s.posts.All(), now)
}
