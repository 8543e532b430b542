package impl

import (
	"context"
	"log/slog"

	"hub/config"
	"hub/internal/errors"
	"hub/internal/usecase"

	"go.uber.org/fx"
)

// StartupParams holds the stores brought up with the application.
type StartupParams struct {
	fx.In

	Lc        fx.Lifecycle
	Config    *config.Config
	Users     usecase.UserStore
	Products  usecase.ProductStore
	Purchases usecase.PurchaseStore
	Posts     usecase.PostStore
	Stats     usecase.StatsStore
	Gate      usecase.SessionGate
	Logger    *slog.Logger
}

// startup performs the initial loads and owns the realtime subscriptions
// started for the lifetime of the application.
type startup struct {
	params StartupParams
	logger *slog.Logger

	cancel context.CancelFunc
	subs   []usecase.Subscription
}

// RegisterStartup hooks the initial synchronization into the lifecycle.
// Load failures are logged and leave the snapshot-warmed collections in
// place; they never abort the start.
func RegisterStartup(params StartupParams) {
	s := &startup{
		params: params,
		logger: params.Logger.With(slog.String("component", "startup")),
	}

	params.Lc.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})
}

func (s *startup) start(ctx context.Context) error {
	p := s.params
	scope := usecase.ProductFilter{}
	realtime := false
	if p.Config.Store != nil {
		scope.FranchiseID = p.Config.Store.FranchiseID
		realtime = p.Config.Store.Realtime
	}

	s.report("users", p.Users.Load(ctx))
	s.report("products", p.Products.Load(ctx, scope))
	s.report("posts", p.Posts.Load(ctx))

	s.report("session", p.Gate.Restore(ctx))
	if actor, ok := p.Gate.Current(); ok {
		filter := usecase.PurchaseFilter{UserID: actor.ID}
		if actor.IsAdmin() {
			filter.UserID = ""
		}
		s.report("purchases", p.Purchases.Load(ctx, filter))
	}

	if _, err := p.Stats.Refresh(ctx); err != nil {
		s.report("stats", err)
	}

	if !realtime {
		return nil
	}

	// Subscriptions outlive the start context.
	subCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.subscribe("users", func() (usecase.Subscription, error) { return p.Users.Subscribe(subCtx) })
	s.subscribe("products", func() (usecase.Subscription, error) { return p.Products.Subscribe(subCtx, scope) })
	s.subscribe("posts", func() (usecase.Subscription, error) { return p.Posts.Subscribe(subCtx) })

	return nil
}

func (s *startup) subscribe(store string, open func() (usecase.Subscription, error)) {
	sub, err := open()
	if err != nil {
		s.report(store, err)

		return
	}

	s.logger.Info("Realtime subscription started", slog.String("store", store))
	s.subs = append(s.subs, sub)
}

func (s *startup) report(store string, err error) {
	if err == nil {
		return
	}
	if errors.IsContextDone(err) {
		s.logger.Warn("Initial synchronization interrupted", slog.String("store", store))

		return
	}

	s.logger.Warn("Initial synchronization failed, serving local snapshot",
		slog.String("store", store),
		slog.Any("error", err),
	)
}

func (s *startup) stop(context.Context) error {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
	if s.cancel != nil {
		s.cancel()
	}

	p := s.params
	p.Users.Close()
	p.Products.Close()
	p.Purchases.Close()
	p.Posts.Close()

	s.logger.Info("Entity stores closed")

	return nil
}
