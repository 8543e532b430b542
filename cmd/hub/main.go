package main

import (
	"context"
	"log/slog"
	"os"

	"hub/config"
	"hub/internal/delivery"
	"hub/internal/delivery/http"
	"hub/internal/delivery/http/middleware"
	"hub/internal/delivery/http/router/handler"
	"hub/internal/domain/repository"
	"hub/internal/domain/service"
	"hub/internal/infra/auth"
	logs "hub/internal/infra/log"
	"hub/internal/infra/metrics"
	"hub/internal/infra/persistence"
	"hub/internal/infra/snapshot"
	"hub/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectService(),
		injectStore(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			impl.RegisterStartup,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			newSnapshotStore,
			newMetrics,
		),
		persistence.Module,
	)
}

// newSnapshotStore opens the badger slot and closes it after the stores.
func newSnapshotStore(lc fx.Lifecycle, params snapshot.Params) (repository.SnapshotStore, error) {
	store, err := snapshot.New(params)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}

// newMetrics exposes the collectors both to the bridge and as the store recorder.
func newMetrics(params metrics.Params) (*metrics.Metrics, service.OperationRecorder) {
	m := metrics.New(params)
	if params.Config.Metrics == nil || !params.Config.Metrics.Enabled {
		return nil, service.NopRecorder{}
	}

	return m, m
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewSecretVerifier,
			auth.NewJWTService,
		),
	)
}

func injectStore() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserStore,
			impl.NewProductStore,
			impl.NewPurchaseStore,
			impl.NewPostStore,
			impl.NewStatsStore,
			impl.NewSessionGate,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSessionHandler,
			handler.NewUserHandler,
			handler.NewProductHandler,
			handler.NewPurchaseHandler,
			handler.NewPostHandler,
			handler.NewStatsHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
