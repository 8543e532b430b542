// Package firestore implements the remote document store on Cloud Firestore.
package firestore

import (
	"context"
	"log/slog"

	"hub/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// NewClient initializes a Firebase app for the configured project and
// returns its Firestore client.
func NewClient(ctx context.Context, cfg *config.DocumentStoreConfig, logger *slog.Logger) (*firestore.Client, error) {
	if cfg == nil || cfg.ProjectID == "" {
		return nil, errors.New("project ID is required for firestore provider")
	}

	var opts []option.ClientOption
	if cfg.CredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get firestore client")
	}

	logger.Info("Firestore client initialized", slog.String("project_id", cfg.ProjectID))

	return client, nil
}
