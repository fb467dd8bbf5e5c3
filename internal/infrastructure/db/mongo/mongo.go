// Package mongo holds the MongoDB-backed credential store.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/orderdesk/orderdesk/internal/pkg/config"
)

const (
	selectionTimeout = 10 * time.Second
	// One document is read or replaced per sign-in or refresh.
	maxPoolSize = 4
)

// Handle owns the client and the database the credential document lives in.
type Handle struct {
	client *mongo.Client
	db     *mongo.Database
}

func clientOptions(cfg config.MongoConfig) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.URI).
		SetAppName("orderdesk").
		SetMaxPoolSize(maxPoolSize).
		SetServerSelectionTimeout(selectionTimeout).
		SetRetryWrites(true)
}

// Open connects and waits until a primary is selectable.
func Open(ctx context.Context, cfg config.MongoConfig) (*Handle, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo: database name is empty")
	}

	client, err := mongo.Connect(ctx, clientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	h := &Handle{client: client, db: client.Database(cfg.Database)}
	pingCtx, cancel := context.WithTimeout(ctx, selectionTimeout)
	defer cancel()
	if err := h.Ready(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return h, nil
}

// Credentials returns the credential store backed by this database.
func (h *Handle) Credentials() *CredentialStore {
	return NewCredentialStore(h.db)
}

// Ready pings the primary; it backs the readiness endpoint.
func (h *Handle) Ready(ctx context.Context) error {
	return h.client.Ping(ctx, readpref.Primary())
}

func (h *Handle) Close(ctx context.Context) error {
	return h.client.Disconnect(ctx)
}
