package store

import (
	"context"
	"fmt"

	"github.com/isdelr/event-registry/internal/config"
)

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Datastore) (EventStore, error) {
	switch cfg.Driver {
	case config.DriverFirestore:
		client, err := NewFirestoreClient(ctx, cfg.ProjectID, cfg.CredentialsJSON)
		if err != nil {
			return nil, err
		}
		return NewFirestoreStore(client, cfg.Collection), nil
	case config.DriverMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB, cfg.Collection)
	case config.DriverSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown datastore driver %q", cfg.Driver)
	}
}
