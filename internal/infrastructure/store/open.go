package store

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/example/delicias-storefront/internal/config"
)

// Open builds the KeyValueStore selected by cfg.Backend. The returned close
// function releases any connection the backend holds and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.StorageMemory:
		return NewMemoryStore(), noop, nil

	case config.StorageFile:
		return NewFileStore(cfg.Path), noop, nil

	case config.StoragePostgres:
		db, err := ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		s := NewPostgresStore(db, cfg.Namespace)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("failed to create state table: %w", err)
		}
		return s, db.Close, nil

	case config.StorageRedis:
		client, err := ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStore(client, cfg.Namespace, 0), client.Close, nil

	case config.StorageDynamo:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg)
		return NewDynamoStore(client, cfg.DynamoTable, cfg.Namespace), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
