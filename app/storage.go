package app

import (
	"context"
	"fmt"
	"io"

	"github.com/gongxings/ai-creator/internal/config"
	"github.com/gongxings/ai-creator/storage"
	"github.com/gongxings/ai-creator/storage/filestore"
	"github.com/gongxings/ai-creator/storage/redisstore"
	"github.com/gongxings/ai-creator/storage/repofake"
	"github.com/gongxings/ai-creator/storage/sqlitestore"
)

// openStorage returns the configured session backend and, for backends that
// hold a connection, its closer.
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Repo, io.Closer, error) {
	switch backend := cfg.GetStorageBackend(); backend {
	case config.StorageMemory:
		return repofake.NewFakeRepo(), nil, nil
	case config.StorageFile:
		store, err := filestore.New(cfg.GetSessionFile(), filestore.WithEncryptionKey(cfg.GetEncryptionKey()))
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case config.StorageRedis:
		store, err := redisstore.Dial(ctx, cfg.GetRedisAddr(), cfg.GetRedisPassword(), cfg.GetRedisDB(), cfg.GetRedisPrefix())
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.StorageSQLite:
		store, err := sqlitestore.Open(cfg.GetSQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown session storage %q", backend)
	}
}
