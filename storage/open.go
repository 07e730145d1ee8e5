package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"precastcatalog/config"
)

// Open returns the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (KV, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	var (
		kv  KV
		err error
	)
	switch cfg.StoreDriver {
	case "memory":
		kv = NewMemoryKV()
	case "sqlite":
		kv, err = OpenSQLite(cfg.SQLitePath)
	case "postgres":
		kv, err = OpenPostgres(cfg.PostgresDSN())
	case "gorm-postgres":
		kv, err = OpenGorm("postgres", cfg.PostgresDSN())
	case "gorm-mysql":
		kv, err = OpenGorm("mysql", cfg.MySQLDSN())
	case "redis":
		kv, err = OpenRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	log.Info("[Storage] store opened", zap.String("driver", cfg.StoreDriver))
	return kv, nil
}
