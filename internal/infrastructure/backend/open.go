// Package backend abre el almacén versionado de la tabla según STORE_BACKEND.
package backend

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/gcs"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/memory"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/redisstore"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
	"github.com/jhoicas/xiuxiu-stock/pkg/config"
	"github.com/jhoicas/xiuxiu-stock/pkg/logger"
)

// Open abre el almacén de la tabla según STORE_BACKEND.
// La función devuelta libera conexiones y clientes.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (tablestore.BlobStore, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
			return nil, noop, fmt.Errorf("migraciones: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, noop, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return postgres.NewBlobStore(pool, cfg.Store.Path), pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("conexión a Redis %s: %w", cfg.Redis.Addr, err)
		}
		return redisstore.NewBlobStore(client, cfg.Redis.KeyPrefix, cfg.Store.Path), func() { _ = client.Close() }, nil

	case config.BackendGCS:
		var opts []option.ClientOption
		if cfg.GCS.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.GCS.CredentialsFile))
		}
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, noop, fmt.Errorf("cliente GCS: %w", err)
		}
		return gcs.NewBlobStore(client, cfg.GCS.Bucket, cfg.Store.Path), func() { _ = client.Close() }, nil

	default:
		log.Warn().Msg("STORE_BACKEND=memory: la tabla no sobrevive a un reinicio")
		return memory.NewBlobStore(), noop, nil
	}
}
