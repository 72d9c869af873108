// Package redisstore guarda el archivo de la tabla en Redis con escritura optimista (WATCH/MULTI).
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
)

var _ tablestore.BlobStore = (*BlobStore)(nil)

var errStale = errors.New("versión distinta a la esperada")

// BlobStore usa tres claves: <prefix>:<path>:content, :version y :message.
type BlobStore struct {
	client     *redis.Client
	contentKey string
	versionKey string
	messageKey string
}

// NewBlobStore construye el adaptador.
func NewBlobStore(client *redis.Client, prefix, path string) *BlobStore {
	base := prefix + ":" + path
	return &BlobStore{
		client:     client,
		contentKey: base + ":content",
		versionKey: base + ":version",
		messageKey: base + ":message",
	}
}

// Get lee contenido y versión en una sola operación (MGET es atómico).
func (s *BlobStore) Get(ctx context.Context) ([]byte, string, error) {
	vals, err := s.client.MGet(ctx, s.contentKey, s.versionKey).Result()
	if err != nil {
		return nil, "", fmt.Errorf("%w: redis MGET: %v", domain.ErrStoreUnavailable, err)
	}
	content, okContent := vals[0].(string)
	version, okVersion := vals[1].(string)
	if !okContent || !okVersion {
		return nil, "", domain.TableNotInitialized()
	}
	return []byte(content), version, nil
}

// Put observa la clave de versión; si cambia entre la comparación y el EXEC,
// Redis aborta la transacción y se reporta conflicto.
func (s *BlobStore) Put(ctx context.Context, content []byte, expected, message string) (string, error) {
	var version string
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, s.versionKey).Result()
		if errors.Is(err, redis.Nil) {
			current = ""
		} else if err != nil {
			return err
		}
		if current != expected {
			return errStale
		}

		var rev int64
		if expected != "" {
			if rev, err = tablestore.Revision(expected); err != nil {
				return errStale
			}
		}
		version = tablestore.Version(rev+1, content)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.contentKey, content, 0)
			pipe.Set(ctx, s.versionKey, version, 0)
			pipe.Set(ctx, s.messageKey, message, 0)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, s.versionKey)
	switch {
	case err == nil:
		return version, nil
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		return "", domain.ErrVersionConflict
	default:
		return "", fmt.Errorf("%w: redis: %v", domain.ErrStoreUnavailable, err)
	}
}
