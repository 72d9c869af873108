package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
)

var _ tablestore.BlobStore = (*BlobStore)(nil)

// Querier es lo mínimo que se necesita de un pool o una tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BlobStore guarda el archivo de la tabla en stock_files. La escritura es un
// UPDATE condicionado a la versión leída: 0 filas afectadas = conflicto.
type BlobStore struct {
	q    Querier
	path string
}

// NewBlobStore construye el adaptador. Pasar pool o tx (Querier).
func NewBlobStore(q Querier, path string) *BlobStore {
	return &BlobStore{q: q, path: path}
}

// Get obtiene el contenido y la versión actual del archivo.
func (s *BlobStore) Get(ctx context.Context) ([]byte, string, error) {
	var content []byte
	var version string
	err := s.q.QueryRow(ctx,
		`SELECT content, version FROM stock_files WHERE path = $1`, s.path,
	).Scan(&content, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.TableNotInitialized()
		}
		return nil, "", fmt.Errorf("%w: leer %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	return content, version, nil
}

// Put crea el archivo (expected vacío) o lo reemplaza si la versión sigue siendo expected.
func (s *BlobStore) Put(ctx context.Context, content []byte, expected, message string) (string, error) {
	if expected == "" {
		return s.create(ctx, content, message)
	}
	rev, err := tablestore.Revision(expected)
	if err != nil {
		return "", domain.ErrVersionConflict
	}
	version := tablestore.Version(rev+1, content)
	cmd, err := s.q.Exec(ctx, `
		UPDATE stock_files
		SET content = $3, revision = $4, version = $5, message = $6, updated_at = now()
		WHERE path = $1 AND version = $2`,
		s.path, expected, content, rev+1, version, message,
	)
	if err != nil {
		return "", fmt.Errorf("%w: escribir %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	if cmd.RowsAffected() == 0 {
		return "", domain.ErrVersionConflict
	}
	return version, nil
}

// create inserta la primera versión; si el path ya existe la PK responde 23505 = conflicto.
func (s *BlobStore) create(ctx context.Context, content []byte, message string) (string, error) {
	version := tablestore.Version(1, content)
	_, err := s.q.Exec(ctx, `
		INSERT INTO stock_files (path, content, revision, version, message, updated_at)
		VALUES ($1, $2, 1, $3, $4, now())`,
		s.path, content, version, message,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", domain.ErrVersionConflict
		}
		return "", fmt.Errorf("%w: crear %s: %v", domain.ErrStoreUnavailable, s.path, err)
	}
	return version, nil
}
