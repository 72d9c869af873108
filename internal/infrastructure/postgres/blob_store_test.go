package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
)

// testPool conecta a TEST_DATABASE_URL; sin base de datos disponible el test se omite.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	require.NoError(t, MigrateUp(url))
	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Skipf("PostgreSQL no disponible: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestBlobStore_CicloOptimista(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	path := "test-" + t.Name() + ".csv"
	_, _ = pool.Exec(ctx, `DELETE FROM stock_files WHERE path = $1`, path)
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM stock_files WHERE path = $1`, path) })

	s := NewBlobStore(pool, path)

	_, _, err := s.Get(ctx)
	require.ErrorIs(t, err, domain.ErrTableNotInitialized)

	v1, err := s.Put(ctx, []byte("header\n"), "", "init")
	require.NoError(t, err)
	_, err = s.Put(ctx, []byte("header\n"), "", "init")
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	content, v, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "header\n", string(content))
	assert.Equal(t, v1, v)

	v2, err := s.Put(ctx, []byte("header\nrow\n"), v1, "Update A01")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	_, err = s.Put(ctx, []byte("otra\n"), v1, "stale")
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	_, err = s.Put(ctx, []byte("otra\n"), "basura", "stale")
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

// execErrQuerier responde a Exec con un error fijo.
type execErrQuerier struct{ err error }

func (q execErrQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, q.err
}

func (q execErrQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestBlobStore_CrearSobreExistenteEsConflicto(t *testing.T) {
	s := NewBlobStore(execErrQuerier{err: &pgconn.PgError{Code: "23505"}}, "data.csv")
	_, err := s.Put(context.Background(), []byte("header\n"), "", "Initialize")
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	s = NewBlobStore(execErrQuerier{err: errors.New("conexión cerrada")}, "data.csv")
	_, err = s.Put(context.Background(), []byte("header\n"), "", "Initialize")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrVersionConflict)
}

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", pgx5URL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://u@h/db", pgx5URL("postgresql://u@h/db"))
	assert.Equal(t, "pgx5://u@h/db", pgx5URL("pgx5://u@h/db"))
}
