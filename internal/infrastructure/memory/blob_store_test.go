package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
)

func TestBlobStore_CicloDeVersiones(t *testing.T) {
	ctx := context.Background()
	s := NewBlobStore()

	_, _, err := s.Get(ctx)
	require.ErrorIs(t, err, domain.ErrTableNotInitialized)

	v1, err := s.Put(ctx, []byte("a"), "", "init")
	require.NoError(t, err)

	content, v, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))
	assert.Equal(t, v1, v)

	// El contenido devuelto es una copia
	content[0] = 'z'
	again, _, _ := s.Get(ctx)
	assert.Equal(t, "a", string(again))

	v2, err := s.Put(ctx, []byte("a"), v1, "mismo contenido")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2, "cada escritura invalida el token anterior")

	_, err = s.Put(ctx, []byte("b"), v1, "viejo")
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	_, err = s.Put(ctx, []byte("b"), "", "crear")
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.Equal(t, "mismo contenido", s.LastMessage())
}
