package tablestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/repository"
)

// BlobStore es el almacén remoto versionado de un único archivo (lectura y
// escritura completas con control optimista).
//
// Get responde domain.TableNotInitialized() si el archivo no existe.
// Put escribe solo si la versión actual es expected (vacío: solo si no existe);
// si no, domain.ErrVersionConflict. Fallos de transporte envuelven domain.ErrStoreUnavailable.
type BlobStore interface {
	Get(ctx context.Context) (content []byte, version string, err error)
	Put(ctx context.Context, content []byte, expected, message string) (version string, err error)
}

// Ensure Repository implements repository.StockTableRepository.
var _ repository.StockTableRepository = (*Repository)(nil)

// Repository implementa StockTableRepository sobre un BlobStore y el códec CSV.
type Repository struct {
	blobs BlobStore
}

// NewRepository construye el repositorio.
func NewRepository(blobs BlobStore) *Repository {
	return &Repository{blobs: blobs}
}

// Load lee y valida la tabla completa.
func (r *Repository) Load(ctx context.Context) (*entity.StockTable, repository.VersionToken, error) {
	content, version, err := r.blobs.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	table, err := Decode(content)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return table, repository.VersionToken(version), nil
}

// Save serializa y escribe la tabla completa condicionada a expected.
func (r *Repository) Save(ctx context.Context, table *entity.StockTable, expected repository.VersionToken, message string) (repository.VersionToken, error) {
	content, err := Encode(table)
	if err != nil {
		return "", err
	}
	version, err := r.blobs.Put(ctx, content, string(expected), message)
	if err != nil {
		return "", err
	}
	return repository.VersionToken(version), nil
}

// Version arma el token "<revisión>-<hash>" que usan los almacenes propios
// (memoria, PostgreSQL, Redis). La revisión crece en cada escritura, así que un
// token viejo nunca vuelve a ser válido aunque el contenido se repita.
func Version(revision int64, content []byte) string {
	sum := sha256.Sum256(content)
	return strconv.FormatInt(revision, 10) + "-" + hex.EncodeToString(sum[:10])
}

// Revision extrae la revisión de un token generado por Version.
func Revision(version string) (int64, error) {
	rev, _, ok := strings.Cut(version, "-")
	if !ok {
		return 0, errors.New("token de versión inválido")
	}
	n, err := strconv.ParseInt(rev, 10, 64)
	if err != nil || n < 1 {
		return 0, errors.New("token de versión inválido")
	}
	return n, nil
}
