package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
)

var _ tablestore.BlobStore = (*BlobStore)(nil)

// BlobStore almacén versionado en memoria (tests y STORE_BACKEND=memory).
type BlobStore struct {
	mu       sync.Mutex
	exists   bool
	content  []byte
	revision int64
	version  string
	message  string
}

// NewBlobStore crea un almacén vacío (tabla no inicializada).
func NewBlobStore() *BlobStore {
	return &BlobStore{}
}

// NewBlobStoreWithContent crea un almacén con un archivo ya existente (revisión 1).
func NewBlobStoreWithContent(content []byte) *BlobStore {
	s := &BlobStore{}
	s.store(content, "seed")
	return s
}

// Get devuelve una copia del archivo y su versión.
func (s *BlobStore) Get(_ context.Context) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return nil, "", domain.TableNotInitialized()
	}
	return append([]byte(nil), s.content...), s.version, nil
}

// Put reemplaza el archivo si expected coincide con la versión actual.
func (s *BlobStore) Put(_ context.Context, content []byte, expected, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expected != s.version {
		return "", domain.ErrVersionConflict
	}
	s.store(content, message)
	return s.version, nil
}

// LastMessage devuelve el mensaje de la última escritura.
func (s *BlobStore) LastMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Content devuelve una copia del archivo actual (nil si no existe).
func (s *BlobStore) Content() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.exists {
		return nil
	}
	return append([]byte(nil), s.content...)
}

func (s *BlobStore) store(content []byte, message string) {
	s.revision++
	s.exists = true
	s.content = append([]byte(nil), content...)
	s.version = tablestore.Version(s.revision, s.content)
	s.message = message
}
