// Package gcs guarda el archivo de la tabla como objeto de Google Cloud Storage.
// La generación del objeto es el token de versión y las escrituras usan precondiciones
// (DoesNotExist / GenerationMatch): GCS responde 412 si otra sesión escribió antes.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
)

var _ tablestore.BlobStore = (*BlobStore)(nil)

// BlobStore adaptador GCS.
type BlobStore struct {
	client *storage.Client
	bucket string
	object string
}

// NewBlobStore construye el adaptador.
func NewBlobStore(client *storage.Client, bucket, object string) *BlobStore {
	return &BlobStore{client: client, bucket: bucket, object: object}
}

func (s *BlobStore) handle() *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.object)
}

// Get descarga el objeto; la versión es su generación.
func (s *BlobStore) Get(ctx context.Context) ([]byte, string, error) {
	r, err := s.handle().NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, "", domain.TableNotInitialized()
		}
		return nil, "", fmt.Errorf("%w: gcs leer %s/%s: %v", domain.ErrStoreUnavailable, s.bucket, s.object, err)
	}
	defer r.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: gcs descargar %s/%s: %v", domain.ErrStoreUnavailable, s.bucket, s.object, err)
	}
	return content, strconv.FormatInt(r.Attrs.Generation, 10), nil
}

// Put sube el objeto condicionado a la generación esperada.
func (s *BlobStore) Put(ctx context.Context, content []byte, expected, message string) (string, error) {
	cond := storage.Conditions{DoesNotExist: true}
	if expected != "" {
		gen, err := strconv.ParseInt(expected, 10, 64)
		if err != nil || gen <= 0 {
			return "", domain.ErrVersionConflict
		}
		cond = storage.Conditions{GenerationMatch: gen}
	}

	w := s.handle().If(cond).NewWriter(ctx)
	w.ContentType = "text/csv; charset=utf-8"
	w.CacheControl = "no-store"
	w.Metadata = map[string]string{"message": message}

	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", s.writeError(err)
	}
	if err := w.Close(); err != nil {
		return "", s.writeError(err)
	}
	return strconv.FormatInt(w.Attrs().Generation, 10), nil
}

func (s *BlobStore) writeError(err error) error {
	if isPreconditionFailed(err) {
		return domain.ErrVersionConflict
	}
	return fmt.Errorf("%w: gcs escribir %s/%s: %v", domain.ErrStoreUnavailable, s.bucket, s.object, err)
}

// isPreconditionFailed: GCS devuelve HTTP 412 cuando no se cumple la precondición.
func isPreconditionFailed(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed
}
