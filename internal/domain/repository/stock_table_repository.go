package repository

import (
	"context"

	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// VersionToken identifica la revisión persistida de la tabla (opaco para el dominio).
// El valor vacío significa "la tabla todavía no existe".
type VersionToken string

// StockTableRepository define el puerto de persistencia de la tabla completa (DIP).
// No hay escrituras parciales: Save reemplaza la tabla entera.
type StockTableRepository interface {
	// Load devuelve la tabla y su versión. Si no existe responde con
	// domain.TableNotInitialized(); si no se puede leer o interpretar, con
	// un error que envuelve domain.ErrStoreUnavailable.
	Load(ctx context.Context) (*entity.StockTable, VersionToken, error)

	// Save escribe la tabla solo si la versión almacenada sigue siendo expected
	// (expected vacío: solo si la tabla no existe). Si no, domain.ErrVersionConflict.
	// message describe el cambio (p. ej. "Update A01").
	Save(ctx context.Context, table *entity.StockTable, expected VersionToken, message string) (VersionToken, error)
}
