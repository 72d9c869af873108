package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrParse        = errors.New("archivo con formato inválido")

	// ErrStoreUnavailable: la tabla no se pudo leer o interpretar.
	ErrStoreUnavailable = errors.New("almacén de inventario no disponible")
	// ErrTableNotInitialized siempre se reporta junto con ErrStoreUnavailable
	// (ver TableNotInitialized) para distinguir "vacía" de "ilegible".
	ErrTableNotInitialized = errors.New("tabla de inventario no inicializada")
	// ErrVersionConflict: otra sesión escribió la tabla después de leerla.
	ErrVersionConflict = errors.New("conflicto de versión: recargar y reintentar")
)

// TableNotInitialized devuelve un error que satisface errors.Is tanto para
// ErrStoreUnavailable como para ErrTableNotInitialized.
func TableNotInitialized() error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, ErrTableNotInitialized)
}
