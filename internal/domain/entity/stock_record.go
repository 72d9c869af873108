package entity

import (
	"github.com/shopspring/decimal"
)

// NoPhoto es el valor centinela "sin foto". Se conserva el literal histórico
// de la tabla para que los archivos existentes sigan siendo compatibles.
const NoPhoto Photo = "无照片"

// Photo es la foto de un registro: NoPhoto o un JPEG codificado en base64.
type Photo string

// Present indica si la foto no es el centinela (ni está vacía).
func (p Photo) Present() bool {
	return p != NoPhoto && p != ""
}

// RecordKey identifica un registro de inventario: (código, color, tienda).
type RecordKey struct {
	Code   string
	Color  string
	Vendor string
}

// StockRecord representa una fila de la tabla de inventario.
// La foto se comparte por código aunque se guarde copiada en cada fila.
type StockRecord struct {
	Code     string
	Color    string
	Vendor   string
	Cost     decimal.Decimal // costo de la tienda al revendedor
	Price    decimal.Decimal // precio de venta sugerido
	Quantity int             // unidades en existencia
	Photo    Photo
}

// Key devuelve la identidad del registro.
func (r StockRecord) Key() RecordKey {
	return RecordKey{Code: r.Code, Color: r.Color, Vendor: r.Vendor}
}
