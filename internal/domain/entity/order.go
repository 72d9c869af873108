package entity

import "github.com/shopspring/decimal"

// OrderLine es una fila del pedido cargado: Code, 颜色, 店家, 数量.
// Quantity no se valida más allá de ser numérica; puede traer decimales.
type OrderLine struct {
	Code     string
	Color    string
	Vendor   string
	Quantity decimal.Decimal
}

// Key devuelve la identidad (código, color, tienda) de la línea.
func (l OrderLine) Key() RecordKey {
	return RecordKey{Code: l.Code, Color: l.Color, Vendor: l.Vendor}
}

// ShortageEntry es el faltante de una identidad: Demand agregada del pedido,
// Supply en existencia y Shortage = Demand - Supply (siempre > 0). No se persiste.
type ShortageEntry struct {
	Code     string
	Color    string
	Vendor   string
	Demand   int
	Supply   int
	Shortage int
}
