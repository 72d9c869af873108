package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// Reconcile compara la demanda agregada del pedido contra la existencia actual.
//
//  1. Agrupa las líneas por (código, color, tienda) con comparación exacta de texto.
//  2. Suma las cantidades de cada grupo y trunca la suma a entero (demanda).
//  3. Existencia = cantidad del registro con la misma identidad, 0 si no existe.
//  4. Emite un faltante solo cuando demanda > existencia.
//
// El orden de salida es el de la primera aparición de cada grupo en el pedido.
// Sin líneas devuelve un reporte vacío (nunca nil).
func Reconcile(lines []entity.OrderLine, table *entity.StockTable) []entity.ShortageEntry {
	demand := make(map[entity.RecordKey]decimal.Decimal, len(lines))
	order := make([]entity.RecordKey, 0, len(lines))
	for _, l := range lines {
		k := l.Key()
		if _, seen := demand[k]; !seen {
			order = append(order, k)
		}
		demand[k] = demand[k].Add(l.Quantity)
	}

	supply := make(map[entity.RecordKey]int)
	if table != nil {
		for _, r := range table.Records {
			// el merger mantiene una fila por identidad; ante datos legados duplicados gana la primera
			if _, ok := supply[r.Key()]; !ok {
				supply[r.Key()] = r.Quantity
			}
		}
	}

	report := make([]entity.ShortageEntry, 0)
	for _, k := range order {
		d, have := int(demand[k].IntPart()), supply[k]
		if diff := d - have; diff > 0 {
			report = append(report, entity.ShortageEntry{
				Code:     k.Code,
				Color:    k.Color,
				Vendor:   k.Vendor,
				Demand:   d,
				Supply:   have,
				Shortage: diff,
			})
		}
	}
	return report
}
