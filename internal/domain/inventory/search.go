package inventory

import (
	"strings"

	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// StockFilter filtros de búsqueda; campos vacíos no filtran.
type StockFilter struct {
	Code   string
	Vendor string
}

// Search devuelve los registros cuyo código y tienda contienen el texto buscado
// (sin distinguir mayúsculas), en el orden de la tabla.
func Search(table *entity.StockTable, f StockFilter) []entity.StockRecord {
	code := strings.ToLower(strings.TrimSpace(f.Code))
	vendor := strings.ToLower(strings.TrimSpace(f.Vendor))

	out := make([]entity.StockRecord, 0, table.Len())
	if table == nil {
		return out
	}
	for _, r := range table.Records {
		if code != "" && !strings.Contains(strings.ToLower(r.Code), code) {
			continue
		}
		if vendor != "" && !strings.Contains(strings.ToLower(r.Vendor), vendor) {
			continue
		}
		out = append(out, r)
	}
	return out
}
