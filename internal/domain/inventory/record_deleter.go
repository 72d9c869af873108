package inventory

import "github.com/jhoicas/xiuxiu-stock/internal/domain/entity"

// DeleteRecord quita exactamente el registro con la identidad dada y devuelve una tabla nueva.
// Si ya no existe (otra sesión lo borró) no es error: devuelve la tabla intacta y false.
func DeleteRecord(table *entity.StockTable, key entity.RecordKey) (*entity.StockTable, bool) {
	i := table.IndexOf(key)
	if i < 0 {
		return table, false
	}
	out := &entity.StockTable{Records: make([]entity.StockRecord, 0, table.Len()-1)}
	out.Records = append(out.Records, table.Records[:i]...)
	out.Records = append(out.Records, table.Records[i+1:]...)
	return out, true
}
