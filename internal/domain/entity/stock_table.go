package entity

// StockTable es la tabla completa de inventario, en el orden en que se persiste.
// Es la unidad de lectura/escritura: cada mutación produce una tabla nueva.
type StockTable struct {
	Records []StockRecord
}

// NewStockTable construye una tabla con los registros dados (sin copiarlos).
func NewStockTable(records ...StockRecord) *StockTable {
	return &StockTable{Records: records}
}

// Len devuelve el número de registros.
func (t *StockTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// IndexOf devuelve la posición del registro con la identidad dada, o -1.
func (t *StockTable) IndexOf(key RecordKey) int {
	if t == nil {
		return -1
	}
	for i := range t.Records {
		if t.Records[i].Key() == key {
			return i
		}
	}
	return -1
}

// Find devuelve una copia del registro con la identidad dada.
func (t *StockTable) Find(key RecordKey) (StockRecord, bool) {
	i := t.IndexOf(key)
	if i < 0 {
		return StockRecord{}, false
	}
	return t.Records[i], true
}

// Clone devuelve una copia independiente de la tabla.
func (t *StockTable) Clone() *StockTable {
	if t == nil {
		return &StockTable{}
	}
	records := make([]StockRecord, len(t.Records))
	copy(records, t.Records)
	return &StockTable{Records: records}
}
