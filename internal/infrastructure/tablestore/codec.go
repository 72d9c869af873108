// Package tablestore traduce la tabla de inventario a su archivo CSV y la persiste
// sobre un almacén versionado de un solo archivo (BlobStore).
package tablestore

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// Columnas del archivo; los nombres son el contrato con los archivos existentes.
const (
	ColCode     = "Code"
	ColColor    = "颜色"
	ColVendor   = "店家"
	ColCost     = "本钱"
	ColPrice    = "卖价"
	ColQuantity = "现货件数"
	ColPhoto    = "照片"
)

// Header es el encabezado que escribe Encode.
var Header = []string{ColCode, ColColor, ColVendor, ColCost, ColPrice, ColQuantity, ColPhoto}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encode serializa la tabla completa. El resultado es determinista:
// Encode(Decode(Encode(t))) produce los mismos bytes.
func Encode(t *entity.StockTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("escribir encabezado: %w", err)
	}
	if t != nil {
		for _, r := range t.Records {
			photo := r.Photo
			if !photo.Present() {
				photo = entity.NoPhoto
			}
			row := []string{
				r.Code,
				r.Color,
				r.Vendor,
				r.Cost.String(),
				r.Price.String(),
				strconv.Itoa(r.Quantity),
				string(photo),
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("escribir fila %s/%s/%s: %w", r.Code, r.Color, r.Vendor, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("serializar tabla: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode interpreta el archivo y valida cada fila. Las columnas se ubican por nombre
// (se ignoran columnas extra); celdas vacías de costo, precio o cantidad valen 0 y
// una foto vacía equivale a NoPhoto. Cualquier otro valor inválido es domain.ErrParse.
func Decode(content []byte) (*entity.StockTable, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: leer CSV: %v", domain.ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: archivo sin encabezado", domain.ErrParse)
	}

	idx, err := columnIndex(records[0])
	if err != nil {
		return nil, err
	}

	table := &entity.StockTable{Records: make([]entity.StockRecord, 0, len(records)-1)}
	for i, row := range records[1:] {
		if isBlankRow(row) {
			continue
		}
		if len(row) != len(records[0]) {
			return nil, fmt.Errorf("%w: fila %d: se esperaban %d columnas, hay %d", domain.ErrParse, i+2, len(records[0]), len(row))
		}
		rec, err := parseRecord(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: fila %d: %v", domain.ErrParse, i+2, err)
		}
		table.Records = append(table.Records, rec)
	}
	return table, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range Header {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %q", domain.ErrParse, col)
		}
	}
	return idx, nil
}

func parseRecord(row []string, idx map[string]int) (entity.StockRecord, error) {
	cell := func(col string) string { return row[idx[col]] }
	// la identidad se compara exacta: se guarda recortada igual que al registrar
	ident := func(col string) string { return strings.TrimSpace(cell(col)) }

	cost, err := parseMoney(cell(ColCost))
	if err != nil {
		return entity.StockRecord{}, fmt.Errorf("%s: %w", ColCost, err)
	}
	price, err := parseMoney(cell(ColPrice))
	if err != nil {
		return entity.StockRecord{}, fmt.Errorf("%s: %w", ColPrice, err)
	}
	qty, err := parseQuantity(cell(ColQuantity))
	if err != nil {
		return entity.StockRecord{}, fmt.Errorf("%s: %w", ColQuantity, err)
	}
	photo := entity.Photo(strings.TrimSpace(cell(ColPhoto)))
	if !photo.Present() {
		photo = entity.NoPhoto
	}
	return entity.StockRecord{
		Code:     ident(ColCode),
		Color:    ident(ColColor),
		Vendor:   ident(ColVendor),
		Cost:     cost,
		Price:    price,
		Quantity: qty,
		Photo:    photo,
	}, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor no numérico %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %q", s)
	}
	return d, nil
}

// parseQuantity acepta "5" y también "5.0" (archivos escritos con columnas float).
func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("valor no numérico %q", s)
	}
	if !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("se esperaba un entero no negativo, hay %q", s)
	}
	return int(d.IntPart()), nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
