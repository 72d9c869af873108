// Package spreadsheet lee archivos de pedido (Excel o CSV) con las columnas
// Code, 颜色, 店家, 数量.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// Columnas obligatorias del pedido.
const (
	ColCode     = "Code"
	ColColor    = "颜色"
	ColVendor   = "店家"
	ColQuantity = "数量"
)

var requiredColumns = []string{ColCode, ColColor, ColVendor, ColQuantity}

var zipMagic = []byte("PK\x03\x04")

// OrderParser convierte un archivo de pedido en líneas tipadas.
type OrderParser struct{}

// NewOrderParser construye el parser.
func NewOrderParser() *OrderParser {
	return &OrderParser{}
}

// Parse detecta el formato por extensión (o por contenido si no la hay) y devuelve las líneas.
// Errores de formato envuelven domain.ErrParse.
func (p *OrderParser) Parse(filename string, r io.Reader) ([]entity.OrderLine, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer pedido: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return parseXLSX(content)
	case ".csv", ".txt":
		return parseCSV(content)
	case ".xls":
		return nil, fmt.Errorf("%w: formato .xls no soportado, guardar como .xlsx o .csv", domain.ErrParse)
	}
	if bytes.HasPrefix(content, zipMagic) {
		return parseXLSX(content)
	}
	return parseCSV(content)
}

func parseXLSX(content []byte) ([]entity.OrderLine, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: abrir Excel: %v", domain.ErrParse, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: Excel sin hojas", domain.ErrParse)
	}
	// Solo se lee la primera hoja del libro.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: leer hoja %q: %v", domain.ErrParse, sheets[0], err)
	}
	return rowsToLines(rows)
}

// parseCSV acepta UTF-8 (con o sin BOM) y, si el archivo no es UTF-8 válido,
// lo interpreta como GB18030 (CSV exportado por Excel en chino simplificado).
func parseCSV(content []byte) ([]entity.OrderLine, error) {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	var src io.Reader = bytes.NewReader(content)
	if !utf8.Valid(content) {
		src = transform.NewReader(src, simplifiedchinese.GB18030.NewDecoder())
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: leer CSV: %v", domain.ErrParse, err)
	}
	return rowsToLines(rows)
}

func rowsToLines(rows [][]string) ([]entity.OrderLine, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: pedido sin encabezado", domain.ErrParse)
	}
	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %q (se requieren: %s)", domain.ErrParse, col, strings.Join(requiredColumns, ", "))
		}
	}

	lines := make([]entity.OrderLine, 0, len(rows)-1)
	for i, row := range rows[1:] {
		// excelize recorta celdas vacías al final de la fila
		cell := func(col string) string {
			if j := idx[col]; j < len(row) {
				return strings.TrimSpace(row[j])
			}
			return ""
		}
		if cell(ColCode) == "" && cell(ColColor) == "" && cell(ColVendor) == "" && cell(ColQuantity) == "" {
			continue
		}
		qty, err := parseQuantity(cell(ColQuantity))
		if err != nil {
			return nil, fmt.Errorf("%w: fila %d: %v", domain.ErrParse, i+2, err)
		}
		lines = append(lines, entity.OrderLine{
			Code:     cell(ColCode),
			Color:    cell(ColColor),
			Vendor:   cell(ColVendor),
			Quantity: qty,
		})
	}
	return lines, nil
}

// parseQuantity celda vacía = 0. Se aceptan decimales ("2.5"); la demanda se
// trunca a entero después de sumar las líneas de cada identidad.
func parseQuantity(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s no numérico: %q", ColQuantity, s)
	}
	return d, nil
}
