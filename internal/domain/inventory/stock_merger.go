package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// MergeOutcome resultado de fusionar una entrada de stock en la tabla.
type MergeOutcome string

const (
	OutcomeInserted    MergeOutcome = "INSERTED"
	OutcomeIncremented MergeOutcome = "INCREMENTED"
)

// MergeInput entrada de mercancía a fusionar.
type MergeInput struct {
	Code     string
	Color    string
	Vendor   string
	Cost     decimal.Decimal
	Price    decimal.Decimal
	Quantity int
	Photo    entity.Photo
}

// Validate verifica las precondiciones de Merge.
func (in MergeInput) Validate() error {
	if strings.TrimSpace(in.Code) == "" || strings.TrimSpace(in.Color) == "" || strings.TrimSpace(in.Vendor) == "" {
		return domain.ErrInvalidInput
	}
	if in.Quantity < 0 || in.Cost.IsNegative() || in.Price.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Merge aplica una entrada sobre la tabla y devuelve una tabla nueva; la original no se modifica.
// Si ya existe la identidad (código, color, tienda) solo suma la cantidad y, si la foto no es
// el centinela, la reemplaza; costo y precio se conservan. Si no existe, agrega la fila tal cual.
func Merge(table *entity.StockTable, in MergeInput) (*entity.StockTable, MergeOutcome, error) {
	if err := in.Validate(); err != nil {
		return table, "", err
	}
	photo := in.Photo
	if !photo.Present() {
		photo = entity.NoPhoto
	}

	out := table.Clone()
	key := entity.RecordKey{Code: in.Code, Color: in.Color, Vendor: in.Vendor}
	if i := out.IndexOf(key); i >= 0 {
		out.Records[i].Quantity += in.Quantity
		if photo.Present() {
			out.Records[i].Photo = photo
		}
		return out, OutcomeIncremented, nil
	}

	out.Records = append(out.Records, entity.StockRecord{
		Code:     in.Code,
		Color:    in.Color,
		Vendor:   in.Vendor,
		Cost:     in.Cost,
		Price:    in.Price,
		Quantity: in.Quantity,
		Photo:    photo,
	})
	return out, OutcomeInserted, nil
}
