package stock

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/inventory"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/repository"
	"github.com/jhoicas/xiuxiu-stock/pkg/logger"
)

// UseCase casos de uso sobre la tabla de existencias: inicializar, registrar entradas,
// consultar, ver fotos y borrar. Cada mutación lee la tabla completa con su versión,
// aplica un único cambio y la escribe condicionada a esa versión.
type UseCase struct {
	repo    repository.StockTableRepository
	encoder ImageEncoder
	log     *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.StockTableRepository, encoder ImageEncoder, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, encoder: encoder, log: log.Component("stock")}
}

// ReceiveStockInput entrada de mercancía. Photo es opcional (nil: sin foto nueva).
type ReceiveStockInput struct {
	Code     string
	Color    string
	Vendor   string
	Cost     decimal.Decimal
	Price    decimal.Decimal
	Quantity int
	Photo    io.Reader
}

// InitializeTable crea la tabla vacía (solo cabecera). Si ya existe responde
// domain.ErrVersionConflict sin tocarla.
func (uc *UseCase) InitializeTable(ctx context.Context) (*dto.InitTableResponse, error) {
	opID := uuid.New().String()
	version, err := uc.repo.Save(ctx, entity.NewStockTable(), "", "Initialize")
	if err != nil {
		uc.log.Warn().Str("op_id", opID).Err(err).Msg("no se pudo inicializar la tabla")
		return nil, err
	}
	uc.log.Info().Str("op_id", opID).Str("version", string(version)).Msg("tabla inicializada")
	return &dto.InitTableResponse{Version: string(version)}, nil
}

// ReceiveStock registra mercancía entrante: valida, comprime la foto, resuelve la foto del
// código, fusiona por identidad y guarda con el mensaje "Update <code>".
func (uc *UseCase) ReceiveStock(ctx context.Context, in ReceiveStockInput) (*dto.ReceiveStockResponse, error) {
	merge := inventory.MergeInput{
		Code:     strings.TrimSpace(in.Code),
		Color:    strings.TrimSpace(in.Color),
		Vendor:   strings.TrimSpace(in.Vendor),
		Cost:     in.Cost,
		Price:    in.Price,
		Quantity: in.Quantity,
		Photo:    entity.NoPhoto,
	}
	if err := merge.Validate(); err != nil {
		return nil, err
	}

	// La foto se procesa antes de leer la tabla: una imagen inválida no debe costar una lectura
	if in.Photo != nil {
		photo, err := uc.encoder.Encode(in.Photo)
		if err != nil {
			return nil, err
		}
		merge.Photo = photo
	}

	table, version, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	merge.Photo = inventory.ResolvePhoto(merge.Code, merge.Photo, table)
	updated, outcome, err := inventory.Merge(table, merge)
	if err != nil {
		return nil, err
	}

	opID := uuid.New().String()
	newVersion, err := uc.repo.Save(ctx, updated, version, "Update "+merge.Code)
	if err != nil {
		uc.log.Warn().Str("op_id", opID).Str("code", merge.Code).Str("color", merge.Color).
			Str("vendor", merge.Vendor).Err(err).Msg("no se pudo guardar la entrada de mercancía")
		return nil, err
	}

	rec, _ := updated.Find(entity.RecordKey{Code: merge.Code, Color: merge.Color, Vendor: merge.Vendor})
	uc.log.Info().Str("op_id", opID).Str("outcome", string(outcome)).
		Str("code", merge.Code).Str("color", merge.Color).Str("vendor", merge.Vendor).
		Int("quantity_in", merge.Quantity).Int("quantity", rec.Quantity).
		Str("version", string(newVersion)).Msg("mercancía registrada")

	return &dto.ReceiveStockResponse{
		Outcome: string(outcome),
		Record:  toItemDTO(rec, false),
		Version: string(newVersion),
	}, nil
}

// BrowseStockQuery filtros y paginación del listado.
type BrowseStockQuery struct {
	Filter        inventory.StockFilter
	IncludePhotos bool
	Page          dto.PageRequest
}

// BrowseStock lista los registros filtrados por código y tienda (subcadena, sin distinguir
// mayúsculas). Una tabla no inicializada devuelve lista vacía con Initialized=false;
// una tabla ilegible es error.
func (uc *UseCase) BrowseStock(ctx context.Context, q BrowseStockQuery) (*dto.BrowseStockResponse, error) {
	table, version, err := uc.repo.Load(ctx)
	if errors.Is(err, domain.ErrTableNotInitialized) {
		return &dto.BrowseStockResponse{Initialized: false, Items: []dto.StockItemDTO{}}, nil
	}
	if err != nil {
		return nil, err
	}

	records := inventory.Search(table, q.Filter)
	q.Page.Normalize()
	start, end := q.Page.Bounds(len(records))
	items := make([]dto.StockItemDTO, 0, end-start)
	for _, r := range records[start:end] {
		items = append(items, toItemDTO(r, q.IncludePhotos))
	}
	res := &dto.BrowseStockResponse{
		Initialized: true,
		Version:     string(version),
		Total:       len(records),
		Items:       items,
	}
	if q.Page.Limit > 0 || q.Page.Offset > 0 {
		res.Page = &dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset, Total: len(records)}
	}
	return res, nil
}

// PhotoForCode devuelve el JPEG de la foto del código (la primera foto real en orden de tabla).
// domain.ErrNotFound si ningún registro del código tiene foto.
func (uc *UseCase) PhotoForCode(ctx context.Context, code string) ([]byte, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	table, _, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	photo := inventory.ResolvePhoto(code, entity.NoPhoto, table)
	if !photo.Present() {
		return nil, domain.ErrNotFound
	}
	return uc.encoder.Decode(photo)
}

// DeleteRecord borra el registro con la identidad dada. Si ya no existe no se escribe
// nada y se responde Deleted=false con la versión leída.
func (uc *UseCase) DeleteRecord(ctx context.Context, key entity.RecordKey) (*dto.DeleteStockResponse, error) {
	key = entity.RecordKey{
		Code:   strings.TrimSpace(key.Code),
		Color:  strings.TrimSpace(key.Color),
		Vendor: strings.TrimSpace(key.Vendor),
	}
	if key.Code == "" || key.Color == "" || key.Vendor == "" {
		return nil, domain.ErrInvalidInput
	}

	table, version, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	updated, removed := inventory.DeleteRecord(table, key)
	if !removed {
		return &dto.DeleteStockResponse{Deleted: false, Version: string(version)}, nil
	}

	opID := uuid.New().String()
	newVersion, err := uc.repo.Save(ctx, updated, version, "Delete")
	if err != nil {
		uc.log.Warn().Str("op_id", opID).Str("code", key.Code).Str("color", key.Color).
			Str("vendor", key.Vendor).Err(err).Msg("no se pudo borrar el registro")
		return nil, err
	}
	uc.log.Info().Str("op_id", opID).Str("code", key.Code).Str("color", key.Color).
		Str("vendor", key.Vendor).Str("version", string(newVersion)).Msg("registro borrado")
	return &dto.DeleteStockResponse{Deleted: true, Version: string(newVersion)}, nil
}

func toItemDTO(r entity.StockRecord, includePhoto bool) dto.StockItemDTO {
	item := dto.StockItemDTO{
		Code:     r.Code,
		Color:    r.Color,
		Vendor:   r.Vendor,
		Cost:     r.Cost,
		Price:    r.Price,
		Quantity: r.Quantity,
		HasPhoto: r.Photo.Present(),
	}
	if includePhoto && item.HasPhoto {
		item.Photo = string(r.Photo)
	}
	return item
}
