package stock_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
	"github.com/jhoicas/xiuxiu-stock/internal/application/stock"
	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/inventory"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/repository"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/memory"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
	"github.com/jhoicas/xiuxiu-stock/pkg/logger"
)

// fakeEncoder usa el contenido subido como foto; "no-es-imagen" simula un archivo inválido.
type fakeEncoder struct{}

func (fakeEncoder) Encode(r io.Reader) (entity.Photo, error) {
	b, err := io.ReadAll(r)
	if err != nil || string(b) == "no-es-imagen" {
		return "", domain.ErrParse
	}
	return entity.Photo("foto:" + string(b)), nil
}

func (fakeEncoder) Decode(p entity.Photo) ([]byte, error) {
	if !p.Present() {
		return nil, domain.ErrNotFound
	}
	return []byte(p), nil
}

func newInitializedUseCase(t *testing.T) (*stock.UseCase, *memory.BlobStore) {
	t.Helper()
	blobs := memory.NewBlobStore()
	uc := stock.NewUseCase(tablestore.NewRepository(blobs), fakeEncoder{}, logger.Nop())
	_, err := uc.InitializeTable(context.Background())
	require.NoError(t, err)
	return uc, blobs
}

func receive(code, color, vendor string, qty int) stock.ReceiveStockInput {
	return stock.ReceiveStockInput{
		Code:     code,
		Color:    color,
		Vendor:   vendor,
		Cost:     decimal.RequireFromString("12.5"),
		Price:    decimal.RequireFromString("25"),
		Quantity: qty,
	}
}

func TestInitializeTable_SoloUnaVez(t *testing.T) {
	uc, blobs := newInitializedUseCase(t)
	assert.Equal(t, "Initialize", blobs.LastMessage())

	_, err := uc.InitializeTable(context.Background())
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestReceiveStock_TablaNoInicializada(t *testing.T) {
	uc := stock.NewUseCase(tablestore.NewRepository(memory.NewBlobStore()), fakeEncoder{}, nil)

	_, err := uc.ReceiveStock(context.Background(), receive("A01", "红", "店1", 2))
	assert.ErrorIs(t, err, domain.ErrTableNotInitialized)
}

func TestReceiveStock_InsertaYLuegoSuma(t *testing.T) {
	uc, blobs := newInitializedUseCase(t)
	ctx := context.Background()

	res, err := uc.ReceiveStock(ctx, receive(" A01 ", "红", "店1", 2))
	require.NoError(t, err)
	assert.Equal(t, string(inventory.OutcomeInserted), res.Outcome)
	assert.Equal(t, "A01", res.Record.Code, "la identidad se recorta")
	assert.Equal(t, "Update A01", blobs.LastMessage())

	in := receive("A01", "红", "店1", 3)
	in.Cost = decimal.RequireFromString("99")
	res, err = uc.ReceiveStock(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, string(inventory.OutcomeIncremented), res.Outcome)
	assert.Equal(t, 5, res.Record.Quantity)
	assert.True(t, decimal.RequireFromString("12.5").Equal(res.Record.Cost), "el costo original se conserva")

	list, err := uc.BrowseStock(ctx, stock.BrowseStockQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestReceiveStock_FotoSePropagaPorCodigo(t *testing.T) {
	uc, _ := newInitializedUseCase(t)
	ctx := context.Background()

	in := receive("A01", "红", "店1", 1)
	in.Photo = strings.NewReader("jpg")
	_, err := uc.ReceiveStock(ctx, in)
	require.NoError(t, err)

	res, err := uc.ReceiveStock(ctx, receive("A01", "蓝", "店2", 1))
	require.NoError(t, err)
	assert.True(t, res.Record.HasPhoto)

	res, err = uc.ReceiveStock(ctx, receive("B02", "蓝", "店2", 1))
	require.NoError(t, err)
	assert.False(t, res.Record.HasPhoto)

	img, err := uc.PhotoForCode(ctx, "A01")
	require.NoError(t, err)
	assert.Equal(t, "foto:jpg", string(img))

	_, err = uc.PhotoForCode(ctx, "B02")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceiveStock_EntradaInvalidaNoEscribe(t *testing.T) {
	uc, blobs := newInitializedUseCase(t)
	ctx := context.Background()
	before := blobs.Content()

	_, err := uc.ReceiveStock(ctx, receive("A01", "  ", "店1", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ReceiveStock(ctx, receive("A01", "红", "店1", -1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in := receive("A01", "红", "店1", 1)
	in.Photo = strings.NewReader("no-es-imagen")
	_, err = uc.ReceiveStock(ctx, in)
	assert.ErrorIs(t, err, domain.ErrParse)

	assert.Equal(t, before, blobs.Content())
	assert.Equal(t, "Initialize", blobs.LastMessage())
}

// staleRepo deja que otra sesión escriba entre el Load y el Save del caso de uso.
type staleRepo struct {
	repository.StockTableRepository
	other *stock.UseCase
}

func (r staleRepo) Load(ctx context.Context) (*entity.StockTable, repository.VersionToken, error) {
	table, version, err := r.StockTableRepository.Load(ctx)
	if err != nil {
		return nil, "", err
	}
	if _, err := r.other.ReceiveStock(ctx, receive("Z99", "黑", "店9", 1)); err != nil {
		return nil, "", err
	}
	return table, version, nil
}

func TestReceiveStock_ConflictoDeVersion(t *testing.T) {
	blobs := memory.NewBlobStore()
	repo := tablestore.NewRepository(blobs)
	other := stock.NewUseCase(repo, fakeEncoder{}, nil)
	_, err := other.InitializeTable(context.Background())
	require.NoError(t, err)

	uc := stock.NewUseCase(staleRepo{StockTableRepository: repo, other: other}, fakeEncoder{}, nil)
	_, err = uc.ReceiveStock(context.Background(), receive("A01", "红", "店1", 1))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	list, err := other.BrowseStock(context.Background(), stock.BrowseStockQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1, "solo persiste la escritura de la otra sesión")
	assert.Equal(t, "Z99", list.Items[0].Code)
}

func TestBrowseStock_NoInicializadaVsIlegible(t *testing.T) {
	ctx := context.Background()

	uc := stock.NewUseCase(tablestore.NewRepository(memory.NewBlobStore()), fakeEncoder{}, nil)
	res, err := uc.BrowseStock(ctx, stock.BrowseStockQuery{})
	require.NoError(t, err)
	assert.False(t, res.Initialized)
	assert.Empty(t, res.Items)

	broken := memory.NewBlobStoreWithContent([]byte("Code,颜色\nA01\n"))
	uc = stock.NewUseCase(tablestore.NewRepository(broken), fakeEncoder{}, nil)
	_, err = uc.BrowseStock(ctx, stock.BrowseStockQuery{})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrTableNotInitialized)
}

func TestBrowseStock_FiltrosYFotos(t *testing.T) {
	uc, _ := newInitializedUseCase(t)
	ctx := context.Background()

	in := receive("ab-01", "红", "Shop Uno", 1)
	in.Photo = strings.NewReader("x")
	_, err := uc.ReceiveStock(ctx, in)
	require.NoError(t, err)
	_, err = uc.ReceiveStock(ctx, receive("AB-02", "蓝", "Shop Dos", 1))
	require.NoError(t, err)
	_, err = uc.ReceiveStock(ctx, receive("CD-03", "蓝", "shop uno", 1))
	require.NoError(t, err)

	res, err := uc.BrowseStock(ctx, stock.BrowseStockQuery{Filter: inventory.StockFilter{Code: "AB"}})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	assert.Equal(t, "ab-01", res.Items[0].Code)
	assert.Equal(t, "AB-02", res.Items[1].Code)
	assert.Empty(t, res.Items[0].Photo, "sin include_photos no se envía la foto")

	res, err = uc.BrowseStock(ctx, stock.BrowseStockQuery{Filter: inventory.StockFilter{Vendor: "UNO"}, IncludePhotos: true})
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	assert.Equal(t, "foto:x", res.Items[0].Photo)
	assert.False(t, res.Items[1].HasPhoto, "la foto de ab-01 no se hereda a otro código")

	res, err = uc.BrowseStock(ctx, stock.BrowseStockQuery{Page: dto.PageRequest{Limit: 2, Offset: 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "AB-02", res.Items[0].Code)
	require.NotNil(t, res.Page)
	assert.Equal(t, 3, res.Page.Total)
}

func TestDeleteRecord(t *testing.T) {
	uc, blobs := newInitializedUseCase(t)
	ctx := context.Background()
	_, err := uc.ReceiveStock(ctx, receive("A01", "红", "店1", 1))
	require.NoError(t, err)
	_, err = uc.ReceiveStock(ctx, receive("A01", "蓝", "店1", 1))
	require.NoError(t, err)

	res, err := uc.DeleteRecord(ctx, entity.RecordKey{Code: "A01", Color: "红", Vendor: "店1"})
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Equal(t, "Delete", blobs.LastMessage())

	before := blobs.Content()
	res, err = uc.DeleteRecord(ctx, entity.RecordKey{Code: "A01", Color: "红", Vendor: "店1"})
	require.NoError(t, err)
	assert.False(t, res.Deleted)
	assert.Equal(t, before, blobs.Content(), "borrar algo ausente no escribe")

	list, err := uc.BrowseStock(ctx, stock.BrowseStockQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "蓝", list.Items[0].Color)

	_, err = uc.DeleteRecord(ctx, entity.RecordKey{Code: "A01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPhotoForCode_CodigoVacio(t *testing.T) {
	uc, _ := newInitializedUseCase(t)
	_, err := uc.PhotoForCode(context.Background(), " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
