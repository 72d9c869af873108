package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
	"github.com/jhoicas/xiuxiu-stock/internal/application/stock"
	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/inventory"
)

// StockHandler maneja las peticiones HTTP sobre la tabla de existencias.
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Initialize godoc
// @Summary      Inicializar la tabla de inventario
// @Description  Crea la tabla vacía (solo cabecera). Falla con 409 si ya existe.
// @Tags         stock
// @Produce      json
// @Success      201  {object}  dto.InitTableResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock/init [post]
func (h *StockHandler) Initialize(c *fiber.Ctx) error {
	res, err := h.uc.InitializeTable(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Receive godoc
// @Summary      Registrar mercancía entrante
// @Description  Suma la cantidad si (code, color, vendor) ya existe; si no, agrega la fila.
//
//	La foto es opcional; sin foto se reutiliza la de otro registro del mismo código.
//
// @Tags         stock
// @Accept       multipart/form-data
// @Produce      json
// @Param        code      formData  string  true   "Código del producto"
// @Param        color     formData  string  true   "Color"
// @Param        vendor    formData  string  true   "Tienda proveedora"
// @Param        cost      formData  string  false  "Costo unitario"
// @Param        price     formData  string  false  "Precio de venta"
// @Param        quantity  formData  int     true   "Cantidad recibida"
// @Param        photo     formData  file    false  "Foto (jpeg, png o gif)"
// @Success      200  {object}  dto.ReceiveStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var req dto.ReceiveStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "formulario inválido"})
	}

	in := stock.ReceiveStockInput{Code: req.Code, Color: req.Color, Vendor: req.Vendor}
	var err error
	if in.Cost, err = parseAmount(req.Cost); err != nil {
		return writeError(c, err)
	}
	if in.Price, err = parseAmount(req.Price); err != nil {
		return writeError(c, err)
	}
	if in.Quantity, err = strconv.Atoi(strings.TrimSpace(req.Quantity)); err != nil {
		return writeError(c, domain.ErrInvalidInput)
	}

	if fh, ferr := c.FormFile("photo"); ferr == nil && fh.Size > 0 {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer la foto"})
		}
		defer f.Close()
		in.Photo = f
	}

	res, err := h.uc.ReceiveStock(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Browse godoc
// @Summary      Consultar existencias
// @Description  Filtros opcionales por subcadena (sin distinguir mayúsculas) en código y tienda.
// @Tags         stock
// @Produce      json
// @Param        code            query  string  false  "Filtro por código"
// @Param        vendor          query  string  false  "Filtro por tienda"
// @Param        include_photos  query  bool    false  "Incluir fotos en base64"
// @Param        limit           query  int     false  "Tamaño de página (0 = todo)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.BrowseStockResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Browse(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit/offset inválidos"})
	}
	res, err := h.uc.BrowseStock(c.UserContext(), stock.BrowseStockQuery{
		Filter:        inventory.StockFilter{Code: c.Query("code"), Vendor: c.Query("vendor")},
		IncludePhotos: c.QueryBool("include_photos", false),
		Page:          page,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Delete godoc
// @Summary      Borrar un registro
// @Description  Borra exactamente el registro (code, color, vendor). Si no existe responde deleted=false.
// @Tags         stock
// @Produce      json
// @Param        code    query  string  true  "Código"
// @Param        color   query  string  true  "Color"
// @Param        vendor  query  string  true  "Tienda"
// @Success      200  {object}  dto.DeleteStockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stock [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	key := entity.RecordKey{Code: c.Query("code"), Color: c.Query("color"), Vendor: c.Query("vendor")}
	res, err := h.uc.DeleteRecord(c.UserContext(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Photo godoc
// @Summary      Foto de un código
// @Tags         stock
// @Produce      jpeg
// @Param        code  path  string  true  "Código"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/photos/{code} [get]
func (h *StockHandler) Photo(c *fiber.Ctx) error {
	code, err := urlParam(c, "code")
	if err != nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	img, err := h.uc.PhotoForCode(c.UserContext(), code)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(img)
}

// parseAmount interpreta costo o precio; vacío es 0.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return d, nil
}
