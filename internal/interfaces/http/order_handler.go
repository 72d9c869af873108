package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
	"github.com/jhoicas/xiuxiu-stock/internal/application/stock"
)

// OrderHandler concilia archivos de pedido contra la existencia.
type OrderHandler struct {
	uc *stock.ReconcileUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *stock.ReconcileUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Reconcile godoc
// @Summary      Conciliar pedido
// @Description  Recibe un pedido (xlsx o csv con columnas Code, 颜色, 店家, 数量) y devuelve
//
//	los faltantes por (code, color, vendor) en el orden de primera aparición.
//
// @Tags         orders
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo del pedido"
// @Success      200  {object}  dto.ShortageReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/reconcile [post]
func (h *OrderHandler) Reconcile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "falta el archivo del pedido (campo file)"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	report, err := h.uc.ReconcileOrders(c.UserContext(), fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}

// ReconcilePDF godoc
// @Summary      Conciliar pedido (PDF)
// @Tags         orders
// @Accept       multipart/form-data
// @Produce      application/pdf
// @Param        file  formData  file  true  "Archivo del pedido"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/reconcile/pdf [post]
func (h *OrderHandler) ReconcilePDF(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "falta el archivo del pedido (campo file)"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	pdf, filename, err := h.uc.ReconcileOrdersPDF(c.UserContext(), fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
