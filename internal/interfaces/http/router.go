package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/xiuxiu-stock/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC     *stock.UseCase
	ReconcileUC *stock.ReconcileUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Existencias
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/init", stockHandler.Initialize)
	stockGroup.Post("/", stockHandler.Receive)
	stockGroup.Get("/", stockHandler.Browse)
	stockGroup.Delete("/", stockHandler.Delete)
	stockGroup.Get("/photos/:code", stockHandler.Photo)

	// Pedidos
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.ReconcileUC)
	orders.Post("/reconcile", orderHandler.Reconcile)
	orders.Post("/reconcile/pdf", orderHandler.ReconcilePDF)
}

// urlParam devuelve el parámetro de ruta decodificado (los códigos pueden llevar espacios o caracteres no ASCII).
func urlParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
