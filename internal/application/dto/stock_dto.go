package dto

import "github.com/shopspring/decimal"

// StockItemDTO fila de la tabla de existencias en respuestas.
type StockItemDTO struct {
	Code     string          `json:"code"`
	Color    string          `json:"color"`
	Vendor   string          `json:"vendor"`
	Cost     decimal.Decimal `json:"cost"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	HasPhoto bool            `json:"has_photo"`
	Photo    string          `json:"photo,omitempty"` // base64 JPEG, solo con include_photos
}

// ReceiveStockRequest campos del formulario multipart de POST /api/stock (la foto va aparte).
type ReceiveStockRequest struct {
	Code     string `form:"code"`
	Color    string `form:"color"`
	Vendor   string `form:"vendor"`
	Cost     string `form:"cost"`
	Price    string `form:"price"`
	Quantity string `form:"quantity"`
}

// ReceiveStockResponse resultado de registrar mercancía.
type ReceiveStockResponse struct {
	Outcome string       `json:"outcome"` // INSERTED | INCREMENTED
	Record  StockItemDTO `json:"record"`
	Version string       `json:"version"`
}

// BrowseStockResponse listado filtrado. Initialized=false cuando la tabla aún no existe.
type BrowseStockResponse struct {
	Initialized bool           `json:"initialized"`
	Version     string         `json:"version,omitempty"`
	Total       int            `json:"total"` // coincidencias antes de paginar
	Items       []StockItemDTO `json:"items"`
	Page        *PageResponse  `json:"page,omitempty"`
}

// InitTableResponse respuesta de POST /api/stock/init.
type InitTableResponse struct {
	Version string `json:"version"`
}

// DeleteStockResponse respuesta de DELETE /api/stock. Deleted=false si el registro ya no existía.
type DeleteStockResponse struct {
	Deleted bool   `json:"deleted"`
	Version string `json:"version"`
}

// ShortageEntryDTO faltante de una identidad (código, color, tienda).
type ShortageEntryDTO struct {
	Code     string `json:"code"`
	Color    string `json:"color"`
	Vendor   string `json:"vendor"`
	Demand   int    `json:"demand"`
	Supply   int    `json:"supply"`
	Shortage int    `json:"shortage"`
}

// ShortageReportDTO reporte de conciliación de un pedido contra la existencia.
type ShortageReportDTO struct {
	OrderFile     string             `json:"order_file"`
	Lines         int                `json:"lines"`
	FullyStocked  bool               `json:"fully_stocked"`
	TotalShortage int                `json:"total_shortage"`
	Entries       []ShortageEntryDTO `json:"entries"`
}
