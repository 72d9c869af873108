package stock

import (
	"context"
	"io"
	"time"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// ImageEncoder comprime la foto subida a una representación de texto (base64 JPEG)
// y la decodifica para mostrarla.
type ImageEncoder interface {
	Encode(r io.Reader) (entity.Photo, error)
	Decode(p entity.Photo) ([]byte, error)
}

// OrderParser interpreta el archivo de pedido (xlsx o csv) en líneas tipadas.
type OrderParser interface {
	Parse(filename string, r io.Reader) ([]entity.OrderLine, error)
}

// ShortageReportRenderer genera el PDF del reporte de faltantes.
type ShortageReportRenderer interface {
	RenderShortageReport(ctx context.Context, report *dto.ShortageReportDTO, generatedAt time.Time) ([]byte, error)
}
