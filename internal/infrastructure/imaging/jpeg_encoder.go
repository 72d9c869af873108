// Package imaging comprime las fotos cargadas a miniaturas JPEG en base64,
// la representación que se guarda dentro de la tabla de inventario.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// DefaultMaxPixels tope de píxeles (ancho x alto) que se acepta decodificar.
const DefaultMaxPixels = 40_000_000

// JPEGEncoder reduce la imagen para que quepa en MaxSide x MaxSide (sin ampliar),
// la aplana a RGB sobre fondo blanco y la recodifica como JPEG.
type JPEGEncoder struct {
	MaxSide   int
	Quality   int
	MaxPixels int // 0 = DefaultMaxPixels
}

// NewJPEGEncoder construye el codificador con el tope de píxeles por defecto.
func NewJPEGEncoder(maxSide, quality int) *JPEGEncoder {
	return &JPEGEncoder{MaxSide: maxSide, Quality: quality, MaxPixels: DefaultMaxPixels}
}

// Encode decodifica la imagen (jpeg, png o gif) y devuelve la foto comprimida.
// Las dimensiones se leen de la cabecera antes de decodificar: una imagen que declara
// más de MaxPixels se rechaza sin reservar su buffer.
func (e *JPEGEncoder) Encode(r io.Reader) (entity.Photo, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return entity.NoPhoto, fmt.Errorf("leer imagen: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return entity.NoPhoto, fmt.Errorf("%w: imagen: %v", domain.ErrParse, err)
	}
	if limit := e.maxPixels(); int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return entity.NoPhoto, fmt.Errorf("%w: imagen de %dx%d supera %d píxeles", domain.ErrParse, cfg.Width, cfg.Height, limit)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return entity.NoPhoto, fmt.Errorf("%w: imagen: %v", domain.ErrParse, err)
	}

	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), e.MaxSide)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: e.Quality}); err != nil {
		return entity.NoPhoto, fmt.Errorf("codificar JPEG: %w", err)
	}
	return entity.Photo(base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

func (e *JPEGEncoder) maxPixels() int {
	if e.MaxPixels > 0 {
		return e.MaxPixels
	}
	return DefaultMaxPixels
}

// Decode devuelve los bytes JPEG de una foto guardada.
func (e *JPEGEncoder) Decode(p entity.Photo) ([]byte, error) {
	if !p.Present() {
		return nil, domain.ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(string(p))
	if err != nil {
		return nil, fmt.Errorf("%w: foto: %v", domain.ErrParse, err)
	}
	return raw, nil
}

// fitWithin conserva la proporción; nunca amplía ni devuelve lados de 0.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}
