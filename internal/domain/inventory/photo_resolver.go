package inventory

import "github.com/jhoicas/xiuxiu-stock/internal/domain/entity"

// ResolvePhoto decide qué foto adjuntar a un registro del código dado (servicio de dominio).
// La foto recién cargada (ya comprimida) siempre gana; si no hay, se reutiliza la primera
// foto real de cualquier registro con el mismo código, sin importar color ni tienda.
func ResolvePhoto(code string, supplied entity.Photo, table *entity.StockTable) entity.Photo {
	if supplied.Present() {
		return supplied
	}
	if table != nil {
		for _, r := range table.Records {
			if r.Code == code && r.Photo.Present() {
				return r.Photo
			}
		}
	}
	return entity.NoPhoto
}
