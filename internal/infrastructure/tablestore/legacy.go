package tablestore

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/entity"
)

// DecodeLegacy acepta además archivos guardados por Excel en chino simplificado
// (GB18030): si el contenido no es UTF-8 válido se transcodifica antes de Decode.
func DecodeLegacy(content []byte) (*entity.StockTable, error) {
	if !utf8.Valid(content) {
		utf, err := simplifiedchinese.GB18030.NewDecoder().Bytes(content)
		if err != nil {
			return nil, fmt.Errorf("%w: transcodificar GB18030: %v", domain.ErrParse, err)
		}
		content = utf
	}
	return Decode(content)
}
