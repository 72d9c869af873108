// import carga un archivo de tabla existente (CSV con encabezado Code,颜色,店家,本钱,卖价,现货件数,照片;
// UTF-8 o GB18030) en el almacén configurado por STORE_BACKEND.
//
// Uso: go run ./cmd/import [-force] data.csv
// Sin -force solo escribe si la tabla todavía no existe.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/xiuxiu-stock/internal/domain"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/repository"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/backend"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
	"github.com/jhoicas/xiuxiu-stock/pkg/config"
	"github.com/jhoicas/xiuxiu-stock/pkg/logger"
)

func main() {
	force := flag.Bool("force", false, "reemplazar la tabla si ya existe")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: import [-force] <archivo.csv>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("import")

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("leer archivo")
	}
	table, err := tablestore.DecodeLegacy(content)
	if err != nil {
		log.Fatal().Err(err).Str("file", flag.Arg(0)).Msg("archivo inválido")
	}

	ctx := context.Background()
	blobs, closeStore, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de inventario")
	}
	defer closeStore()
	repo := tablestore.NewRepository(blobs)

	var expected repository.VersionToken
	if *force {
		_, current, err := repo.Load(ctx)
		switch {
		case err == nil:
			expected = current
		case errors.Is(err, domain.ErrTableNotInitialized):
		default:
			// una tabla ilegible también se reemplaza: se escribe sobre su versión cruda
			raw, version, gerr := blobs.Get(ctx)
			if gerr != nil {
				log.Fatal().Err(gerr).Msg("leer tabla actual")
			}
			log.Warn().Err(err).Int("bytes", len(raw)).Msg("la tabla actual es ilegible y será reemplazada")
			expected = repository.VersionToken(version)
		}
	}

	version, err := repo.Save(ctx, table, expected, "Import "+flag.Arg(0))
	if errors.Is(err, domain.ErrVersionConflict) {
		log.Fatal().Msg("la tabla ya existe (o cambió durante la importación); use -force para reemplazarla")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("guardar tabla")
	}
	log.Info().Int("records", table.Len()).Str("version", string(version)).Msg("tabla importada")
}
