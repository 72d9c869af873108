package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/xiuxiu-stock/docs"
	"github.com/jhoicas/xiuxiu-stock/internal/application/stock"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/backend"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/imaging"
	infrapdf "github.com/jhoicas/xiuxiu-stock/internal/infrastructure/pdf"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/tablestore"
	httpRouter "github.com/jhoicas/xiuxiu-stock/internal/interfaces/http"
	"github.com/jhoicas/xiuxiu-stock/pkg/config"
	"github.com/jhoicas/xiuxiu-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Backend).
		Str("path", cfg.Store.Path).
		Msg("iniciando aplicación")

	ctx := context.Background()
	blobs, closeStore, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de inventario")
	}
	defer closeStore()

	location, err := cfg.Report.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria del reporte")
	}
	pdfGenerator, err := infrapdf.NewShortageReportGenerator(cfg.Report.FontPath)
	if err != nil {
		log.Fatal().Err(err).Msg("generador PDF")
	}

	repo := tablestore.NewRepository(blobs)
	encoder := imaging.NewJPEGEncoder(cfg.Photo.MaxSide, cfg.Photo.JPEGQuality)
	encoder.MaxPixels = cfg.Photo.MaxPixels
	stockUC := stock.NewUseCase(repo, encoder, log)
	reconcileUC := stock.NewReconcileUseCase(repo, spreadsheet.NewOrderParser(), pdfGenerator, location, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Backend})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:     stockUC,
		ReconcileUC: reconcileUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
