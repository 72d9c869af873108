// migrate aplica o revierte las migraciones del backend PostgreSQL.
//
// Uso: go run ./cmd/migrate up|down
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/xiuxiu-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/xiuxiu-stock/pkg/config"
	"github.com/jhoicas/xiuxiu-stock/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate up|down")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")
	url := cfg.DB.ConnectionString()

	switch os.Args[1] {
	case "up":
		if err := postgres.MigrateUp(url); err != nil {
			log.Fatal().Err(err).Msg("migración up")
		}
		log.Info().Msg("migración up aplicada")
	case "down":
		if err := postgres.MigrateDown(url); err != nil {
			log.Fatal().Err(err).Msg("migración down")
		}
		log.Info().Msg("migración down aplicada")
	default:
		log.Fatal().Str("command", os.Args[1]).Msg("comando desconocido")
	}
}
