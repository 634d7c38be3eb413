package main

import (
	"flag"

	"github.com/jhoicas/PosVenta-api/internal/infrastructure/database"
	"github.com/jhoicas/PosVenta-api/pkg/config"
	"github.com/jhoicas/PosVenta-api/pkg/logger"
)

func main() {
	path := flag.String("path", "./migrations", "directorio con los archivos de migración")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	if err := database.RunMigrations(cfg.DB.ConnectionString(), *path); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Str("path", *path).Msg("migraciones aplicadas")
}
