package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/cheeze-hyeon/alog/internal/config"
	"github.com/cheeze-hyeon/alog/internal/database"
	"github.com/cheeze-hyeon/alog/internal/loyalty"
	"github.com/cheeze-hyeon/alog/internal/middleware"
	"github.com/cheeze-hyeon/alog/internal/routes"
)

func main() {
	cfg := config.Load()
	config.InitLogger(cfg.LogLevel)

	db := database.MustConnect(cfg.DatabaseURL, cfg.DBLogLevel)
	levels := loyalty.NewTable(loyalty.WithLevelCap(cfg.LevelCap))

	app := fiber.New(fiber.Config{
		AppName:      "Alog Backend",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, levels)

	log.Info().Str("port", cfg.AppPort).Int("max_level", levels.MaxLevel()).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("fiber.Listen error")
	}
}
