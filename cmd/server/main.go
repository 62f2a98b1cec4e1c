package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"workforce/internal/app/server"
	"workforce/internal/platform/config"
	"workforce/internal/platform/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := config.Load()
	logging.Setup(cfg.Environment, cfg.LogLevel)

	server.Run(cfg)
}
