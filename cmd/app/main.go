package main

import (
	"expo/config"
	"expo/di"
	"expo/helper"
	"expo/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title						Exhibition Gallery API
// @version					1.0
// @description				Tracks art exhibitions, their closing dates and calendar exports.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg.Server.Env)

	logger.SetLogLevel(cfg)

	if err := helper.AutoMigrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations on startup")
	}

	http := di.InitializeService()
	http.Serve()
}
