package main

import (
	"lodging/config"
	"lodging/di"
	"lodging/helper"
	"lodging/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title						Lodging API
// @version					1.0
// @description				Room occupancy allocation for guest houses and hostels.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg := config.Get()

	logger.Configure(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Run(cfg, helper.DirectionUp); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
