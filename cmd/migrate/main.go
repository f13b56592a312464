package main

import (
	"os"

	"lodging/config"
	"lodging/helper"
	"lodging/shared/logger"

	"github.com/rs/zerolog/log"
)

const argLength = 2

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("migration direction (up, down, step-up or drop) is required")
	}

	cfg := config.Get()

	if err := helper.Run(cfg, helper.Direction(os.Args[1])); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
