package logger

import (
	"io"
	"os"
	"time"

	"lodging/config"
	"lodging/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a console logger at trace level until SetLogLevel runs.
func InitLogger() {
	Init(os.Stdout, true)
}

// Init points the global logger at out. Development output is human readable,
// everything else is one JSON object per line.
func Init(out io.Writer, development bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	if development {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	log.Trace().Msg("zerolog initialized")
}

// Configure applies the configured output format, level and app name.
func Configure(cfg *config.Config) {
	Init(os.Stdout, cfg.Server.Env == constant.ServerEnvDevelopment || cfg.Server.Env == constant.Empty)

	if cfg.App.Name != constant.Empty {
		log.Logger = log.With().Str("app", cfg.App.Name).Logger()
	}

	SetLogLevel(cfg)
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("unknown log level, using trace")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("log level set")
	}

	zerolog.SetGlobalLevel(level)
}
