package health

import (
	"context"
	"net/http"
	"time"

	"lodging/infras/otel"
	"lodging/infras/postgres"
	"lodging/shared/constant"
	"lodging/transport/http/response"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 2 * time.Second

type Status struct {
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

type Handler struct {
	db    *postgres.Connection
	redis *goRedis.Client
	otel  otel.Otel
}

func New(db *postgres.Connection, redis *goRedis.Client, otel otel.Otel) Handler {
	return Handler{
		db:    db,
		redis: redis,
		otel:  otel,
	}
}

// Check pings the write database and the cache.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Status]
// @Failure 503 {object} response.Message
// @Router /health [get]
func (handler *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := Status{Postgres: "ok", Redis: "ok"}
	healthy := true

	if err := handler.db.Write.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("postgres health check failed")

		status.Postgres = err.Error()
		healthy = false
	}

	if err := handler.redis.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("redis health check failed")

		status.Redis = err.Error()
		healthy = false
	}

	if !healthy {
		scope.SetAttribute("health.postgres", status.Postgres)
		scope.SetAttribute("health.redis", status.Redis)
		response.WithUnhealthy(w)

		return
	}

	response.WithJSON(w, http.StatusOK, status)
}
