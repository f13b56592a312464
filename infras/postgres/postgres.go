package postgres

//nolint:revive
import (
	"net"
	"net/url"
	"time"

	"lodging/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 20
	connMaxLifetime    = 30 * time.Minute
)

// Connection holds the read and write pools. Occupancy writes and the row locks they
// take always go through Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one postgres server to connect to.
type Endpoint struct {
	Name     string
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
	Timezone string
}

// DSN renders the endpoint as a lib/pq connection URL.
func (e Endpoint) DSN() string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     e.Database,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write := Endpoint{
		Name:     "write",
		Host:     pg.Write.Host,
		Port:     pg.Write.Port,
		Username: pg.Write.Username,
		Password: pg.Write.Password,
		Database: pg.Prefix + pg.Write.Name,
		SSLMode:  pg.Write.SSLMode,
		Timezone: pg.Write.Timezone,
	}

	read := Endpoint{
		Name:     "read",
		Host:     pg.Read.Host,
		Port:     pg.Read.Port,
		Username: pg.Read.Username,
		Password: pg.Read.Password,
		Database: pg.Prefix + pg.Read.Name,
		SSLMode:  pg.Read.SSLMode,
		Timezone: pg.Read.Timezone,
	}

	retryWait := time.Duration(pg.RetryWaitTime) * time.Second

	return &Connection{
		Read:  Connect(read, pg.MaxRetry, retryWait),
		Write: Connect(write, pg.MaxRetry, retryWait),
	}
}

// Connect dials the endpoint, retrying up to maxRetry times. The process exits if the
// database never answers.
func Connect(endpoint Endpoint, maxRetry int, wait time.Duration) *sqlx.DB {
	logger := log.With().
		Str("name", endpoint.Name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("database", endpoint.Database).
		Logger()

	var err error

	for attempt := 1; attempt <= max(maxRetry, 1); attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect("postgres", endpoint.DSN())
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			logger.Info().Msg("connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("failed connecting to database, retrying")

		time.Sleep(wait)
	}

	logger.Fatal().Err(err).Msg("giving up connecting to database")

	return nil
}
