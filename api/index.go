package handler

import (
	"net/http"
	"sync"

	"lodging/config"
	"lodging/di"
	"lodging/shared/logger"
	transport "lodging/transport/http"
)

var (
	server *transport.HTTP
	once   sync.Once
)

// Handler serves the API as a single serverless function. The dependency graph
// is built on the first request and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.Configure(config.Get())

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
