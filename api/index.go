package handler

import (
	"expo/config"
	"expo/di"
	"expo/shared/logger"
	"net/http"
	"sync"
)

var (
	once    sync.Once
	service http.Handler
)

// Handler is the serverless entrypoint. The dependency graph is built on the
// first invocation and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg.Server.Env)
		logger.SetLogLevel(cfg)

		service = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	service.ServeHTTP(w, r)
}
