package handlers

import (
	"github.com/redis/go-redis/v9"

	"jobportal-web/internal/config"
	"jobportal-web/internal/logging"
	"jobportal-web/internal/metrics"
	"jobportal-web/internal/portalapi"
	"jobportal-web/internal/views"
)

// Deps are the services the page handlers share
type Deps struct {
	Config  *config.Config
	API     *portalapi.Client
	Portal  *views.Portal
	Redis   *redis.Client // nil unless the redis token store is used
	Logger  logging.Logger
	Metrics *metrics.Collector
}
