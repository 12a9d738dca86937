package server

import (
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/hse-digital/platform/pkg/application"
	"github.com/hse-digital/platform/pkg/configuration"
	"github.com/hse-digital/platform/pkg/constants"
	"github.com/hse-digital/platform/pkg/middleware"
	"github.com/hse-digital/platform/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the standard request pipeline. The principal is attached
// here so it is available to every route; the tenant resolver and the
// transaction middleware are registered per controller, since operational
// surfaces like the metrics endpoint run without a tenant.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.Provide(constants.AppKey, app),
		middleware.Provide(constants.PoolKey, options.Pool),
		middleware.ProvidePrincipal(),
		middleware.RequestParams(),
	}

	app.RegisterMiddleware(middlewares...)
	return server.NewHTTPServer(app), nil
}
