package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/hse-digital/platform/internal/server"
	"github.com/hse-digital/platform/modules"
	"github.com/hse-digital/platform/pkg/application"
	"github.com/hse-digital/platform/pkg/configuration"
	"github.com/hse-digital/platform/pkg/eventbus"
	"github.com/hse-digital/platform/pkg/metrics"
)

// The server runs on the constrained database role. Every request is served
// through the tenant pipeline; there is no code path here that can reach
// another organization's rows.
func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:          pool,
		EventBus:      eventbus.NewEventPublisher(logger),
		Logger:        logger,
		MigrationsDir: conf.MigrationsDir,
	})
	modules.Load(app)

	if conf.PrometheusEnabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.PrometheusPath))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
