package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/apper"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/sr"
)

type backend struct {
	provider  port.RecordsClientProvider
	connector *apper.Connector
	sqldb     *storage.SQLDB
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	registry   *prometheus.Registry
	backend    backend
	producer   port.SearchEventsProducerCloser
	catalog    port.Catalog
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg, registry: prometheus.NewRegistry()}

	app.initLogger()
	app.initMetrics()
	app.initBackend()
	app.initProducer()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initMetrics() {
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func (app *App) initBackend() {
	const op = "App.initBackend"

	switch app.cfg.Backend.Kind {
	case config.BackendSQL:
		sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.Backend.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.backend.sqldb = &sqldb
		app.backend.provider = storage.NewRecordsRepository(sqldb)
	default:
		c := app.cfg.Backend.Apper
		connector := apper.NewConnector(
			apper.Config{
				BaseURL:   c.BaseURL,
				ProjectID: c.ProjectID,
				PublicKey: c.PublicKey,
				Timeout:   c.Timeout,
			},
			apper.MetricsOpt(apper.NewMetrics(app.registry)),
		)
		app.backend.connector = connector
		app.backend.provider = connector
	}
}

func (app *App) initProducer() {
	const op = "App.initProducer"

	broker := app.cfg.Broker
	if !broker.Enabled {
		return
	}

	srClient, err := sr.NewClient(sr.URLs(broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	topic := broker.Topics.SearchEvents
	serde, err := schema.NewSerdeSearchEventV1(
		app.ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	tlsConfig := app.brokerTLS(op)
	producer, err := kafka.NewSearchEventsProducer(
		kafka.ProducerClientOpt(app.ctx, broker.SeedBrokers, topic, tlsConfig),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.producer = producer
}

func (app *App) initCoreService() {
	var events port.SearchEventsProducer
	if app.producer != nil {
		events = app.producer
	}
	app.catalog = service.New(app.backend.provider, events)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.catalog)
	mux.Handle("GET /metrics", promhttp.HandlerFor(
		app.registry, promhttp.HandlerOpts{},
	))

	handler := httphandler.NewHandler(
		mux,
		app.cfg.HTTPHandlerTimeout,
		httphandler.NewMetrics(app.registry),
	)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	if app.backend.connector != nil {
		go app.connectBackend()
	}

	slog.Info("application is running")
}

// connectBackend keeps the catalog answering 503 until the backend is
// reachable.
func (app *App) connectBackend() {
	const op = "App.connectBackend"
	log := slog.With("op", op)

	if err := app.backend.connector.Run(app.ctx); err != nil {
		if app.ctx.Err() != nil {
			log.Info("backend connection stopped", "err", err)
			return
		}
		log.Error("backend is unavailable", "err", err)
	}
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.producer != nil {
		app.producer.Close()
	}
	if app.backend.sqldb != nil {
		app.backend.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) brokerTLS(op string) *tls.Config {
	files := app.cfg.Broker.TLS
	if !files.Enabled() {
		return nil
	}
	tlsConfig, err := adapter.MakeTLSConfig(files.CA, files.Cert, files.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	return tlsConfig
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
