package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Ramsey-B/aster/config"
	"github.com/Ramsey-B/aster/pkg/events"
	"github.com/Ramsey-B/aster/pkg/kafka"
	"github.com/Ramsey-B/aster/pkg/logging"
	"github.com/Ramsey-B/aster/pkg/middleware"
	"github.com/Ramsey-B/aster/pkg/processor"
	"github.com/Ramsey-B/aster/pkg/routes/health"
	"github.com/Ramsey-B/aster/pkg/routes/resolution"
	"github.com/Ramsey-B/aster/pkg/startup"
	"github.com/Ramsey-B/aster/pkg/tracing"
	"github.com/Ramsey-B/aster/pkg/tracing/exporters"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, flush := logging.New(cfg.PrettyLogs)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("Service exited with error")
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger ectologger.Logger) error {
	boot := startup.New(logger, 5)

	var tracerProvider *sdktrace.TracerProvider
	boot.AddDependency(startup.Func{
		Name: "tracing",
		StartFn: func(ctx context.Context) error {
			if !cfg.TracingEnabled {
				return nil
			}
			tp, err := newTracerProvider(ctx, cfg)
			if err != nil {
				return err
			}
			tracerProvider = tp
			otel.SetTracerProvider(tp)
			tracing.SetTracer(tp.Tracer(cfg.AppName))
			return nil
		},
		StopFn: func(ctx context.Context) error {
			if tracerProvider == nil {
				return nil
			}
			return tracerProvider.Shutdown(ctx)
		},
	})

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
	boot.AddDependency(startup.Func{
		Name:   "kafka-producer",
		StopFn: func(context.Context) error { return producer.Close() },
	})

	emitter := events.NewEmitter(producer, logger)
	// No external matcher is wired in yet; probabilistic requests come back
	// as 501 until one is configured.
	proc := processor.NewProcessor(cfg, logger, emitter, nil)

	var consumerHealth health.ConsumerHealth
	if cfg.KafkaConsumerEnabled {
		consumer := kafka.NewConsumer(cfg, logger, proc.HandleMessage)
		consumerHealth = consumer
		boot.AddDependency(startup.Func{
			Name:    "kafka-consumer",
			Needs:   []string{"kafka-producer"},
			StartFn: consumer.Start,
			StopFn:  func(context.Context) error { return consumer.Stop() },
		})
	}

	checker := health.NewChecker(consumerHealth, version)
	server := buildServer(cfg, logger, checker, proc)

	serverErr := make(chan error, 1)
	boot.AddDependency(startup.Func{
		Name:  "http-server",
		Needs: []string{"tracing"},
		StartFn: func(context.Context) error {
			go func() {
				if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()
			return nil
		},
		StopFn: server.Shutdown,
	})

	if err := boot.Start(ctx); err != nil {
		return err
	}
	checker.SetReady(true)
	logger.WithFields(map[string]any{
		"app":     cfg.AppName,
		"port":    cfg.Port,
		"version": version,
	}).Info("Service started")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	checker.SetReady(false)
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return boot.Stop(shutdownCtx)
}

func buildServer(cfg config.Config, logger ectologger.Logger, checker *health.Checker, proc *processor.Processor) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second

	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	if cfg.TracingEnabled {
		e.Use(otelecho.Middleware(cfg.AppName))
	}
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	checker.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	resolution.NewHandler(proc, logger).Register(api)

	return e
}

func newTracerProvider(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
		Endpoint: cfg.TracingOTLPEndpoint,
		Protocol: cfg.TracingOTLPProtocol,
		Insecure: cfg.TracingInsecure,
		Timeout:  10 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.AppName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
