package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"max.ks1230/expenses-bot/internal/clients/cache"
	"max.ks1230/expenses-bot/internal/clients/chart"
	"max.ks1230/expenses-bot/internal/clients/kafka"
	"max.ks1230/expenses-bot/internal/clients/tg"
	"max.ks1230/expenses-bot/internal/config"
	"max.ks1230/expenses-bot/internal/logger"
	"max.ks1230/expenses-bot/internal/model/messages"
	"max.ks1230/expenses-bot/internal/model/storage"
)

const (
	serviceName = "expenses-bot"
	metricsAddr = ":9100"
)

func main() {
	_ = godotenv.Load()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	closer, err := initTracing(serviceName)
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer closer.Close()

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init client:", zap.Error(err))
	}

	userStorage, err := newStorage(conf)
	if err != nil {
		logger.Fatal("failed to init storage:", zap.Error(err))
	}

	charts := chart.New(conf.Chart())

	var reporter messages.ReportRequester
	if len(conf.Kafka().Brokers()) > 0 {
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			logger.Fatal("failed to init kafka producer:", zap.Error(err))
		}
		defer producer.Close()
		reporter = producer
	}

	var summaries messages.SummaryCache
	if len(conf.Memcached().Hosts()) > 0 {
		mc, err := cache.NewMemcache(conf.Memcached())
		if err != nil {
			logger.Fatal("failed to init memcached:", zap.Error(err))
		}
		summaries = mc
	}

	msgService := messages.NewService(client, userStorage, charts, reporter, summaries, conf.App())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		client.ListenUpdates(ctx, msgService)
		return nil
	})
	group.Go(func() error {
		return serveMetrics(ctx)
	})

	if err = group.Wait(); err != nil {
		logger.Fatal("bot stopped:", zap.Error(err))
	}
}

func newStorage(conf *config.Service) (storage.Storage, error) {
	switch conf.Storage().Driver() {
	case "postgres":
		return storage.NewPostgresStorage(conf.Postgres())
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return storage.NewFileStorage(conf.Storage().Dir()), nil
	}
}

func initTracing(service string) (io.Closer, error) {
	cfg := jaegercfg.Configuration{
		ServiceName: service,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, errors.Wrap(err, "cannot init tracer")
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}

func serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
