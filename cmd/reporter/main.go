package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"max.ks1230/expenses-bot/internal/clients/kafka"
	"max.ks1230/expenses-bot/internal/clients/tg"
	"max.ks1230/expenses-bot/internal/config"
	"max.ks1230/expenses-bot/internal/logger"
	"max.ks1230/expenses-bot/internal/model/reports"
	"max.ks1230/expenses-bot/internal/model/storage"
)

func main() {
	_ = godotenv.Load()

	logger.Info("Reporter init - start")

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	client, err := tg.New(conf.Telegram())
	if err != nil {
		logger.Fatal("failed to init client:", zap.Error(err))
	}

	userStorage, err := newStorage(conf)
	if err != nil {
		logger.Fatal("failed to init storage:", zap.Error(err))
	}

	loc, err := time.LoadLocation(conf.App().Timezone())
	if err != nil {
		loc = time.UTC
	}
	generator := reports.NewGeneratorAt(userStorage, func() time.Time {
		return time.Now().In(loc)
	})

	consumer, err := kafka.NewConsumer(conf.Kafka(), generator, client)
	if err != nil {
		logger.Fatal("failed to init kafka consumer:", zap.Error(err))
	}

	logger.Info("Reporter init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Fatal("failed to consume:", zap.Error(err))
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
