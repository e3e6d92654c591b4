package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/config"
	kafkax "github.com/AZREAL6657/MobileFoodDeliveryApp/internal/kafka"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/logger"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/notify"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName + "-notifier")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Dedup:       redisx.Deduper{R: rdb},
		Status:      redisx.StatusCache{R: rdb},
		Log:         log,
		ServiceName: "notifier",
	}

	// One consumer per order topic, same group and handler.
	topics := []string{ordering.TopicOrderConfirmed, ordering.TopicOrderFailed}
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, topic, cfg.NotifierWorkers, log)
		go func(topic string) {
			log.Info("notifier consumer started",
				zap.String("group", cfg.NotifierGroup),
				zap.String("topic", topic),
				zap.Int("workers", cfg.NotifierWorkers))
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				log.Error("consumer exit", zap.String("topic", topic), zap.Error(err))
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer...")
	case <-ctx.Done():
	}
	cancel()
	time.Sleep(500 * time.Millisecond)
}
