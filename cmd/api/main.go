package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/catalog"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/config"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/httpx"
	kafkax "github.com/AZREAL6657/MobileFoodDeliveryApp/internal/kafka"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/logger"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/ordering"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/payment"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/postgres"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/redisx"
	"github.com/AZREAL6657/MobileFoodDeliveryApp/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pConfirmed := kafkax.NewProducer(cfg.KafkaBrokers, ordering.TopicOrderConfirmed, 1024, log)
	pConfirmed.Start(ctx)
	pFailed := kafkax.NewProducer(cfg.KafkaBrokers, ordering.TopicOrderFailed, 1024, log)
	pFailed.Start(ctx)

	// Handlers
	cat := &catalog.Repo{DB: db}
	router := httpx.NewRouter()

	ch := &httpx.CartHandler{
		Sessions: session.NewStore(),
		Menus:    cat,
		Profiles: cat,
		Fee:      cfg.DeliveryFee,
		Log:      log,
	}
	oh := &httpx.OrdersHandler{
		Sessions:  ch.Sessions,
		Store:     &ordering.Repo{DB: db},
		Cache:     redisx.StatusCache{R: rdb},
		Payments:  payment.NewProcessor(payment.SimulatedGateway{}),
		Confirmed: pConfirmed,
		Failed:    pFailed,
		Service:   cfg.ServiceName,
		Log:       log,
	}
	ch.Register(router)
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pConfirmed.Close() // close inbox -> flush & close writer
	pFailed.Close()
	cancel() // stop producer loops
	pConfirmed.WaitClosed()
	pFailed.WaitClosed()
}
