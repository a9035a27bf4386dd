package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/srgjo27/movie_cashier/internal/adapter/cache/redis"
	"github.com/srgjo27/movie_cashier/internal/adapter/export"
	"github.com/srgjo27/movie_cashier/internal/adapter/handler"
	"github.com/srgjo27/movie_cashier/internal/adapter/notify"
	"github.com/srgjo27/movie_cashier/internal/adapter/repository/csvfile"
	"github.com/srgjo27/movie_cashier/internal/core/domain"
	"github.com/srgjo27/movie_cashier/internal/core/ports"
	"github.com/srgjo27/movie_cashier/internal/core/services"
	"github.com/srgjo27/movie_cashier/internal/platform/config"
	"github.com/srgjo27/movie_cashier/internal/platform/logger"
	"github.com/srgjo27/movie_cashier/internal/platform/metrics"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	opts := []services.Option{services.WithMetrics(m)}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, redis.Config{Host: cfg.Redis.Host, Port: cfg.Redis.Port})
		if err != nil {
			log.Warn("Availability mirror disabled", "error", err)
		} else {
			defer client.Close()
			opts = append(opts, services.WithMirror(redis.NewAvailabilityCache(client, cfg.Redis.KeyPrefix)))
			log.Info("Redis connected successfully!")
		}
	}

	svc := services.NewReservationService(csvfile.NewCatalogRepository(cfg.CatalogPath), opts...)
	if err := svc.Load(ctx); err != nil {
		fmt.Println(err)
		logger.Fatal("Failed to load catalog", "path", cfg.CatalogPath, "error", err)
	}

	exporters := []ports.BillExporter{export.NewStatementWriter(cfg.BillPath)}
	if cfg.BillPDFPath != "" {
		exporters = append(exporters, export.NewPDFWriter(cfg.BillPDFPath))
	}

	senders := notify.MultiSender{notify.NewEmailSender(notify.EmailConfig{
		APIKey: cfg.Email.APIKey,
		From:   cfg.Email.From,
	})}

	if cfg.AMQP.Enabled() {
		conn, ch, err := notify.DialQueue(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			log.Warn("Bill queue disabled", "error", err)
		} else {
			defer conn.Close()
			defer ch.Close()
			senders = append(senders, notify.NewQueueSender(ch, cfg.AMQP.Queue))
		}
	}

	cashier := handler.NewCashierHandler(svc, handler.NewConsole(os.Stdin), os.Stdout, handler.Options{
		ConfirmTimeout: cfg.ConfirmTimeout,
		Exporters:      exporters,
		Sender:         senders,
	})

	_, err := cashier.Run(ctx)

	if werr := m.WriteTextfile(cfg.MetricsTextfile); werr != nil {
		log.Warn("Failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", werr)
	}

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		log.Info("Session interrupted")
	case errors.Is(err, domain.ErrHoldNotPending):
		logger.Fatal("Reservation state corrupted", "error", err)
	default:
		logger.Fatal("Cashier session failed", "error", err)
	}
}
