package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	historyapi "github.com/stagewave/notifier/internal/api/handlers/history"
	notifapi "github.com/stagewave/notifier/internal/api/handlers/notification"
	"github.com/stagewave/notifier/internal/api/router"
	"github.com/stagewave/notifier/internal/api/server"
	"github.com/stagewave/notifier/internal/config"
	deadletterhandler "github.com/stagewave/notifier/internal/rabbitmq/handlers/deadletter"
	deliveryhandler "github.com/stagewave/notifier/internal/rabbitmq/handlers/delivery"
	"github.com/stagewave/notifier/internal/rabbitmq/queue"
	historyrepo "github.com/stagewave/notifier/internal/repository/history"
	notifrepo "github.com/stagewave/notifier/internal/repository/notification"
	userrepo "github.com/stagewave/notifier/internal/repository/user"
	"github.com/stagewave/notifier/internal/service/alert"
	deliverysvc "github.com/stagewave/notifier/internal/service/delivery"
	historysvc "github.com/stagewave/notifier/internal/service/history"
	schedulesvc "github.com/stagewave/notifier/internal/service/schedule"
	"github.com/stagewave/notifier/internal/worker"
	"github.com/stagewave/notifier/pkg/email"
	"github.com/stagewave/notifier/pkg/push"
	"github.com/stagewave/notifier/pkg/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
	}

	q, err := queue.NewDeliveryQueue(ch)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create delivery queue")
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDSNs := make([]string, 0, len(cfg.Database.Slaves))
	for _, s := range cfg.Database.Slaves {
		slaveDSNs = append(slaveDSNs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDSNs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	notifications := notifrepo.NewRepository(db)
	history := historyrepo.NewRepository(db)
	users := userrepo.NewRepository(db)

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Database)
	if err = rdb.Ping(ctx).Err(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	gateway := push.NewClient(cfg.Push.Endpoint, cfg.Push.APIKey, cfg.Push.Timeout)

	alertTargets := make(map[string]alert.Target)
	if cfg.Alerts.Email.Enabled {
		alertTargets["email"] = alert.Target{
			Channel: email.NewClient(
				cfg.Alerts.Email.SMTPHost,
				cfg.Alerts.Email.SMTPPort,
				cfg.Alerts.Email.Username,
				cfg.Alerts.Email.Password,
				cfg.Alerts.Email.From,
			),
			To: cfg.Alerts.Email.To,
		}
	}
	if cfg.Alerts.Telegram.Enabled {
		alertTargets["telegram"] = alert.Target{
			Channel: telegram.NewClient(cfg.Alerts.Telegram.Token),
			To:      cfg.Alerts.Telegram.ChatID,
		}
	}
	alerter := alert.NewService(alertTargets)

	delivery := deliverysvc.NewService(notifications, history, users, gateway, cfg.History.Retention)
	scheduler := schedulesvc.NewService(notifications, q, rdb)
	historyReader := historysvc.NewService(history)

	jobHandler := deliveryhandler.NewHandler(delivery, q)
	deadHandler := deadletterhandler.NewHandler(notifications, alerter)

	pool := worker.NewPool(q, jobHandler, deadHandler, cfg.Workers.RatePerSecond)
	go pool.Run(ctx, cfg.Retry, cfg.Workers.Count)

	notifHandler := notifapi.NewHandler(scheduler, val, cfg)
	historyHandler := historyapi.NewHandler(historyReader)

	r := router.New(notifHandler, historyHandler)
	s := server.New(cfg.Server.HTTPPort, r, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Printf("failed to close master DB: %v", err)
	}

	for i, slave := range db.Slaves {
		if err := slave.Close(); err != nil {
			zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
		}
	}

	if err := ch.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
	}

	if err := conn.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
	}
}
