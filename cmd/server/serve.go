package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/cfg"
	"github.com/Oniqq60/staff_control/internal/database"
	"github.com/Oniqq60/staff_control/internal/router"
	"github.com/Oniqq60/staff_control/internal/task"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		migrate, _ := cmd.Flags().GetBool("migrate")
		return serve(cmd.Context(), conf, log, migrate)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", true, "apply migrations before serving")
}

func serve(parent context.Context, conf cfg.Config, log *zap.Logger, migrate bool) error {
	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(conf, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if migrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	var throttle auth.LoginThrottle = auth.NopThrottle{}
	if conf.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(parent).Err(); err != nil {
			log.Warn("redis unavailable, login throttling degraded", zap.Error(err))
		}
		throttle = auth.NewRedisThrottle(rdb, conf.LoginMaxAttempts, conf.LoginLockout)
	}

	var events task.Publisher = task.NopPublisher{}
	if conf.KafkaEnabled() {
		events = task.NewAsyncPublisher(
			task.NewKafkaPublisher(conf.KafkaBrokers, conf.KafkaTopic),
			conf.ShutdownGracePeriod,
			log.Named("events"),
		)
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Warn("event publisher close failed", zap.Error(err))
		}
	}()

	handler, err := router.New(router.Dependencies{
		Config:   conf,
		DB:       db,
		Log:      log,
		Throttle: throttle,
		Events:   events,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + conf.HTTPPort,
		Handler:      handler,
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
		IdleTimeout:  conf.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			zap.String("addr", server.Addr),
			zap.String("env", conf.Env),
			zap.Bool("redis", conf.RedisEnabled()),
			zap.Bool("kafka", conf.KafkaEnabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.ShutdownGracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
