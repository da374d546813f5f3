package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Oniqq60/staff_control/internal/auth"
	"github.com/Oniqq60/staff_control/internal/database"
	"github.com/Oniqq60/staff_control/internal/notify"
)

var errKafkaDisabled = errors.New("KAFKA_BROKERS and KAFKA_TOPIC must be set")

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Consume task events and notify assignees",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if !conf.KafkaEnabled() {
			return errKafkaDisabled
		}

		db, err := database.Open(conf, log)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		handler := notify.NewAssignmentHandler(
			auth.NewRepository(db),
			notify.NewLogNotifier(log.Named("notifier")),
			log.Named("notify"),
		)
		consumer := notify.NewKafkaConsumer(conf.KafkaBrokers, conf.KafkaTopic, conf.KafkaGroupID, handler, log.Named("consumer"))
		defer func() { _ = consumer.Close() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err = consumer.Start(ctx)
		log.Info("notification consumer stopped")
		return err
	},
}
