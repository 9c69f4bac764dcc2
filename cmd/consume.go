package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/parley-chat/parley-services/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Run the Pulsar consumer that writes domain events to the audit table",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Load the config, open the store and set up logging
		commonSetUp()
		defer store.Close()

		a := newApp(ctx)
		ctx = log.Logger.WithContext(ctx)

		// Initialize event consumer
		consumer, err := events.NewEventConsumer(appCfg.Pulsar.URL, appCfg.Pulsar.TopicConsumer, appCfg.Pulsar.Subscription)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize event consumer")
		}
		defer consumer.Close()

		log.Info().Str("topic", appCfg.Pulsar.TopicConsumer).Msg("Waiting for messages...")
		if err := consumer.Run(ctx, a.RecordAudit); err != nil && ctx.Err() == nil {
			log.Fatal().Err(err).Msg("Consumer stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(consumeCmd)
}
