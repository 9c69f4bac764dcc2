package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog"
)

type EventConsumer struct {
	client   pulsar.Client
	consumer pulsar.Consumer
}

// NewEventConsumer initializes the Pulsar client and consumer.
func NewEventConsumer(pulsarURL, topic, subscription string) (*EventConsumer, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: pulsarURL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscription,
		Type:             pulsar.KeyShared,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   3,
			DeadLetterTopic: topic + "-dlq",
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar consumer: %w", err)
	}

	return &EventConsumer{client: client, consumer: consumer}, nil
}

// Run receives events until ctx is cancelled. Messages handle accepts are
// acked; undecodable messages and handler failures are nacked for redelivery.
func (c *EventConsumer) Run(ctx context.Context, handle func(context.Context, Event) error) error {
	logger := zerolog.Ctx(ctx)
	for {
		msg, err := c.consumer.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to receive message: %w", err)
		}

		event, err := Decode(msg.Payload())
		if err != nil {
			logger.Error().Err(err).Str("message_id", msg.ID().String()).Msg("dropping malformed event")
			c.consumer.Nack(msg)
			continue
		}

		if err := handle(ctx, event); err != nil {
			logger.Error().Err(err).Str("type", event.Type).Msg("failed to handle event")
			c.consumer.Nack(msg)
			continue
		}
		if err := c.consumer.Ack(msg); err != nil {
			logger.Warn().Err(err).Msg("failed to ack event")
		}
	}
}

// Close cleans up the Pulsar consumer and client.
func (c *EventConsumer) Close() {
	c.consumer.Close()
	c.client.Close()
}
