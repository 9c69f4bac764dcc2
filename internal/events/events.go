package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog/log"
)

const (
	PostCreated          = "post_created"
	ChannelCreated       = "channel_created"
	ChannelMemberAdded   = "channel_member_added"
	ChannelMemberRemoved = "channel_member_removed"
	ChannelUpdated       = "channel_updated"
	UserDeactivated      = "user_deactivated"
)

// Event is the JSON payload published for every domain change.
type Event struct {
	Type      string            `json:"type"`
	TeamID    string            `json:"team_id,omitempty"`
	ChannelID string            `json:"channel_id,omitempty"`
	UserID    string            `json:"user_id,omitempty"`
	PostID    string            `json:"post_id,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
	CreateAt  int64             `json:"create_at"`
}

// Notifier publishes domain events.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{client: client, producer: producer}, nil
}

// Publish sends an event to Pulsar, keyed by channel so per-channel order is kept.
func (p *EventPublisher) Publish(ctx context.Context, event Event) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	_, err = p.producer.Send(ctx, &pulsar.ProducerMessage{
		Key:     event.ChannelID,
		Payload: message,
		Properties: map[string]string{
			"type": event.Type,
		},
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}

	log.Debug().Str("type", event.Type).Msg("event sent to Pulsar")
	return nil
}

// Close closes the Pulsar client and producer
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
	log.Info().Msg("Pulsar client and producer closed successfully")
}

// Discard drops every event. It is used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
func (Discard) Close()                               {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() {}

// Events returns the recorded events, optionally filtered by type.
func (r *Recorder) Events(types ...string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, e := range r.events {
		if len(types) == 0 {
			out = append(out, e)
			continue
		}
		for _, t := range types {
			if e.Type == t {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Decode parses a published payload.
func Decode(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return e, fmt.Errorf("could not decode event payload: %w", err)
	}
	return e, nil
}
