package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// SubjectItineraryGenerated is the subject prefix for generation events;
// the itinerary ID is appended as the final token.
const SubjectItineraryGenerated = "ekobide.itinerary.generated"

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the itinerary stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "ITINERARIES",
		Subjects:  []string{"ekobide.itinerary.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, fall back to update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// itineraryEvent wraps the itinerary with an envelope so consumers can dedup
// on the event ID across JetStream redeliveries.
type itineraryEvent struct {
	EventID   string            `json:"event_id"`
	EmittedAt time.Time         `json:"emitted_at"`
	Itinerary *domain.Itinerary `json:"itinerary"`
}

// PublishItineraryGenerated announces a freshly generated itinerary.
func (p *Publisher) PublishItineraryGenerated(ctx context.Context, it *domain.Itinerary) error {
	data, err := json.Marshal(itineraryEvent{
		EventID:   uuid.NewString(),
		EmittedAt: time.Now().UTC(),
		Itinerary: it,
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectItineraryGenerated+"."+it.ID, data)
	return err
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn returns a plain NATS connection, used by the WebSocket relay.
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
