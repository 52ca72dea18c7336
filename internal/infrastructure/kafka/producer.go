package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// HeaderEventType carries the event name so consumers can route before
// decoding the payload.
const HeaderEventType = "event-type"

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Named events get an event-type header.
type Named interface {
	EventName() string
}

// Producer publishes JSON-encoded order events to a single topic.
type Producer struct {
	writer MessageWriter
	topic  string
	now    func() time.Time
}

// NewProducer hashes keys onto partitions, so all events for one order
// number stay in order.
func NewProducer(brokers []string, topic string) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}, topic)
}

func NewProducerWithWriter(writer MessageWriter, topic string) *Producer {
	return &Producer{writer: writer, topic: topic, now: time.Now}
}

// Publish writes event under key.
func (p *Producer) Publish(ctx context.Context, key string, event any) error {
	if key == "" {
		return fmt.Errorf("publish to %s: empty key", p.topic)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event for %s: %w", p.topic, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  p.now(),
	}
	if named, ok := event.(Named); ok {
		msg.Headers = []kafka.Header{{Key: HeaderEventType, Value: []byte(named.EventName())}}
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", key, p.topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
