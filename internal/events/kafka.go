package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	k "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...k.Message) error
	Close() error
}

// Kafka publishes events as JSON, keyed by post id so one post's activity
// stays ordered within a partition.
type Kafka struct {
	w messageWriter
}

func NewKafka(bootstrap, topic string) (*Kafka, error) {
	var brokers []string
	for _, b := range strings.Split(bootstrap, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no bootstrap servers")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: empty topic")
	}
	return &Kafka{w: &k.Writer{
		Addr:                   k.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &k.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		RequiredAcks:           k.RequireOne,
		AllowAutoTopicCreation: true,
	}}, nil
}

func (p *Kafka) Publish(ctx context.Context, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, k.Message{
		Key:   []byte(e.PostID),
		Value: b,
		Time:  e.At,
	})
}

func (p *Kafka) Close() error { return p.w.Close() }

// New picks the Kafka publisher when brokers are configured, Nop otherwise.
func New(bootstrap, topic string) (Publisher, error) {
	if strings.TrimSpace(bootstrap) == "" {
		return Nop{}, nil
	}
	return NewKafka(bootstrap, topic)
}
