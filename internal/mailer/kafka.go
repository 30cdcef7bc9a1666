package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka-go's Writer the mailer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaMailer publishes mail events for a separate notification worker to deliver.
type KafkaMailer struct {
	writer MessageWriter
}

func NewKafkaMailer(brokers []string, topic string) *KafkaMailer {
	return &KafkaMailer{writer: &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}}
}

func NewKafkaMailerWithWriter(w MessageWriter) *KafkaMailer {
	return &KafkaMailer{writer: w}
}

type mailEvent struct {
	Message
	QueuedAt time.Time `json:"queuedAt"`
}

func (k *KafkaMailer) Send(ctx context.Context, msg Message) error {
	b, err := json.Marshal(mailEvent{Message: msg, QueuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("kafka mailer: marshal: %w", err)
	}
	// keyed by recipient so one address's mail stays ordered on a partition
	err = k.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(msg.To),
		Value: b,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(msg.Kind)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka mailer: write: %w", err)
	}
	return nil
}

func (k *KafkaMailer) Close() error {
	return k.writer.Close()
}
