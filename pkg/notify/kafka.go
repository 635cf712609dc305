package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event is the wire form of a notification published to the broker. Downstream
// consumers (web push, in-app toast feeds) key off Username.
type Event struct {
	Username string    `json:"username"`
	Level    string    `json:"level"` // "success" or "error"
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// KafkaNotifier publishes notification events to a kafka topic. The writer
// runs in async mode so publishing never blocks a command; write failures are
// logged via the completion callback.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *slog.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("failed to publish notifications",
					"err", err,
					"message_count", len(messages),
				)
			}
		},
	}

	return &KafkaNotifier{writer: writer, logger: logger}
}

func (n *KafkaNotifier) Success(ctx context.Context, username, message string) {
	n.publish(ctx, Event{Username: username, Level: "success", Message: message, At: time.Now().UTC()})
}

func (n *KafkaNotifier) Error(ctx context.Context, username, message string) {
	n.publish(ctx, Event{Username: username, Level: "error", Message: message, At: time.Now().UTC()})
}

func (n *KafkaNotifier) publish(ctx context.Context, ev Event) {
	value, err := json.Marshal(ev)
	if err != nil {
		n.logger.Error("failed to marshal notification", "err", err)
		return
	}

	// Async writer: WriteMessages enqueues and returns immediately.
	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Username),
		Value: value,
	}); err != nil {
		n.logger.Error("failed to enqueue notification", "err", err)
	}
}

// Close flushes any queued messages.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
