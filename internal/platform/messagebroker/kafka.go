package messagebroker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaProducer publishes contact change events to Kafka (or Redpanda).
// The NATS subject is used as the topic name.
type KafkaProducer struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewKafkaProducer creates a producer for a comma separated broker list.
// No connection is made until the first publish.
func NewKafkaProducer(brokers, clientID string, logger *slog.Logger) (*KafkaProducer, error) {
	seeds := splitBrokers(brokers)
	if len(seeds) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.ClientID(clientID),
		kgo.AllowAutoTopicCreation(),
		kgo.ProduceRequestTimeout(10*time.Second),
		kgo.RecordDeliveryTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return &KafkaProducer{client: client, logger: logger.With("component", "kafka_producer")}, nil
}

// Publish writes one record to topic and waits for the broker ack.
func (p *KafkaProducer) Publish(ctx context.Context, topic string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || p.client == nil {
		return ErrNotConnected
	}
	record := &kgo.Record{Topic: kafkaTopic(topic), Value: data}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce to %s: %w", record.Topic, err)
	}
	return nil
}

// Close flushes buffered records and closes the client.
func (p *KafkaProducer) Close() {
	if p == nil || p.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("Kafka flush failed", "error", err)
	}
	p.client.Close()
}

func splitBrokers(brokers string) []string {
	var seeds []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			seeds = append(seeds, b)
		}
	}
	return seeds
}

// kafkaTopic maps a dotted NATS subject to a Kafka topic name.
func kafkaTopic(subject string) string {
	return strings.ReplaceAll(subject, ".", "_")
}
