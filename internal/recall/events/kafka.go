package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// NewProducerClient builds a franz-go client for publishing transition
// events. Records are hash-partitioned by key, which keeps all events for
// one recall on one partition.
func NewProducerClient(brokers []string, clientID string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
	)
	if err != nil {
		return nil, fmt.Errorf("build kafka producer client: %w", err)
	}
	return client, nil
}

// NewConsumerClient builds a franz-go client subscribed to the recall
// initiation topic under the notifications worker group.
func NewConsumerClient(brokers []string, clientID string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ConsumerGroup(notificationsGroup),
		kgo.ConsumeTopics(TopicRecallInitiated),
	)
	if err != nil {
		return nil, fmt.Errorf("build kafka consumer client: %w", err)
	}
	return client, nil
}

// EnsureTopics creates every guardian topic, tolerating ones that already
// exist.
func EnsureTopics(ctx context.Context, client *kgo.Client) error {
	adm := kadm.NewClient(client)
	resps, err := adm.CreateTopics(ctx, 1, 1, nil, AllTopics()...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, resp := range resps {
		if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
		}
	}
	return nil
}

// KafkaPublisher publishes transition events synchronously. Callers treat
// the returned error as advisory: the state change is already durable.
type KafkaPublisher struct {
	client *kgo.Client
	logger *slog.Logger
}

func NewKafkaPublisher(client *kgo.Client, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{client: client, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload Payload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	record := &kgo.Record{Topic: topic, Key: []byte(key), Value: value}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	p.logger.DebugContext(ctx, "event published", "topic", topic, "key", key)
	return nil
}

// NoopPublisher satisfies the publisher contract when Kafka is disabled.
// Every publish is a successful no-op and all other behavior is unaffected.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, Payload) error { return nil }
