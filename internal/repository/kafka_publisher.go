package repository

import (
	"context"
	"fmt"

	"FxDesk/internal/domain/models"
	"FxDesk/pkg/kafka"
)

// KafkaPublisher exports completed analysis runs and aggregated log batches
// to Kafka. Keys are the feature id so one feature's runs stay ordered
// within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishAnalysis(ctx context.Context, run *models.AnalysisRun) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(run.Feature), run); err != nil {
		return fmt.Errorf("publish analysis: %w", err)
	}
	return nil
}

// PublishMessage satisfies the log collector's publisher contract.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
