package repository

import (
	"context"

	"SignalDesk/internal/domain/models"
	"SignalDesk/internal/domain/repository"
	pkgkafka "SignalDesk/pkg/kafka"
)

// KafkaBarPublisher implements BarPublisher for Kafka.
type KafkaBarPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaBarPublisher creates a Kafka bar publisher.
func NewKafkaBarPublisher(producer *pkgkafka.Producer, topic string) repository.BarPublisher {
	return &KafkaBarPublisher{producer: producer, topic: topic}
}

func barMessage(symbol string, b models.Bar) map[string]interface{} {
	return map[string]interface{}{
		"symbol": symbol,
		"date":   b.Date.Format("2006-01-02"),
		"o":      b.Open,
		"h":      b.High,
		"l":      b.Low,
		"c":      b.Close,
		"v":      b.Volume,
	}
}

func (p *KafkaBarPublisher) Publish(ctx context.Context, symbol string, b models.Bar) error {
	return p.producer.Publish(ctx, p.topic, []byte(symbol), barMessage(symbol, b))
}

func (p *KafkaBarPublisher) PublishBatch(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(bars))
	for i, b := range bars {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(symbol),
			Value: barMessage(symbol, b),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaBarPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
