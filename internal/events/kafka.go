package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecofinds/internal/logger"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes to topic, keying messages by aggregate id so one
// aggregate's events stay ordered within a partition.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	body, err := encode(e)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.AggregateID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type KafkaConsumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

func NewKafkaConsumer(brokers []string, topic, groupID string, logger *logger.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})
	return &KafkaConsumer{reader: reader, logger: logger}
}

func (c *KafkaConsumer) Consume(ctx context.Context, h Handler) error {
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("Failed to read message: %v", err)
			continue
		}

		c.logger.Debug("Received message: %s", string(message.Value))

		event, err := decode(message.Value)
		if err != nil {
			c.logger.Error("%v", err)
		} else if err := h(ctx, event); err != nil {
			c.logger.Error("Failed to process %s event: %v", event.Type, err)
		}

		if err := c.reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			c.logger.Error("Failed to commit message: %v", err)
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
