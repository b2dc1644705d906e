package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Producer{writer: writer, logger: util.GetLogger()}
}

// PublishEvent publishes an event to Kafka
func (p *Producer) PublishEvent(ctx context.Context, key string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: eventBytes,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.logger.Debug("Published event", zap.String("key", key), zap.String("type", fmt.Sprintf("%T", event)))
	return nil
}

// Close closes the producer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer represents a Kafka consumer
type Consumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &Consumer{reader: reader, logger: util.GetLogger()}
}

// Close closes the consumer
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// MessageHandler is a function type for handling messages
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// StartConsuming fetches messages and hands them to handler until ctx is done
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	topic := c.reader.Config().Topic
	c.logger.Info("Starting Kafka consumer", zap.String("topic", topic))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Consumer context cancelled, stopping", zap.String("topic", topic))
				return ctx.Err()
			}
			c.logger.Warn("Error fetching message", zap.String("topic", topic), zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		if err := handler(ctx, msg); err != nil {
			c.logger.Error("Error handling message",
				zap.String("topic", topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Warn("Error committing message", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}
