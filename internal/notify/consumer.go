// Package notify consumes task events and tells users about work assigned
// to them by someone else.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Oniqq60/staff_control/internal/task"
)

type EventHandler interface {
	HandleEvent(ctx context.Context, event task.TaskEvent) error
}

type Consumer struct {
	reader  *kafka.Reader
	handler EventHandler
	log     *zap.Logger
}

func NewKafkaConsumer(brokers []string, topic, groupID string, handler EventHandler, log *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, handler: handler, log: log}
}

// Start reads until ctx is cancelled. Undecodable messages and handler
// failures are logged and skipped so one bad event cannot stall the group.
func (c *Consumer) Start(ctx context.Context) error {
	cfg := c.reader.Config()
	c.log.Info("task event consumer started", zap.String("topic", cfg.Topic), zap.String("group", cfg.GroupID))

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// the reader was closed
			if errors.Is(err, io.EOF) {
				return nil
			}
			c.log.Warn("read message failed", zap.Error(err))
			continue
		}
		c.handleMessage(ctx, msg)
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var event task.TaskEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.Warn("skipping undecodable task event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return
	}
	if err := c.handler.HandleEvent(ctx, event); err != nil {
		c.log.Error("handle task event failed",
			zap.Int64("taskId", event.TaskID),
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
