package task

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type EventType string

const (
	EventCreated EventType = "task.created"
	EventUpdated EventType = "task.updated"
	EventDeleted EventType = "task.deleted"
)

// TaskEvent is published to Kafka after every successful task write.
type TaskEvent struct {
	TaskID           int64     `json:"taskId"`
	Type             EventType `json:"type"`
	Status           Status    `json:"status"`
	AssignedToUserID int64     `json:"assignedToUserId"`
	ActorUserID      int64     `json:"actorUserId"`
	Timestamp        time.Time `json:"timestamp"`
}

func newEvent(typ EventType, t Task, actorID int64) TaskEvent {
	return TaskEvent{
		TaskID:           t.ID,
		Type:             typ,
		Status:           t.Status,
		AssignedToUserID: t.AssignedToUserID,
		ActorUserID:      actorID,
		Timestamp:        time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event TaskEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) Publisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event TaskEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.TaskID, 10)),
		Value: eventJSON,
		Time:  event.Timestamp,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, TaskEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }

// AsyncPublisher hands events to the wrapped publisher in the background so
// a slow broker never delays the HTTP response. Failures are only logged.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	log     *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncPublisher(next Publisher, timeout time.Duration, log *zap.Logger) *AsyncPublisher {
	return &AsyncPublisher{
		next:    next,
		timeout: timeout,
		log:     log,
	}
}

// Publish never blocks on the broker. The caller's ctx is not used because
// the request may finish before the event is written.
func (p *AsyncPublisher) Publish(_ context.Context, event TaskEvent) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.log.Warn("task event dropped after shutdown", zap.Int64("taskId", event.TaskID))
		return nil
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		if err := p.next.Publish(ctx, event); err != nil {
			p.log.Error("failed to publish task event",
				zap.Int64("taskId", event.TaskID),
				zap.String("type", string(event.Type)),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Close waits for in-flight events and closes the wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	return p.next.Close()
}
