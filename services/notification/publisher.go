package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"growthyari/config"
	"growthyari/models"
)

// RedisEventPublisher publishes lifecycle events on a Redis pub/sub channel
// and enqueues reminder tasks on the asynq queue.
type RedisEventPublisher struct {
	events  *redis.Client
	queue   *asynq.Client
	channel string
	lead    time.Duration
}

// NewRedisEventPublisher wires the publisher from the app configuration.
func NewRedisEventPublisher(events *redis.Client) *RedisEventPublisher {
	queue := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &RedisEventPublisher{
		events:  events,
		queue:   queue,
		channel: config.AppConfig.SessionEventsKey,
		lead:    time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute,
	}
}

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func (p *RedisEventPublisher) publish(ctx context.Context, eventType string, payload interface{}) error {
	b, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	if err := p.events.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

func (p *RedisEventPublisher) SessionConfirmed(ctx context.Context, ev models.SessionConfirmedEvent) error {
	return p.publish(ctx, "session.confirmed", ev)
}

func (p *RedisEventPublisher) SessionCancelled(ctx context.Context, ev models.SessionCancelledEvent) error {
	return p.publish(ctx, "session.cancelled", ev)
}

// ScheduleReminder enqueues the reminder to fire ahead of the session start.
// A session starting inside the lead window gets its reminder immediately.
func (p *RedisEventPublisher) ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error {
	fireAt := payload.FireAt.Add(-p.lead)
	if fireAt.Before(time.Now()) {
		fireAt = time.Now()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}
	task := asynq.NewTask(TypeSessionReminder, b)
	if _, err := p.queue.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

// Close releases the underlying queue client.
func (p *RedisEventPublisher) Close() error {
	return p.queue.Close()
}
