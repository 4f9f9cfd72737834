package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"growthyari/config"
	"growthyari/models"
	"growthyari/services/notification"
	"growthyari/services/scheduling"
	"growthyari/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitSessionWorker runs the async worker and the periodic completion sweep
// in the background.
func InitSessionWorker(schedSvc scheduling.SchedulingService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeSessionReminder, handleReminderTask())
	mux.HandleFunc(notification.TypeCompleteDue, handleCompleteDueTask(schedSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Completed sessions are time-driven, not user-driven: sweep every minute.
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register("@every 1m", asynq.NewTask(notification.TypeCompleteDue, nil)); err != nil {
		log.Fatalf("[SessionWorker] failed to register completion sweep: %v", err)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[SessionWorker] scheduler stopped: %v", err)
		}
	}()

	// Start async worker with retry logic
	go func() {
		log.Println("[SessionWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SessionWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SessionWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleReminderTask re-publishes the reminder on the session event channel;
// the notification collaborator owns delivery from there.
func handleReminderTask() asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		log.Printf("[ReminderHandler] reminder due for session %s (%s)", p.SessionID, p.Title)

		b, err := json.Marshal(map[string]interface{}{"type": "session.reminder", "payload": p})
		if err != nil {
			return err
		}
		return utils.GetEventsClient().Publish(ctx, config.AppConfig.SessionEventsKey, b).Err()
	}
}

func handleCompleteDueTask(schedSvc scheduling.SchedulingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		n, err := schedSvc.CompleteDue(ctx)
		if err != nil {
			log.Printf("[CompletionSweep] sweep failed: %v", err)
			return err
		}
		if n > 0 {
			log.Printf("[CompletionSweep] completed %d sessions", n)
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SessionWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
