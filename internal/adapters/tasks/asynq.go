// Package tasks provides the asynq-backed fire-and-forget task dispatcher.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"conferencecentral/internal/domain"
)

type asynqDispatcher struct {
	client *asynq.Client
}

// NewDispatcher returns a domain.TaskDispatcher that enqueues tasks on the
// Redis queue at redisAddr. Delivery is at-least-once; callers never
// observe the task result.
func NewDispatcher(redisAddr string) domain.TaskDispatcher {
	return &asynqDispatcher{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

func (d *asynqDispatcher) Enqueue(ctx context.Context, taskType string, payload any) error {
	var raw []byte
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal task payload: %w", err)
		}
	}
	if _, err := d.client.EnqueueContext(ctx, asynq.NewTask(taskType, raw)); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
