// Package worker consumes the fire-and-forget tasks enqueued by the
// services: owner confirmation emails, featured-speaker recomputes, and
// announcement refreshes. Delivery is at-least-once, so every handler is
// idempotent.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"conferencecentral/internal/domain"
)

type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

func New(
	redisAddr string,
	emailSvc domain.EmailService,
	featuredSvc domain.FeaturedSpeakerService,
	announcementSvc domain.AnnouncementService,
	logger *slog.Logger,
) *Worker {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{Concurrency: 10},
	)

	w := &Worker{srv: srv, mux: asynq.NewServeMux(), logger: logger}
	w.mux.HandleFunc(domain.TaskTypeConfirmationEmail, w.handleConfirmationEmail(emailSvc))
	w.mux.HandleFunc(domain.TaskTypeFeaturedSpeaker, w.handleFeaturedSpeaker(featuredSvc))
	w.mux.HandleFunc(domain.TaskTypeAnnouncement, w.handleAnnouncement(announcementSvc))
	return w
}

// Run blocks, processing tasks until Shutdown.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func (w *Worker) handleConfirmationEmail(emailSvc domain.EmailService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload domain.ConfirmationEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal confirmation email payload: %w", err)
		}
		if err := emailSvc.SendConferenceConfirmation(ctx, &payload); err != nil {
			w.logger.Error("send confirmation email failed", "to", payload.Email, "error", err)
			return err
		}
		return nil
	}
}

func (w *Worker) handleFeaturedSpeaker(featuredSvc domain.FeaturedSpeakerService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload domain.FeaturedSpeakerPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal featured speaker payload: %w", err)
		}
		if err := featuredSvc.Refresh(ctx, payload.ConferenceID, payload.Speaker); err != nil {
			w.logger.Error("featured speaker refresh failed", "conference_id", payload.ConferenceID, "error", err)
			return err
		}
		return nil
	}
}

func (w *Worker) handleAnnouncement(announcementSvc domain.AnnouncementService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		if _, err := announcementSvc.Refresh(ctx); err != nil {
			w.logger.Error("announcement refresh failed", "error", err)
			return err
		}
		return nil
	}
}
