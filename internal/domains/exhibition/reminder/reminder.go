// Package reminder periodically announces complete exhibitions that are about
// to close.
package reminder

import (
	"context"
	"expo/config"
	"expo/infras/otel"
	"expo/internal/domains/exhibition/event"
	"expo/internal/domains/exhibition/model"
	"expo/internal/domains/exhibition/repository"
	"expo/internal/domains/exhibition/schedule"
	"expo/shared/constant"
	gDto "expo/shared/dto"
	"expo/shared/timezone"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSchedule = "0 9 * * *"
	// Window is the last day, counted from today, that still triggers a reminder.
	Window = 7

	argWindow = "window"
)

type Reminder interface {
	Start() error
	Stop(ctx context.Context) error
	Run(ctx context.Context) (sent int, err error)
}

type reminderImpl struct {
	repo      repository.Exhibition
	cfg       *config.Config
	otel      otel.Otel
	publisher event.Publisher
	cron      *cron.Cron
	now       func() time.Time
}

func New(repo repository.Exhibition, cfg *config.Config, otel otel.Otel, publisher event.Publisher) Reminder {
	return &reminderImpl{
		repo:      repo,
		cfg:       cfg,
		otel:      otel,
		publisher: publisher,
		cron:      cron.New(cron.WithLocation(timezone.GetLocation())),
		now:       timezone.Now,
	}
}

// Start registers the job and returns immediately. A disabled reminder is a no-op.
func (r *reminderImpl) Start() error {
	if !r.cfg.Reminder.Enable {
		log.Info().Msg("exhibition reminder disabled")

		return nil
	}

	spec := r.cfg.Reminder.Cron
	if spec == constant.Empty {
		spec = DefaultSchedule
	}

	_, err := r.cron.AddFunc(spec, func() {
		sent, err := r.Run(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("exhibition reminder run failed")

			return
		}

		log.Info().Int("sent", sent).Msg("exhibition reminder run finished")
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}

	r.cron.Start()

	log.Info().Str("schedule", spec).Msg("exhibition reminder started")

	return nil
}

// Stop waits for a running job or the context, whichever comes first.
func (r *reminderImpl) Stop(ctx context.Context) error {
	select {
	case <-r.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stopping reminder: %w", ctx.Err())
	}
}

// Run publishes one reminder per complete exhibition ending within Window days.
func (r *reminderImpl) Run(ctx context.Context) (sent int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+".reminder.Run")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := r.now()
	today := schedule.StartOfDay(now, time.UTC)

	params := gDto.QueryParams{SortBy: model.FieldEndDate, SortDir: gDto.SortDirAsc}
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusComplete, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{
				ArgName:  argWindow,
				Field:    model.FieldEndDate,
				Value:    [2]time.Time{today, today.AddDate(0, 0, Window)},
				Operator: gDto.FilterOperatorBetween,
				Table:    model.TableName,
			},
		},
	}

	exhibitions, err := r.repo.GetAll(ctx, params, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to list closing exhibitions: %w", err)
	}

	payloads := make([]event.Payload, 0, len(exhibitions))

	for _, exhibition := range exhibitions {
		if exhibition.EndDate == nil {
			continue
		}

		days := schedule.DaysRemaining(*exhibition.EndDate, now)
		if schedule.TierOf(days) != schedule.TierUrgent {
			continue
		}

		payload := event.NewPayload(event.TypeReminder, exhibition, now)
		payload.DaysRemaining = &days

		payloads = append(payloads, payload)
	}

	if len(payloads) == 0 {
		return 0, nil
	}

	if err = r.publisher.Publish(ctx, payloads...); err != nil {
		return 0, fmt.Errorf("failed to publish reminders: %w", err)
	}

	return len(payloads), nil
}
