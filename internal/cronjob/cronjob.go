// Package cronjob runs the scheduled generation of next month's roster.
package cronjob

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mkorsakov/dutyroster/pkg/core/model"
	"github.com/mkorsakov/dutyroster/pkg/core/services"
	"github.com/mkorsakov/dutyroster/pkg/db"
	"github.com/mkorsakov/dutyroster/pkg/metrics"
)

// Runner generates and saves next month's schedule on a cron spec, e.g.
// "0 9 25 * *" for 09:00 on the 25th of every month.
type Runner struct {
	engine *cron.Cron
	roster model.Roster
	store  db.ScheduleStore
	logger *zap.Logger
	spec   string
}

// New creates a Runner. The spec must already be validated by config.
func New(spec string, roster model.Roster, store db.ScheduleStore, logger *zap.Logger) *Runner {
	return &Runner{
		engine: cron.New(cron.WithLocation(time.Local)),
		roster: roster,
		store:  store,
		logger: logger,
		spec:   spec,
	}
}

// Start registers the job and starts the cron engine.
func (r *Runner) Start() error {
	if _, err := r.engine.AddFunc(r.spec, r.generateNextMonth); err != nil {
		return err
	}
	r.engine.Start()
	r.logger.Info("Cron runner started", zap.String("spec", r.spec))
	return nil
}

// Stop stops the engine and waits for an in-flight job to finish.
func (r *Runner) Stop() {
	ctx := r.engine.Stop()
	<-ctx.Done()
	r.logger.Info("Cron runner stopped")
}

func (r *Runner) generateNextMonth() {
	month, year := NextMonth(time.Now())
	r.logger.Info("Cron job triggered, generating next month's schedule",
		zap.Int("month", month+1),
		zap.Int("year", year))

	result, err := services.GenerateSchedule(r.roster, month, year, nil, r.logger)
	if err != nil {
		r.logger.Error("Scheduled generation failed", zap.Error(err))
		return
	}
	metrics.GenerationsTotal.WithLabelValues("cron").Inc()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err := services.SaveSchedule(ctx, r.store, r.logger, result, "cron"); err != nil {
		r.logger.Error("Scheduled save failed", zap.Error(err))
	}
}

// NextMonth returns the zero-based month and year following the given time.
func NextMonth(now time.Time) (int, int) {
	month := int(now.Month()) // now.Month() is 1-based, so this is already next month zero-based
	year := now.Year()
	if month > 11 {
		month = 0
		year++
	}
	return month, year
}
