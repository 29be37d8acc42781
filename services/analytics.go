package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/jonasmwansa/portfolio-backend/models"
)

// DailyAnalyticsSchedule runs just after midnight UTC.
const DailyAnalyticsSchedule = "1 0 * * *"

// AnalyticsStore is implemented by database.AnalyticsRepo.
type AnalyticsStore interface {
	Ensure(ctx context.Context, day datatypes.Date) error
	Increment(ctx context.Context, day datatypes.Date, counter models.AnalyticsCounter, n int64) error
}

// AnalyticsRecorder bumps today's counters.
type AnalyticsRecorder struct {
	store  AnalyticsStore
	now    func() time.Time
	logger zerolog.Logger
}

func NewAnalyticsRecorder(store AnalyticsStore, opts ...func(*AnalyticsRecorder)) *AnalyticsRecorder {
	r := &AnalyticsRecorder{
		store:  store,
		now:    time.Now,
		logger: log.With().Str("service", "analytics").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithAnalyticsClock(now func() time.Time) func(*AnalyticsRecorder) {
	return func(r *AnalyticsRecorder) {
		r.now = now
	}
}

func (r *AnalyticsRecorder) Record(ctx context.Context, counter models.AnalyticsCounter) error {
	if err := r.store.Increment(ctx, r.today(), counter, 1); err != nil {
		return fmt.Errorf("recording %s: %w", counter, err)
	}
	return nil
}

func (r *AnalyticsRecorder) EnsureToday(ctx context.Context) error {
	return r.store.Ensure(ctx, r.today())
}

// today is the UTC calendar day, matching the visitor cookie and the job schedule.
func (r *AnalyticsRecorder) today() datatypes.Date {
	return models.Today(r.now().UTC())
}

// AnalyticsJob keeps a row for the current day in place.
type AnalyticsJob struct {
	cron     *cron.Cron
	recorder *AnalyticsRecorder
}

// StartAnalyticsJob ensures today's row right away and then on schedule.
func StartAnalyticsJob(recorder *AnalyticsRecorder, schedule string) (*AnalyticsJob, error) {
	job := &AnalyticsJob{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		recorder: recorder,
	}
	if _, err := job.cron.AddFunc(schedule, job.run); err != nil {
		return nil, fmt.Errorf("scheduling analytics job %q: %w", schedule, err)
	}
	job.run()
	job.cron.Start()
	recorder.logger.Debug().Str("schedule", schedule).Msg("Analytics job started")
	return job, nil
}

func (j *AnalyticsJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := j.recorder.EnsureToday(ctx); err != nil {
		j.recorder.logger.Error().Err(err).Msg("Failed to ensure today's analytics row")
	}
}

// Stop halts the scheduler and waits for a running job to finish.
func (j *AnalyticsJob) Stop() {
	<-j.cron.Stop().Done()
}
