package reminder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hackmap/internal/domain/notification"
	"hackmap/internal/domain/user"
	"hackmap/internal/infrastructure/email"
	"hackmap/internal/infrastructure/metrics"
	"hackmap/internal/repository"
	"hackmap/internal/usecase"
	"hackmap/internal/worker"
)

const (
	Window       = 3 * 24 * time.Hour
	DeadlineType = "Team Formation"
	lockTTL      = 10 * time.Minute
)

var errSkipped = errors.New("deadline reminders disabled")

type Result struct {
	Success    bool     `json:"success"`
	EmailsSent int      `json:"emailsSent"`
	Errors     []string `json:"errors,omitempty"`
	Message    string   `json:"message"`
}

type Options struct {
	Workers   int
	PerSecond int
}

type Usecase interface {
	Run(ctx context.Context, now time.Time) (Result, error)
}

type Service struct {
	hackathons repository.HackathonRepository
	prefs      usecase.PreferenceLookup
	notifier   usecase.Notifier
	emailer    usecase.Emailer
	cache      usecase.Cache
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	opts       Options
}

func NewService(
	hackathons repository.HackathonRepository,
	prefs usecase.PreferenceLookup,
	notifier usecase.Notifier,
	emailer usecase.Emailer,
	cache usecase.Cache,
	m *metrics.Metrics,
	logger zerolog.Logger,
	opts Options,
) *Service {
	if cache == nil {
		cache = usecase.NopCache{}
	}
	return &Service{
		hackathons: hackathons,
		prefs:      prefs,
		notifier:   notifier,
		emailer:    emailer,
		cache:      cache,
		metrics:    m,
		logger:     logger,
		opts:       opts,
	}
}

// DaysLeft rounds the remaining time up to whole days.
func DaysLeft(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// Run sends team formation reminders for every hackathon whose registration
// deadline falls within the next three days. A concurrent run elsewhere
// holds the lock and makes this one a no-op.
func (s *Service) Run(ctx context.Context, now time.Time) (Result, error) {
	token := uuid.NewString()
	ok, err := s.cache.SetIfNotExists(ctx, usecase.ReminderLockKey, token, lockTTL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reminder lock unavailable, running unlocked")
		ok = true
	}
	if !ok {
		s.metrics.ReminderRun("skipped")
		return Result{Success: true, Message: "Deadline reminders are already running"}, nil
	}
	defer func() {
		released, err := s.cache.DeleteIfValue(context.WithoutCancel(ctx), usecase.ReminderLockKey, token)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("release reminder lock")
		case !released:
			s.logger.Warn().Dur("lock_ttl", lockTTL).Msg("reminder lock expired before the run finished")
		}
	}()

	hackathons, err := s.hackathons.ListDeadlinesBetween(ctx, now, now.Add(Window))
	if err != nil {
		s.metrics.ReminderRun("error")
		return Result{}, usecase.Internal(err)
	}

	var jobs []worker.Job
	for _, h := range hackathons {
		days := DaysLeft(h.RegistrationDeadline, now)
		if days <= 0 || days > 3 {
			continue
		}

		registrants, err := s.hackathons.ListRegistrantsWithoutTeam(ctx, h.ID)
		if err != nil {
			s.metrics.ReminderRun("error")
			return Result{}, usecase.Internal(err)
		}

		for _, r := range registrants {
			if r.Email == "" {
				continue
			}
			data := email.DeadlineReminderData{
				UserName:       displayName(r),
				HackathonID:    h.ID,
				HackathonTitle: h.Title,
				DeadlineType:   DeadlineType,
				Deadline:       h.RegistrationDeadline,
				DaysLeft:       days,
			}
			draft := notification.DeadlineReminder(r.UserID, h.Title, DeadlineType, days)
			jobs = append(jobs, worker.Job{Key: r.Email, Run: s.remind(r.Email, data, draft)})
		}
	}

	res := Result{Success: true}
	for _, r := range worker.Do(ctx, s.opts.Workers, s.opts.PerSecond, jobs) {
		switch {
		case errors.Is(r.Err, errSkipped):
		case r.Err != nil:
			res.Errors = append(res.Errors, fmt.Sprintf("Failed to send registration reminder to %s: %v", r.Key, r.Err))
		default:
			res.EmailsSent++
		}
	}
	res.Message = fmt.Sprintf("Sent %d deadline reminder emails", res.EmailsSent)

	s.metrics.ReminderRun("ok")
	s.logger.Info().
		Int("hackathons", len(hackathons)).
		Int("emails_sent", res.EmailsSent).
		Int("errors", len(res.Errors)).
		Msg("deadline reminders sent")
	return res, nil
}

func (s *Service) remind(address string, data email.DeadlineReminderData, draft notification.Draft) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := s.notifier.Notify(ctx, draft); err != nil {
			s.logger.Warn().Err(err).Str("user_id", draft.UserID.String()).Msg("deadline reminder notification")
		}
		if !usecase.EmailAllowed(ctx, s.prefs, address, func(p user.NotificationPreferences) bool { return p.DeadlineReminders }) {
			return errSkipped
		}
		return s.emailer.SendDeadlineReminder(ctx, address, data)
	}
}

func displayName(r repository.Registrant) string {
	if r.Name != "" {
		return r.Name
	}
	return r.Email
}
