package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/realtime"
	"github.com/glowist/glowist-backend/internal/realtime/bus"
	"github.com/glowist/glowist-backend/internal/repos"
)

type jobKey struct {
	UserID uuid.UUID
	ID     string
}

type dailyJob struct {
	Hour   int
	Minute int
	Title  string
	Body   string

	// lastFired guards against double delivery within the same minute.
	lastFired string
}

// DailyScheduler delivers repeating daily reminders as ReminderDue events on
// the user's realtime channel. Permission is granted when the user has at
// least one registered device token. Jobs live in memory; the reminder
// service re-registers them from the settings table on startup.
type DailyScheduler struct {
	log        *logger.Logger
	bus        bus.Bus
	deviceRepo repos.DeviceTokenRepo
	tickEvery  time.Duration
	nowFn      func() time.Time

	mu   sync.Mutex
	jobs map[jobKey]*dailyJob
}

func NewDailyScheduler(log *logger.Logger, b bus.Bus, deviceRepo repos.DeviceTokenRepo) *DailyScheduler {
	return &DailyScheduler{
		log:        log.With("service", "DailyScheduler"),
		bus:        b,
		deviceRepo: deviceRepo,
		tickEvery:  30 * time.Second,
		nowFn:      time.Now,
		jobs:       make(map[jobKey]*dailyJob),
	}
}

func (s *DailyScheduler) Available() bool { return s.bus != nil }

func (s *DailyScheduler) RequestPermission(ctx context.Context, userID uuid.UUID) (bool, error) {
	if !s.Available() {
		return false, nil
	}
	count, err := s.deviceRepo.CountByUserID(ctx, nil, userID)
	if err != nil {
		return false, fmt.Errorf("check device tokens: %w", err)
	}
	return count > 0, nil
}

func (s *DailyScheduler) ScheduleDaily(ctx context.Context, userID uuid.UUID, id string, hour, minute int, title, body string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Same-id replaces, never duplicates.
	s.jobs[jobKey{UserID: userID, ID: id}] = &dailyJob{
		Hour:   hour,
		Minute: minute,
		Title:  title,
		Body:   body,
	}
	s.log.Debug("Scheduled daily reminder", "userID", userID, "id", id, "hour", hour, "minute", minute)
	return nil
}

func (s *DailyScheduler) Cancel(ctx context.Context, userID uuid.UUID, id string) error {
	if !s.Available() {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobKey{UserID: userID, ID: id})
	s.log.Debug("Canceled daily reminder", "userID", userID, "id", id)
	return nil
}

// Start runs the delivery loop until ctx is done.
func (s *DailyScheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.fireDue(ctx)
			}
		}
	}()
}

func (s *DailyScheduler) fireDue(ctx context.Context) {
	now := s.nowFn()
	day := now.Format("2006-01-02")

	type delivery struct {
		key jobKey
		job dailyJob
	}
	var due []delivery

	s.mu.Lock()
	for key, job := range s.jobs {
		if job.Hour != now.Hour() || job.Minute != now.Minute() {
			continue
		}
		if job.lastFired == day {
			continue
		}
		job.lastFired = day
		due = append(due, delivery{key: key, job: *job})
	}
	s.mu.Unlock()

	for _, d := range due {
		msg := realtime.SSEMessage{
			Channel: realtime.UserChannel(d.key.UserID.String()),
			Event:   realtime.SSEEventReminderDue,
			Data: map[string]any{
				"id":    d.key.ID,
				"title": d.job.Title,
				"body":  d.job.Body,
			},
		}
		if err := s.bus.Publish(ctx, msg); err != nil {
			s.log.Warn("Failed to publish reminder", "userID", d.key.UserID, "id", d.key.ID, "error", err)
		}
	}
}

// Scheduled reports the job registered under (user, id), for sync checks.
func (s *DailyScheduler) Scheduled(userID uuid.UUID, id string) (hour, minute int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, found := s.jobs[jobKey{UserID: userID, ID: id}]
	if !found {
		return 0, 0, false
	}
	return job.Hour, job.Minute, true
}
