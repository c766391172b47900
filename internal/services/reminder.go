package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/config"
	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/notify"
	"github.com/glowist/glowist-backend/internal/realtime"
	"github.com/glowist/glowist-backend/internal/realtime/bus"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/types"
)

// ReminderID is the deterministic notification id for a routine type, so a
// re-schedule always replaces the previous one.
func ReminderID(routineType string) string {
	return "reminder-" + routineType
}

func reminderTitle(routineType string) string {
	if routineType == types.RoutineTypeAM {
		return "Morning routine"
	}
	return "Evening routine"
}

func reminderBody(routineType string) string {
	if routineType == types.RoutineTypeAM {
		return "Start your day with your skincare routine."
	}
	return "Wind down with your evening skincare routine."
}

type ReminderService interface {
	Get(ctx context.Context, userID uuid.UUID, routineType string) (*types.ReminderSetting, error)
	GetAll(ctx context.Context, userID uuid.UUID) ([]*types.ReminderSetting, error)
	// Enable persists the setting and schedules the daily notification.
	// Permission is requested first; refusal aborts with ErrPermissionDenied
	// and leaves no partial state.
	Enable(ctx context.Context, userID uuid.UUID, routineType string, hour, minute int) (*types.ReminderSetting, error)
	Disable(ctx context.Context, userID uuid.UUID, routineType string) (*types.ReminderSetting, error)
	// AdjustTime shifts hour or minute by delta with wraparound. While
	// enabled the change is persisted and rescheduled; while disabled the
	// adjusted value is only returned, to be persisted on the next Enable.
	AdjustTime(ctx context.Context, userID uuid.UUID, routineType, field string, delta int) (*types.ReminderSetting, error)
	// SyncAll reconciles the local schedule with the settings table, run on
	// startup so schedules survive process restarts.
	SyncAll(ctx context.Context, userID uuid.UUID) error
	// HandleRemoteChange absorbs a setting change observed on the bus.
	HandleRemoteChange(ctx context.Context, setting *types.ReminderSetting)
}

type reminderService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.ReminderSettingRepo
	scheduler notify.Scheduler
	bus       bus.Bus
	cfg       config.ReminderConfig
}

func NewReminderService(db *gorm.DB, log *logger.Logger, repo repos.ReminderSettingRepo, scheduler notify.Scheduler, b bus.Bus, cfg config.ReminderConfig) ReminderService {
	return &reminderService{
		db:        db,
		log:       log.With("service", "ReminderService"),
		repo:      repo,
		scheduler: scheduler,
		bus:       b,
		cfg:       cfg,
	}
}

// defaultSetting is the implied state before the user ever touches the
// toggle: disabled, morning 08:00 / evening 21:00 (configurable).
func (s *reminderService) defaultSetting(userID uuid.UUID, routineType string) *types.ReminderSetting {
	hour, minute := s.cfg.MorningHour, s.cfg.MorningMinute
	if routineType == types.RoutineTypePM {
		hour, minute = s.cfg.EveningHour, s.cfg.EveningMinute
	}
	return &types.ReminderSetting{
		UserID:      userID,
		RoutineType: routineType,
		Enabled:     false,
		Hour:        hour,
		Minute:      minute,
	}
}

func (s *reminderService) Get(ctx context.Context, userID uuid.UUID, routineType string) (*types.ReminderSetting, error) {
	if !types.ValidRoutineType(routineType) {
		return nil, ErrInvalidRoutineType
	}
	setting, err := s.repo.GetByUserAndType(ctx, nil, userID, routineType)
	if err != nil {
		return nil, fmt.Errorf("load reminder setting: %w", err)
	}
	if setting == nil {
		return s.defaultSetting(userID, routineType), nil
	}
	return setting, nil
}

func (s *reminderService) GetAll(ctx context.Context, userID uuid.UUID) ([]*types.ReminderSetting, error) {
	existing, err := s.repo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load reminder settings: %w", err)
	}
	byType := make(map[string]*types.ReminderSetting, len(existing))
	for _, setting := range existing {
		byType[setting.RoutineType] = setting
	}
	result := make([]*types.ReminderSetting, 0, 2)
	for _, t := range []string{types.RoutineTypeAM, types.RoutineTypePM} {
		if setting, ok := byType[t]; ok {
			result = append(result, setting)
		} else {
			result = append(result, s.defaultSetting(userID, t))
		}
	}
	return result, nil
}

func (s *reminderService) Enable(ctx context.Context, userID uuid.UUID, routineType string, hour, minute int) (*types.ReminderSetting, error) {
	if !types.ValidRoutineType(routineType) {
		return nil, ErrInvalidRoutineType
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid time %02d:%02d", hour, minute)
	}
	granted, err := s.scheduler.RequestPermission(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("request notification permission: %w", err)
	}
	if !granted {
		return nil, ErrPermissionDenied
	}

	setting := &types.ReminderSetting{
		ID:          uuid.New(),
		UserID:      userID,
		RoutineType: routineType,
		Enabled:     true,
		Hour:        hour,
		Minute:      minute,
	}
	// Persist first; a failed save leaves the previous schedule untouched.
	if err := s.repo.Upsert(ctx, nil, setting); err != nil {
		return nil, fmt.Errorf("save reminder setting: %w", err)
	}
	if err := s.scheduler.ScheduleDaily(ctx, userID, ReminderID(routineType), hour, minute, reminderTitle(routineType), reminderBody(routineType)); err != nil {
		s.log.Warn("Failed to schedule reminder after save", "userID", userID, "type", routineType, "error", err)
	}
	s.publishChange(ctx, setting)
	return setting, nil
}

func (s *reminderService) Disable(ctx context.Context, userID uuid.UUID, routineType string) (*types.ReminderSetting, error) {
	if !types.ValidRoutineType(routineType) {
		return nil, ErrInvalidRoutineType
	}
	current, err := s.Get(ctx, userID, routineType)
	if err != nil {
		return nil, err
	}
	setting := &types.ReminderSetting{
		ID:          uuid.New(),
		UserID:      userID,
		RoutineType: routineType,
		Enabled:     false,
		// Hour and minute survive the toggle so re-enabling restores them.
		Hour:   current.Hour,
		Minute: current.Minute,
	}
	if err := s.repo.Upsert(ctx, nil, setting); err != nil {
		return nil, fmt.Errorf("save reminder setting: %w", err)
	}
	if err := s.scheduler.Cancel(ctx, userID, ReminderID(routineType)); err != nil && err != notify.ErrUnavailable {
		s.log.Warn("Failed to cancel reminder after save", "userID", userID, "type", routineType, "error", err)
	}
	s.publishChange(ctx, setting)
	return setting, nil
}

func (s *reminderService) AdjustTime(ctx context.Context, userID uuid.UUID, routineType, field string, delta int) (*types.ReminderSetting, error) {
	if !types.ValidRoutineType(routineType) {
		return nil, ErrInvalidRoutineType
	}
	current, err := s.Get(ctx, userID, routineType)
	if err != nil {
		return nil, err
	}
	hour, minute := current.Hour, current.Minute
	switch field {
	case "hour":
		hour = ((hour+delta)%24 + 24) % 24
	case "minute":
		minute = ((minute+delta)%60 + 60) % 60
	default:
		return nil, fmt.Errorf("unknown time field %q", field)
	}

	if !current.Enabled {
		// Not persisted while disabled; the client keeps the adjusted value
		// and sends it with the next Enable.
		current.Hour = hour
		current.Minute = minute
		return current, nil
	}
	return s.Enable(ctx, userID, routineType, hour, minute)
}

func (s *reminderService) SyncAll(ctx context.Context, userID uuid.UUID) error {
	settings, err := s.repo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("load reminder settings: %w", err)
	}
	seen := make(map[string]bool, len(settings))
	for _, setting := range settings {
		seen[setting.RoutineType] = true
		s.applySchedule(ctx, setting)
	}
	// Cancel ids for types with no setting row at all.
	for _, t := range []string{types.RoutineTypeAM, types.RoutineTypePM} {
		if !seen[t] {
			if err := s.scheduler.Cancel(ctx, userID, ReminderID(t)); err != nil && err != notify.ErrUnavailable {
				s.log.Warn("Failed to cancel stale reminder", "userID", userID, "type", t, "error", err)
			}
		}
	}
	return nil
}

func (s *reminderService) HandleRemoteChange(ctx context.Context, setting *types.ReminderSetting) {
	if setting == nil || !types.ValidRoutineType(setting.RoutineType) {
		return
	}
	if !s.cfg.RescheduleOnRemoteChange {
		s.log.Debug("Observed remote reminder change, reschedule disabled", "userID", setting.UserID, "type", setting.RoutineType)
		return
	}
	s.applySchedule(ctx, setting)
}

func (s *reminderService) applySchedule(ctx context.Context, setting *types.ReminderSetting) {
	id := ReminderID(setting.RoutineType)
	if !setting.Enabled {
		if err := s.scheduler.Cancel(ctx, setting.UserID, id); err != nil && err != notify.ErrUnavailable {
			s.log.Warn("Failed to cancel reminder", "userID", setting.UserID, "type", setting.RoutineType, "error", err)
		}
		return
	}
	granted, err := s.scheduler.RequestPermission(ctx, setting.UserID)
	if err != nil || !granted {
		s.log.Debug("Skipping reminder schedule without permission", "userID", setting.UserID, "type", setting.RoutineType, "error", err)
		return
	}
	if err := s.scheduler.ScheduleDaily(ctx, setting.UserID, id, setting.Hour, setting.Minute, reminderTitle(setting.RoutineType), reminderBody(setting.RoutineType)); err != nil {
		s.log.Warn("Failed to schedule reminder", "userID", setting.UserID, "type", setting.RoutineType, "error", err)
	}
}

func (s *reminderService) publishChange(ctx context.Context, setting *types.ReminderSetting) {
	msg := realtime.SSEMessage{
		Channel: realtime.UserChannel(setting.UserID.String()),
		Event:   realtime.SSEEventReminderSettingChanged,
		Data:    setting,
	}
	if err := s.bus.Publish(ctx, msg); err != nil {
		s.log.Warn("Failed to publish reminder change", "userID", setting.UserID, "error", err)
	}
}
