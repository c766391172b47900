package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/realtime"
	"github.com/glowist/glowist-backend/internal/realtime/bus"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/types"
)

type captureBus struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (b *captureBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
	return nil
}

func (b *captureBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	return nil
}

func (b *captureBus) Close() error { return nil }

func (b *captureBus) published() []realtime.SSEMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]realtime.SSEMessage, len(b.msgs))
	copy(out, b.msgs)
	return out
}

var _ bus.Bus = (*captureBus)(nil)

func newSchedulerFixture(t *testing.T) (*DailyScheduler, *captureBus, *gorm.DB) {
	t.Helper()
	log := logger.NewNop()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.User{}, &types.DeviceToken{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	b := &captureBus{}
	return NewDailyScheduler(log, b, repos.NewDeviceTokenRepo(gdb, log)), b, gdb
}

func TestRequestPermissionRequiresDeviceToken(t *testing.T) {
	scheduler, _, gdb := newSchedulerFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	granted, err := scheduler.RequestPermission(ctx, userID)
	if err != nil {
		t.Fatalf("RequestPermission: %v", err)
	}
	if granted {
		t.Fatal("permission granted with no device tokens")
	}

	row := &types.DeviceToken{ID: uuid.New(), UserID: userID, Platform: "ios", Token: uuid.NewString(), CreatedAt: time.Now()}
	if err := gdb.Create(row).Error; err != nil {
		t.Fatalf("create device token: %v", err)
	}
	granted, err = scheduler.RequestPermission(ctx, userID)
	if err != nil {
		t.Fatalf("RequestPermission: %v", err)
	}
	if !granted {
		t.Fatal("permission denied despite registered device token")
	}
}

func TestScheduleDailyReplacesSameID(t *testing.T) {
	scheduler, _, _ := newSchedulerFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	if err := scheduler.ScheduleDaily(ctx, userID, "reminder-AM", 8, 0, "t", "b"); err != nil {
		t.Fatalf("ScheduleDaily: %v", err)
	}
	if err := scheduler.ScheduleDaily(ctx, userID, "reminder-AM", 9, 30, "t", "b"); err != nil {
		t.Fatalf("ScheduleDaily replace: %v", err)
	}
	hour, minute, ok := scheduler.Scheduled(userID, "reminder-AM")
	if !ok || hour != 9 || minute != 30 {
		t.Fatalf("scheduled = %02d:%02d ok=%v, want 09:30", hour, minute, ok)
	}

	if err := scheduler.ScheduleDaily(ctx, userID, "reminder-AM", 25, 0, "t", "b"); err == nil {
		t.Fatal("ScheduleDaily with hour 25 succeeded, want error")
	}

	if err := scheduler.Cancel(ctx, userID, "reminder-AM"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, _, ok := scheduler.Scheduled(userID, "reminder-AM"); ok {
		t.Fatal("job still present after Cancel")
	}
}

func TestFireDueDeliversOncePerDay(t *testing.T) {
	scheduler, b, _ := newSchedulerFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	due := time.Date(2026, 8, 30, 21, 0, 10, 0, time.UTC)
	scheduler.nowFn = func() time.Time { return due }

	if err := scheduler.ScheduleDaily(ctx, userID, "reminder-PM", 21, 0, "Evening routine", "time to wind down"); err != nil {
		t.Fatalf("ScheduleDaily: %v", err)
	}

	scheduler.fireDue(ctx)
	scheduler.fireDue(ctx) // same minute, same day: no second delivery

	msgs := b.published()
	if len(msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(msgs))
	}
	if msgs[0].Event != realtime.SSEEventReminderDue {
		t.Fatalf("event = %q, want ReminderDue", msgs[0].Event)
	}
	if msgs[0].Channel != realtime.UserChannel(userID.String()) {
		t.Fatalf("channel = %q, want user channel", msgs[0].Channel)
	}

	// Next day at the same time it fires again.
	scheduler.nowFn = func() time.Time { return due.AddDate(0, 0, 1) }
	scheduler.fireDue(ctx)
	if got := len(b.published()); got != 2 {
		t.Fatalf("published %d messages after next day, want 2", got)
	}
}

func TestFireDueSkipsOtherMinutes(t *testing.T) {
	scheduler, b, _ := newSchedulerFixture(t)
	ctx := context.Background()

	scheduler.nowFn = func() time.Time { return time.Date(2026, 8, 30, 8, 1, 0, 0, time.UTC) }
	if err := scheduler.ScheduleDaily(ctx, uuid.New(), "reminder-AM", 8, 0, "t", "b"); err != nil {
		t.Fatalf("ScheduleDaily: %v", err)
	}
	scheduler.fireDue(ctx)
	if got := len(b.published()); got != 0 {
		t.Fatalf("published %d messages off-minute, want 0", got)
	}
}
