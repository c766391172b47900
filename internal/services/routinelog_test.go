package services

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/glowist/glowist-backend/internal/repos"
)

func newRoutineLogService(t *testing.T) RoutineLogService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	return NewRoutineLogService(gdb, log, repos.NewRoutineLogRepo(gdb, log))
}

func TestCompletedEmptyWhenNoRow(t *testing.T) {
	svc := newRoutineLogService(t)
	got := svc.Completed(context.Background(), uuid.New(), uuid.New(), "2026-08-30")
	if got == nil {
		t.Fatal("Completed returned nil, want empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("Completed = %v, want empty", got)
	}
}

func TestSetCompletedRoundTrip(t *testing.T) {
	svc := newRoutineLogService(t)
	ctx := context.Background()
	userID, routineID := uuid.New(), uuid.New()
	const day = "2026-08-30"

	if err := svc.SetCompleted(ctx, userID, routineID, day, []string{"step-a", "step-b"}); err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	got := svc.Completed(ctx, userID, routineID, day)
	sort.Strings(got)
	if len(got) != 2 || got[0] != "step-a" || got[1] != "step-b" {
		t.Fatalf("Completed = %v, want [step-a step-b]", got)
	}

	// Other days and routines are unaffected.
	if other := svc.Completed(ctx, userID, routineID, "2026-08-31"); len(other) != 0 {
		t.Fatalf("other day = %v, want empty", other)
	}
	if other := svc.Completed(ctx, userID, uuid.New(), day); len(other) != 0 {
		t.Fatalf("other routine = %v, want empty", other)
	}
}

func TestSetCompletedReplacesSet(t *testing.T) {
	svc := newRoutineLogService(t)
	ctx := context.Background()
	userID, routineID := uuid.New(), uuid.New()
	const day = "2026-08-30"

	if err := svc.SetCompleted(ctx, userID, routineID, day, []string{"step-a", "step-b"}); err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	if err := svc.SetCompleted(ctx, userID, routineID, day, []string{"step-b"}); err != nil {
		t.Fatalf("SetCompleted replace: %v", err)
	}
	if got := svc.Completed(ctx, userID, routineID, day); len(got) != 1 || got[0] != "step-b" {
		t.Fatalf("Completed = %v, want [step-b]", got)
	}

	// Clearing the set is a valid write, not a delete.
	if err := svc.SetCompleted(ctx, userID, routineID, day, []string{}); err != nil {
		t.Fatalf("SetCompleted clear: %v", err)
	}
	if got := svc.Completed(ctx, userID, routineID, day); len(got) != 0 {
		t.Fatalf("Completed after clear = %v, want empty", got)
	}
}

func TestSetCompletedIdempotent(t *testing.T) {
	svc := newRoutineLogService(t)
	ctx := context.Background()
	userID, routineID := uuid.New(), uuid.New()
	const day = "2026-08-30"

	for i := 0; i < 3; i++ {
		if err := svc.SetCompleted(ctx, userID, routineID, day, []string{"step-a"}); err != nil {
			t.Fatalf("SetCompleted %d: %v", i, err)
		}
	}
	if got := svc.Completed(ctx, userID, routineID, day); len(got) != 1 || got[0] != "step-a" {
		t.Fatalf("Completed = %v, want [step-a]", got)
	}
}

func TestSetCompletedRejectsBadDay(t *testing.T) {
	svc := newRoutineLogService(t)
	if err := svc.SetCompleted(context.Background(), uuid.New(), uuid.New(), "30-08-2026", []string{"x"}); err == nil {
		t.Fatal("SetCompleted with bad day succeeded, want error")
	}
}

func TestCompletedBadDayFailsOpen(t *testing.T) {
	svc := newRoutineLogService(t)
	if got := svc.Completed(context.Background(), uuid.New(), uuid.New(), "not-a-day"); len(got) != 0 {
		t.Fatalf("Completed = %v, want empty", got)
	}
}
