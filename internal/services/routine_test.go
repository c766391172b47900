package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/glowist/glowist-backend/internal/realtime/bus"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/types"
)

func newRoutineService(t *testing.T) RoutineService {
	t.Helper()
	gdb := newTestDB(t)
	log := newTestLogger(t)
	b := bus.NewLocalBus(log)
	t.Cleanup(func() { _ = b.Close() })
	return NewRoutineService(gdb, log, repos.NewRoutineRepo(gdb, log), b)
}

func mustSteps(t *testing.T, routine *types.Routine) []types.RoutineStep {
	t.Helper()
	steps, err := routine.StepList()
	if err != nil {
		t.Fatalf("StepList: %v", err)
	}
	return steps
}

func assertDenseOrder(t *testing.T, steps []types.RoutineStep) {
	t.Helper()
	for i, s := range steps {
		if s.Order != i {
			t.Fatalf("step %d has order %d, want %d", i, s.Order, i)
		}
	}
}

func TestGetOrCreateRoutine(t *testing.T) {
	svc := newRoutineService(t)
	ctx := context.Background()
	userID := uuid.New()

	routine, err := svc.GetOrCreate(ctx, userID, types.RoutineTypeAM)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if routine.Name != "Morning Routine" {
		t.Fatalf("routine name = %q, want %q", routine.Name, "Morning Routine")
	}
	if got := mustSteps(t, routine); len(got) != 0 {
		t.Fatalf("new routine has %d steps, want 0", len(got))
	}

	again, err := svc.GetOrCreate(ctx, userID, types.RoutineTypeAM)
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if again.ID != routine.ID {
		t.Fatalf("second GetOrCreate created a new routine: %s != %s", again.ID, routine.ID)
	}

	if _, err := svc.GetOrCreate(ctx, userID, "noon"); !errors.Is(err, ErrInvalidRoutineType) {
		t.Fatalf("GetOrCreate with bad type err = %v, want ErrInvalidRoutineType", err)
	}
}

func TestAddStepAssignsUniqueIDsAndDenseOrder(t *testing.T) {
	svc := newRoutineService(t)
	ctx := context.Background()

	routine, err := svc.GetOrCreate(ctx, uuid.New(), types.RoutineTypePM)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	const n = 5
	var updated *types.Routine
	for i := 0; i < n; i++ {
		updated, err = svc.AddStep(ctx, routine.ID, StepInput{Name: "step"})
		if err != nil {
			t.Fatalf("AddStep %d: %v", i, err)
		}
	}
	steps := mustSteps(t, updated)
	if len(steps) != n {
		t.Fatalf("got %d steps, want %d", len(steps), n)
	}
	assertDenseOrder(t, steps)

	seen := make(map[string]bool)
	for _, s := range steps {
		if seen[s.ID] {
			t.Fatalf("duplicate step id %s", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestUpdateStep(t *testing.T) {
	svc := newRoutineService(t)
	ctx := context.Background()

	routine, _ := svc.GetOrCreate(ctx, uuid.New(), types.RoutineTypeAM)
	updated, err := svc.AddStep(ctx, routine.ID, StepInput{Name: "Cleanser", Description: "Gentle"})
	if err != nil {
		t.Fatalf("AddStep: %v", err)
	}
	stepID := mustSteps(t, updated)[0].ID

	newName := "Foam Cleanser"
	updated, err = svc.UpdateStep(ctx, routine.ID, stepID, StepPatch{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateStep: %v", err)
	}
	steps := mustSteps(t, updated)
	if steps[0].Name != newName {
		t.Fatalf("step name = %q, want %q", steps[0].Name, newName)
	}
	if steps[0].Description != "Gentle" {
		t.Fatalf("description changed unexpectedly: %q", steps[0].Description)
	}
	if steps[0].ID != stepID || steps[0].Order != 0 {
		t.Fatalf("id/order must be immutable, got id=%s order=%d", steps[0].ID, steps[0].Order)
	}

	// Unknown step id is a silent no-op.
	result, err := svc.UpdateStep(ctx, routine.ID, "missing", StepPatch{Name: &newName})
	if err != nil {
		t.Fatalf("UpdateStep unknown id: %v", err)
	}
	if result != nil {
		t.Fatalf("UpdateStep unknown id = %+v, want nil", result)
	}
}

func TestRemoveStepReindexesDensely(t *testing.T) {
	svc := newRoutineService(t)
	ctx := context.Background()

	routine, _ := svc.GetOrCreate(ctx, uuid.New(), types.RoutineTypeAM)
	names := []string{"a", "b", "c", "d"}
	var updated *types.Routine
	var err error
	for _, name := range names {
		updated, err = svc.AddStep(ctx, routine.ID, StepInput{Name: name})
		if err != nil {
			t.Fatalf("AddStep: %v", err)
		}
	}
	steps := mustSteps(t, updated)

	updated, err = svc.RemoveStep(ctx, routine.ID, steps[1].ID)
	if err != nil {
		t.Fatalf("RemoveStep: %v", err)
	}
	remaining := mustSteps(t, updated)
	if len(remaining) != 3 {
		t.Fatalf("got %d steps, want 3", len(remaining))
	}
	assertDenseOrder(t, remaining)
	wantNames := []string{"a", "c", "d"}
	for i, s := range remaining {
		if s.Name != wantNames[i] {
			t.Fatalf("step %d = %q, want %q", i, s.Name, wantNames[i])
		}
	}
}

func TestReorderStepsDropsOmittedIDs(t *testing.T) {
	svc := newRoutineService(t)
	ctx := context.Background()

	routine, _ := svc.GetOrCreate(ctx, uuid.New(), types.RoutineTypeAM)
	var updated *types.Routine
	var err error
	for _, name := range []string{"A", "B", "C"} {
		updated, err = svc.AddStep(ctx, routine.ID, StepInput{Name: name})
		if err != nil {
			t.Fatalf("AddStep: %v", err)
		}
	}
	steps := mustSteps(t, updated)
	idA, idC := steps[0].ID, steps[2].ID

	// Omitting B removes it entirely.
	updated, err = svc.ReorderSteps(ctx, routine.ID, []string{idC, idA}, false)
	if err != nil {
		t.Fatalf("ReorderSteps: %v", err)
	}
	reordered := mustSteps(t, updated)
	if len(reordered) != 2 {
		t.Fatalf("got %d steps, want 2", len(reordered))
	}
	if reordered[0].ID != idC || reordered[1].ID != idA {
		t.Fatalf("order = [%s %s], want [C A]", reordered[0].Name, reordered[1].Name)
	}
	assertDenseOrder(t, reordered)
}

func TestReorderStepsStrictRejectsIncomplete(t *testing.T) {
	svc := newRoutineService(t)
	ctx := context.Background()

	routine, _ := svc.GetOrCreate(ctx, uuid.New(), types.RoutineTypeAM)
	var updated *types.Routine
	for _, name := range []string{"A", "B"} {
		updated, _ = svc.AddStep(ctx, routine.ID, StepInput{Name: name})
	}
	steps := mustSteps(t, updated)

	if _, err := svc.ReorderSteps(ctx, routine.ID, []string{steps[0].ID}, true); !errors.Is(err, ErrIncompleteOrder) {
		t.Fatalf("strict reorder err = %v, want ErrIncompleteOrder", err)
	}

	// Unknown ids are ignored in either mode.
	updated, err := svc.ReorderSteps(ctx, routine.ID, []string{steps[1].ID, "ghost", steps[0].ID}, true)
	if err != nil {
		t.Fatalf("strict reorder with ghost id: %v", err)
	}
	got := mustSteps(t, updated)
	if len(got) != 2 || got[0].ID != steps[1].ID {
		t.Fatalf("unexpected steps after reorder: %+v", got)
	}
}

func TestOrderDensityAfterMixedMutations(t *testing.T) {
	svc := newRoutineService(t)
	ctx := context.Background()

	routine, _ := svc.GetOrCreate(ctx, uuid.New(), types.RoutineTypeAM)
	var updated *types.Routine
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		updated, _ = svc.AddStep(ctx, routine.ID, StepInput{Name: name})
	}
	steps := mustSteps(t, updated)

	updated, err := svc.RemoveStep(ctx, routine.ID, steps[0].ID)
	if err != nil {
		t.Fatalf("RemoveStep: %v", err)
	}
	updated, err = svc.AddStep(ctx, routine.ID, StepInput{Name: "f"})
	if err != nil {
		t.Fatalf("AddStep: %v", err)
	}
	current := mustSteps(t, updated)
	ids := make([]string, 0, len(current))
	for i := len(current) - 1; i >= 0; i-- {
		ids = append(ids, current[i].ID)
	}
	updated, err = svc.ReorderSteps(ctx, routine.ID, ids, true)
	if err != nil {
		t.Fatalf("ReorderSteps: %v", err)
	}
	final := mustSteps(t, updated)
	if len(final) != 5 {
		t.Fatalf("got %d steps, want 5", len(final))
	}
	assertDenseOrder(t, final)
}
