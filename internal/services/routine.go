package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/glowist/glowist-backend/internal/logger"
	"github.com/glowist/glowist-backend/internal/realtime"
	"github.com/glowist/glowist-backend/internal/realtime/bus"
	"github.com/glowist/glowist-backend/internal/repos"
	"github.com/glowist/glowist-backend/internal/types"
)

var routineNames = map[string]string{
	types.RoutineTypeAM: "Morning Routine",
	types.RoutineTypePM: "Evening Routine",
}

// StepInput carries the caller-settable fields of a new step; id and order
// are assigned by the service.
type StepInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ProductID   *uuid.UUID `json:"product_id"`
}

// StepPatch merges into an existing step; nil fields are left unchanged. Id
// and order cannot be patched.
type StepPatch struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	ProductID   *uuid.UUID `json:"product_id"`
}

type RoutineService interface {
	// GetOrCreate returns the most recently created routine for the pair,
	// creating an empty one with the default name when none exists.
	GetOrCreate(ctx context.Context, userID uuid.UUID, routineType string) (*types.Routine, error)
	AddStep(ctx context.Context, routineID uuid.UUID, input StepInput) (*types.Routine, error)
	// UpdateStep returns (nil, nil) when the step id is not present.
	UpdateStep(ctx context.Context, routineID uuid.UUID, stepID string, patch StepPatch) (*types.Routine, error)
	RemoveStep(ctx context.Context, routineID uuid.UUID, stepID string) (*types.Routine, error)
	// ReorderSteps assigns each step the position of its id in orderedIDs.
	// Unknown ids are ignored. With strict=false, steps whose id is omitted
	// are REMOVED from the routine; strict=true rejects incomplete orderings
	// with ErrIncompleteOrder instead.
	ReorderSteps(ctx context.Context, routineID uuid.UUID, orderedIDs []string, strict bool) (*types.Routine, error)
}

type routineService struct {
	db          *gorm.DB
	log         *logger.Logger
	routineRepo repos.RoutineRepo
	bus         bus.Bus

	create singleflight.Group

	// mu serializes read-modify-write cycles per routine id so concurrent
	// mutations cannot overwrite each other's step lists.
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewRoutineService(db *gorm.DB, log *logger.Logger, routineRepo repos.RoutineRepo, b bus.Bus) RoutineService {
	return &routineService{
		db:          db,
		log:         log.With("service", "RoutineService"),
		routineRepo: routineRepo,
		bus:         b,
		locks:       make(map[uuid.UUID]*sync.Mutex),
	}
}

func (rs *routineService) lockRoutine(id uuid.UUID) func() {
	rs.mu.Lock()
	lock, ok := rs.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		rs.locks[id] = lock
	}
	rs.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

func (rs *routineService) GetOrCreate(ctx context.Context, userID uuid.UUID, routineType string) (*types.Routine, error) {
	if !types.ValidRoutineType(routineType) {
		return nil, ErrInvalidRoutineType
	}
	key := userID.String() + ":" + routineType
	result, err, _ := rs.create.Do(key, func() (interface{}, error) {
		routine, err := rs.routineRepo.GetLatestByUserAndType(ctx, nil, userID, routineType)
		if err != nil {
			return nil, fmt.Errorf("load routine: %w", err)
		}
		if routine != nil {
			return routine, nil
		}
		routine = &types.Routine{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      routineType,
			Name:      routineNames[routineType],
			IsActive:  true,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := routine.SetStepList(nil); err != nil {
			return nil, err
		}
		created, err := rs.routineRepo.Create(ctx, nil, routine)
		if err != nil {
			return nil, fmt.Errorf("create routine: %w", err)
		}
		rs.log.Info("Created routine", "userID", userID, "type", routineType, "routineID", created.ID)
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.Routine), nil
}

func (rs *routineService) AddStep(ctx context.Context, routineID uuid.UUID, input StepInput) (*types.Routine, error) {
	unlock := rs.lockRoutine(routineID)
	defer unlock()

	routine, steps, err := rs.loadSteps(ctx, routineID)
	if err != nil {
		return nil, err
	}
	steps = append(steps, types.RoutineStep{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Order:       len(steps),
		ProductID:   input.ProductID,
	})
	return rs.persistSteps(ctx, routine, steps)
}

func (rs *routineService) UpdateStep(ctx context.Context, routineID uuid.UUID, stepID string, patch StepPatch) (*types.Routine, error) {
	unlock := rs.lockRoutine(routineID)
	defer unlock()

	routine, steps, err := rs.loadSteps(ctx, routineID)
	if err != nil {
		return nil, err
	}
	index := -1
	for i := range steps {
		if steps[i].ID == stepID {
			index = i
			break
		}
	}
	if index == -1 {
		// Absent step id is a silent no-op, callers check for nil.
		return nil, nil
	}
	if patch.Name != nil {
		steps[index].Name = *patch.Name
	}
	if patch.Description != nil {
		steps[index].Description = *patch.Description
	}
	if patch.ProductID != nil {
		steps[index].ProductID = patch.ProductID
	}
	return rs.persistSteps(ctx, routine, steps)
}

func (rs *routineService) RemoveStep(ctx context.Context, routineID uuid.UUID, stepID string) (*types.Routine, error) {
	unlock := rs.lockRoutine(routineID)
	defer unlock()

	routine, steps, err := rs.loadSteps(ctx, routineID)
	if err != nil {
		return nil, err
	}
	remaining := make([]types.RoutineStep, 0, len(steps))
	for _, s := range steps {
		if s.ID == stepID {
			continue
		}
		s.Order = len(remaining)
		remaining = append(remaining, s)
	}
	return rs.persistSteps(ctx, routine, remaining)
}

func (rs *routineService) ReorderSteps(ctx context.Context, routineID uuid.UUID, orderedIDs []string, strict bool) (*types.Routine, error) {
	unlock := rs.lockRoutine(routineID)
	defer unlock()

	routine, steps, err := rs.loadSteps(ctx, routineID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]types.RoutineStep, len(steps))
	for _, s := range steps {
		byID[s.ID] = s
	}
	reordered := make([]types.RoutineStep, 0, len(orderedIDs))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		step, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		step.Order = len(reordered)
		reordered = append(reordered, step)
	}
	if strict && len(reordered) != len(steps) {
		return nil, ErrIncompleteOrder
	}
	return rs.persistSteps(ctx, routine, reordered)
}

func (rs *routineService) loadSteps(ctx context.Context, routineID uuid.UUID) (*types.Routine, []types.RoutineStep, error) {
	routine, err := rs.routineRepo.GetByID(ctx, nil, routineID)
	if err != nil {
		return nil, nil, fmt.Errorf("load routine: %w", err)
	}
	if routine == nil {
		return nil, nil, ErrNotFound
	}
	steps, err := routine.StepList()
	if err != nil {
		return nil, nil, err
	}
	return routine, steps, nil
}

func (rs *routineService) persistSteps(ctx context.Context, routine *types.Routine, steps []types.RoutineStep) (*types.Routine, error) {
	updated, err := rs.routineRepo.UpdateSteps(ctx, nil, routine.ID, steps)
	if err != nil {
		return nil, fmt.Errorf("persist routine steps: %w", err)
	}
	msg := realtime.SSEMessage{
		Channel: realtime.UserChannel(routine.UserID.String()),
		Event:   realtime.SSEEventRoutineUpdated,
		Data:    map[string]any{"routine_id": routine.ID, "type": routine.Type},
	}
	if err := rs.bus.Publish(ctx, msg); err != nil {
		rs.log.Warn("Failed to publish routine update", "routineID", routine.ID, "error", err)
	}
	return updated, nil
}
