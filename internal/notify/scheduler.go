package notify

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUnavailable is returned by every scheduling call on a runtime without a
// notification backend. Callers probe Available() first and treat the feature
// as absent rather than failed.
var ErrUnavailable = errors.New("notification scheduler unavailable")

// Scheduler mirrors the capability set of an OS-level notification scheduler:
// permission must be granted before scheduling, ScheduleDaily replaces any
// prior schedule under the same (user, id) rather than duplicating it, and
// Cancel is a no-op for unknown ids.
type Scheduler interface {
	Available() bool
	RequestPermission(ctx context.Context, userID uuid.UUID) (bool, error)
	ScheduleDaily(ctx context.Context, userID uuid.UUID, id string, hour, minute int, title, body string) error
	Cancel(ctx context.Context, userID uuid.UUID, id string) error
}

type unavailableScheduler struct{}

// NewUnavailableScheduler returns the typed "no scheduler here" variant.
func NewUnavailableScheduler() Scheduler { return unavailableScheduler{} }

func (unavailableScheduler) Available() bool { return false }

func (unavailableScheduler) RequestPermission(ctx context.Context, userID uuid.UUID) (bool, error) {
	return false, nil
}

func (unavailableScheduler) ScheduleDaily(ctx context.Context, userID uuid.UUID, id string, hour, minute int, title, body string) error {
	return ErrUnavailable
}

func (unavailableScheduler) Cancel(ctx context.Context, userID uuid.UUID, id string) error {
	return ErrUnavailable
}
