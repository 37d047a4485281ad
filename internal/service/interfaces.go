package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/progress"
)

var (
	// ErrUnknownTask is returned for an identifier not derivable from the
	// current content tree.
	ErrUnknownTask = errors.New("unknown task")
	// ErrUnknownDay is returned for a malformed or out-of-range day key.
	ErrUnknownDay = errors.New("unknown day")
)

type ProgressService interface {
	Roadmap() *domain.Roadmap
	Overview(ctx context.Context) progress.Overview
	State(ctx context.Context) progress.State
	// Stale lists stored identifiers the current content no longer has.
	Stale(ctx context.Context) []string
	SavedAt(ctx context.Context) (time.Time, bool)
	Day(ctx context.Context, key string) (*DayView, error)
	Task(ctx context.Context, id string) (*TaskView, error)
	SetTask(ctx context.Context, id string, done bool) error
	Toggle(ctx context.Context, id string) (bool, error)
	// Reset clears all progress only when confirm returns true. A nil or
	// declining confirm is a cancelled no-op, not an error.
	Reset(ctx context.Context, confirm func() bool) (bool, error)
	Subscribe(fn progress.Listener) (unsubscribe func())
}

// TaskView is a task with its identifier and current completion.
type TaskView struct {
	ID   string
	Ref  domain.TaskRef
	Task domain.Task
	Done bool
}

// DayView is one day of the roadmap resolved against the store.
type DayView struct {
	Week      int
	Index     int
	Key       string
	WeekTitle string
	Day       domain.Day
	Progress  domain.Aggregate
	Tasks     []TaskView
}
