package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/progress"
)

type progressService struct {
	roadmap  *domain.Roadmap
	store    *progress.Store
	observer UseCaseObserver
}

func NewProgressService(
	roadmap *domain.Roadmap,
	store *progress.Store,
	observers ...UseCaseObserver,
) ProgressService {
	return &progressService{
		roadmap:  roadmap,
		store:    store,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *progressService) Roadmap() *domain.Roadmap { return s.roadmap }

func (s *progressService) Overview(ctx context.Context) progress.Overview {
	return progress.Summarize(s.roadmap, s.store.Snapshot())
}

func (s *progressService) State(ctx context.Context) progress.State {
	return s.store.Snapshot()
}

func (s *progressService) Stale(ctx context.Context) []string {
	var stale []string
	for _, id := range s.store.DoneIDs() {
		if _, _, ok := s.roadmap.TaskByID(id); !ok {
			stale = append(stale, id)
		}
	}
	return stale
}

func (s *progressService) SavedAt(ctx context.Context) (time.Time, bool) {
	return s.store.SavedAt(ctx)
}

// Day resolves a wN-dM key. An empty key selects the first day.
func (s *progressService) Day(ctx context.Context, key string) (*DayView, error) {
	var (
		w, d int
		ok   bool
	)
	if key == "" {
		w, d, ok = s.roadmap.FirstDay()
	} else {
		w, d, ok = domain.ParseDayKey(key)
	}
	if !ok {
		return nil, fmt.Errorf("day %q: %w", key, ErrUnknownDay)
	}
	day, ok := s.roadmap.Day(w, d)
	if !ok {
		return nil, fmt.Errorf("day %q: %w", key, ErrUnknownDay)
	}

	state := s.store.Snapshot()
	view := &DayView{
		Week:      w,
		Index:     d,
		Key:       domain.DayKey(w, d),
		WeekTitle: s.roadmap.Weeks[w].Title,
		Day:       *day,
		Progress:  progress.DayProgress(*day, w, d, state),
		Tasks:     make([]TaskView, 0, len(day.Tasks)),
	}
	for t, task := range day.Tasks {
		ref := domain.TaskRef{Week: w, Day: d, Task: t}
		view.Tasks = append(view.Tasks, TaskView{
			ID:   ref.ID(),
			Ref:  ref,
			Task: task,
			Done: state.IsDone(ref.ID()),
		})
	}
	return view, nil
}

func (s *progressService) Task(ctx context.Context, id string) (*TaskView, error) {
	task, ref, ok := s.roadmap.TaskByID(id)
	if !ok {
		return nil, fmt.Errorf("task %q: %w", id, ErrUnknownTask)
	}
	return &TaskView{ID: ref.ID(), Ref: ref, Task: *task, Done: s.store.IsDone(ref.ID())}, nil
}

func (s *progressService) SetTask(ctx context.Context, id string, done bool) (err error) {
	defer s.observe(ctx, "set-task", time.Now().UTC(), map[string]any{"task_id": id, "done": done}, &err)

	if _, _, ok := s.roadmap.TaskByID(id); !ok {
		return fmt.Errorf("task %q: %w", id, ErrUnknownTask)
	}
	s.store.SetTask(ctx, id, done)
	return nil
}

func (s *progressService) Toggle(ctx context.Context, id string) (done bool, err error) {
	fields := map[string]any{"task_id": id}
	defer s.observe(ctx, "toggle-task", time.Now().UTC(), fields, &err)

	if _, _, ok := s.roadmap.TaskByID(id); !ok {
		return false, fmt.Errorf("task %q: %w", id, ErrUnknownTask)
	}
	done = s.store.Toggle(ctx, id)
	fields["done"] = done
	return done, nil
}

func (s *progressService) Reset(ctx context.Context, confirm func() bool) (reset bool, err error) {
	fields := map[string]any{}
	defer s.observe(ctx, "reset-progress", time.Now().UTC(), fields, &err)

	if confirm == nil || !confirm() {
		fields["cancelled"] = true
		return false, nil
	}
	fields["cleared"] = s.store.Len()
	s.store.Reset(ctx)
	return true, nil
}

func (s *progressService) Subscribe(fn progress.Listener) func() {
	return s.store.Subscribe(fn)
}

func (s *progressService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:          name,
		CorrelationID: CorrelationID(ctx),
		StartedAt:     startedAt,
		Duration:      time.Since(startedAt),
		Success:       err == nil,
		Err:           err,
		Fields:        fields,
	})
}
