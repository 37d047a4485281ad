package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/progress"
	"github.com/alexanderramin/roadmap/internal/storage"
	"github.com/alexanderramin/roadmap/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(t *testing.T) UseCaseEvent {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.events)
	return o.events[len(o.events)-1]
}

func setupProgressService(t *testing.T, opts ...testutil.RoadmapOption) (ProgressService, *progress.Store, *recordingObserver) {
	t.Helper()
	store := progress.NewStore(storage.NewSQLiteSlot(testutil.NewTestDB(t)))
	obs := &recordingObserver{}
	return NewProgressService(testutil.NewTestRoadmap(opts...), store, obs), store, obs
}

func TestProgressService_SetTask(t *testing.T) {
	svc, store, obs := setupProgressService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetTask(ctx, "w1-d1-t2", true))
	assert.True(t, store.IsDone("w1-d1-t2"))

	ev := obs.last(t)
	assert.Equal(t, "set-task", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, "w1-d1-t2", ev.Fields["task_id"])
	assert.NotEmpty(t, ev.CorrelationID)

	require.NoError(t, svc.SetTask(ctx, "w1-d1-t2", false))
	assert.Equal(t, 0, store.Len())
}

func TestProgressService_SetTask_Unknown(t *testing.T) {
	svc, store, obs := setupProgressService(t)
	ctx := context.Background()

	for _, id := range []string{"w9-d1-t1", "w1-d1-t9", "bogus", "w01-d1-t1"} {
		err := svc.SetTask(ctx, id, true)
		assert.ErrorIs(t, err, ErrUnknownTask, id)
	}
	assert.Equal(t, 0, store.Len(), "unknown ids are never stored")
	assert.False(t, obs.last(t).Success)
}

func TestProgressService_Toggle(t *testing.T) {
	svc, store, obs := setupProgressService(t)
	ctx := context.Background()

	done, err := svc.Toggle(ctx, "w2-d1-t1")
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, true, obs.last(t).Fields["done"])

	done, err = svc.Toggle(ctx, "w2-d1-t1")
	require.NoError(t, err)
	assert.False(t, done)
	assert.False(t, store.IsDone("w2-d1-t1"))

	_, err = svc.Toggle(ctx, "w3-d1-t1")
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestProgressService_Reset(t *testing.T) {
	svc, store, obs := setupProgressService(t)
	ctx := context.Background()
	require.NoError(t, svc.SetTask(ctx, "w1-d1-t1", true))
	require.NoError(t, svc.SetTask(ctx, "w1-d2-t1", true))

	t.Run("declined is a no-op", func(t *testing.T) {
		reset, err := svc.Reset(ctx, func() bool { return false })
		require.NoError(t, err)
		assert.False(t, reset)
		assert.Equal(t, 2, store.Len())
		assert.Equal(t, true, obs.last(t).Fields["cancelled"])
	})

	t.Run("nil confirm is a no-op", func(t *testing.T) {
		reset, err := svc.Reset(ctx, nil)
		require.NoError(t, err)
		assert.False(t, reset)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("confirmed clears everything", func(t *testing.T) {
		reset, err := svc.Reset(ctx, func() bool { return true })
		require.NoError(t, err)
		assert.True(t, reset)
		assert.Equal(t, 0, store.Len())
		assert.Equal(t, 2, obs.last(t).Fields["cleared"])
		assert.Equal(t, 0, svc.Overview(ctx).Overall.Done)
	})
}

func TestProgressService_Overview(t *testing.T) {
	svc, _, _ := setupProgressService(t)
	ctx := context.Background()
	require.NoError(t, svc.SetTask(ctx, "w1-d1-t1", true))
	require.NoError(t, svc.SetTask(ctx, "w2-d1-t1", true))

	ov := svc.Overview(ctx)
	assert.Equal(t, domain.Aggregate{Total: 6, Done: 2, Pct: 33}, ov.Overall)
	require.Len(t, ov.Weeks, 2)
	assert.Equal(t, domain.Aggregate{Total: 5, Done: 1, Pct: 20}, ov.Weeks[0].Progress)
	assert.Equal(t, domain.Aggregate{Total: 1, Done: 1, Pct: 100}, ov.Weeks[1].Progress)
}

func TestProgressService_Day(t *testing.T) {
	svc, _, _ := setupProgressService(t)
	ctx := context.Background()
	require.NoError(t, svc.SetTask(ctx, "w1-d1-t3", true))

	day, err := svc.Day(ctx, "w1-d1")
	require.NoError(t, err)
	assert.Equal(t, "w1-d1", day.Key)
	require.Len(t, day.Tasks, 3)
	assert.Equal(t, "w1-d1-t3", day.Tasks[2].ID)
	assert.True(t, day.Tasks[2].Done)
	assert.False(t, day.Tasks[0].Done)
	assert.Equal(t, domain.Aggregate{Total: 3, Done: 1, Pct: 33}, day.Progress)
}

func TestProgressService_Day_DefaultsToFirst(t *testing.T) {
	svc, _, _ := setupProgressService(t)
	day, err := svc.Day(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "w1-d1", day.Key)
}

func TestProgressService_Day_Unknown(t *testing.T) {
	svc, _, _ := setupProgressService(t)
	for _, key := range []string{"w5-d1", "w1-d9", "garbage", "w1-d1-t1"} {
		_, err := svc.Day(context.Background(), key)
		assert.ErrorIs(t, err, ErrUnknownDay, key)
	}
}

func TestProgressService_Day_EmptyRoadmap(t *testing.T) {
	store := progress.NewStore(storage.NewMemorySlot())
	svc := NewProgressService(&domain.Roadmap{}, store)
	_, err := svc.Day(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnknownDay)
	assert.Equal(t, 0, svc.Overview(context.Background()).Overall.Pct)
}

func TestProgressService_Task(t *testing.T) {
	svc, _, _ := setupProgressService(t)
	ctx := context.Background()

	tv, err := svc.Task(ctx, "w1-d2-t2")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskRef{Week: 0, Day: 1, Task: 1}, tv.Ref)
	assert.False(t, tv.Done)

	_, err = svc.Task(ctx, "w1-d2-t3")
	assert.ErrorIs(t, err, ErrUnknownTask)
}

func TestProgressService_SubscribersSeeSameAggregate(t *testing.T) {
	svc, _, _ := setupProgressService(t)
	ctx := context.Background()

	var treePct, listPct []int
	unsubTree := svc.Subscribe(func(progress.Change) {
		treePct = append(treePct, svc.Overview(ctx).Weeks[0].Progress.Pct)
	})
	defer unsubTree()
	unsubList := svc.Subscribe(func(progress.Change) {
		listPct = append(listPct, svc.Overview(ctx).Weeks[0].Progress.Pct)
	})
	defer unsubList()

	_, err := svc.Toggle(ctx, "w1-d1-t1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "w1-d2-t1")
	require.NoError(t, err)

	assert.Equal(t, []int{20, 40}, treePct)
	assert.Equal(t, treePct, listPct)
}

func TestProgressService_StaleKeysIgnored(t *testing.T) {
	ctx := context.Background()
	slot := storage.NewMemorySlot()
	require.NoError(t, slot.Set(ctx, progress.DefaultKey, `{"w9-d9-t9":true,"w1-d1-t1":true}`))
	store := progress.Open(ctx, slot)
	svc := NewProgressService(testutil.NewTestRoadmap(), store)

	assert.Equal(t, domain.Aggregate{Total: 6, Done: 1, Pct: 17}, svc.Overview(ctx).Overall)
	assert.True(t, svc.State(ctx)["w9-d9-t9"])
	assert.Equal(t, []string{"w9-d9-t9"}, svc.Stale(ctx))
}

func TestProgressService_SavedAt(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupProgressService(t)

	_, ok := svc.SavedAt(ctx)
	assert.False(t, ok)

	require.NoError(t, svc.SetTask(ctx, "w1-d1-t1", true))
	ts, ok := svc.SavedAt(ctx)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
	assert.Empty(t, svc.Stale(ctx))
}
