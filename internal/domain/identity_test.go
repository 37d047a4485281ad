package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskID_Format(t *testing.T) {
	assert.Equal(t, "w1-d1-t1", TaskID(0, 0, 0))
	assert.Equal(t, "w3-d2-t10", TaskID(2, 1, 9))
}

func TestTaskID_UniqueAndStable(t *testing.T) {
	seen := make(map[string][3]int)
	for w := 0; w < 12; w++ {
		for d := 0; d < 12; d++ {
			for k := 0; k < 12; k++ {
				id := TaskID(w, d, k)
				assert.Equal(t, id, TaskID(w, d, k), "repeated calls must agree")
				prev, dup := seen[id]
				require.False(t, dup, "collision between %v and %v", prev, [3]int{w, d, k})
				seen[id] = [3]int{w, d, k}
			}
		}
	}
}

func TestParseTaskID_RoundTrip(t *testing.T) {
	ref, ok := ParseTaskID(TaskID(4, 0, 11))
	require.True(t, ok)
	assert.Equal(t, TaskRef{Week: 4, Day: 0, Task: 11}, ref)
	assert.Equal(t, "w5-d1-t12", ref.ID())
}

func TestParseTaskID_Rejects(t *testing.T) {
	for _, id := range []string{"", "w1-d1", "w0-d1-t1", "w01-d1-t1", "x1-d1-t1", "w1-d1-t", "w1-d1-t1-x", "w-1-d1-t1"} {
		_, ok := ParseTaskID(id)
		assert.False(t, ok, "should reject %q", id)
	}
}

func TestParseDayKey(t *testing.T) {
	w, d, ok := ParseDayKey(DayKey(2, 5))
	require.True(t, ok)
	assert.Equal(t, 2, w)
	assert.Equal(t, 5, d)

	for _, key := range []string{"", "w1", "w1-d0", "d1-w1", "w1-d1-t1", "wx-d1"} {
		_, _, ok := ParseDayKey(key)
		assert.False(t, ok, "should reject %q", key)
	}
}

func TestWeekAnchor(t *testing.T) {
	assert.Equal(t, "week-1", WeekAnchor(0))
}
