package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskRef is the zero-based position of a task in the content tree.
type TaskRef struct {
	Week int
	Day  int
	Task int
}

func (r TaskRef) ID() string { return TaskID(r.Week, r.Day, r.Task) }

// TaskID derives the positional identifier "w{week+1}-d{day+1}-t{task+1}".
// Identifiers are stable across sessions but shift if the tree is reordered.
func TaskID(week, day, task int) string {
	return fmt.Sprintf("w%d-d%d-t%d", week+1, day+1, task+1)
}

// DayKey derives the day anchor "w{week+1}-d{day+1}".
func DayKey(week, day int) string {
	return fmt.Sprintf("w%d-d%d", week+1, day+1)
}

// WeekAnchor derives the week anchor "week-{week+1}".
func WeekAnchor(week int) string {
	return fmt.Sprintf("week-%d", week+1)
}

// ParseTaskID is the inverse of TaskID. Only canonical identifiers parse.
func ParseTaskID(id string) (TaskRef, bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		return TaskRef{}, false
	}
	w, ok1 := parsePart(parts[0], 'w')
	d, ok2 := parsePart(parts[1], 'd')
	t, ok3 := parsePart(parts[2], 't')
	if !ok1 || !ok2 || !ok3 {
		return TaskRef{}, false
	}
	ref := TaskRef{Week: w, Day: d, Task: t}
	if ref.ID() != id {
		return TaskRef{}, false
	}
	return ref, true
}

// ParseDayKey is the inverse of DayKey. Range checking is left to the caller.
func ParseDayKey(key string) (week, day int, ok bool) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, ok1 := parsePart(parts[0], 'w')
	d, ok2 := parsePart(parts[1], 'd')
	if !ok1 || !ok2 || DayKey(w, d) != key {
		return 0, 0, false
	}
	return w, d, true
}

// parsePart reads "<prefix><n>" with n >= 1 and returns n-1.
func parsePart(s string, prefix byte) (int, bool) {
	if len(s) < 2 || s[0] != prefix {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}
