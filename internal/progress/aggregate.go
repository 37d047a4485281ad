package progress

import "github.com/alexanderramin/roadmap/internal/domain"

// DayProgress counts the done tasks of the day at position (week, day).
// Stale identifiers in the checker never match a task and are ignored.
func DayProgress(d domain.Day, week, day int, c Checker) domain.Aggregate {
	done := 0
	for t := range d.Tasks {
		if c.IsDone(domain.TaskID(week, day, t)) {
			done++
		}
	}
	return domain.NewAggregate(done, len(d.Tasks))
}

// WeekProgress counts over every task of every day in the week directly,
// without combining day aggregates. The result always equals the sum of
// its days' totals and done counts.
func WeekProgress(w domain.Week, week int, c Checker) domain.Aggregate {
	total, done := 0, 0
	for d, dy := range w.Days {
		for t := range dy.Tasks {
			total++
			if c.IsDone(domain.TaskID(week, d, t)) {
				done++
			}
		}
	}
	return domain.NewAggregate(done, total)
}

// RoadmapProgress counts over every task in the roadmap.
func RoadmapProgress(r *domain.Roadmap, c Checker) domain.Aggregate {
	total, done := 0, 0
	for w, wk := range r.Weeks {
		for d, dy := range wk.Days {
			for t := range dy.Tasks {
				total++
				if c.IsDone(domain.TaskID(w, d, t)) {
					done++
				}
			}
		}
	}
	return domain.NewAggregate(done, total)
}

// Overview is every aggregate of a roadmap at one instant.
type Overview struct {
	Overall domain.Aggregate `json:"overall"`
	Weeks   []WeekSummary    `json:"weeks"`
}

type WeekSummary struct {
	Index    int              `json:"index"`
	Anchor   string           `json:"anchor"`
	Title    string           `json:"title"`
	Progress domain.Aggregate `json:"progress"`
	Days     []DaySummary     `json:"days"`
}

type DaySummary struct {
	Week     int              `json:"week"`
	Index    int              `json:"index"`
	Key      string           `json:"key"`
	Title    string           `json:"title"`
	Progress domain.Aggregate `json:"progress"`
}

// Summarize derives an Overview. Nothing is cached: call it again after
// every change.
func Summarize(r *domain.Roadmap, c Checker) Overview {
	ov := Overview{
		Overall: RoadmapProgress(r, c),
		Weeks:   make([]WeekSummary, 0, len(r.Weeks)),
	}
	for w, wk := range r.Weeks {
		ws := WeekSummary{
			Index:    w,
			Anchor:   domain.WeekAnchor(w),
			Title:    wk.Title,
			Progress: WeekProgress(wk, w, c),
			Days:     make([]DaySummary, 0, len(wk.Days)),
		}
		for d, dy := range wk.Days {
			ws.Days = append(ws.Days, DaySummary{
				Week:     w,
				Index:    d,
				Key:      domain.DayKey(w, d),
				Title:    dy.Title,
				Progress: DayProgress(dy, w, d, c),
			})
		}
		ov.Weeks = append(ov.Weeks, ws)
	}
	return ov
}
