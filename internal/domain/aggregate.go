package domain

// Aggregate summarises completion for a day, a week, or the whole roadmap.
// It is always derived from the store, never persisted.
type Aggregate struct {
	Total int `json:"total"`
	Done  int `json:"done"`
	Pct   int `json:"pct"`
}

// NewAggregate builds an Aggregate with Pct = round(100*done/total),
// rounding halves up, and Pct = 0 when total is 0.
func NewAggregate(done, total int) Aggregate {
	return Aggregate{Total: total, Done: done, Pct: Percent(done, total)}
}

// Percent returns round(100*done/total) in integer arithmetic, or 0 for an
// empty total. Results are clamped to [0,100].
func Percent(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return (200*done + total) / (2 * total)
}

// Ratio returns Pct as a fraction in [0,1] for progress bars.
func (a Aggregate) Ratio() float64 {
	return float64(a.Pct) / 100
}

// Complete reports whether every task is done. Empty aggregates are never complete.
func (a Aggregate) Complete() bool {
	return a.Total > 0 && a.Done == a.Total
}
