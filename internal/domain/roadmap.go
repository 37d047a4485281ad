package domain

// Roadmap is the static content tree. It is loaded once and never mutated;
// all dynamic state lives in the progress store.
type Roadmap struct {
	Title      string
	Keywords   []string
	Weeks      []Week
	SkillTree  []Skill
	Interviews Categories
	Checklists Categories
}

type Week struct {
	Title    string
	Goal     string
	Outcomes []string
	Quests   []string
	Days     []Day
}

type Day struct {
	Title string
	Focus string
	Tasks []Task
}

// Task is either a plain label or a label with guidance lists.
type Task struct {
	Label     string
	Steps     []string // what to do
	Decisions []string // decision notes
	DoneWhen  []string // completion criteria
	Pitfalls  []string // things to avoid
}

// HasGuidance reports whether the task carries any structured guidance.
func (t Task) HasGuidance() bool {
	return len(t.Steps) > 0 || len(t.Decisions) > 0 || len(t.DoneWhen) > 0 || len(t.Pitfalls) > 0
}

type Skill struct {
	Name string
	Why  string
}

// Category is a named list kept in document order.
type Category struct {
	Name  string
	Items []string
}

type Categories []Category

// TaskCount returns the number of tasks across all weeks and days.
func (r *Roadmap) TaskCount() int {
	n := 0
	for _, w := range r.Weeks {
		for _, d := range w.Days {
			n += len(d.Tasks)
		}
	}
	return n
}

// Day returns the day at the given zero-based position.
func (r *Roadmap) Day(week, day int) (*Day, bool) {
	if week < 0 || week >= len(r.Weeks) {
		return nil, false
	}
	days := r.Weeks[week].Days
	if day < 0 || day >= len(days) {
		return nil, false
	}
	return &days[day], true
}

// TaskByID resolves a task identifier against the current tree.
func (r *Roadmap) TaskByID(id string) (*Task, TaskRef, bool) {
	ref, ok := ParseTaskID(id)
	if !ok {
		return nil, TaskRef{}, false
	}
	d, ok := r.Day(ref.Week, ref.Day)
	if !ok || ref.Task >= len(d.Tasks) {
		return nil, TaskRef{}, false
	}
	return &d.Tasks[ref.Task], ref, true
}

// FirstDay returns the position of the first day in the tree, skipping weeks
// without days. ok is false when the roadmap has no days at all.
func (r *Roadmap) FirstDay() (week, day int, ok bool) {
	for w, wk := range r.Weeks {
		if len(wk.Days) > 0 {
			return w, 0, true
		}
	}
	return 0, 0, false
}

// TaskIDs lists every task identifier in tree order.
func (r *Roadmap) TaskIDs() []string {
	ids := make([]string, 0, r.TaskCount())
	for w, wk := range r.Weeks {
		for d, dy := range wk.Days {
			for t := range dy.Tasks {
				ids = append(ids, TaskID(w, d, t))
			}
		}
	}
	return ids
}
