package testutil

import (
	"fmt"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// RoadmapOption customises a fixture roadmap.
type RoadmapOption func(*domain.Roadmap)

func WithTitle(title string) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Title = title
	}
}

func WithKeywords(kw ...string) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Keywords = kw
	}
}

func WithWeek(w domain.Week) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Weeks = append(r.Weeks, w)
	}
}

func WithSkills(skills ...domain.Skill) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.SkillTree = skills
	}
}

func WithInterviews(cats ...domain.Category) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Interviews = cats
	}
}

func WithChecklists(cats ...domain.Category) RoadmapOption {
	return func(r *domain.Roadmap) {
		r.Checklists = cats
	}
}

// NewTestRoadmap builds a roadmap. Without options it has two weeks:
// week 1 with days of 3 and 2 tasks, week 2 with one day of 1 task.
func NewTestRoadmap(opts ...RoadmapOption) *domain.Roadmap {
	r := &domain.Roadmap{Title: "Test Roadmap"}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.Weeks) == 0 {
		r.Weeks = []domain.Week{
			NewTestWeek("Foundations", 3, 2),
			NewTestWeek("Services", 1),
		}
	}
	return r
}

// NewTestWeek builds a week with one day per entry in taskCounts.
func NewTestWeek(title string, taskCounts ...int) domain.Week {
	w := domain.Week{
		Title:    title,
		Goal:     title + " goal",
		Outcomes: []string{title + " outcome"},
		Quests:   []string{title + " quest"},
	}
	for i, n := range taskCounts {
		w.Days = append(w.Days, NewTestDay(fmt.Sprintf("%s day %d", title, i+1), n))
	}
	return w
}

// NewTestDay builds a day with n plain tasks.
func NewTestDay(title string, n int) domain.Day {
	d := domain.Day{Title: title, Focus: "focus"}
	for i := 0; i < n; i++ {
		d.Tasks = append(d.Tasks, domain.Task{Label: fmt.Sprintf("%s task %d", title, i+1)})
	}
	return d
}

// SampleRoadmapJSON is a small content document used by loader and CLI tests.
const SampleRoadmapJSON = `{
  "title": "Go Backend Roadmap",
  "keywords": ["go", "http", "sql"],
  "weeks": [
    {
      "title": "Foundations",
      "goal": "Get fluent with the toolchain",
      "outcomes": ["A tested CLI"],
      "quests": ["Finish the tour"],
      "days": [
        {"title": "Setup", "focus": "tooling", "tasks": [
          "Install Go",
          {"label": "Write hello world", "steps": ["run **go mod init**"], "doneWhen": ["it prints"], "pitfalls": ["forgetting go.mod"]},
          "Read Effective Go"
        ]},
        {"title": "Types", "tasks": ["Structs", "Interfaces"]}
      ]
    },
    {
      "title": "Services",
      "goal": "Serve HTTP",
      "outcomes": ["A JSON API"],
      "quests": ["Ship it"],
      "days": [
        {"title": "net/http", "tasks": ["Handlers"]}
      ]
    }
  ],
  "skillTree": [{"name": "Concurrency", "why": "goroutines everywhere"}],
  "interviews": {"Systems": ["Explain a mutex"], "Behavioral": ["A conflict"]},
  "checklists": {"Before shipping": ["Tests pass"]}
}`
