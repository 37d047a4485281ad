package content

import (
	"fmt"

	"github.com/alexanderramin/roadmap/internal/domain"
)

// Validate performs structural checks on a decoded roadmap that the schema
// cannot express. Returns a slice of all problems found; none are fatal to
// rendering.
func Validate(r *domain.Roadmap) []error {
	var errs []error

	if r.Title == "" {
		errs = append(errs, fmt.Errorf("title is required"))
	}
	if len(r.Weeks) == 0 {
		errs = append(errs, fmt.Errorf("weeks: roadmap has no weeks"))
	}
	for w, week := range r.Weeks {
		errs = append(errs, validateWeek(w, week)...)
	}
	for i, s := range r.SkillTree {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("skillTree[%d].name is required", i))
		}
	}
	errs = append(errs, validateCategories("interviews", r.Interviews)...)
	errs = append(errs, validateCategories("checklists", r.Checklists)...)

	return errs
}

func validateWeek(w int, week domain.Week) []error {
	var errs []error
	prefix := fmt.Sprintf("weeks[%d]", w)

	if week.Title == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	if len(week.Days) == 0 {
		errs = append(errs, fmt.Errorf("%s.days: week has no days", prefix))
	}
	for d, day := range week.Days {
		dp := fmt.Sprintf("%s.days[%d]", prefix, d)
		if day.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", dp))
		}
		if len(day.Tasks) == 0 {
			errs = append(errs, fmt.Errorf("%s.tasks: day %s has no tasks", dp, domain.DayKey(w, d)))
		}
		for t, task := range day.Tasks {
			if task.Label == "" {
				errs = append(errs, fmt.Errorf("%s.tasks[%d]: task %s has no label", dp, t, domain.TaskID(w, d, t)))
			}
		}
	}
	return errs
}

func validateCategories(field string, cats domain.Categories) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, c := range cats {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: category name is empty", field, i))
		} else if seen[c.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate category %q", field, c.Name))
		}
		seen[c.Name] = true
	}
	return errs
}
