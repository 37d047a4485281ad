package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/progress"
	"github.com/alexanderramin/roadmap/internal/service"
)

const progressBarWidth = 10

// FormatWeeks renders the flat week list with each day's progress beneath
// its week.
func FormatWeeks(r *domain.Roadmap, ov progress.Overview) string {
	var b strings.Builder
	b.WriteString(Header(domain.CoalesceStr(r.Title, "Roadmap")) + "\n")
	if len(ov.Weeks) == 0 {
		b.WriteString(Dim("No weeks yet.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0)
	for _, w := range ov.Weeks {
		rows = append(rows, []string{
			StylePurple.Render(fmt.Sprintf("Week %d", w.Index+1)),
			completeTitle(w.Title, w.Progress),
			RenderProgress(w.Progress, progressBarWidth),
		})
		if goal := r.Weeks[w.Index].Goal; goal != "" {
			rows = append(rows, []string{"", Dim(goal), ""})
		}
		for _, d := range w.Days {
			rows = append(rows, []string{
				Dim("  " + d.Key),
				"  " + d.Title,
				RenderProgress(d.Progress, progressBarWidth),
			})
		}
	}
	b.WriteString(RenderTable([]string{"WEEK", "TITLE", "PROGRESS"}, rows))
	b.WriteString("\nOverall " + RenderProgress(ov.Overall, 20) + "\n")
	return b.String()
}

// FormatTree renders week → day → task with completion marks. week is a
// zero-based filter; pass -1 for every week.
func FormatTree(r *domain.Roadmap, c progress.Checker, week int) string {
	var items []TreeItem
	for w, wk := range r.Weeks {
		if week >= 0 && w != week {
			continue
		}
		wa := progress.WeekProgress(wk, w, c)
		items = append(items, TreeItem{
			Title:  Bold(fmt.Sprintf("Week %d: %s", w+1, wk.Title)),
			Detail: aggregateBadge(wa),
		})
		for d, dy := range wk.Days {
			items = append(items, TreeItem{
				Title:  dy.Title,
				Level:  1,
				IsLast: d == len(wk.Days)-1,
				Detail: aggregateBadge(progress.DayProgress(dy, w, d, c)),
			})
			for t, task := range dy.Tasks {
				id := domain.TaskID(w, d, t)
				items = append(items, TreeItem{
					Title:  task.Label,
					Level:  2,
					IsLast: t == len(dy.Tasks)-1,
					Task:   true,
					Done:   c.IsDone(id),
					Detail: id,
				})
			}
		}
	}
	if len(items) == 0 {
		return Dim("Nothing to show.") + "\n"
	}
	return RenderTree(items)
}

// completeTitle marks a finished week or day with a check.
func completeTitle(title string, a domain.Aggregate) string {
	if a.Complete() {
		return TaskMark(true) + " " + StyleGreen.Render(title)
	}
	return Bold(title)
}

func aggregateBadge(a domain.Aggregate) string {
	return fmt.Sprintf("%d/%d %3d%%", a.Done, a.Total, a.Pct)
}

// FormatDay renders one day with its tasks and their guidance.
func FormatDay(day *service.DayView, date string) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s · %s", day.Key, day.Day.Title)) + "\n")

	meta := []string{day.WeekTitle}
	if date != "" {
		meta = append(meta, date)
	}
	if day.Day.Focus != "" {
		meta = append(meta, "focus: "+day.Day.Focus)
	}
	b.WriteString(Dim(strings.Join(meta, " · ")) + "\n")
	b.WriteString(RenderProgress(day.Progress, 20) + "\n\n")

	if len(day.Tasks) == 0 {
		b.WriteString(Dim("No tasks.") + "\n")
		return b.String()
	}
	for _, t := range day.Tasks {
		label := t.Task.Label
		if t.Done {
			label = Dim(label)
		}
		fmt.Fprintf(&b, "  %s %s  %s\n", TaskMark(t.Done), StyleBlue.Render(t.ID), label)
		writeGuidance(&b, "Steps", t.Task.Steps, StyleYellow.Render)
		writeGuidance(&b, "Decisions", t.Task.Decisions, StylePurple.Render)
		writeGuidance(&b, "Done when", t.Task.DoneWhen, StyleGreen.Render)
		writeGuidance(&b, "Pitfalls", t.Task.Pitfalls, StyleRed.Render)
	}
	return b.String()
}

func writeGuidance(b *strings.Builder, title string, items []string, style func(...string) string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("      " + style(title) + "\n")
	b.WriteString(Bullets(items, 8))
}

// maxStaleListed caps how many stale identifiers status prints.
const maxStaleListed = 5

// FormatStatus renders the overall and per-week aggregates. stale holds the
// stored identifiers the current roadmap no longer has. A zero savedAt means
// the storage keeps no write time.
func FormatStatus(ov progress.Overview, stale []string, savedAt time.Time) string {
	var b strings.Builder

	rows := make([][]string, 0, len(ov.Weeks))
	for _, w := range ov.Weeks {
		rows = append(rows, []string{
			fmt.Sprintf("Week %d", w.Index+1),
			Bold(Truncate(w.Title, 32)),
			RenderProgress(w.Progress, progressBarWidth),
		})
	}
	b.WriteString(RenderTable([]string{"WEEK", "TITLE", "PROGRESS"}, rows))
	b.WriteString("\n")
	b.WriteString("Overall " + RenderProgress(ov.Overall, 20) + "\n")
	if !savedAt.IsZero() {
		b.WriteString(Dim("Last saved "+savedAt.UTC().Format("2006-01-02 15:04 UTC")) + "\n")
	}

	if len(stale) > 0 {
		b.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("  %d stored task(s) no longer match the roadmap", len(stale))) + "\n")
		listed := stale
		if len(listed) > maxStaleListed {
			listed = append(listed[:maxStaleListed:maxStaleListed], fmt.Sprintf("… and %d more", len(stale)-maxStaleListed))
		}
		b.WriteString(Bullets(listed, 4))
	}
	return RenderBox("Status", b.String())
}

// FormatTaskChange confirms a mutation with the task's new state and its
// day's progress.
func FormatTaskChange(t *service.TaskView, day domain.Aggregate) string {
	verb := "not done"
	if t.Done {
		verb = "done"
	}
	return fmt.Sprintf("%s %s  %s  %s\n%s\n",
		TaskMark(t.Done), StyleBlue.Render(t.ID), t.Task.Label, Dim("marked "+verb),
		"  day "+RenderProgress(day, progressBarWidth))
}

// FormatValidation lists schema and structural problems, or a success line.
func FormatValidation(path string, schemaErrs, structErrs []error) string {
	if len(schemaErrs) == 0 && len(structErrs) == 0 {
		return StyleGreen.Render("✔ ") + path + Dim(" is valid") + "\n"
	}
	var b strings.Builder
	b.WriteString(StyleRed.Render("✖ ") + path + "\n")
	section := func(title string, errs []error) {
		if len(errs) == 0 {
			return
		}
		b.WriteString("\n" + Header(title) + "\n")
		for _, err := range errs {
			b.WriteString("  " + StyleRed.Render("•") + " " + err.Error() + "\n")
		}
	}
	section("Schema", schemaErrs)
	section("Structure", structErrs)
	return b.String()
}
