package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/progress"
	"github.com/alexanderramin/roadmap/internal/service"
)

type rowKind int

const (
	rowWeek rowKind = iota
	rowDay
	rowTask
)

// treeRow is one visible line of the tree pane.
type treeRow struct {
	kind  rowKind
	week  int
	day   int
	task  int
	key   string // week anchor, day key or task id
	title string
}

// treePane shows week → day → task with collapsible weeks and days.
type treePane struct {
	svc       service.ProgressService
	collapsed map[string]bool
	rows      []treeRow
	cursor    int

	state   progress.State
	renders int
}

func newTreePane(svc service.ProgressService) *treePane {
	p := &treePane{svc: svc, collapsed: make(map[string]bool)}
	for w := range svc.Roadmap().Weeks {
		if w > 0 {
			p.collapsed[domain.WeekAnchor(w)] = true
		}
	}
	return p
}

// refresh re-derives the pane from the store. It runs on every change.
func (p *treePane) refresh(ctx context.Context) {
	p.state = p.svc.State(ctx)
	p.rebuild()
	p.renders++
}

func (p *treePane) rebuild() {
	r := p.svc.Roadmap()
	p.rows = p.rows[:0]
	for w, wk := range r.Weeks {
		anchor := domain.WeekAnchor(w)
		p.rows = append(p.rows, treeRow{kind: rowWeek, week: w, key: anchor, title: wk.Title})
		if p.collapsed[anchor] {
			continue
		}
		for d, dy := range wk.Days {
			dk := domain.DayKey(w, d)
			p.rows = append(p.rows, treeRow{kind: rowDay, week: w, day: d, key: dk, title: dy.Title})
			if p.collapsed[dk] {
				continue
			}
			for t, task := range dy.Tasks {
				p.rows = append(p.rows, treeRow{
					kind: rowTask, week: w, day: d, task: t,
					key: domain.TaskID(w, d, t), title: task.Label,
				})
			}
		}
	}
	p.cursor = clamp(p.cursor, 0, len(p.rows)-1)
}

func (p *treePane) current() (treeRow, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return treeRow{}, false
	}
	return p.rows[p.cursor], true
}

func (p *treePane) move(delta int) {
	p.cursor = clamp(p.cursor+delta, 0, len(p.rows)-1)
}

// toggleCollapse flips the row under the cursor if it is a week or day.
func (p *treePane) toggleCollapse() {
	row, ok := p.current()
	if !ok || row.kind == rowTask {
		return
	}
	p.collapsed[row.key] = !p.collapsed[row.key]
	p.rebuild()
}

func (p *treePane) expandAll() {
	p.collapsed = make(map[string]bool)
	p.rebuild()
}

func (p *treePane) collapseAll() {
	row, _ := p.current()
	for w := range p.svc.Roadmap().Weeks {
		p.collapsed[domain.WeekAnchor(w)] = true
	}
	p.rebuild()
	p.cursor = clamp(row.week, 0, len(p.rows)-1)
}

// focusWeek expands a week and moves the cursor onto it.
func (p *treePane) focusWeek(week int) {
	delete(p.collapsed, domain.WeekAnchor(week))
	p.rebuild()
	for i, row := range p.rows {
		if row.kind == rowWeek && row.week == week {
			p.cursor = i
			return
		}
	}
}

// selectedDay is the day under the cursor, or a week's first day.
func (p *treePane) selectedDay() (string, bool) {
	row, ok := p.current()
	if !ok {
		return "", false
	}
	if row.kind == rowWeek {
		if len(p.svc.Roadmap().Weeks[row.week].Days) == 0 {
			return "", false
		}
		return domain.DayKey(row.week, 0), true
	}
	return domain.DayKey(row.week, row.day), true
}

func (p *treePane) view(height int, focused bool) string {
	r := p.svc.Roadmap()
	if len(p.rows) == 0 {
		return formatter.Dim("No weeks yet.")
	}
	start, end := visibleWindow(len(p.rows), p.cursor, height)

	var b strings.Builder
	for i := start; i < end; i++ {
		row := p.rows[i]
		var line string
		switch row.kind {
		case rowWeek:
			agg := progress.WeekProgress(r.Weeks[row.week], row.week, p.state)
			line = fmt.Sprintf("%s %s  %s", foldMark(p.collapsed[row.key]),
				formatter.Bold(fmt.Sprintf("Week %d · %s", row.week+1, row.title)), pctBadge(agg))
		case rowDay:
			dy := r.Weeks[row.week].Days[row.day]
			agg := progress.DayProgress(dy, row.week, row.day, p.state)
			line = fmt.Sprintf("  %s %s  %s", foldMark(p.collapsed[row.key]), row.title, pctBadge(agg))
		case rowTask:
			done := p.state.IsDone(row.key)
			label := row.title
			if done {
				label = formatter.Dim(label)
			}
			line = fmt.Sprintf("      %s %s", formatter.TaskMark(done), label)
		}
		b.WriteString(cursorMark(i == p.cursor, focused) + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// weekListPane is the flat list of weeks with their progress bars.
type weekListPane struct {
	svc    service.ProgressService
	cursor int

	overview progress.Overview
	renders  int
}

func newWeekListPane(svc service.ProgressService) *weekListPane {
	return &weekListPane{svc: svc}
}

func (p *weekListPane) refresh(ctx context.Context) {
	p.overview = p.svc.Overview(ctx)
	p.cursor = clamp(p.cursor, 0, len(p.overview.Weeks)-1)
	p.renders++
}

func (p *weekListPane) move(delta int) {
	p.cursor = clamp(p.cursor+delta, 0, len(p.overview.Weeks)-1)
}

func (p *weekListPane) view(height int, focused bool) string {
	if len(p.overview.Weeks) == 0 {
		return formatter.Dim("No weeks yet.")
	}
	start, end := visibleWindow(len(p.overview.Weeks), p.cursor, height-2)

	var b strings.Builder
	for i := start; i < end; i++ {
		w := p.overview.Weeks[i]
		fmt.Fprintf(&b, "%sWeek %-2d %s %s\n", cursorMark(i == p.cursor, focused), w.Index+1,
			formatter.RenderCompactBar(w.Progress.Pct, 10, !focused), pctBadge(w.Progress))
	}
	b.WriteString("\n" + formatter.Bold("Overall") + " " + formatter.RenderProgress(p.overview.Overall, 10))
	return b.String()
}

// dayPane shows the selected day's tasks.
type dayPane struct {
	svc    service.ProgressService
	key    string
	cursor int

	day     *service.DayView
	err     error
	renders int
}

func newDayPane(svc service.ProgressService) *dayPane {
	return &dayPane{svc: svc}
}

func (p *dayPane) show(ctx context.Context, key string) {
	if key != p.key {
		p.key = key
		p.cursor = 0
	}
	p.load(ctx)
}

func (p *dayPane) refresh(ctx context.Context) {
	p.load(ctx)
	p.renders++
}

func (p *dayPane) load(ctx context.Context) {
	p.day, p.err = p.svc.Day(ctx, p.key)
	if p.day != nil {
		p.cursor = clamp(p.cursor, 0, len(p.day.Tasks)-1)
	}
}

func (p *dayPane) move(delta int) {
	if p.day == nil {
		return
	}
	p.cursor = clamp(p.cursor+delta, 0, len(p.day.Tasks)-1)
}

func (p *dayPane) currentTask() (string, bool) {
	if p.day == nil || p.cursor < 0 || p.cursor >= len(p.day.Tasks) {
		return "", false
	}
	return p.day.Tasks[p.cursor].ID, true
}

func (p *dayPane) view(focused bool) string {
	if p.err != nil || p.day == nil {
		return formatter.Dim("No day selected.")
	}
	d := p.day
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", formatter.Bold(d.Key+" · "+d.Day.Title), formatter.RenderProgress(d.Progress, 10))
	if d.Day.Focus != "" {
		b.WriteString(formatter.Dim("focus: "+d.Day.Focus) + "\n")
	}
	if len(d.Tasks) == 0 {
		b.WriteString(formatter.Dim("No tasks."))
		return b.String()
	}
	for i, t := range d.Tasks {
		label := t.Task.Label
		if t.Done {
			label = formatter.Dim(label)
		}
		fmt.Fprintf(&b, "%s%s %s  %s\n", cursorMark(i == p.cursor, focused), formatter.TaskMark(t.Done),
			formatter.StyleBlue.Render(t.ID), label)
		if focused && i == p.cursor {
			for _, step := range t.Task.Steps {
				b.WriteString("      " + formatter.Dim("• "+step) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func foldMark(collapsed bool) string {
	if collapsed {
		return formatter.Dim("▸")
	}
	return formatter.Dim("▾")
}

func cursorMark(selected, focused bool) string {
	switch {
	case selected && focused:
		return formatter.StyleHeader.Render("› ")
	case selected:
		return formatter.Dim("› ")
	}
	return "  "
}

func pctBadge(a domain.Aggregate) string {
	badge := formatter.PctStyle(a.Pct).Render(fmt.Sprintf("%3d%%", a.Pct))
	if a.Complete() {
		badge += " " + formatter.TaskMark(true)
	}
	return badge
}

// visibleWindow returns the [start, end) slice of n rows that keeps cursor
// on screen. A non-positive height shows everything.
func visibleWindow(n, cursor, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := cursor - height/2
	start = clamp(start, 0, n-height)
	return start, start + height
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
