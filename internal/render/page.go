package render

import (
	"fmt"
	"time"

	"github.com/alexanderramin/roadmap/internal/domain"
	"github.com/alexanderramin/roadmap/internal/progress"
)

// Page selects which view to render. It is written to the body's data-page
// attribute.
type Page string

const (
	PageWeeks     Page = "weeks"
	PageTree      Page = "tree"
	PageCalendar  Page = "calendar"
	PageReference Page = "reference"
)

// Pages lists every page in navigation order.
var Pages = []Page{PageWeeks, PageTree, PageCalendar, PageReference}

func ParsePage(s string) (Page, bool) {
	for _, p := range Pages {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

func (p Page) TemplateName() string { return string(p) + ".html" }

func (p Page) label() string {
	switch p {
	case PageWeeks:
		return "Weeks"
	case PageTree:
		return "Tree"
	case PageCalendar:
		return "Calendar"
	case PageReference:
		return "Reference"
	}
	return string(p)
}

// Expand controls the open state of every collapsible section.
type Expand string

const (
	ExpandDefault Expand = ""
	ExpandAll     Expand = "all"
	ExpandNone    Expand = "none"
)

// ParseExpand maps a query value to an Expand; anything unknown is the default.
func ParseExpand(s string) Expand {
	switch Expand(s) {
	case ExpandAll, ExpandNone:
		return Expand(s)
	}
	return ExpandDefault
}

func (e Expand) open(byDefault bool) bool {
	switch e {
	case ExpandAll:
		return true
	case ExpandNone:
		return false
	}
	return byDefault
}

type Options struct {
	Expand Expand
	// Day is the calendar selection as a wN-dM key. Invalid or missing keys
	// select the first day.
	Day string
	// StartDate anchors week 1 day 1 on the calendar. Zero shows no dates.
	StartDate time.Time
	// Static produces file links and read-only checkboxes instead of
	// server routes and toggle forms.
	Static bool
}

type PageData struct {
	Page      Page
	PageTitle string
	Title     string
	Keywords  []string
	Overall   domain.Aggregate
	Nav       []NavLink
	Expand    *ExpandLinks

	Weeks    []WeekData
	Selected *DayData

	SkillTree  []domain.Skill
	Interviews domain.Categories
	Checklists domain.Categories
}

type NavLink struct {
	Label  string
	Href   string
	Active bool
}

type ExpandLinks struct {
	All  string
	None string
}

type WeekData struct {
	Number   int
	Anchor   string
	Title    string
	Goal     string
	Outcomes []string
	Quests   []string
	Progress domain.Aggregate
	Open     bool
	Days     []DayData
}

type DayData struct {
	Number    int
	Key       string
	Title     string
	WeekTitle string
	Focus     string
	Date      string
	Href      string
	Progress  domain.Aggregate
	Open      bool
	Selected  bool
	Tasks     []TaskData
}

type TaskData struct {
	ID           string
	Label        string
	Done         bool
	Steps        []string
	Decisions    []string
	DoneWhen     []string
	Pitfalls     []string
	ToggleAction string
}

// Build derives everything a page shows from the tree and the current
// completion state. It is pure; call it again after every change.
func Build(r *domain.Roadmap, c progress.Checker, page Page, opts Options) PageData {
	data := PageData{
		Page:      page,
		PageTitle: page.label(),
		Title:     r.Title,
		Keywords:  r.Keywords,
		Overall:   progress.RoadmapProgress(r, c),
		Nav:       navLinks(page, opts.Static),
	}
	if !opts.Static && (page == PageWeeks || page == PageTree) {
		base := pageHref(page, false)
		data.Expand = &ExpandLinks{All: base + "?expand=all", None: base + "?expand=none"}
	}

	switch page {
	case PageWeeks, PageTree, PageCalendar:
		sw, sd := selectDay(r, opts.Day)
		data.Weeks = buildWeeks(r, c, opts, sw, sd)
		if page == PageCalendar && sw >= 0 {
			sel := data.Weeks[sw].Days[sd]
			data.Selected = &sel
		}
	case PageReference:
		data.SkillTree = r.SkillTree
		data.Interviews = r.Interviews
		data.Checklists = r.Checklists
	}
	return data
}

func buildWeeks(r *domain.Roadmap, c progress.Checker, opts Options, selWeek, selDay int) []WeekData {
	weeks := make([]WeekData, 0, len(r.Weeks))
	for w, wk := range r.Weeks {
		open := opts.Expand.open(w == 0)
		wd := WeekData{
			Number:   w + 1,
			Anchor:   domain.WeekAnchor(w),
			Title:    wk.Title,
			Goal:     wk.Goal,
			Outcomes: wk.Outcomes,
			Quests:   wk.Quests,
			Progress: progress.WeekProgress(wk, w, c),
			Open:     open,
			Days:     make([]DayData, 0, len(wk.Days)),
		}
		for d, dy := range wk.Days {
			dd := DayData{
				Number:    d + 1,
				Key:       domain.DayKey(w, d),
				Title:     dy.Title,
				WeekTitle: wk.Title,
				Focus:     dy.Focus,
				Href:      dayHref(w, d, opts.Static),
				Progress:  progress.DayProgress(dy, w, d, c),
				Open:      open,
				Selected:  w == selWeek && d == selDay,
				Tasks:     make([]TaskData, 0, len(dy.Tasks)),
			}
			if !opts.StartDate.IsZero() {
				dd.Date = opts.StartDate.AddDate(0, 0, 7*w+d).Format("2006-01-02")
			}
			for t, task := range dy.Tasks {
				id := domain.TaskID(w, d, t)
				td := TaskData{
					ID:        id,
					Label:     task.Label,
					Done:      c.IsDone(id),
					Steps:     task.Steps,
					Decisions: task.Decisions,
					DoneWhen:  task.DoneWhen,
					Pitfalls:  task.Pitfalls,
				}
				if !opts.Static {
					td.ToggleAction = fmt.Sprintf("/tasks/%s/toggle", id)
				}
				dd.Tasks = append(dd.Tasks, td)
			}
			wd.Days = append(wd.Days, dd)
		}
		weeks = append(weeks, wd)
	}
	return weeks
}

// selectDay resolves the calendar selection, falling back to the first day.
// It returns -1, -1 when the roadmap has no days at all.
func selectDay(r *domain.Roadmap, key string) (int, int) {
	if w, d, ok := domain.ParseDayKey(key); ok {
		if _, exists := r.Day(w, d); exists {
			return w, d
		}
	}
	if w, d, ok := r.FirstDay(); ok {
		return w, d
	}
	return -1, -1
}

func navLinks(active Page, static bool) []NavLink {
	links := make([]NavLink, 0, len(Pages))
	for _, p := range Pages {
		links = append(links, NavLink{Label: p.label(), Href: pageHref(p, static), Active: p == active})
	}
	return links
}

func pageHref(p Page, static bool) string {
	if static {
		return FileName(p)
	}
	if p == PageWeeks {
		return "/"
	}
	return "/" + string(p)
}

func dayHref(w, d int, static bool) string {
	if static {
		return DayFileName(w, d)
	}
	return "/calendar?day=" + domain.DayKey(w, d)
}

// FileName is the exported file for a page.
func FileName(p Page) string { return string(p) + ".html" }

// DayFileName is the exported calendar page with the given day selected.
func DayFileName(w, d int) string { return "day-" + domain.DayKey(w, d) + ".html" }
