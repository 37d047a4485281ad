package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/roadmap/internal/cli/formatter"
	"github.com/alexanderramin/roadmap/internal/progress"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type boardFocus int

const (
	focusTree boardFocus = iota
	focusWeeks
	focusDay
	focusCount
)

type boardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Toggle      key.Binding
	Expand      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Switch      key.Binding
	Reset       key.Binding
	Yes         key.Binding
	No          key.Binding
	Quit        key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle done")),
		Expand:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/collapse")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Switch:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Reset:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Yes:         key.NewBinding(key.WithKeys("y", "Y")),
		No:          key.NewBinding(key.WithKeys("n", "N", "esc")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Expand, k.ExpandAll, k.CollapseAll, k.Switch, k.Reset, k.Quit}
}

// boardModel shows the tree and week list side by side with the selected day
// below. Every pane subscribes to the store on its own, so a toggle made in
// any pane redraws all of them before the next frame.
type boardModel struct {
	ctx  context.Context
	svc  service.ProgressService
	keys boardKeyMap

	tree  *treePane
	weeks *weekListPane
	day   *dayPane

	focus        boardFocus
	confirmReset bool
	status       string
	width        int
	height       int
	quitting     bool

	unsubscribe []func()
}

func newBoardModel(ctx context.Context, svc service.ProgressService) *boardModel {
	m := &boardModel{
		ctx:   ctx,
		svc:   svc,
		keys:  defaultBoardKeys(),
		tree:  newTreePane(svc),
		weeks: newWeekListPane(svc),
		day:   newDayPane(svc),
	}

	m.tree.refresh(ctx)
	m.weeks.refresh(ctx)
	m.syncDay()

	m.unsubscribe = append(m.unsubscribe,
		svc.Subscribe(func(progress.Change) { m.tree.refresh(ctx) }),
		svc.Subscribe(func(progress.Change) { m.weeks.refresh(ctx) }),
		svc.Subscribe(func(progress.Change) { m.day.refresh(ctx) }),
	)
	return m
}

// close detaches every pane from the store.
func (m *boardModel) close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// syncDay points the day pane at the tree selection.
func (m *boardModel) syncDay() {
	key, ok := m.tree.selectedDay()
	if !ok {
		key = ""
	}
	m.day.show(m.ctx, key)
}

func (m *boardModel) Init() tea.Cmd { return nil }

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.QuitMsg:
		m.quitting = true
		m.close()
		return m, nil

	case tea.KeyMsg:
		if m.confirmReset {
			return m, m.updateConfirm(msg)
		}
		return m, m.updateKeys(msg)
	}
	return m, nil
}

func (m *boardModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.confirmReset = false
		cleared := len(m.svc.State(m.ctx))
		if _, err := m.svc.Reset(m.ctx, func() bool { return true }); err != nil {
			m.status = err.Error()
			return nil
		}
		m.status = fmt.Sprintf("Progress reset, %d task(s) cleared.", cleared)
	case key.Matches(msg, m.keys.No):
		m.confirmReset = false
		m.status = "Reset cancelled."
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	}
	return nil
}

func (m *boardModel) updateKeys(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Switch):
		m.focus = (m.focus + 1) % focusCount
	case key.Matches(msg, m.keys.Reset):
		m.confirmReset = true
	case key.Matches(msg, m.keys.ExpandAll):
		m.tree.expandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		m.tree.collapseAll()
		m.syncDay()
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Expand):
		m.expand()
	}
	return nil
}

func (m *boardModel) quit() tea.Cmd {
	m.quitting = true
	m.close()
	return tea.Quit
}

func (m *boardModel) move(delta int) {
	switch m.focus {
	case focusTree:
		m.tree.move(delta)
		m.syncDay()
	case focusWeeks:
		m.weeks.move(delta)
	case focusDay:
		m.day.move(delta)
	}
}

func (m *boardModel) toggle() {
	var id string
	switch m.focus {
	case focusTree:
		row, ok := m.tree.current()
		if !ok || row.kind != rowTask {
			return
		}
		id = row.key
	case focusDay:
		var ok bool
		if id, ok = m.day.currentTask(); !ok {
			return
		}
	default:
		return
	}
	if _, err := m.svc.Toggle(m.ctx, id); err != nil {
		m.status = err.Error()
	}
}

func (m *boardModel) expand() {
	switch m.focus {
	case focusTree:
		m.tree.toggleCollapse()
		m.syncDay()
	case focusWeeks:
		m.tree.focusWeek(m.weeks.cursor)
		m.focus = focusTree
		m.syncDay()
	case focusDay:
		m.toggle()
	}
}

// ── rendering ────────────────────────────────────────────────────────────────

func (m *boardModel) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = 100
	}
	listWidth := 34
	treeWidth := max(width-listWidth-4, 30)

	paneHeight := 0
	if m.height > 0 {
		paneHeight = max(m.height/2, 5)
	}

	tree := paneBox(m.focus == focusTree, treeWidth).Render(m.tree.view(paneHeight, m.focus == focusTree))
	weeks := paneBox(m.focus == focusWeeks, listWidth).Render(m.weeks.view(paneHeight, m.focus == focusWeeks))
	day := paneBox(m.focus == focusDay, treeWidth+listWidth+2).Render(m.day.view(m.focus == focusDay))

	sections := []string{
		m.renderHeader(width),
		lipgloss.JoinHorizontal(lipgloss.Top, tree, weeks),
		day,
		m.renderStatusBar(width),
	}
	return strings.Join(sections, "\n")
}

func (m *boardModel) renderHeader(width int) string {
	title := formatter.StylePurple.Render("roadmap") + " " + formatter.Dim("›") + " " + formatter.Bold(m.svc.Roadmap().Title)
	overall := formatter.RenderProgress(m.weeks.overview.Overall, 20)
	sep := formatter.Dim(strings.Repeat("─", max(width, 20)))
	return title + "  " + overall + "\n" + sep
}

func (m *boardModel) renderStatusBar(width int) string {
	var line string
	switch {
	case m.confirmReset:
		line = formatter.StyleYellowBold.Render("Reset all progress? (y/n)")
	case m.status != "":
		line = m.status
	default:
		var hints []string
		for _, b := range m.keys.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
		line = strings.Join(hints, "  ")
	}
	sep := formatter.Dim(strings.Repeat("─", max(width, 20)))
	return sep + "\n" + line
}

func paneBox(focused bool, width int) lipgloss.Style {
	border := formatter.ColorDim
	if focused {
		border = formatter.ColorHeader
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width).
		Padding(0, 1)
}
