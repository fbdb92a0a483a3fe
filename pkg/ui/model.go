// Package ui is the two-pane terminal Gantt view: task titles on the left,
// the calendar and bars on the right, sharing one row sequence and one
// vertical scroll position.
package ui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/gantry/pkg/config"
	"github.com/vanderheijden86/gantry/pkg/debug"
	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/timeline"
	"github.com/vanderheijden86/gantry/pkg/watcher"
)

// Terminal defaults used until the first WindowSizeMsg arrives.
const (
	defaultWidth    = 120
	defaultHeight   = 30
	defaultDayCells = 3
	chromeLines     = 4 // title, month row, day row, status bar
	wheelStep       = 3
)

// Options configures NewModel.
type Options struct {
	Phases       []model.Phase
	Mode         timeline.GroupMode
	Today        time.Time // zero means time.Now()
	ShowWeekends bool
	Geometry     config.TimelineConfig // pixel geometry, converted to cells
	InfoWidth    int                   // left pane cells; 0 derives from Geometry.LeftPanelWidth
	DayCells     int                   // cells per day; 0 selects 3
	Title        string
	Collapsed    *timeline.CollapseState // initial collapse state; nil starts expanded

	// Reload re-reads the snapshot when the watcher fires or r is pressed.
	Reload    func() ([]model.Task, error)
	Watcher   *watcher.Watcher
	Clipboard func(string) error // defaults to the system clipboard
}

// FileChangedMsg is sent when the snapshot changes on disk.
type FileChangedMsg struct{}

// TasksLoadedMsg carries the result of a reload.
type TasksLoadedMsg struct {
	Tasks []model.Task
	Err   error
}

// WatchFileCmd returns a command that waits for snapshot changes and sends
// FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

// ReloadCmd reads the snapshot off the event loop.
func ReloadCmd(load func() ([]model.Task, error)) tea.Cmd {
	return func() tea.Msg {
		tasks, err := load()
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

// Model is the Bubble Tea model of the timeline view.
type Model struct {
	// Data
	tasks     []model.Task
	opts      Options
	mode      timeline.GroupMode
	collapsed *timeline.CollapseState
	layout    timeline.Layout

	// Scrolling: both panes share the synchronizer; scrollX lives in it too.
	sync  *timeline.ScrollSync
	panes [2]*paneView

	// Selection and focus
	cursor int
	focus  timeline.Pane

	// Geometry in cells
	width     int
	height    int
	infoWidth int
	dayCells  int
	leadCells float64

	keys      keyMap
	theme     Theme
	clipboard func(string) error

	showHelp      bool
	statusMsg     string
	statusIsError bool
}

// NewModel builds the view over tasks. It opens scrolled to today.
func NewModel(tasks []model.Task, opts Options) Model {
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}
	if opts.Phases == nil {
		opts.Phases = model.DefaultPhases()
	}
	if opts.Mode == "" {
		opts.Mode = timeline.GroupByPhase
	}
	def := config.DefaultConfig().Timeline
	if opts.Geometry == (config.TimelineConfig{}) {
		opts.Geometry = def
	}
	if opts.Geometry.DayWidth <= 0 {
		opts.Geometry.DayWidth = def.DayWidth
	}
	if opts.Geometry.LeftPanelWidth <= 0 {
		opts.Geometry.LeftPanelWidth = def.LeftPanelWidth
	}
	if opts.DayCells <= 0 {
		opts.DayCells = defaultDayCells
	}
	if opts.InfoWidth <= 0 {
		// 12px per cell
		opts.InfoWidth = max(opts.Geometry.LeftPanelWidth/12, 20)
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = clipboard.WriteAll
	}

	collapsed := opts.Collapsed
	if collapsed == nil {
		collapsed = timeline.NewCollapseState()
	}

	sync, panes := newPanes()
	m := Model{
		tasks:     tasks,
		opts:      opts,
		mode:      opts.Mode,
		collapsed: collapsed,
		sync:      sync,
		panes:     panes,
		focus:     timeline.PaneInfo,
		width:     defaultWidth,
		height:    defaultHeight,
		infoWidth: opts.InfoWidth,
		dayCells:  opts.DayCells,
		leadCells: float64(opts.Geometry.ScrollLead) / float64(opts.Geometry.DayWidth) * float64(opts.DayCells),
		keys:      defaultKeyMap(),
		theme:     DefaultTheme(lipgloss.DefaultRenderer()),
		clipboard: cb,
	}
	m.relayout()
	m.jumpToToday()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.opts.Watcher != nil {
		return WatchFileCmd(m.opts.Watcher)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.infoWidth = clamp(m.opts.InfoWidth, 10, max(10, m.width/2))
		m.clampScroll()
		m.ensureCursorVisible()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case FileChangedMsg:
		if m.opts.Reload != nil {
			m.statusMsg, m.statusIsError = "Snapshot changed, reloading…", false
			cmds = append(cmds, ReloadCmd(m.opts.Reload))
		}
		if m.opts.Watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.opts.Watcher))
		}

	case TasksLoadedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Reload error: %v", msg.Err)
			m.statusIsError = true
			return m, nil
		}
		m.tasks = msg.Tasks
		m.relayout()
		m.statusMsg = fmt.Sprintf("Reloaded %d tasks", len(m.tasks))
		m.statusIsError = false
		debug.Log("ui: reloaded %d tasks, %d rows", len(m.tasks), len(m.layout.Rows))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	m.statusMsg, m.statusIsError = "", false
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.bodyHeight())
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-len(m.layout.Rows))
	case key.Matches(msg, m.keys.End):
		m.moveCursor(len(m.layout.Rows))
	case key.Matches(msg, m.keys.Left):
		m.sync.ScrollXBy(-m.dayCells*7, m.maxScrollX())
	case key.Matches(msg, m.keys.Right):
		m.sync.ScrollXBy(m.dayCells*7, m.maxScrollX())
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSelected()
	case key.Matches(msg, m.keys.Group):
		m.mode = m.mode.Toggle()
		m.relayout()
		m.statusMsg = "Grouping: " + string(m.mode)
	case key.Matches(msg, m.keys.ExpandAll):
		m.collapsed.ExpandAll()
		m.relayout()
	case key.Matches(msg, m.keys.Collapse):
		m.collapseAll()
	case key.Matches(msg, m.keys.Focus):
		m.focus = m.focus.Other()
	case key.Matches(msg, m.keys.Today):
		m.jumpToToday()
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Reload):
		if m.opts.Reload != nil {
			return m, ReloadCmd(m.opts.Reload)
		}
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	pane := timeline.PaneInfo
	if msg.X > m.infoWidth {
		pane = timeline.PaneTimeline
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollPane(pane, -wheelStep)
	case tea.MouseButtonWheelDown:
		m.scrollPane(pane, wheelStep)
	case tea.MouseButtonWheelLeft:
		m.sync.ScrollXBy(-m.dayCells, m.maxScrollX())
	case tea.MouseButtonWheelRight:
		m.sync.ScrollXBy(m.dayCells, m.maxScrollX())
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		m.focus = pane
		top := m.panes[pane].top
		if i := timeline.RowAt(msg.Y-(chromeLines-1), 1, len(m.layout.Rows)-top); i >= 0 {
			m.cursor = top + i
		}
	}
}

// relayout recomputes the layout and keeps the selected row by identity.
func (m *Model) relayout() {
	selected := m.selectedKey()
	m.layout = timeline.Compute(m.tasks, timeline.Options{Phases: m.opts.Phases, Mode: m.mode}, m.collapsed, m.opts.Today)

	m.cursor = clamp(m.cursor, 0, len(m.layout.Rows)-1)
	if selected != "" {
		for i, r := range m.layout.Rows {
			if rowKey(r) == selected {
				m.cursor = i
				break
			}
		}
	}
	m.clampScroll()
	m.ensureCursorVisible()
}

func rowKey(r timeline.Row) string {
	if r.IsHeader() {
		return "phase:" + r.Header.PhaseKey
	}
	return "task:" + r.TaskID()
}

func (m Model) selectedKey() string {
	if m.cursor < 0 || m.cursor >= len(m.layout.Rows) {
		return ""
	}
	return rowKey(m.layout.Rows[m.cursor])
}

// SelectedRow returns the row under the cursor.
func (m Model) SelectedRow() (timeline.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.layout.Rows) {
		return timeline.Row{}, false
	}
	return m.layout.Rows[m.cursor], true
}

// Layout returns the current layout.
func (m Model) Layout() timeline.Layout {
	return m.layout
}

// Tops returns the vertical offsets of the info and timeline panes.
func (m Model) Tops() (int, int) {
	return m.panes[timeline.PaneInfo].top, m.panes[timeline.PaneTimeline].top
}

// ScrollX returns the timeline pane's horizontal offset in cells.
func (m Model) ScrollX() int {
	return m.sync.ScrollX()
}

func (m Model) bodyHeight() int {
	return max(1, m.height-chromeLines)
}

func (m Model) timelineWidth() int {
	return max(0, m.width-m.infoWidth-1)
}

func (m Model) maxTop() int {
	return max(0, len(m.layout.Rows)-m.bodyHeight())
}

func (m Model) maxScrollX() int {
	return max(0, m.layout.Span.TotalDays*m.dayCells-m.timelineWidth())
}

// scrollPane scrolls one pane as if the user had; the other pane follows
// through the synchronizer.
func (m *Model) scrollPane(p timeline.Pane, delta int) {
	m.panes[p].scrollTo(clamp(m.panes[p].top+delta, 0, m.maxTop()))
}

func (m *Model) clampScroll() {
	p := m.panes[m.focus]
	p.scrollTo(clamp(p.top, 0, m.maxTop()))
	m.sync.SetScrollX(m.sync.ScrollX(), m.maxScrollX())
}

func (m *Model) moveCursor(delta int) {
	if len(m.layout.Rows) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.layout.Rows)-1)
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	p := m.panes[m.focus]
	body := m.bodyHeight()
	switch {
	case m.cursor < p.top:
		p.scrollTo(m.cursor)
	case m.cursor >= p.top+body:
		p.scrollTo(clamp(m.cursor-body+1, 0, m.maxTop()))
	}
}

func (m *Model) toggleSelected() {
	r, ok := m.SelectedRow()
	if !ok {
		return
	}
	if r.IsHeader() {
		m.collapsed.TogglePhase(r.Header.PhaseKey)
		m.relayout()
		return
	}
	if !r.Task.Node.HasChildren() {
		m.statusMsg = r.TaskID() + " has no subtasks"
		return
	}
	m.collapsed.ToggleTask(r.TaskID())
	m.relayout()
}

// collapseAll collapses every task that has subtasks.
func (m *Model) collapseAll() {
	var ids []string
	for _, g := range m.layout.Groups {
		g.Forest.Walk(func(n *timeline.Node) {
			if n.HasChildren() {
				ids = append(ids, n.ID())
			}
		})
	}
	m.collapsed.CollapseTasks(ids...)
	m.relayout()
}

func (m *Model) jumpToToday() {
	x := timeline.InitialScrollX(m.layout.Span, m.opts.Today, float64(m.dayCells), m.leadCells)
	m.sync.SetScrollX(int(x), m.maxScrollX())
}

func (m *Model) copySelected() {
	r, ok := m.SelectedRow()
	if !ok || r.IsHeader() {
		return
	}
	id := r.TaskID()
	if err := m.clipboard(id); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("📋 Copied %s to clipboard", id)
}
