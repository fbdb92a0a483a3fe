package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/gantry/pkg/export"
	"github.com/vanderheijden86/gantry/pkg/model"
	"github.com/vanderheijden86/gantry/pkg/timeline"
)

const divider = "│"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteByte('\n')

	if m.showHelp {
		b.WriteString(m.renderHelp())
		b.WriteByte('\n')
		b.WriteString(m.renderStatus())
		return b.String()
	}

	b.WriteString(m.renderMonthStrip())
	b.WriteByte('\n')
	b.WriteString(m.renderDayStrip())
	b.WriteByte('\n')

	infoTop, tlTop := m.Tops()
	for k := 0; k < m.bodyHeight(); k++ {
		b.WriteString(m.renderInfoRow(infoTop + k))
		b.WriteString(m.theme.MutedText.Render(divider))
		b.WriteString(m.renderTimelineRow(tlTop + k))
		b.WriteByte('\n')
	}

	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderTitle() string {
	title := m.opts.Title
	if title == "" {
		title = "gantry"
	}
	right := fmt.Sprintf("%d tasks · %s", m.layout.TaskCount(), m.mode)
	if m.layout.Span.TotalDays > 0 {
		right += fmt.Sprintf(" · %s → %s",
			m.layout.Span.Start.Format("2006-01-02"), m.layout.Span.End.Format("2006-01-02"))
	}
	// Header style carries one cell of padding on each side.
	return m.theme.Header.Render(fitLeftRight(title, right, max(0, m.width-2)))
}

func (m Model) renderMonthStrip() string {
	tw := m.timelineWidth()
	from, to := m.ScrollX(), m.ScrollX()+tw
	var s strings.Builder
	cursor := from
	for _, seg := range m.layout.Months {
		lo := max(seg.Offset*m.dayCells, from)
		hi := min((seg.Offset+seg.DayCount)*m.dayCells, to)
		if lo >= hi {
			continue
		}
		if lo > cursor {
			s.WriteString(strings.Repeat(" ", lo-cursor))
		}
		s.WriteString(padRight(seg.Label, hi-lo))
		cursor = hi
	}
	return padRight("", m.infoWidth) + m.theme.MutedText.Render(divider) +
		m.theme.MonthText.Render(padRight(s.String(), tw))
}

func (m Model) renderDayStrip() string {
	tw := m.timelineWidth()
	var s strings.Builder
	var styled []string
	flush := func(style lipgloss.Style) {
		if s.Len() > 0 {
			styled = append(styled, style.Render(s.String()))
			s.Reset()
		}
	}
	var prev *lipgloss.Style
	for c := 0; c < tw; c++ {
		abs := m.ScrollX() + c
		d, sub := abs/m.dayCells, abs%m.dayCells
		ch := " "
		style := m.theme.SecondaryText
		if d < len(m.layout.Days) {
			cell := m.layout.Days[d]
			if sub < len(cell.Label) {
				ch = cell.Label[sub : sub+1]
			}
			switch {
			case cell.IsToday:
				style = m.theme.TodayText
			case cell.IsWeekend && m.opts.ShowWeekends:
				style = m.theme.WeekendText
			}
		}
		if prev != nil && !sameStyle(*prev, style) {
			flush(*prev)
		}
		st := style
		prev = &st
		s.WriteString(ch)
	}
	if prev != nil {
		flush(*prev)
	}
	return padRight("Task", m.infoWidth) + m.theme.MutedText.Render(divider) + strings.Join(styled, "")
}

// sameStyle compares the colors that distinguish header runs.
func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() && a.GetBold() == b.GetBold()
}

func (m Model) renderInfoRow(i int) string {
	w := m.infoWidth
	if i < 0 || i >= len(m.layout.Rows) {
		if i == 0 && len(m.layout.Rows) == 0 {
			return m.theme.MutedText.Render(padRight("No tasks", w))
		}
		return strings.Repeat(" ", w)
	}
	r := m.layout.Rows[i]
	selected := i == m.cursor
	focused := selected && m.focus == timeline.PaneInfo

	var line string
	style := m.theme.Base
	if r.IsHeader() {
		mark := "▾"
		if r.Header.Collapsed {
			mark = "▸"
		}
		line = fitLeftRight(fmt.Sprintf("%s %s", mark, r.Header.Label), fmt.Sprintf("(%d)", r.Header.Count), w)
		style = m.theme.GroupText
	} else {
		n := r.Task.Node
		mark := "  "
		if n.HasChildren() {
			if m.collapsed.IsTaskCollapsed(n.ID()) {
				mark = "▸ "
			} else {
				mark = "▾ "
			}
		}
		icon, _ := m.theme.GetKindIcon(n.Task.Kind)
		left := strings.Repeat("  ", r.Task.Depth) + mark + icon + " " + n.Task.Title
		line = fitLeftRight(left, progressLabel(&n.Task), w)
		if !n.Task.HasDates() {
			style = m.theme.MutedText
		}
	}

	if selected {
		style = style.Background(m.theme.Highlight).Bold(focused)
	}
	return style.Render(line)
}

func progressLabel(t *model.Task) string {
	if t.IsMilestone() {
		if t.DueDate == nil {
			return ""
		}
		return t.DueDate.Format("Jan 02")
	}
	if t.Progress <= 0 {
		return ""
	}
	return fmt.Sprintf("%d%%", min(t.Progress, 100))
}

// renderTimelineRow draws row i of the timeline pane from the shared
// glyph rules, widened to dayCells cells per day. Milestones and the today
// guide occupy the middle cell of their day.
func (m Model) renderTimelineRow(i int) string {
	tw := m.timelineWidth()
	if i < 0 || i >= len(m.layout.Rows) {
		return strings.Repeat(" ", tw)
	}
	mid := m.dayCells / 2
	selected := i == m.cursor

	var out strings.Builder
	var run strings.Builder
	var runGlyph rune = -1
	flush := func() {
		if run.Len() == 0 {
			return
		}
		st := m.glyphStyle(i, runGlyph)
		if selected {
			st = st.Background(m.theme.Highlight)
		}
		out.WriteString(st.Render(run.String()))
		run.Reset()
	}

	for c := 0; c < tw; c++ {
		abs := m.ScrollX() + c
		d, sub := abs/m.dayCells, abs%m.dayCells
		g := ' '
		if d < m.layout.Span.TotalDays {
			g = export.CellAt(m.layout, i, d, m.opts.ShowWeekends)
			if (g == export.GlyphMilestone || g == export.GlyphToday) && sub != mid {
				g = ' '
			}
		}
		if g != runGlyph {
			flush()
			runGlyph = g
		}
		run.WriteRune(g)
	}
	flush()

	// Pad in case a glyph renders narrower than expected.
	s := out.String()
	if w := lipgloss.Width(s); w < tw {
		s += strings.Repeat(" ", tw-w)
	}
	return s
}

func (m Model) glyphStyle(i int, g rune) lipgloss.Style {
	r := m.theme.Renderer
	switch g {
	case export.GlyphBar, export.GlyphRemaining:
		t := &m.layout.Rows[i].Task.Node.Task
		color := m.theme.GetStatusColor(t.Status)
		if t.IsCritical {
			color = m.theme.Critical
		}
		return r.NewStyle().Foreground(color)
	case export.GlyphMilestone:
		return r.NewStyle().Foreground(m.theme.Milestone).Bold(true)
	case export.GlyphToday:
		return m.theme.TodayText
	case export.GlyphWeekend:
		return m.theme.WeekendText
	default:
		return m.theme.Base
	}
}

func (m Model) renderStatus() string {
	w := max(0, m.width)
	if m.statusMsg != "" {
		style := m.theme.StatusBar
		if m.statusIsError {
			style = m.theme.ErrorText
		}
		return style.Render(padRight(m.statusMsg, w))
	}
	var parts []string
	for _, k := range m.keys.shortHelp() {
		h := k.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	left := strings.Join(parts, " • ")
	right := fmt.Sprintf("[%s] %d/%d", m.focus, min(m.cursor+1, len(m.layout.Rows)), len(m.layout.Rows))
	return m.theme.StatusBar.Render(fitLeftRight(left, right, w))
}

func (m Model) renderHelp() string {
	lines := []string{m.theme.GroupText.Render("Keys"), ""}
	keyW := 0
	for _, k := range m.keys.fullHelp() {
		keyW = max(keyW, runewidth.StringWidth(k.Help().Key))
	}
	for _, k := range m.keys.fullHelp() {
		h := k.Help()
		lines = append(lines, "  "+m.theme.TodayText.Render(padRight(h.Key, keyW))+"  "+h.Desc)
	}
	lines = append(lines, "", m.theme.MutedText.Render("Mouse wheel scrolls both panes together; press any key to close."))
	body := m.bodyHeight() + 2 // month and day strips are hidden
	for len(lines) < body {
		lines = append(lines, "")
	}
	return strings.Join(lines[:body], "\n")
}
