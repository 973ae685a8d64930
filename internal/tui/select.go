// Package tui implements the interactive multi-select widget as a
// Bubble Tea program. It satisfies domain.Selector: lines in, chosen
// lines out, preview callback fired synchronously on highlight moves.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"wallgrab/internal/domain"
	"wallgrab/internal/tui/styles"
)

// Selector runs the multi-select list in the left portion of the
// terminal, leaving the preview region to the render pipeline.
type Selector struct {
	listWidth  int
	listHeight int
}

// NewSelector creates the widget with a fixed list geometry; the
// remainder of the terminal belongs to the preview region.
func NewSelector(listWidth, listHeight int) *Selector {
	return &Selector{listWidth: listWidth, listHeight: listHeight}
}

// Select presents the lines and blocks until the user commits or
// cancels. Cancellation (esc / ctrl+c) returns (nil, nil); the caller
// maps that to its own cancellation error.
func (s *Selector) Select(ctx context.Context, lines []string, preview func(line string)) ([]string, error) {
	m := newSelectModel(lines, preview, s.listWidth, s.listHeight)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, context.Canceled
		}
		return nil, err
	}

	fm, ok := final.(selectModel)
	if !ok || fm.cancelled {
		return nil, nil
	}
	return fm.chosen, nil
}

// selectModel is the Bubble Tea model for the list
type selectModel struct {
	lines   []string
	preview func(line string)

	// Visible window
	visible []int // Indexes into lines, after filtering
	cursor  int   // Position within visible
	offset  int   // Scroll offset within visible

	marked map[int]bool // Keyed by index into lines

	// Filter state
	filtering bool
	filter    textinput.Model

	width  int
	height int

	cancelled bool
	chosen    []string
}

func newSelectModel(lines []string, preview func(line string), width, height int) selectModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.CharLimit = 64
	ti.Width = width - 4

	visible := make([]int, len(lines))
	for i := range lines {
		visible[i] = i
	}

	return selectModel{
		lines:   lines,
		preview: preview,
		visible: visible,
		marked:  make(map[int]bool),
		filter:  ti,
		width:   width,
		height:  height,
	}
}

// Init fires the first preview so the highlighted line is shown
// immediately
func (m selectModel) Init() tea.Cmd {
	m.firePreview()
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = min(m.height, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m selectModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit

	case "up", "k":
		m.moveCursor(-1)
		return m, nil

	case "down", "j":
		m.moveCursor(1)
		return m, nil

	case "pgup":
		m.moveCursor(-m.pageSize())
		return m, nil

	case "pgdown":
		m.moveCursor(m.pageSize())
		return m, nil

	case "tab", " ":
		if idx, ok := m.current(); ok {
			// Pseudo-lines are chosen directly, not marked
			if !domain.IsPseudoLine(m.lines[idx]) {
				m.marked[idx] = !m.marked[idx]
				m.moveCursor(1)
			}
		}
		return m, nil

	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink

	case "enter":
		m.chosen = m.commit()
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) updateFiltering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.SetValue("")
		m.filter.Blur()
		m.applyFilter()
		return m, nil

	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil

	case "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

// moveCursor shifts the highlight and fires the preview callback when
// it lands on a new line
func (m *selectModel) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	prev := m.cursor
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.clampOffset()
	if m.cursor != prev {
		m.firePreview()
	}
}

// firePreview invokes the preview callback synchronously for the
// highlighted line
func (m *selectModel) firePreview() {
	if m.preview == nil {
		return
	}
	if idx, ok := m.current(); ok {
		m.preview(m.lines[idx])
	}
}

func (m *selectModel) current() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return 0, false
	}
	return m.visible[m.cursor], true
}

func (m *selectModel) pageSize() int {
	n := m.height - 2
	if n < 1 {
		n = 1
	}
	return n
}

func (m *selectModel) clampOffset() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

// applyFilter recomputes the visible window with fuzzy matching
func (m *selectModel) applyFilter() {
	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		m.visible = make([]int, len(m.lines))
		for i := range m.lines {
			m.visible[i] = i
		}
	} else {
		matches := fuzzy.Find(strings.ToLower(query), lowered(m.lines))
		m.visible = m.visible[:0]
		for _, match := range matches {
			m.visible = append(m.visible, match.Index)
		}
	}
	m.cursor = 0
	m.offset = 0
	m.firePreview()
}

func lowered(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.ToLower(l)
	}
	return out
}

// commit returns the marked lines in list order, or the highlighted
// line alone when nothing is marked
func (m *selectModel) commit() []string {
	var chosen []string
	for i, line := range m.lines {
		if m.marked[i] {
			chosen = append(chosen, line)
		}
	}
	if len(chosen) == 0 {
		if idx, ok := m.current(); ok {
			chosen = []string{m.lines[idx]}
		}
	}
	return chosen
}

func (m selectModel) View() string {
	var b strings.Builder

	header := styles.TitleStyle.Render("wallgrab")
	if m.filtering || m.filter.Value() != "" {
		header += "  " + m.filter.View()
	} else {
		header += "  " + styles.DimStyle.Render("tab: mark · enter: confirm · /: filter · esc: quit")
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	page := m.pageSize()
	end := m.offset + page
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for vi := m.offset; vi < end; vi++ {
		idx := m.visible[vi]
		line := m.lines[idx]

		mark := "  "
		if m.marked[idx] {
			mark = styles.MarkedStyle.Render("✓ ")
		}

		text := truncate(line, m.width-4)
		switch {
		case vi == m.cursor:
			b.WriteString(mark + styles.HighlightStyle.Render(text))
		case domain.IsPseudoLine(line):
			b.WriteString(mark + styles.PseudoLineStyle.Render(text))
		default:
			b.WriteString(mark + text)
		}
		b.WriteString("\n")
	}

	if len(m.visible) == 0 {
		b.WriteString(styles.DimStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
