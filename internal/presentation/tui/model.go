package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/triplet"
	"github.com/aretw0/triplet/pkg/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Keys are the configurable bindings. Everything else is fixed.
type Keys struct {
	Left  string
	Right string
}

// DefaultKeys are the a/s focus bindings.
var DefaultKeys = Keys{Left: "a", Right: "s"}

type navigatedMsg struct {
	op    string
	moved bool
	err   error
}

// Model is the bubbletea model over a Desk. It keeps only presentation state:
// the token cursor and the status line. Everything else is read from Desk.View.
type Model struct {
	ctx    context.Context
	desk   *triplet.Desk
	keys   Keys
	view   triplet.View
	turn   int
	token  int
	status string
	busy   bool
	width  int
}

// New creates a Model.
func New(ctx context.Context, desk *triplet.Desk, keys Keys) *Model {
	if keys.Left == "" || keys.Right == "" {
		keys = DefaultKeys
	}
	m := &Model{ctx: ctx, desk: desk, keys: keys}
	m.refresh()
	return m
}

// Run starts the program on the alternate screen.
func Run(ctx context.Context, desk *triplet.Desk, keys Keys) error {
	p := tea.NewProgram(New(ctx, desk, keys), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case navigatedMsg:
		m.busy = false
		m.refresh()
		m.turn, m.token = 0, 0
		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
		case !msg.moved && msg.op == "back":
			m.status = "already at the first item"
		case !msg.moved:
			m.status = "saved; this is the last item"
		default:
			m.status = ""
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}
	m.status = ""

	switch key {
	case m.keys.Left:
		m.direction(domain.DirectionLeft)
	case m.keys.Right:
		m.direction(domain.DirectionRight)
	case "left", "h":
		m.moveCursor(0, -1)
	case "right", "l":
		m.moveCursor(0, 1)
	case "up":
		m.moveCursor(-1, 0)
	case "down":
		m.moveCursor(1, 0)
	case "enter", " ":
		m.report(m.desk.OnTokenClick(m.turn, m.token))
	case "1", "2", "3", "4", "5":
		m.report(m.desk.OnSlotClick(m.row(), int(key[0]-'1')))
	case "j":
		m.report(m.desk.OnSlotClick(m.row()+1, m.slot()))
	case "k":
		m.report(m.desk.OnSlotClick(m.row()-1, m.slot()))
	case "n":
		return m, m.navigate("next")
	case "x":
		return m, m.navigate("skip")
	case "b":
		return m, m.navigate("back")
	}
	m.refresh()
	return m, nil
}

func (m *Model) direction(dir domain.Direction) {
	if _, ok := m.view.Highlighted(); !ok {
		m.status = "select a slot first (1-5)"
		return
	}
	if !m.desk.OnDirectionKey(dir) {
		m.status = "no slot " + string(dir)
	}
}

func (m *Model) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoFocus):
		m.status = "select a slot first (1-5)"
	default:
		m.status = err.Error()
	}
}

func (m *Model) row() int {
	if m.view.Focus == nil {
		return 0
	}
	return m.view.Focus.Row
}

func (m *Model) slot() int {
	if m.view.Focus == nil {
		return 0
	}
	return m.view.Focus.Slot
}

func (m *Model) navigate(op string) tea.Cmd {
	m.busy = true
	ctx, desk := m.ctx, m.desk
	return func() tea.Msg {
		var moved bool
		var err error
		switch op {
		case "next":
			moved, err = desk.OnNext(ctx)
		case "skip":
			moved, err = desk.OnSkip(ctx)
		default:
			moved, err = desk.OnBack(ctx)
		}
		return navigatedMsg{op: op, moved: moved, err: err}
	}
}

func (m *Model) moveCursor(dTurn, dToken int) {
	turns := m.view.Turns
	if len(turns) == 0 {
		return
	}
	m.turn = clamp(m.turn+dTurn, 0, len(turns)-1)
	if dTurn != 0 {
		m.token = 0
	}
	m.token = clamp(m.token+dToken, 0, len(turns[m.turn])-1)
}

func (m *Model) refresh() {
	m.view = m.desk.View()
	if len(m.view.Turns) == 0 {
		m.turn, m.token = 0, 0
		return
	}
	m.turn = clamp(m.turn, 0, len(m.view.Turns)-1)
	m.token = clamp(m.token, 0, len(m.view.Turns[m.turn])-1)
}

func (m *Model) View() string {
	v := m.view
	var b strings.Builder

	b.WriteString(titleStyle.Render(v.Summary))
	if v.AlreadyAnnotated {
		b.WriteString(noteStyle.Render("  already annotated"))
	}
	b.WriteString("\n")
	if v.Warning != "" {
		b.WriteString(warnStyle.Render(v.Warning) + "\n")
	}
	b.WriteString("\n")

	used := map[domain.TokenRef]bool{}
	for _, row := range v.Rows {
		for _, cell := range row.Slots {
			for _, ref := range cell.Refs {
				used[ref] = true
			}
		}
	}
	for t, turn := range v.Turns {
		parts := make([]string, len(turn))
		for i, tok := range turn {
			style := tokenStyle
			switch {
			case t == m.turn && i == m.token:
				style = cursorStyle
			case used[domain.TokenRef{Turn: t, Token: i}]:
				style = usedStyle
			case tok == domain.EndOfTurn:
				style = eotStyle
			}
			parts[i] = style.Render(tok)
		}
		b.WriteString(wrap(parts, m.width) + "\n")
	}
	b.WriteString("\n")

	for _, row := range v.Rows {
		cells := make([]string, domain.SlotsPerTriple)
		for s, cell := range row.Slots {
			style := cellStyle
			if cell.Highlighted {
				style = focusCellStyle
			}
			label := cell.Text
			if cell.Empty {
				label = placeholder.Render(cell.Kind)
			}
			cells[s] = style.Render(label)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}

	if m.status != "" {
		b.WriteString(warnStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render(fmt.Sprintf(
		"←/→ ↑/↓ token · enter assign · 1-5 slot · j/k row · %s/%s move focus · n next · x skip · b back · q quit",
		m.keys.Left, m.keys.Right)))
	return b.String()
}

// wrap joins rendered tokens, breaking lines at width (no limit when 0).
func wrap(parts []string, width int) string {
	if width <= 0 {
		return strings.Join(parts, "")
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, p := range parts {
		w := lipgloss.Width(p)
		if lineWidth > 0 && lineWidth+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		line.WriteString(p)
		lineWidth += w
	}
	lines = append(lines, line.String())
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
