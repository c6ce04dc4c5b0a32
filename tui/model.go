// Package tui is the terminal front end: a text area for the description on
// the left and the live diagram on the right.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pauldambra/causal-flows/causal"
	"github.com/pauldambra/causal-flows/flow"
	"github.com/pauldambra/causal-flows/render"
)

// saveTimeout bounds a single parse and store write.
const saveTimeout = 5 * time.Second

type debounceMsg struct{ seq int }

// appliedMsg reports the session state after an edit was applied.
type appliedMsg struct {
	text  string
	graph *causal.Graph
	err   error
}

// Model is the bubbletea model for the editor.
type Model struct {
	// core components
	editor   textarea.Model
	session  *flow.Session
	renderer *render.Text
	delay    time.Duration

	// state
	text     string
	graph    *causal.Graph
	diagram  string
	seq      int
	width    int
	height   int
	quitting bool

	// feedback
	statusMsg string
	err       error
}

// NewModel creates an editor seeded with the session's current text. Edits
// are handed to the session after delay of inactivity.
func NewModel(session *flow.Session, delay time.Duration) Model {
	initial, g := session.Current()

	ta := textarea.New()
	ta.Placeholder = "coffee + alertness\n\"late nights\" - alertness"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetValue(initial)
	ta.Focus()

	m := Model{
		editor:   ta,
		session:  session,
		renderer: render.NewTextFor(lipgloss.DefaultRenderer()),
		delay:    delay,
	}
	m.show(initial, g)
	return m
}

// Graph returns the graph currently on screen.
func (m Model) Graph() *causal.Graph {
	return m.graph
}

// Text returns the text the current graph was parsed from.
func (m Model) Text() string {
	return m.text
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) show(text string, g *causal.Graph) {
	m.text = text
	m.graph = g
	m.diagram = m.renderer.String(nil, m.graph)
	if dropped := flow.DroppedLines(text, m.graph); dropped > 0 {
		m.statusMsg = fmt.Sprintf("%d nodes, %d links, %d lines ignored", len(m.graph.Nodes), len(m.graph.Links), dropped)
	} else {
		m.statusMsg = fmt.Sprintf("%d nodes, %d links", len(m.graph.Nodes), len(m.graph.Links))
	}
}

func (m Model) applyCmd(text string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		err := session.Apply(ctx, text)
		current, g := session.Current()
		return appliedMsg{text: current, graph: g, err: err}
	}
}

func (m Model) debounceCmd() tea.Cmd {
	seq := m.seq
	if m.delay <= 0 {
		return func() tea.Msg { return debounceMsg{seq: seq} }
	}
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(m.applyCmd(m.editor.Value()), tea.Quit)
		case "ctrl+s":
			m.seq++ // cancel any pending debounce
			return m, m.applyCmd(m.editor.Value())
		}

		before := m.editor.Value()
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		if m.editor.Value() == before {
			return m, cmd
		}
		m.seq++
		return m, tea.Batch(cmd, m.debounceCmd())

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.applyCmd(m.editor.Value())

	case appliedMsg:
		m.err = msg.err
		m.show(msg.text, msg.graph)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	paneWidth := m.width/2 - paneStyle.GetHorizontalFrameSize()
	paneHeight := m.height - paneStyle.GetVerticalFrameSize() - 3
	if paneWidth < 10 {
		paneWidth = 10
	}
	if paneHeight < 3 {
		paneHeight = 3
	}
	m.editor.SetWidth(paneWidth)
	m.editor.SetHeight(paneHeight)
}
