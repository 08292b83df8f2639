package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxScrollback caps how many submitted lines the model remembers.
const maxScrollback = 200

// chromeLines is the number of lines used by the title, input and help bar.
const chromeLines = 3

// entry is one submitted line and its reply.
type entry struct {
	input  string
	output string
	failed bool
}

// Model is the Bubble Tea model for an interactive session.
// All Handler calls happen inside Update, on the program's event loop.
type Model struct {
	handle  Handler
	input   textinput.Model
	help    help.Model
	keys    keyMap
	entries []entry
	history []string
	histPos int // len(history) when not browsing
	width   int
	height  int
	done    bool
	exited  bool // ended by an exit command rather than a quit key
}

// NewModel creates a Model that answers submitted lines with h.
func NewModel(h Handler) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("> ")
	ti.Placeholder = "help"
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		handle: h,
		input:  ti,
		help:   help.New(),
		keys:   defaultKeyMap(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if msg.Width > 4 {
			m.input.Width = msg.Width - 4
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Prev):
			m.recall(-1)
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.recall(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the current input line through the handler.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()

	reply := m.handle(line)
	m.entries = append(m.entries, entry{input: line, output: reply.Output, failed: reply.Failed})
	if len(m.entries) > maxScrollback {
		m.entries = m.entries[len(m.entries)-maxScrollback:]
	}
	if strings.TrimSpace(line) != "" {
		m.history = append(m.history, line)
	}
	m.histPos = len(m.history)

	if reply.Exit {
		m.done = true
		m.exited = true
		return m, tea.Quit
	}
	return m, nil
}

// recall moves through input history by delta, clamped to its bounds.
// Moving past the newest entry clears the input.
func (m *Model) recall(delta int) {
	pos := min(max(m.histPos+delta, 0), len(m.history))
	m.histPos = pos
	if pos == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[pos])
	m.input.CursorEnd()
}

// Exited reports whether the session ended with an exit command.
func (m Model) Exited() bool { return m.exited }

// View renders the scrollback, input line and help bar.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(Welcome))
	sb.WriteString("\n")

	for _, e := range m.visible() {
		sb.WriteString(promptStyle.Render("> "))
		sb.WriteString(e.input)
		sb.WriteString("\n")
		style := replyStyle
		if e.failed {
			style = errorStyle
		}
		sb.WriteString(style.Render(e.output))
		sb.WriteString("\n")
	}

	if m.done {
		return sb.String()
	}
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// visible returns the newest entries that fit in the terminal height.
// Without a known height every entry is shown.
func (m Model) visible() []entry {
	if m.height <= 0 {
		return m.entries
	}
	budget := m.height - chromeLines
	i := len(m.entries)
	for i > 0 {
		n := 2 + strings.Count(m.entries[i-1].output, "\n")
		if n > budget {
			break
		}
		budget -= n
		i--
	}
	return m.entries[i:]
}
