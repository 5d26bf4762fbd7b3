package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"campus-rag/internal/models"
)

// Assistant is the TUI-facing subset of the conversation orchestrator.
type Assistant interface {
	Answer(ctx context.Context, question string) string
}

// Model is the Bubble Tea model for the chat session. The conversation log
// lives here: it belongs to this session only, is ordered by insertion, and
// is used for display, never for retrieval.
type Model struct {
	assistant Assistant
	college   string
	input     textinput.Model
	viewport  viewport.Model
	turns     []models.Turn
	status    string
	ready     bool
	waiting   bool
}

type answerMsg string

// New creates a new chat model instance.
func New(assistant Assistant, college string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask anything about campus..."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		assistant: assistant,
		college:   college,
		input:     ti,
		viewport:  vp,
		status:    "Type a question and press Enter.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + ch + 1 // header, status, frames, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTurns())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				m.status = models.EmptyQueryMessage
				return m, nil
			}
			m.input.Reset()
			m.turns = append(m.turns, models.Turn{Role: models.RoleUser, Content: question})
			m.viewport.SetContent(m.renderTurns())
			m.viewport.GotoBottom()
			m.waiting = true
			m.status = "Thinking..."
			assistant := m.assistant
			return m, func() tea.Msg {
				return answerMsg(assistant.Answer(context.Background(), question))
			}
		}

	case answerMsg:
		m.waiting = false
		m.status = "Type a question and press Enter."
		m.turns = append(m.turns, models.Turn{Role: models.RoleAssistant, Content: string(msg)})
		m.viewport.SetContent(m.renderTurns())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render(m.college + " Campus Assistant")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderTurns() string {
	if len(m.turns) == 0 {
		return "Ask me anything about departments, facilities, admissions, or placements."
	}
	var b strings.Builder
	for i, turn := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch turn.Role {
		case models.RoleUser:
			b.WriteString(userStyle.Render("You: ") + turn.Content)
		default:
			b.WriteString(botStyle.Render("Assistant: ") + turn.Content)
		}
	}
	return b.String()
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
