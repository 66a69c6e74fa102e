// Package tui provides the operator prompts of nebula-downloader: a Bubble
// Tea interface and a plain line-based prompter.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/nebula-downloader/internal/download"
	"github.com/handiism/nebula-downloader/internal/model"
)

// ErrAborted is returned by Select when the operator quits the prompt.
var ErrAborted = errors.New("selection aborted")

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	episodeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs bounds the recent log lines shown above the prompt.
const maxLogs = 8

// Stage is the prompt currently being answered.
type Stage int

const (
	StageExcluded Stage = iota
	StageIncluded
	StageDone
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model of one channel selection.
type Model struct {
	view      model.ChannelView
	stage     Stage
	textInput textinput.Model
	viewport  viewport.Model
	logs      []LogEntry
	request   model.SelectionRequest
	aborted   bool

	width  int
	height int
}

// NewModel creates a selection model for view. logs are shown above the
// lists.
func NewModel(view model.ChannelView, logs []LogEntry) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. 1,3,4 (blank for none)"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	vp := viewport.New(80, 20)

	m := Model{
		view:      view,
		stage:     StageExcluded,
		textInput: ti,
		viewport:  vp,
		logs:      logs,
	}
	m.viewport.SetContent(m.renderLists())
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		// Header, logs, prompt and help take the rest.
		m.viewport.Height = max(msg.Height-len(m.logs)-10, 5)
		m.textInput.Width = max(msg.Width-4, 20)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit

		case tea.KeyEnter:
			value := m.textInput.Value()
			m.textInput.Reset()
			if m.stage == StageExcluded {
				m.request.Excluded = value
				m.stage = StageIncluded
				return m, nil
			}
			m.request.Included = value
			m.stage = StageDone
			return m, tea.Quit

		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Nebula Downloader"))
	b.WriteString("\n")
	title := m.view.Channel.Title
	if title == "" {
		title = m.view.Channel.Slug
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Channel: %s (%d episodes)", title, len(m.view.All))))
	b.WriteString("\n\n")

	if len(m.logs) > 0 {
		b.WriteString(m.renderLogs())
		b.WriteString("\n")
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if m.stage != StageDone {
		b.WriteString(subtitleStyle.Render(m.promptText()))
		b.WriteString("\n")
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: confirm • ↑/↓ pgup/pgdn: scroll • esc: quit"))

	return b.String()
}

// Request returns the lines entered so far.
func (m Model) Request() model.SelectionRequest {
	return m.request
}

// Aborted reports whether the operator quit before answering both prompts.
func (m Model) Aborted() bool {
	return m.aborted
}

func (m Model) promptText() string {
	if m.stage == StageExcluded {
		return fmt.Sprintf("Episodes to download from the EXCLUDED list (1-%d):", len(m.view.Excluded))
	}
	return fmt.Sprintf("Episodes to download from the INCLUDED list (1-%d):", len(m.view.Included))
}

func (m Model) renderLists() string {
	var b strings.Builder
	for _, s := range sections(m.view) {
		b.WriteString(infoStyle.Render(s.name + ":"))
		b.WriteString("\n")
		if len(s.episodes) == 0 {
			b.WriteString(dimStyle.Render("  (none)"))
			b.WriteString("\n")
		}
		for i, ep := range s.episodes {
			b.WriteString(episodeStyle.Render("  " + ep.DisplayLine(i)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

// Prompter asks for a selection with a full-screen Bubble Tea program per
// channel. It also keeps the most recent progress events and shows them
// above the lists.
type Prompter struct {
	in   io.Reader
	out  io.Writer
	logs []LogEntry
}

// NewPrompter creates a Prompter. Nil in and out use the terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Record stores a progress event for display in the next prompt.
func (p *Prompter) Record(event download.ProgressEvent) {
	p.logs = append(p.logs, LogEntry{Message: event.Message, Level: event.Level})
	if len(p.logs) > maxLogs {
		p.logs = p.logs[len(p.logs)-maxLogs:]
	}
}

// Select runs the prompt for view until both lines are entered.
func (p *Prompter) Select(ctx context.Context, view model.ChannelView) (model.SelectionRequest, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if p.in != nil {
		opts = append(opts, tea.WithInput(p.in))
	}
	if p.out != nil {
		opts = append(opts, tea.WithOutput(p.out))
	}

	final, err := tea.NewProgram(NewModel(view, append([]LogEntry(nil), p.logs...)), opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return model.SelectionRequest{}, ctx.Err()
		}
		return model.SelectionRequest{}, err
	}

	m, ok := final.(Model)
	if !ok || m.Aborted() {
		return model.SelectionRequest{}, ErrAborted
	}
	p.logs = nil
	return m.Request(), nil
}

type section struct {
	name     string
	episodes []*model.Episode
}

// sections lists ALL, INCLUDED and EXCLUDED in display order.
func sections(view model.ChannelView) []section {
	return []section{
		{"ALL", view.All},
		{"INCLUDED", view.Included},
		{"EXCLUDED", view.Excluded},
	}
}
