package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tlycode/multi-agent-system/internal/orchestrator"
	"github.com/tlycode/multi-agent-system/internal/render"
	"github.com/tlycode/multi-agent-system/pkg/models"
)

// maxTranscriptLines bounds the scrollback kept in memory.
const maxTranscriptLines = 1000

// Session is the orchestrator as seen by the interactive app.
type Session interface {
	Process(ctx context.Context, input string) (*models.OrchestrationResult, error)
	Agents() []models.AgentCard
}

// QueryResultMsg carries the outcome of a submitted query.
type QueryResultMsg struct {
	Query  string
	Result *models.OrchestrationResult
	Err    error
}

// OrchestratorEventMsg wraps a progress event from the orchestrator.
type OrchestratorEventMsg struct {
	Event orchestrator.OrchestratorEvent
}

// AgentsReloadedMsg reports a re-discovery after a config change.
type AgentsReloadedMsg struct {
	Count int
	Err   error
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
	queryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

var helpLines = []string{
	"Commands:",
	"  help   - Show this help message",
	"  agents - List discovered agents",
	"  exit   - Exit interactive mode",
	"  Any other input will be processed as a query",
}

// InteractiveApp is the main model for interactive mode.
type InteractiveApp struct {
	ctx        context.Context
	session    Session
	events     <-chan orchestrator.OrchestratorEvent
	inputField *InputField
	spinner    spinner.Model

	transcript []string
	status     string
	busy       bool
	width      int
	height     int
	quitting   bool
}

// NewInteractiveApp creates a new InteractiveApp. events may be nil.
func NewInteractiveApp(ctx context.Context, session Session, events <-chan orchestrator.OrchestratorEvent) *InteractiveApp {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	a := &InteractiveApp{
		ctx:        ctx,
		session:    session,
		events:     events,
		inputField: NewInputField(),
		spinner:    sp,
	}
	a.appendLines(`Type "exit" to quit, "help" for commands`)
	if session != nil {
		a.appendLines(fmt.Sprintf("%d agent(s) available", len(session.Agents())))
	}
	return a
}

// Init implements tea.Model.
func (a *InteractiveApp) Init() tea.Cmd {
	return tea.Batch(a.inputField.Focus(), a.waitForEvent())
}

// Update implements tea.Model.
func (a *InteractiveApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.quitting = true
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.inputField, cmd = a.inputField.Update(msg)
		return a, cmd

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.inputField.SetWidth(msg.Width)
		return a, nil

	case QuerySubmittedMsg:
		return a.handleInput(msg.Query)

	case QueryResultMsg:
		a.busy = false
		a.status = ""
		if msg.Err != nil {
			a.appendLines(errorStyle.Render("Error: "+msg.Err.Error()), "")
			return a, nil
		}
		var b strings.Builder
		render.Brief(&b, msg.Result)
		a.appendLines(strings.Split(strings.TrimRight(b.String(), "\n"), "\n")...)
		a.appendLines("")
		return a, nil

	case OrchestratorEventMsg:
		a.status = describeEvent(msg.Event)
		return a, a.waitForEvent()

	case AgentsReloadedMsg:
		if msg.Err != nil {
			a.appendLines(errorStyle.Render("Config reload: " + msg.Err.Error()))
		} else {
			a.appendLines(fmt.Sprintf("Config reloaded: %d agent(s) available", msg.Count))
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.inputField, cmd = a.inputField.Update(msg)
	return a, cmd
}

func (a *InteractiveApp) handleInput(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "":
		return a, nil
	case "exit", "quit":
		a.quitting = true
		return a, tea.Quit
	case "help":
		a.appendLines(helpLines...)
		a.appendLines("")
		return a, nil
	case "agents":
		var b strings.Builder
		render.Agents(&b, a.session.Agents())
		a.appendLines(strings.Split(strings.TrimRight(b.String(), "\n"), "\n")...)
		a.appendLines("")
		return a, nil
	}

	if a.busy {
		a.appendLines(statusStyle.Render("Still working on the previous request..."))
		return a, nil
	}

	a.busy = true
	a.status = "Processing..."
	a.appendLines(queryStyle.Render("> " + input))
	return a, tea.Batch(a.spinner.Tick, a.runQuery(input))
}

// runQuery processes input off the UI goroutine.
func (a *InteractiveApp) runQuery(input string) tea.Cmd {
	return func() tea.Msg {
		result, err := a.session.Process(a.ctx, input)
		return QueryResultMsg{Query: input, Result: result, Err: err}
	}
}

func (a *InteractiveApp) waitForEvent() tea.Cmd {
	if a.events == nil {
		return nil
	}
	events := a.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return OrchestratorEventMsg{Event: ev}
	}
}

func describeEvent(ev orchestrator.OrchestratorEvent) string {
	switch ev.Type {
	case orchestrator.EventTaskStarted:
		return fmt.Sprintf("Task %d: %s", ev.TaskIndex+1, ev.TaskText)
	case orchestrator.EventDelegationDone:
		if ev.Message != "" {
			return fmt.Sprintf("%s failed: %s", ev.Agent, ev.Message)
		}
		return fmt.Sprintf("%s answered in %v", ev.Agent, ev.Duration.Round(time.Millisecond))
	default:
		return ev.Message
	}
}

func (a *InteractiveApp) appendLines(lines ...string) {
	a.transcript = append(a.transcript, lines...)
	if over := len(a.transcript) - maxTranscriptLines; over > 0 {
		a.transcript = a.transcript[over:]
	}
}

// Transcript returns the lines printed so far.
func (a *InteractiveApp) Transcript() []string {
	return a.transcript
}

// View implements tea.Model.
func (a *InteractiveApp) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	header := titleStyle.Render("Multi-Agent System - interactive mode")

	status := ""
	if a.busy {
		status = a.spinner.View() + " " + statusStyle.Render(a.status)
	}

	lines := a.transcript
	if a.height > 0 {
		// header, status and the bordered input take 5 lines
		if avail := a.height - 5; avail > 0 && len(lines) > avail {
			lines = lines[len(lines)-avail:]
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(lines, "\n"),
		status,
		a.inputField.View(),
	)
}

// NewInteractiveProgram creates a new Bubbletea program for interactive mode.
func NewInteractiveProgram(ctx context.Context, session Session, events <-chan orchestrator.OrchestratorEvent) (*tea.Program, *InteractiveApp) {
	app := NewInteractiveApp(ctx, session, events)
	p := tea.NewProgram(app, tea.WithContext(ctx))
	return p, app
}
