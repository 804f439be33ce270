// Package chat provides the interactive chat TUI following the Elm
// architecture. Questions are answered by the answer service in a tea.Cmd
// goroutine; the session transcript is owned by the Update loop and handed
// to the service one turn at a time.
package chat

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quaystone/advisor-cli/internal/core/domain"
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
)

// answerMsg carries a completed chat turn back into the Update loop.
type answerMsg struct {
	answer *domain.Answer
	err    error
}

// chromeHeight is the vertical space taken by the header, input and hint
// lines around the transcript viewport.
const chromeHeight = 9

// App is the chat TUI model.
type App struct {
	answer  driving.AnswerService
	session *domain.Session

	styles   *Styles
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	ctx context.Context

	// transcript is the rendered conversation. It is rebuilt from the
	// session only when no question is in flight: the answer service
	// appends turns in its own goroutine, so Update and View must not
	// read the session while waiting.
	transcript string

	width   int
	height  int
	ready   bool
	waiting bool
	err     error
	notice  string
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the chat application. The answer service must be non-nil;
// the command layer checks that before launching.
func NewApp(answer driving.AnswerService) *App {
	s := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Ask about enrolment, housing, fees..."
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	app := &App{
		answer:   answer,
		session:  domain.NewSession(),
		styles:   s,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		ctx:      context.Background(),
		width:    80,
		height:   24,
	}
	app.refreshTranscript()
	return app
}

// WithContext sets the context used for answer calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("advisor chat"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if !a.waiting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case answerMsg:
		a.waiting = false
		a.err = msg.err
		a.refreshTranscript()
		return a, nil
	}

	return a, nil
}

// handleKey processes keyboard input.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit

	case "enter":
		return a, a.submit()

	case "ctrl+l":
		if a.waiting {
			return a, nil
		}
		a.session.Clear()
		a.err = nil
		a.notice = "Session cleared."
		a.refreshTranscript()
		return a, nil

	case "ctrl+e":
		if a.waiting {
			return a, nil
		}
		a.exportTranscript()
		return a, nil

	case "up", "down", "pgup", "pgdown", "home", "end":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	if a.waiting {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit sends the typed question to the answer service.
func (a *App) submit() tea.Cmd {
	if a.waiting {
		return nil
	}
	question := strings.TrimSpace(a.input.Value())
	if question == "" {
		return nil
	}

	a.input.SetValue("")
	a.err = nil
	a.notice = ""
	a.waiting = true

	// Show the question immediately; the session gains the turn once the
	// service returns.
	a.refreshTranscriptWithPending(question)

	return tea.Batch(a.spinner.Tick, a.askCmd(question))
}

// askCmd runs the chat turn off the UI loop.
func (a *App) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := a.answer.ChatTurn(a.ctx, a.session, question)
		return answerMsg{answer: answer, err: err}
	}
}

// exportTranscript writes the session to a Markdown file in the working
// directory.
func (a *App) exportTranscript() {
	if len(a.session.Turns) == 0 {
		a.notice = "Nothing to export yet."
		return
	}

	path := fmt.Sprintf("advisor-chat-%.8s.md", a.session.ID)
	if err := os.WriteFile(path, []byte(a.session.ExportMarkdown()), 0o644); err != nil {
		a.err = fmt.Errorf("export failed: %w", err)
		return
	}
	a.err = nil
	a.notice = "Transcript exported to " + path
}

// refreshTranscript rebuilds the viewport content from the session.
func (a *App) refreshTranscript() {
	a.refreshTranscriptWithPending("")
}

func (a *App) refreshTranscriptWithPending(pending string) {
	wrap := lipgloss.NewStyle().Width(a.transcriptWidth())

	var blocks []string
	for i := range a.session.Turns {
		blocks = append(blocks, a.renderTurn(&a.session.Turns[i], wrap))
	}
	if pending != "" {
		blocks = append(blocks,
			a.styles.You.Render("You")+"\n"+wrap.Render(pending))
	}
	if len(blocks) == 0 {
		blocks = append(blocks,
			a.styles.Muted.Render("Ask a question about the indexed documents."))
	}

	a.transcript = strings.Join(blocks, "\n\n")
	a.viewport.SetContent(a.transcript)
	a.viewport.GotoBottom()
}

// renderTurn renders one exchange half with its sources.
func (a *App) renderTurn(t *domain.Turn, wrap lipgloss.Style) string {
	var b strings.Builder
	switch t.Role {
	case domain.RoleUser:
		b.WriteString(a.styles.You.Render("You"))
	case domain.RoleAssistant:
		b.WriteString(a.styles.Advisor.Render("Advisor"))
	}
	b.WriteString("\n")
	b.WriteString(wrap.Render(t.Content))

	for i, src := range t.Sources {
		b.WriteString("\n")
		b.WriteString(a.styles.Muted.Render(
			fmt.Sprintf("  [%d] %s (%s)", i+1, src.Title, src.URL)))
	}
	return b.String()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	sections = append(sections, a.styles.Title.Render("Advisor Chat"), "")
	sections = append(sections, a.styles.Transcript.Render(a.viewport.View()), "")

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()))
	}
	if a.notice != "" {
		sections = append(sections, a.styles.Notice.Render(a.notice))
	}

	if a.waiting {
		sections = append(sections, a.spinner.View()+" Thinking...")
	} else {
		sections = append(sections, a.styles.InputField.Render(a.input.View()))
	}

	sections = append(sections,
		a.styles.Help.Render("enter: ask  ctrl+l: clear  ctrl+e: export  esc: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.viewport.Width = a.transcriptWidth()
	a.viewport.Height = max(height-chromeHeight, 3)
	a.input.Width = max(width-6, 20)

	// Re-wrap only when the session is safe to read.
	if a.waiting {
		a.viewport.SetContent(a.transcript)
	} else {
		a.refreshTranscript()
	}
}

// transcriptWidth is the usable width inside the transcript border.
func (a *App) transcriptWidth() int {
	return max(a.width-4, 20)
}

// Session returns the chat session.
func (a *App) Session() *domain.Session {
	return a.session
}

// Waiting reports whether an answer is in flight.
func (a *App) Waiting() bool {
	return a.waiting
}

// Err returns the last error shown.
func (a *App) Err() error {
	return a.err
}

// Notice returns the current transient notice.
func (a *App) Notice() string {
	return a.notice
}

// Ready reports whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// InputValue returns the current input contents.
func (a *App) InputValue() string {
	return a.input.Value()
}

// SetInputValue sets the input contents.
func (a *App) SetInputValue(value string) {
	a.input.SetValue(value)
}

// Transcript returns the rendered conversation.
func (a *App) Transcript() string {
	return a.transcript
}
