package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pbaille/nomi/internal/domain"
	"github.com/pbaille/nomi/internal/journal"
	"github.com/pbaille/nomi/internal/store"
)

type promptMsg string

type insightMsg struct {
	insight *domain.Insight
	err     error
}

// Model is the bubbletea model for the three journal screens
type Model struct {
	svc   *journal.Service
	state journal.State
	theme Theme

	width, height int

	editor      textarea.Model
	date        textinput.Model
	dateFocused bool
	viewport    viewport.Model
	spinner     spinner.Model

	status    string
	statusErr bool
}

// New builds the model with today (local time) selected.
func New(svc *journal.Service, now time.Time) Model {
	ed := textarea.New()
	ed.Placeholder = "Start writing... your thoughts are safe here."
	ed.ShowLineNumbers = false
	ed.CharLimit = 0
	ed.SetHeight(10)
	ed.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(lipgloss.Color("#313244"))
	ed.Focus()

	st := journal.NewState(now)

	di := textinput.New()
	di.Prompt = "date: "
	di.Placeholder = domain.DateLayout
	di.CharLimit = len(domain.DateLayout)
	di.Width = len(domain.DateLayout) + 1
	di.SetValue(st.SelectedDate)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		svc:      svc,
		state:    st.PromptRequested(),
		theme:    DefaultTheme,
		editor:   ed,
		date:     di,
		viewport: viewport.New(80, 20),
		spinner:  sp,
	}
}

// Run starts the TUI and blocks until the user quits.
func Run(svc *journal.Service) error {
	p := tea.NewProgram(New(svc, time.Now()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// State exposes the current view state.
func (m Model) State() journal.State { return m.state }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.promptCmd(), textarea.Blink, m.spinner.Tick)
}

func (m Model) promptCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		return promptMsg(svc.Prompt(context.Background()))
	}
}

func (m Model) analyzeCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ins, err := svc.Insights(context.Background())
		return insightMsg{insight: ins, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.editor.SetWidth(max(20, msg.Width-4))
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(5, msg.Height-8)
		m.refreshViewport()
		return m, nil

	case promptMsg:
		m.state = m.state.PromptReceived(string(msg))
		return m, nil

	case insightMsg:
		// overlapping requests are not fenced: the last one to arrive wins
		m.state = m.state.InsightReceived(msg.insight)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state.Analyzing && m.state.View == journal.ViewInsights {
			m.refreshViewport()
		}
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.switchTo(m.state.View.Next())
	case "shift+tab":
		return m.switchTo(m.state.View.Next().Next())
	case "f1":
		return m.switchTo(journal.ViewWrite)
	case "f2":
		return m.switchTo(journal.ViewHistory)
	case "f3":
		return m.switchTo(journal.ViewInsights)
	}

	if m.state.View == journal.ViewWrite {
		return m.updateWrite(msg)
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "1":
		return m.switchTo(journal.ViewWrite)
	case "2":
		return m.switchTo(journal.ViewHistory)
	case "3":
		return m.switchTo(journal.ViewInsights)
	case "r":
		if m.state.View == journal.ViewInsights && !m.state.Analyzing && m.svc.Count() > 0 {
			m.state = m.state.AnalysisRequested()
			m.refreshViewport()
			return m, m.analyzeCmd()
		}
		return m, nil
	}
	return m.updateFocused(msg)
}

func (m Model) updateWrite(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return m.save()
	case "ctrl+p":
		m.state = m.state.PromptRequested()
		return m, m.promptCmd()
	case "ctrl+t":
		m.dateFocused = !m.dateFocused
		if m.dateFocused {
			m.editor.Blur()
			return m, m.date.Focus()
		}
		m.date.Blur()
		m.state = m.state.WithDate(strings.TrimSpace(m.date.Value()))
		return m, m.editor.Focus()
	}
	return m.updateFocused(msg)
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state.View {
	case journal.ViewWrite:
		if m.dateFocused {
			m.date, cmd = m.date.Update(msg)
			m.state = m.state.WithDate(strings.TrimSpace(m.date.Value()))
		} else {
			m.editor, cmd = m.editor.Update(msg)
			m.state = m.state.WithDraft(m.editor.Value())
		}
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) switchTo(v journal.View) (tea.Model, tea.Cmd) {
	var analyze bool
	m.state, analyze = m.state.SwitchTo(v)
	m.status = ""
	var cmd tea.Cmd
	if analyze && m.svc.Count() > 0 {
		m.state = m.state.AnalysisRequested()
		cmd = m.analyzeCmd()
	}
	m.refreshViewport()
	m.viewport.GotoTop()
	return m, cmd
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if !m.state.CanSave() {
		return m, nil
	}
	if _, err := time.Parse(domain.DateLayout, m.state.SelectedDate); err != nil {
		m.setStatus(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", m.state.SelectedDate), true)
		return m, nil
	}

	_, err := m.svc.Write(m.state.Draft, m.state.SelectedDate)
	switch {
	case errors.Is(err, store.ErrEmptyContent):
		return m, nil
	case err != nil:
		m.setStatus("Error saving entry: "+err.Error(), true)
		return m, nil
	}

	m.state = m.state.Saved()
	m.editor.Reset()
	m.setStatus("Entry saved", false)
	return m, nil
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) refreshViewport() {
	switch m.state.View {
	case journal.ViewHistory:
		m.viewport.SetContent(renderHistory(m.theme, m.svc.History()))
	case journal.ViewInsights:
		m.viewport.SetContent(m.renderInsights())
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Nomi"))
	b.WriteString("  ")
	b.WriteString(m.theme.Subtitle.Render("time to know me"))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.state.View {
	case journal.ViewWrite:
		b.WriteString(m.renderWrite())
	default:
		b.WriteString(m.viewport.View())
	}

	b.WriteString("\n")
	if m.status != "" {
		style := m.theme.Success
		if m.statusErr {
			style = m.theme.Error
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Hint.Render(m.hints()))
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := []struct {
		view  journal.View
		label string
	}{
		{journal.ViewWrite, "Write"},
		{journal.ViewHistory, "History"},
		{journal.ViewInsights, "Insights"},
	}
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		style := m.theme.Tab
		if t.view == m.state.View {
			style = m.theme.ActiveTab
		}
		parts[i] = style.Render(fmt.Sprintf("%d %s", i+1, t.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderWrite() string {
	var b strings.Builder

	var prompt string
	if m.state.GeneratingPrompt {
		prompt = m.spinner.View() + " " + m.theme.Hint.Render("Generating a thoughtful prompt...")
	} else {
		prompt = m.theme.Value.Render(m.state.Prompt)
	}
	card := m.theme.Heading.Render("Today's Prompt") + "\n" + prompt
	if m.width > 0 {
		b.WriteString(m.theme.Card.Width(max(20, m.width-4)).Render(card))
	} else {
		b.WriteString(m.theme.Card.Render(card))
	}
	b.WriteString("\n\n")

	b.WriteString(m.date.View())
	b.WriteString("   ")
	b.WriteString(m.theme.Label.Render(fmt.Sprintf("%d characters", utf8.RuneCountInString(m.state.Draft))))
	b.WriteString("\n")
	b.WriteString(m.editor.View())
	return b.String()
}

func (m Model) renderInsights() string {
	total := m.svc.Count()
	switch {
	case total == 0:
		return m.theme.Hint.Render("Write a few entries to unlock personalized insights!")
	case m.state.Analyzing:
		return m.spinner.View() + " " + m.theme.Hint.Render("Analyzing your journal entries...")
	case m.state.Insight != nil:
		return renderInsight(m.theme, m.state.Insight, total)
	}
	return m.theme.Hint.Render(`Press "r" to refresh analysis and see your insights`)
}

func (m Model) hints() string {
	switch m.state.View {
	case journal.ViewWrite:
		return "ctrl+s save • ctrl+p new prompt • ctrl+t edit date • tab switch view • ctrl+c quit"
	case journal.ViewInsights:
		return "r refresh analysis • ↑/↓ scroll • tab switch view • q quit"
	}
	return "↑/↓ scroll • tab switch view • q quit"
}
