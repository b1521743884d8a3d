// Package tui provides the interactive Bubble Tea front end: edit the
// context, run analyses, chat about the summary, and restore past sessions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naricha/ctxwhisper/internal/app"
	"github.com/naricha/ctxwhisper/internal/chat"
	"github.com/naricha/ctxwhisper/internal/llm"
	"github.com/naricha/ctxwhisper/internal/state"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Active tab: bright, highlighted
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	// Inactive tab: muted
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	// Separator between tabs
	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	userBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	botBadgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	confirmStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Selected row in the History list
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabContext tabID = iota
	tabSummary
	tabChat
	tabHistory
	tabCount
)

var tabNames = [tabCount]string{"Context", "Summary", "Chat", "History"}

// ── Pending confirmations ───────────

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmClearChat
	confirmRestore
)

// ── Async results ───────────────────

type analysisDoneMsg struct {
	summary string
	err     error
}

type replyDoneMsg struct {
	reply string
	err   error
}

type recapDoneMsg struct {
	recap string
	err   error
}

// ── Model ────────────────────

// Model is the root Bubble Tea model.
type Model struct {
	app *app.App

	activeTab tabID
	width     int
	height    int
	ready     bool

	contextInput textarea.Model
	chatInput    textinput.Model
	summaryVP    viewport.Model
	chatVP       viewport.Model
	historyVP    viewport.Model

	spin spinner.Model
	busy bool

	historyCursor int
	confirm       confirmAction
	banner        string
	recap         string // transient conversation digest, never part of the log
}

// New creates the TUI model over a live app.
func New(a *app.App) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste or type the content to analyze…"
	ta.SetValue(a.Session.Context)
	ta.Focus()

	ti := textinput.New()
	ti.Placeholder = "Ask about the summary…"

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	return Model{
		app:          a,
		contextInput: ta,
		chatInput:    ti,
		spin:         sp,
	}
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return textarea.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case analysisDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.app.FailAnalysis(msg.err)
			m.banner = m.app.Session.LastError
			return m, nil
		}
		if err := m.app.CompleteAnalysis(msg.summary); err != nil {
			m.banner = err.Error()
			return m, nil
		}
		m.banner = ""
		m.recap = ""
		m.activeTab = tabSummary
		m.refreshContent()
		return m, nil

	case recapDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.banner = m.app.Session.LastError
			return m, nil
		}
		m.recap = msg.recap
		m.refreshContent()
		m.chatVP.GotoTop()
		return m, nil

	case replyDoneMsg:
		m.busy = false
		if msg.err != nil {
			if err := m.app.FailSend(msg.err); err != nil {
				m.banner = err.Error()
			}
		} else if err := m.app.CompleteSend(msg.reply); err != nil {
			m.banner = err.Error()
		}
		m.refreshContent()
		m.chatVP.GotoBottom()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending confirmation swallows the next key.
	if m.confirm != confirmNone {
		return m.handleConfirm(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		m.syncFocus()
		return m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		m.syncFocus()
		return m, nil
	}

	switch m.activeTab {
	case tabContext:
		return m.handleContextKey(msg)
	case tabSummary:
		var cmd tea.Cmd
		m.summaryVP, cmd = m.summaryVP.Update(msg)
		return m, cmd
	case tabChat:
		return m.handleChatKey(msg)
	case tabHistory:
		return m.handleHistoryKey(msg)
	}
	return m, nil
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.confirm
	m.confirm = confirmNone
	if s := msg.String(); s != "y" && s != "Y" && s != "enter" {
		m.banner = ""
		return m, nil
	}

	switch action {
	case confirmClearChat:
		if err := m.app.ClearChat(); err != nil {
			m.banner = err.Error()
		} else {
			m.banner = ""
		}
		m.recap = ""
	case confirmRestore:
		entries := m.app.Session.History
		if m.historyCursor < len(entries) {
			if err := m.app.RestoreHistory(entries[m.historyCursor].ID); err != nil {
				m.banner = err.Error()
			} else {
				m.banner = ""
				m.recap = ""
				m.contextInput.SetValue(m.app.Session.Context)
				m.activeTab = tabSummary
			}
		}
	}
	m.refreshContent()
	return m, nil
}

func (m Model) handleContextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		if m.busy {
			return m, nil
		}
		if err := m.app.SetContext(m.contextInput.Value()); err != nil {
			m.banner = err.Error()
			return m, nil
		}
		req, err := m.app.BeginAnalysis()
		if err != nil {
			m.banner = m.app.Session.LastError
			return m, nil
		}
		m.busy = true
		m.banner = ""
		return m, tea.Batch(m.spin.Tick, m.runAnalysis(req))

	case "ctrl+z":
		if m.busy {
			return m, nil
		}
		if changed, err := m.app.Undo(); err != nil {
			m.banner = err.Error()
		} else if changed {
			m.contextInput.SetValue(m.app.Session.Context)
		}
		return m, nil

	case "ctrl+y":
		if m.busy {
			return m, nil
		}
		if changed, err := m.app.Redo(); err != nil {
			m.banner = err.Error()
		} else if changed {
			m.contextInput.SetValue(m.app.Session.Context)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.contextInput, cmd = m.contextInput.Update(msg)
	return m, cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.busy {
			return m, nil
		}
		text := strings.TrimSpace(m.chatInput.Value())
		conv, err := m.app.BeginSend(text)
		switch {
		case err == nil:
			m.chatInput.SetValue("")
			m.busy = true
			m.banner = ""
			m.recap = ""
			m.refreshContent()
			m.chatVP.GotoBottom()
			return m, tea.Batch(m.spin.Tick, m.runSend(conv, text))
		case err == chat.ErrLocked:
			m.banner = chat.MsgChatLocked
		case err == chat.ErrEmptyMessage, err == chat.ErrWaiting:
			// silently ignored, matching the send button being disabled
		default:
			m.banner = err.Error()
		}
		return m, nil

	case "ctrl+r":
		if m.busy {
			return m, nil
		}
		conv, content, err := m.app.BeginRetry()
		if err != nil {
			if err != chat.ErrNothingToRetry {
				m.banner = err.Error()
			}
			return m, nil
		}
		m.busy = true
		m.banner = ""
		m.refreshContent()
		return m, tea.Batch(m.spin.Tick, m.runSend(conv, content))

	case "ctrl+g":
		if m.busy || len(m.app.Session.Messages) == 0 {
			return m, nil
		}
		m.busy = true
		m.banner = ""
		return m, tea.Batch(m.spin.Tick, m.runRecap())

	case "ctrl+l":
		if m.busy || len(m.app.Session.Messages) == 0 {
			return m, nil
		}
		m.confirm = confirmClearChat
		m.banner = "Clear the conversation? (y/n)"
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatVP, cmd = m.chatVP.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.historyCursor > 0 {
			m.historyCursor--
			m.refreshContent()
		}
		return m, nil
	case "down", "j":
		if m.historyCursor < len(m.app.Session.History)-1 {
			m.historyCursor++
			m.refreshContent()
		}
		return m, nil
	case "enter":
		if m.busy || len(m.app.Session.History) == 0 {
			return m, nil
		}
		m.confirm = confirmRestore
		m.banner = "Restore this session? The current context and summary will be replaced. (y/n)"
		return m, nil
	}
	var cmd tea.Cmd
	m.historyVP, cmd = m.historyVP.Update(msg)
	return m, cmd
}

// ── Async commands ────────────────────────────────────────────────────────────

func (m Model) runAnalysis(req llm.SummaryRequest) tea.Cmd {
	svc := m.app.Service()
	return func() tea.Msg {
		summary, err := svc.Summarize(context.Background(), req)
		return analysisDoneMsg{summary: summary, err: err}
	}
}

func (m Model) runSend(conv llm.Conversation, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := conv.Send(context.Background(), text)
		return replyDoneMsg{reply: reply, err: err}
	}
}

func (m Model) runRecap() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		recap, err := a.Recap(context.Background())
		return recapDoneMsg{recap: recap, err: err}
	}
}

// ── View ──────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  ctxwhisper")

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %s ", tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	var content string
	switch m.activeTab {
	case tabContext:
		content = m.viewContext()
	case tabSummary:
		content = m.summaryVP.View()
	case tabChat:
		content = m.viewChat()
	case tabHistory:
		content = m.historyVP.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, m.viewStatusBar())
}

func (m Model) viewContext() string {
	hint := dimStyle.Render("  ctrl+s analyze   ctrl+z undo   ctrl+y redo")
	return "\n" + m.contextInput.View() + "\n" + hint
}

func (m Model) viewChat() string {
	return m.chatVP.View() + "\n" + "  " + m.chatInput.View()
}

func (m Model) viewStatusBar() string {
	var hint string
	switch {
	case m.confirm != confirmNone:
		hint = confirmStyle.Render(m.banner)
	case m.busy:
		hint = m.spin.View() + " working…"
	case m.banner != "":
		hint = bannerStyle.Render(m.banner)
	default:
		switch m.activeTab {
		case tabContext:
			hint = "  tab next  ctrl+s analyze  ctrl+c quit"
		case tabSummary:
			hint = "  tab next  ↑/↓ scroll  ctrl+c quit"
		case tabChat:
			hint = "  tab next  enter send  ctrl+r retry  ctrl+g recap  ctrl+l clear  ctrl+c quit"
		case tabHistory:
			hint = "  tab next  ↑/↓ select  enter restore  ctrl+c quit"
		}
	}
	return statusBarStyle.Width(m.width).Render(hint)
}

// ── Layout & content ──────────────────────────────────────────────────────────

func (m *Model) layout() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	bodyHeight := m.height - 3
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	m.contextInput.SetWidth(m.width - 4)
	m.contextInput.SetHeight(bodyHeight - 3)
	m.chatInput.Width = m.width - 6

	m.summaryVP = viewport.New(m.width, bodyHeight)
	m.chatVP = viewport.New(m.width, bodyHeight-2)
	m.historyVP = viewport.New(m.width, bodyHeight)
	m.refreshContent()
}

func (m *Model) refreshContent() {
	m.summaryVP.SetContent(m.renderSummary())
	m.chatVP.SetContent(m.renderChat())
	m.historyVP.SetContent(m.renderHistory())
}

func (m *Model) syncFocus() {
	m.contextInput.Blur()
	m.chatInput.Blur()
	switch m.activeTab {
	case tabContext:
		m.contextInput.Focus()
	case tabChat:
		m.chatInput.Focus()
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Model) renderSummary() string {
	var sb strings.Builder
	sb.WriteString(heading("Summary"))
	if m.app.Session.Summary == "" {
		sb.WriteString(dimStyle.Render("  (no summary yet — write some context and press ctrl+s)") + "\n")
		return sb.String()
	}
	sb.WriteString(indent(wrap(m.app.Session.Summary, m.width-4), "  ") + "\n")
	return sb.String()
}

func (m *Model) renderChat() string {
	var sb strings.Builder
	if m.app.Thread.Status() == chat.Locked {
		sb.WriteString(heading("Chat"))
		sb.WriteString(dimStyle.Render("  "+chat.MsgChatLocked) + "\n")
		return sb.String()
	}
	if m.recap != "" {
		sb.WriteString(heading("Conversation so far"))
		sb.WriteString(dimStyle.Render(indent(wrap(m.recap, m.width-4), "  ")) + "\n")
	}
	sb.WriteString("\n")
	for _, msg := range m.app.Session.Messages {
		var badge string
		switch {
		case msg.IsError:
			badge = errorStyle.Render("  error     ")
		case msg.Role == state.RoleUser:
			badge = userBadgeStyle.Render("  you       ")
		default:
			badge = botBadgeStyle.Render("  assistant ")
		}
		body := wrap(msg.Content, m.width-14)
		if msg.IsError {
			body = errorStyle.Render(body)
		}
		sb.WriteString(badge + strings.ReplaceAll(body, "\n", "\n              ") + "\n\n")
	}
	if len(m.app.Session.Messages) == 0 {
		sb.WriteString(dimStyle.Render("  (no messages yet — ask something about the summary)") + "\n")
	}
	return sb.String()
}

func (m *Model) renderHistory() string {
	entries := m.app.Session.History
	var sb strings.Builder
	sb.WriteString(heading(fmt.Sprintf("History (%d)", len(entries))))
	if len(entries) == 0 {
		sb.WriteString(dimStyle.Render("  (no past analyses)") + "\n")
		return sb.String()
	}
	for i, e := range entries {
		ts := timeStyle.Render(e.CreatedAt.Local().Format("2006-01-02 15:04"))
		row := fmt.Sprintf("  %s  %s", ts, firstLine(e.Summary, m.width-22))
		if i == m.historyCursor {
			row = selectedRowStyle.Width(m.width - 2).Render(row)
		}
		sb.WriteString(row + "\n")
	}
	return sb.String()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// wrap breaks s into lines no longer than width, on word boundaries.
func wrap(s string, width int) string {
	if width < 10 {
		width = 10
	}
	var sb strings.Builder
	for i, para := range strings.Split(s, "\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		line := 0
		for _, word := range strings.Fields(para) {
			if line > 0 && line+1+len(word) > width {
				sb.WriteString("\n")
				line = 0
			} else if line > 0 {
				sb.WriteString(" ")
				line++
			}
			sb.WriteString(word)
			line += len(word)
		}
	}
	return sb.String()
}

func firstLine(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if width > 1 && len(s) > width {
		s = s[:width-1] + "…"
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

// Run starts the TUI over the given app.
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
