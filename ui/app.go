package ui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"openrouter-chat/analytics"
	"openrouter-chat/db"
	"openrouter-chat/llm"
	"openrouter-chat/utils"
)

// historyLimit is how many past exchanges are loaded into the transcript on startup
const historyLimit = 50

type lineKind int

const (
	lineUser lineKind = iota
	lineAssistant
	lineError
	lineSystem
)

type chatLine struct {
	kind lineKind
	text string
}

// Model is the bubbletea model for the chat interface
type Model struct {
	config  *utils.Config
	logger  *utils.AppLogger
	store   *db.Store
	client  *llm.Client
	tracker *analytics.Tracker

	catalog       []llm.ModelInfo
	selectedModel string

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	transcript      []chatLine
	sending         bool
	confirmingClear bool
	balance         string
	status          string
	width           int
	height          int
	ready           bool
}

// NewModel builds the chat model and preloads history and the model catalog
func NewModel(config *utils.Config, logger *utils.AppLogger, store *db.Store, client *llm.Client, tracker *analytics.Tracker) *Model {
	input := textinput.New()
	input.Placeholder = "Type a message, or /help for commands"
	input.CharLimit = 0
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(assistantLabelStyle),
	)

	m := &Model{
		config:  config,
		logger:  logger,
		store:   store,
		client:  client,
		tracker: tracker,
		catalog: client.Models(),
		input:   input,
		spin:    spin,
		balance: "...",
	}

	if len(m.catalog) > 0 {
		m.selectedModel = m.catalog[0].ID
	}

	m.loadHistory()

	return m
}

// loadHistory renders the stored history into the transcript, oldest first
func (m *Model) loadHistory() {
	history, err := m.store.GetChatHistory(historyLimit)
	if err != nil {
		m.logger.Error("Failed to load chat history: %v", err)
		m.appendLine(lineError, fmt.Sprintf("Failed to load chat history: %v", err))
		return
	}

	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		m.appendLine(lineUser, msg.UserMessage)
		m.appendLine(lineAssistant, msg.AIResponse)
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.balanceCmd())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 4
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 4
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if m.confirmingClear {
			m.confirmingClear = false
			if msg.String() == "y" || msg.String() == "Y" {
				m.clearAll()
			} else {
				m.appendLine(lineSystem, "Clear cancelled.")
				m.refreshViewport()
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleSubmit()
		}

	case responseMsg:
		return m.handleResponse(msg)

	case balanceMsg:
		m.balance = string(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.logger.Error("Export failed: %v", msg.err)
			m.appendLine(lineError, fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			m.appendLine(lineSystem, "History exported to "+msg.path)
		}
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if m.sending {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleSubmit processes the current input line
func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.handleCommand(text)
	}

	if m.sending {
		m.status = "A request is already in flight"
		return m, nil
	}

	m.input.SetValue("")
	m.status = ""
	m.sending = true
	m.appendLine(lineUser, text)
	m.refreshViewport()

	return m, tea.Batch(m.spin.Tick, m.sendCmd(text))
}

// handleResponse finalizes one exchange: classify, persist, track, render
func (m *Model) handleResponse(msg responseMsg) (tea.Model, tea.Cmd) {
	m.sending = false

	responseText := msg.result.Text
	tokensUsed := msg.result.TokensUsed
	kind := lineAssistant
	if msg.result.Failed() {
		responseText = "Error: " + msg.result.Err
		tokensUsed = 0
		kind = lineError
	}

	if err := m.store.SaveMessage(m.selectedModel, msg.userText, responseText, tokensUsed); err != nil {
		m.logger.Error("Failed to save message: %v", err)
		m.status = fmt.Sprintf("Failed to save message: %v", err)
	}

	if err := m.tracker.TrackMessage(m.selectedModel, utf8.RuneCountInString(msg.userText), msg.elapsed, tokensUsed); err != nil {
		m.logger.Error("Failed to track message: %v", err)
	}

	m.appendLine(kind, responseText)
	m.refreshViewport()

	return m, m.balanceCmd()
}

// handleCommand dispatches slash commands
func (m *Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)

	switch fields[0] {
	case "/quit", "/q":
		return m, tea.Quit

	case "/help":
		m.appendLine(lineSystem, strings.Join([]string{
			"/models          list available models",
			"/model <n|id>    select a model",
			"/balance         refresh credit balance",
			"/stats           usage statistics",
			"/usage           per-model breakdown",
			"/export          export history to JSON",
			"/clear           clear history and analytics",
			"/quit            exit",
		}, "\n"))

	case "/models":
		var sb strings.Builder
		sb.WriteString("Available models:\n")
		for i, info := range m.catalog {
			marker := "  "
			if info.ID == m.selectedModel {
				marker = "* "
			}
			sb.WriteString(fmt.Sprintf("%s%3d. %s (%s)\n", marker, i+1, info.Name, info.ID))
		}
		m.appendLine(lineSystem, strings.TrimRight(sb.String(), "\n"))

	case "/model":
		if len(fields) < 2 {
			m.appendLine(lineSystem, "Usage: /model <number|id>")
			break
		}
		m.selectModel(fields[1])

	case "/balance":
		m.appendLine(lineSystem, "Refreshing balance...")
		m.refreshViewport()
		return m, m.balanceCmd()

	case "/stats":
		stats := m.tracker.GetStatistics()
		m.appendLine(lineSystem, strings.Join([]string{
			fmt.Sprintf("Total messages:      %d", stats.TotalMessages),
			fmt.Sprintf("Total tokens:        %d", stats.TotalTokens),
			fmt.Sprintf("Tokens per message:  %.2f", stats.TokensPerMessage),
			fmt.Sprintf("Messages per minute: %.2f", stats.MessagesPerMinute),
		}, "\n"))

	case "/usage":
		m.showUsage()

	case "/export":
		return m, m.exportCmd()

	case "/clear":
		m.confirmingClear = true
		m.appendLine(lineSystem, "Clear chat history and analytics? Press y to confirm.")

	default:
		m.appendLine(lineSystem, "Unknown command: "+fields[0])
	}

	m.refreshViewport()
	return m, nil
}

// selectModel switches the target model by catalog index or id
func (m *Model) selectModel(arg string) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(m.catalog) {
			m.appendLine(lineSystem, fmt.Sprintf("No model %d; see /models", n))
			return
		}
		m.selectedModel = m.catalog[n-1].ID
		m.appendLine(lineSystem, "Model set to "+m.selectedModel)
		return
	}

	for _, info := range m.catalog {
		if info.ID == arg {
			m.selectedModel = info.ID
			m.appendLine(lineSystem, "Model set to "+m.selectedModel)
			return
		}
	}
	m.appendLine(lineSystem, "Unknown model: "+arg)
}

// showUsage renders the per-model breakdown and store statistics
func (m *Model) showUsage() {
	usage, err := m.store.GetModelUsage()
	if err != nil {
		m.logger.Error("Failed to get model usage: %v", err)
		m.appendLine(lineError, fmt.Sprintf("Failed to get model usage: %v", err))
		return
	}

	var sb strings.Builder
	sb.WriteString("Usage by model:\n")
	if len(usage) == 0 {
		sb.WriteString("  no recorded usage\n")
	}
	for _, u := range usage {
		sb.WriteString(fmt.Sprintf("  %-32s %5d msgs  %8d tokens  %6.2fs avg\n",
			u.Model, u.MessageCount, u.TotalTokens, u.AvgResponseTime))
	}

	if stats, err := m.store.GetStats(); err == nil {
		sb.WriteString(fmt.Sprintf("Database: %d messages, %d samples, %d bytes",
			stats.MessageCount, stats.AnalyticsCount, stats.DBSizeBytes))
	}

	m.appendLine(lineSystem, strings.TrimRight(sb.String(), "\n"))
}

// clearAll clears chat history and analytics together
func (m *Model) clearAll() {
	if err := m.store.ClearHistory(); err != nil {
		m.logger.Error("Failed to clear history: %v", err)
		m.appendLine(lineError, fmt.Sprintf("Failed to clear history: %v", err))
		m.refreshViewport()
		return
	}
	if err := m.tracker.ClearData(); err != nil {
		m.logger.Error("Failed to clear analytics: %v", err)
		m.appendLine(lineError, fmt.Sprintf("Failed to clear analytics: %v", err))
		m.refreshViewport()
		return
	}

	m.transcript = nil
	m.appendLine(lineSystem, "History cleared.")
	m.refreshViewport()
}

func (m *Model) appendLine(kind lineKind, text string) {
	m.transcript = append(m.transcript, chatLine{kind: kind, text: text})
}

// refreshViewport re-renders the transcript at the current width
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	if width < 10 {
		width = 10
	}
	body := lipgloss.NewStyle().Width(width)

	var sb strings.Builder
	for _, line := range m.transcript {
		switch line.kind {
		case lineUser:
			sb.WriteString(userLabelStyle.Render("You"))
			sb.WriteString("\n")
			sb.WriteString(body.Render(line.text))
		case lineAssistant:
			sb.WriteString(assistantLabelStyle.Render("Assistant"))
			sb.WriteString("\n")
			sb.WriteString(body.Render(line.text))
		case lineError:
			sb.WriteString(assistantLabelStyle.Render("Assistant"))
			sb.WriteString("\n")
			sb.WriteString(body.Render(errorStyle.Render(line.text)))
		case lineSystem:
			sb.WriteString(body.Render(systemStyle.Render(line.text)))
		}
		sb.WriteString("\n\n")
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

// View implements tea.Model
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	status := statusBarStyle.Render(fmt.Sprintf("%s │ balance: %s",
		m.selectedModel, balanceStyle.Render(m.balance)))
	if m.status != "" {
		status += " " + errorStyle.Render(m.status)
	}

	inputLine := m.input.View()
	if m.sending {
		inputLine = m.spin.View() + " waiting for response..."
	}

	help := helpStyle.Render("enter: send │ /help: commands │ ctrl+c: quit")

	return fmt.Sprintf("%s\n%s\n%s\n%s", status, m.viewport.View(), inputLine, help)
}
