package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"openrouter-chat/llm"
	"openrouter-chat/utils"
)

// responseMsg carries the outcome of a completion request back to the UI loop
type responseMsg struct {
	userText string
	result   *llm.SendResult
	elapsed  float64 // seconds
}

// balanceMsg carries a refreshed balance string
type balanceMsg string

// exportDoneMsg carries the result of a history export
type exportDoneMsg struct {
	path string
	err  error
}

// sendCmd dispatches a completion request off the UI loop and measures the
// response time around it.
func (m *Model) sendCmd(text string) tea.Cmd {
	client := m.client
	model := m.selectedModel
	return func() tea.Msg {
		start := time.Now()
		result := client.SendMessage(context.Background(), text, model)
		return responseMsg{
			userText: text,
			result:   result,
			elapsed:  time.Since(start).Seconds(),
		}
	}
}

// balanceCmd refreshes the credit balance in the background
func (m *Model) balanceCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return balanceMsg(client.GetBalance(context.Background()))
	}
}

// exportCmd writes the chat history to the export directory
func (m *Model) exportCmd() tea.Cmd {
	store := m.store
	dir := m.config.ExportDir
	return func() tea.Msg {
		path, err := utils.ExportChatHistory(store, dir)
		return exportDoneMsg{path: path, err: err}
	}
}
