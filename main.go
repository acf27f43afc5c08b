package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"openrouter-chat/analytics"
	"openrouter-chat/db"
	"openrouter-chat/llm"
	"openrouter-chat/ui"
	"openrouter-chat/utils"
)

var (
	version = "0.1.0"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("OpenRouter Chat v%s\n", version)
		os.Exit(0)
	}

	config, err := utils.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.GetLogPath(), config.LogLevel, config.Debug)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting OpenRouter Chat v%s", version)

	store, err := db.Open(config.DataDir)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	logger.Info("Database initialized: %s", config.DBPath())

	client, err := llm.New(config, logger)
	if err != nil {
		logger.Error("Failed to initialize API client: %v", err)
		os.Exit(1)
	}

	tracker := analytics.NewTracker(store, logger)

	model := ui.NewModel(config, logger, store, client, tracker)
	program := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("Application started")
	if _, err := program.Run(); err != nil {
		logger.Error("Application error: %v", err)
		os.Exit(1)
	}
	logger.Info("Application stopped")
}
