package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/saravenpi/parley/internal/api"
	"github.com/saravenpi/parley/internal/config"
	"github.com/saravenpi/parley/internal/session"
	"github.com/saravenpi/parley/internal/ui"
)

const version = "1.0.0"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "-v", "--version":
			fmt.Printf("Parley v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		default:
			fmt.Printf("Unknown command: %s\n", os.Args[1])
			printHelp()
			os.Exit(1)
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Printf("Error: failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	sess, err := session.Open(filepath.Join(config.Dir(), "credentials.yml"))
	if err != nil {
		sugar.Errorw("failed to open session store", "error", err)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(&api.ClientConfig{
		BaseURL: cfg.ServerURL,
		Timeout: cfg.Timeout,
	}, sess, sugar)

	app := &ui.App{
		Client:  client,
		Session: sess,
		Logger:  sugar,
	}

	sugar.Infow("starting", "version", version, "server", cfg.ServerURL)

	initialModel := ui.NewLoginModel(app)
	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		sugar.Errorw("program exited with error", "error", err)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a production zap logger writing to the given file. The
// terminal belongs to the TUI, so nothing is logged to stdout or stderr.
func newLogger(path string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{path}
	logCfg.ErrorOutputPaths = []string{path}
	return logCfg.Build()
}

func printHelp() {
	help := `Parley - Terminal Chat Client

Usage:
  parley             Start the chat client
  parley version     Show version information
  parley help        Show this help message

Login:
  tab               Switch field
  enter             Log in
  ctrl+r            Open the registration form

Register:
  tab/↑↓            Navigate fields
  enter             Register
  esc               Back to login

Chats:
  ↑/↓ or j/k        Navigate the chat list
  enter             Open the highlighted chat
  m or tab          Compose a message in the open chat
  /                 Search chats by name
  n                 Start a new chat by username
  r                 Refresh the chat list
  ctrl+l            Log out
  q                 Quit
  ctrl+c            Force quit

Configuration:
  Settings are read from ~/.parley/config.yml (server_url, timeout,
  log_file) and may be overridden with PARLEY_SERVER_URL, PARLEY_TIMEOUT
  and PARLEY_LOG_FILE.

Notes:
  - Credentials are stored in ~/.parley/credentials.yml
  - Messages typed here are not yet delivered to the backend
`
	fmt.Print(help)
}
