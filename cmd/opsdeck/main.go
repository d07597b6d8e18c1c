package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/opsdeck/opsdeck/internal/app"
	"github.com/opsdeck/opsdeck/internal/config"
	"github.com/opsdeck/opsdeck/internal/jsm"
	"github.com/opsdeck/opsdeck/internal/logger"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
	logLevel   string
	logFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "opsdeck",
		Short: "Terminal dashboard for open incident-management alerts",
		Long: `opsdeck is a terminal dashboard for the open alerts of a Jira Service
Management Operations tenant. It refreshes the alert list in the
background and lets you acknowledge, close, and inspect alerts without
leaving the keyboard.

Credentials come from the environment (or a .env file):
  OPSDECK_API_CLOUD_ID       tenant cloud id (required)
  OPSDECK_API_BEARER_TOKEN   bearer token, or
  OPSDECK_API_EMAIL + OPSDECK_API_TOKEN for basic auth`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.config/opsdeck/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path (default ~/.config/opsdeck/opsdeck.log)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}

	logger.Init(logger.ParseLevel(cfg.Log.Level), cfg.Log.File)
	defer logger.Close()
	logger.Info("starting opsdeck", "version", version)

	client := jsm.NewClient(jsm.Options{
		BaseURL:     cfg.API.BaseURL(),
		Email:       cfg.API.Email,
		APIToken:    cfg.API.Token,
		BearerToken: cfg.API.BearerToken,
		PageSize:    cfg.API.PageSize,
		LogHTTPBody: cfg.API.LogHTTPBody,
	})

	model := app.New(cfg, client, cfg.API.Email)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	if m, ok := finalModel.(*app.Model); ok {
		m.Cleanup()
	}
	return nil
}
