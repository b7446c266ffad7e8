package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"routemap/internal/api"
	"routemap/internal/config"
	"routemap/internal/tui"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// the terminal belongs to the map, so the log goes to a file
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()

	logger := log.New()
	logger.SetOutput(f)
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := api.NewClient(cfg.ServerURL, http.DefaultClient)
	m, err := tui.New(ctx, client, logger)
	if err != nil {
		logger.Fatal(err)
	}
	logger.WithField("server", client.BaseURL()).Info("routemap started")

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx)).Run(); err != nil {
		logger.WithError(err).Error("program exited")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
