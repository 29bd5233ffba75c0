package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pingcheck/internal/models"
)

var (
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0A714F")).Bold(true)
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B31212")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#97979B"))
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Send a single ping and print the log entry",
		RunE:  runPing,
	}
}

func runPing(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	chk := newChecker(cfg, logger)
	entry, err := chk.SendPing(cmd.Context())
	if err != nil {
		return err
	}

	printEntry(cmd.OutOrStdout(), chk.Snapshot().Project, entry)
	if chk.Status() == models.StatusError {
		return fmt.Errorf("ping failed with status %d", entry.Status)
	}
	return nil
}

func printEntry(w io.Writer, project models.Project, entry models.LogEntry) {
	status := normalStyle.Render(fmt.Sprintf("%d", entry.Status))
	if entry.Alert() {
		status = alertStyle.Render(fmt.Sprintf("%d", entry.Status))
	}
	fmt.Fprintf(w, "%s  %s  %s %s  %s\n",
		dimStyle.Render(entry.Date.Format("Jan 2, 03:04 PM")),
		status,
		entry.Method,
		entry.Path,
		entry.Response)
	fmt.Fprintf(w, "%s %s (%s)\n", dimStyle.Render("project"), project.Name, project.ID)
}
