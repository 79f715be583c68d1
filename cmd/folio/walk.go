package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/folio/internal/session"
	"github.com/alfredjeanlab/folio/internal/tui"
	"github.com/alfredjeanlab/folio/internal/ui"
)

var walkCmd = &cobra.Command{
	Use:     "walk [code]",
	Short:   "Walk through a portfolio in the terminal",
	GroupID: "viewers",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return errors.New("walk needs an interactive terminal")
		}
		var code string
		if len(args) == 1 {
			code = args[0]
		}

		registry := session.NewRegistry(folioClient, nil)
		sess, err := registry.Create()
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		defer registry.Delete(sess.ID)

		p := tea.NewProgram(tui.New(cmd.Context(), sess, code), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("walkthrough: %w", err)
		}
		return nil
	},
}
