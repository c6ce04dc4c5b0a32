package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pauldambra/causal-flows/flow"
	"github.com/pauldambra/causal-flows/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the description with a live diagram in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	session := flow.NewSession(st)
	defer session.Close()
	if err := session.Load(cmd.Context()); err != nil {
		return err
	}

	model := tui.NewModel(session, viper.GetDuration("debounce"))
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}
