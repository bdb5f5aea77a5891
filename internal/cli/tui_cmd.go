package cli

import (
	"github.com/alexanderramin/listapp/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and reorder lists full screen",
		Long: `Start the full-screen interface. Lists open into an editor where items
can be dragged with the mouse, or grabbed with space and moved with the
arrow keys. Reorders show at once and are undone if the server refuses
them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}
}

func runTUI(app *App) error {
	formatter.ApplyColorProfile()
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
