package cli

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/funil/internal/launcher"
	"github.com/thenoetrevino/funil/internal/quickaction"
	"github.com/thenoetrevino/funil/internal/tui"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive pipeline board",
		Long: `Open the pipeline as a Kanban board in the terminal.

Grab a card with space, walk it to another stage with h/l and j/k, and drop it
with enter. The card moves at once; if the server refuses the move the board
rolls back and reloads. Press tab for the dashboard and ? for all keys.

Examples:
  funil board
  funil board --seller 3
  funil board --rollback invert
`,
		Args: noArgs,
		RunE: runBoard,
	}
}

func runBoard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := AppFromContext(ctx)
	if err != nil {
		return err
	}

	board := app.NewBoard()
	controller, err := app.NewController(board)
	if err != nil {
		return usageError(err)
	}

	return launcher.Launch(ctx, tui.Deps{
		Board:      board,
		Controller: controller,
		Dispatcher: app.NewDispatcher(quickaction.BrowserOpener),
		Aggregator: app.NewAggregator(),
		Notifier:   app.Notifier,
		Config:     app.Config,
		Seller:     app.Seller(),
	})
}
