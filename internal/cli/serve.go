package cli

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/funil/internal/config"
	"github.com/thenoetrevino/funil/internal/database"
	"github.com/thenoetrevino/funil/internal/server"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a development CRM backend on SQLite",
		Long: `Run a local implementation of the CRM endpoints the board uses, backed by a
seeded SQLite database. Point the board at it with --api-origin.

Examples:
  # Persistent database under ~/.funil
  funil serve

  # Throwaway in-memory database on another port
  funil serve --database :memory: --addr 127.0.0.1:4000

  # Refuse every move, to watch the board roll back
  funil serve --fail-moves
`,
		Args: noArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", config.DefaultServerAddr, "Listen address")
	cmd.Flags().String("database", "", "SQLite database path, or :memory: (default ~/.funil/crm.db)")
	cmd.Flags().Bool("fail-moves", false, "Answer every move with success=false")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := AppFromContext(ctx)
	if err != nil {
		return err
	}

	path := app.Config.Server.Database
	if path == "" {
		if path, err = database.DefaultPath(); err != nil {
			return err
		}
	}

	db, err := database.InitDB(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			app.Logger.Error("failed to close database", "error", err)
		}
	}()

	srv := server.NewServer(server.Config{
		Store:     database.NewRepository(db),
		Addr:      app.Config.Server.Addr,
		FailMoves: app.Config.Server.FailMoves,
		Logger:    app.Logger,
	})
	return srv.Serve(ctx)
}
