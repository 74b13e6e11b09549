// Package cli implements funil's command line: the interactive board, one-shot
// pipeline and dashboard commands, and the development backend.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/funil/internal/config"
	"github.com/thenoetrevino/funil/internal/logging"
)

// program holds the state of one invocation
type program struct {
	cfgFile string
	stdout  io.Writer
	stderr  io.Writer
	root    *cobra.Command
	app     *App
}

// Execute runs the CLI with the process arguments and returns the exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes one command line and returns its exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	p := &program{stdout: stdout, stderr: stderr}
	root := p.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if p.app != nil {
		if cerr := p.app.Close(); cerr != nil {
			slog.Error("failed to close app", "error", cerr)
		}
	}
	if err == nil {
		return ExitSuccess
	}

	code, exit := Classify(err)
	if exit == ExitError && isCobraUsage(err) {
		code, exit = "USAGE_ERROR", ExitUsage
	}

	var suggestion string
	var exitErr *CommandError
	if errors.As(err, &exitErr) {
		if exitErr.Reported {
			return exit
		}
		suggestion = exitErr.Suggestion
	}
	if fmtErr := p.formatter().ErrorWithSuggestion(code, err.Error(), suggestion); fmtErr != nil {
		slog.Error("failed to format error message", "error", fmtErr)
	}
	return exit
}

func (p *program) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "funil",
		Short: "Funil - a terminal sales pipeline board",
		Long: `Funil shows a CRM sales pipeline as a kanban board. Cards are dragged between
stages optimistically: the board moves at once and rolls back if the backend refuses.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: p.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&p.cfgFile, "config", "", "Config file (default $XDG_CONFIG_HOME/funil/config.yaml)")
	flags.Bool("json", false, "Output in JSON format")
	flags.Bool("quiet", false, "Minimal output")
	flags.String("api-origin", config.DefaultOrigin, "CRM API origin")
	flags.Duration("timeout", config.DefaultAPITimeout, "Per-request timeout")
	flags.String("tenant", "", "Tenant identifier sent with every request")
	flags.String("token", "", "Session token sent with every request")
	flags.Int("seller", 0, "Only show this seller's opportunities (0 = all)")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("rollback", "snapshot", "Rollback policy for refused moves (snapshot, invert)")
	flags.Duration("refresh", config.DefaultRefreshInterval, "Dashboard refresh interval")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.AddCommand(BoardCmd())
	cmd.AddCommand(PipelineCmd())
	cmd.AddCommand(StatsCmd())
	cmd.AddCommand(WhatsAppCmd())
	cmd.AddCommand(ServeCmd())
	cmd.AddCommand(ConfigCmd())

	p.root = cmd
	return cmd
}

// setup loads the configuration, starts logging and stores the App in the context
func (p *program) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(p.cfgFile, cmd.Flags())
	if err != nil {
		return usageError(err)
	}

	var logCloser io.Closer
	if cmd.Name() == "serve" {
		err = logging.InitWriter(p.stderr, cfg.LogLevel)
	} else {
		// interactive and one-shot commands keep the terminal for their own output
		logCloser, err = logging.Init(cfg.LogLevel)
		if err != nil {
			err = logging.InitWriter(io.Discard, cfg.LogLevel)
		}
	}
	if err != nil {
		return usageError(err)
	}

	p.app = NewApp(cfg, slog.Default())
	p.app.logCloser = logCloser
	cmd.SetContext(WithApp(cmd.Context(), p.app))
	return nil
}

// formatter builds the output formatter from the global --json and --quiet flags
func (p *program) formatter() *OutputFormatter {
	f := &OutputFormatter{Out: p.stdout, Err: p.stderr}
	if p.root != nil {
		f.JSON, _ = p.root.PersistentFlags().GetBool("json")
		f.Quiet, _ = p.root.PersistentFlags().GetBool("quiet")
	}
	return f
}

// formatterFor builds the output formatter inside a command
func formatterFor(cmd *cobra.Command) *OutputFormatter {
	f := &OutputFormatter{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
	f.JSON, _ = cmd.Flags().GetBool("json")
	f.Quiet, _ = cmd.Flags().GetBool("quiet")
	return f
}

// isCobraUsage recognizes the argument errors cobra returns unwrapped
func isCobraUsage(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "required flag", "accepts ", "requires at least", "unknown flag", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
