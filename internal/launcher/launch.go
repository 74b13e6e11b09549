// Package launcher runs the interactive board until the user quits or the
// process is signalled.
package launcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/funil/internal/config"
	"github.com/thenoetrevino/funil/internal/tui"
	"github.com/thenoetrevino/funil/internal/tui/components"
	"github.com/thenoetrevino/funil/internal/tui/core"
	"github.com/thenoetrevino/funil/internal/tui/theme"
)

// drainTimeout bounds how long exit waits for in-flight commits
const drainTimeout = 5 * time.Second

// Launch starts the TUI application
func Launch(ctx context.Context, deps tui.Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if deps.Config == nil {
		deps.Config = config.Default()
	}
	theme.Init(deps.Config.ColorScheme)
	components.InitStyles()

	tuiApp := core.New(ctx, deps)
	p := tea.NewProgram(tuiApp, tea.WithContext(ctx))

	// goroutine to monitor cancellation
	errChan := make(chan error, 1)
	go func() {
		_, err := p.Run()
		errChan <- err
	}()

	var runErr error
	select {
	case err := <-errChan:
		if err != nil {
			runErr = fmt.Errorf("error running program: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received, cleaning up")
	}
	cancel()

	// moves already dropped keep committing; give them a bounded chance to land
	drained := make(chan struct{})
	go func() {
		tuiApp.Shutdown()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		slog.Warn("gave up waiting for pending moves", "timeout", drainTimeout)
	}
	return runErr
}
