// Package core wires the board model into a Bubble Tea program.
package core

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/funil/internal/tui"
)

// App wraps the TUI Model and implements the tea.Model interface.
// It delegates all operations to the underlying Model.
type App struct {
	model *tui.Model
}

// New creates a new App with an initialized Model.
func New(ctx context.Context, deps tui.Deps) *App {
	return &App{model: tui.NewModel(ctx, deps)}
}

// Init initializes the Bubble Tea application.
func (a *App) Init() tea.Cmd {
	return a.model.Init()
}

// Update handles all messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a, a.model.Update(msg)
}

// View renders the current state of the application.
func (a *App) View() tea.View {
	return a.model.View()
}

// Shutdown stops the model's background work
func (a *App) Shutdown() {
	a.model.Shutdown()
}

// GetModel returns the underlying Model.
// This is primarily useful for testing purposes.
func (a *App) GetModel() *tui.Model {
	return a.model
}
