package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/funil/internal/models"
	"github.com/thenoetrevino/funil/internal/pipeline"
	"github.com/thenoetrevino/funil/internal/types"
)

// PipelineCmd returns the pipeline parent command
func PipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Inspect and update the sales pipeline",
	}

	cmd.AddCommand(pipelineShowCmd())
	cmd.AddCommand(pipelineMoveCmd())
	cmd.AddCommand(pipelineSummaryCmd())

	return cmd
}

// pipelineShowCmd returns the pipeline show subcommand
func pipelineShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the pipeline stages and their opportunities",
		Long: `Show every stage of the pipeline with its opportunities in board order.

Examples:
  # Whole pipeline for the configured seller
  funil pipeline show

  # One stage, by id or name (case-insensitive)
  funil pipeline show --stage "em negociação"

  # JSON output for scripts
  funil pipeline show --seller 2 --json
`,
		Args: noArgs,
		RunE: runPipelineShow,
	}

	cmd.Flags().String("stage", "", "Only show this stage (id or name)")

	return cmd
}

func runPipelineShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := AppFromContext(ctx)
	if err != nil {
		return err
	}

	snap, err := app.NewBoard().Load(ctx)
	if err != nil {
		return err
	}

	stages := snap.Stages
	if ref, _ := cmd.Flags().GetString("stage"); ref != "" {
		stage, err := findStage(snap, ref)
		if err != nil {
			return err
		}
		stages = []*models.Stage{stage}
	}

	formatter := formatterFor(cmd)
	switch {
	case formatter.Quiet:
		for _, stage := range stages {
			for _, card := range stage.Cards {
				_, _ = fmt.Fprintln(formatter.out(), card.ID)
			}
		}
		return nil
	case formatter.JSON:
		return formatter.Success(stages)
	}

	renderStages(formatter.out(), stages)
	return nil
}

// moveResult is the outcome of pipeline move
type moveResult struct {
	OpportunityID types.OpportunityID `json:"opportunity_id"`
	FromStage     string              `json:"from_stage"`
	ToStage       string              `json:"to_stage"`
	Moved         bool                `json:"moved"`
}

func (r moveResult) GetID() int { return int(r.OpportunityID) }

// pipelineMoveCmd returns the pipeline move subcommand
func pipelineMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move an opportunity to another stage",
		Long: `Move an opportunity to another stage by stage id or name.

Examples:
  # Move by stage name (case-insensitive)
  funil pipeline move --id 12 --stage "proposta enviada"

  # Move by stage id, JSON output
  funil pipeline move --id 12 --stage 3 --json

  # Quiet mode for bash capture
  funil pipeline move --id 12 --stage 4 --quiet
`,
		Args: noArgs,
		RunE: runPipelineMove,
	}

	cmd.Flags().Int("id", 0, "Opportunity ID (required)")
	cmd.Flags().String("stage", "", "Target stage id or name (required)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("stage")

	return cmd
}

func runPipelineMove(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := AppFromContext(ctx)
	if err != nil {
		return err
	}

	rawID, _ := cmd.Flags().GetInt("id")
	ref, _ := cmd.Flags().GetString("stage")
	if rawID <= 0 {
		return usageError(fmt.Errorf("--id must be positive, got %d", rawID))
	}
	id := types.OpportunityID(rawID)

	board := app.NewBoard()
	snap, err := board.Load(ctx)
	if err != nil {
		return err
	}

	from, _, ok := board.Locate(id)
	if !ok {
		return notFound(fmt.Errorf("opportunity %d: %w", id, pipeline.ErrUnknownCard),
			"Use 'funil pipeline show' to list opportunities; check --seller")
	}
	target, err := findStage(snap, ref)
	if err != nil {
		return err
	}

	result := moveResult{OpportunityID: id, FromStage: snap.Stage(from).Label, ToStage: target.Label}
	if target.ID != from {
		if err := board.CommitMove(ctx, id, target.ID); err != nil {
			return err
		}
		result.Moved = true
	}

	formatter := formatterFor(cmd)
	if formatter.Quiet || formatter.JSON {
		return formatter.Success(result)
	}
	if result.Moved {
		formatter.Printf("Opportunity %d moved from '%s' to '%s'\n", id, result.FromStage, result.ToStage)
	} else {
		formatter.Printf("Opportunity %d is already in '%s'\n", id, result.ToStage)
	}
	return nil
}

// pipelineSummaryCmd returns the pipeline summary subcommand
func pipelineSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show card counts and estimated value per stage",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := AppFromContext(ctx)
			if err != nil {
				return err
			}

			board := app.NewBoard()
			if _, err := board.Load(ctx); err != nil {
				return err
			}
			stats := board.Stats()

			formatter := formatterFor(cmd)
			if formatter.JSON || formatter.Quiet {
				return formatter.Success(stats)
			}

			t := table.NewWriter()
			t.SetOutputMirror(formatter.out())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Stage", "Cards", "Value"})
			for _, s := range stats.Stages {
				t.AppendRow(table.Row{s.Label, s.Cards, formatValue(s.Value)})
			}
			t.AppendFooter(table.Row{"Total", stats.TotalCards, formatValue(stats.TotalValue)})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
				{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
			})
			t.Render()
			return nil
		},
	}
}

// findStage resolves a stage by id or case-insensitive name
func findStage(snap *models.Snapshot, ref string) (*models.Stage, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if stage := snap.Stage(types.StageID(n)); stage != nil {
			return stage, nil
		}
	}
	for _, stage := range snap.Stages {
		if strings.EqualFold(stage.Label, ref) {
			return stage, nil
		}
	}
	return nil, notFound(fmt.Errorf("stage '%s': %w", ref, pipeline.ErrUnknownStage),
		"Available stages: "+formatStages(snap))
}

// formatStages lists stages as "1 Novo, 2 Em Negociação"
func formatStages(snap *models.Snapshot) string {
	parts := make([]string, 0, len(snap.Stages))
	for _, stage := range snap.Stages {
		parts = append(parts, fmt.Sprintf("%d %s", stage.ID, stage.Label))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v float64) string {
	return "R$ " + strconv.FormatFloat(v, 'f', 2, 64)
}

// renderStages draws one table per stage
func renderStages(w io.Writer, stages []*models.Stage) {
	for _, stage := range stages {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(fmt.Sprintf("%s (%d)", stage.Label, stage.Len()))
		t.AppendHeader(table.Row{"ID", "Title", "Client", "Value", "Last contact"})
		for _, card := range stage.Cards {
			t.AppendRow(table.Row{card.ID, card.Title, card.ClientName, formatValue(card.EstimatedValue), card.LastContact})
		}
		if stage.Len() == 0 {
			t.AppendRow(table.Row{"", "(empty)", "", "", ""})
		}
		t.Render()
		_, _ = fmt.Fprintln(w)
	}
}

// noArgs rejects positional arguments as a usage error
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError(err)
	}
	return nil
}
