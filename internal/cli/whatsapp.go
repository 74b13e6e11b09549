package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/funil/internal/notify"
	"github.com/thenoetrevino/funil/internal/pipeline"
	"github.com/thenoetrevino/funil/internal/quickaction"
	"github.com/thenoetrevino/funil/internal/types"
)

// whatsAppResult is the outcome of the whatsapp command
type whatsAppResult struct {
	OpportunityID types.OpportunityID `json:"opportunity_id"`
	Link          string              `json:"link"`
	Recorded      bool                `json:"recorded"`
}

func (r whatsAppResult) GetID() int { return int(r.OpportunityID) }

// WhatsAppCmd returns the whatsapp command
func WhatsAppCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Open a WhatsApp chat with an opportunity's client and record the contact",
		Long: `Open the client's WhatsApp chat for an opportunity, then record the contact
as an interaction. If the chat opens but recording fails, the command exits with
code 8.

Examples:
  funil whatsapp --id 12
  funil whatsapp --id 12 --message "Bom dia! Segue a proposta."

  # Print the link instead of opening a browser
  funil whatsapp --id 12 --print
`,
		Args: noArgs,
		RunE: runWhatsApp,
	}

	cmd.Flags().Int("id", 0, "Opportunity ID (required)")
	cmd.Flags().String("message", "", "Prefilled message")
	cmd.Flags().Bool("print", false, "Print the link instead of opening it")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runWhatsApp(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := AppFromContext(ctx)
	if err != nil {
		return err
	}

	rawID, _ := cmd.Flags().GetInt("id")
	message, _ := cmd.Flags().GetString("message")
	printOnly, _ := cmd.Flags().GetBool("print")
	id := types.OpportunityID(rawID)

	board := app.NewBoard()
	if _, err := board.Load(ctx); err != nil {
		return err
	}
	card, ok := board.Card(id)
	if !ok {
		return notFound(fmt.Errorf("opportunity %d: %w", id, pipeline.ErrUnknownCard),
			"Use 'funil pipeline show' to list opportunities; check --seller")
	}

	result := whatsAppResult{OpportunityID: id}
	opener := quickaction.OpenerFunc(func(link string) error {
		result.Link = link
		if printOnly {
			return nil
		}
		return quickaction.BrowserOpener.Open(link)
	})

	err = app.NewDispatcher(opener).Dispatch(ctx, quickaction.KindWhatsApp, quickaction.Context{
		Card:     card,
		SellerID: app.Seller(),
		Message:  message,
	})
	formatter := formatterFor(cmd)
	var audit *quickaction.AuditError
	switch {
	case err == nil:
		result.Recorded = true
	case errors.As(err, &audit):
		// the chat is open; report it before the partial failure
	default:
		return err
	}

	if formatter.JSON || formatter.Quiet {
		if ferr := formatter.Success(result); ferr != nil {
			return ferr
		}
	} else {
		if printOnly {
			formatter.Printf("%s\n", result.Link)
		}
		for _, n := range app.Notifier.All() {
			formatter.Printf("%s %s\n", levelIcon(n.Level), n.Message)
		}
	}
	if audit != nil {
		return &CommandError{Code: "AUDIT_FAILED", Exit: ExitPartial, Err: audit, Reported: formatter.JSON}
	}
	return nil
}

func levelIcon(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return "✓"
	case notify.LevelWarning:
		return "!"
	case notify.LevelError:
		return "✗"
	case notify.LevelInfo:
		return "i"
	}
	return "-"
}
