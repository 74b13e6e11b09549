package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/funil/internal/dashboard"
)

// statsView is the JSON shape of a dashboard fetch; failed sections carry an error
// message instead of rows
type statsView struct {
	Team       any               `json:"team"`
	Industries any               `json:"industries"`
	Birthdays  any               `json:"birthdays"`
	Errors     map[string]string `json:"errors,omitempty"`
	FetchedAt  string            `json:"fetched_at"`
}

func newStatsView(d dashboard.Dashboard) statsView {
	v := statsView{FetchedAt: d.FetchedAt.Format("2006-01-02T15:04:05Z07:00")}
	fail := func(name string, err error) {
		if v.Errors == nil {
			v.Errors = map[string]string{}
		}
		v.Errors[name] = err.Error()
	}

	if d.Team.OK() {
		v.Team = d.Team.Rows
	} else {
		fail("team", d.Team.Err)
	}
	if d.Industries.OK() {
		v.Industries = d.Industries.Rows
	} else {
		fail("industries", d.Industries.Err)
	}
	if d.Birthdays.OK() {
		v.Birthdays = d.Birthdays.Rows
	} else {
		fail("birthdays", d.Birthdays.Err)
	}
	return v
}

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the CRM dashboard: team activity, industries and birthdays",
		Long: `Fetch the dashboard sections concurrently and print them as ranked tables.
A section that fails to load is reported as unavailable; the others still print
and the command exits with code 8.

Examples:
  funil stats
  funil stats --json
`,
		Args: noArgs,
		RunE: runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := AppFromContext(ctx)
	if err != nil {
		return err
	}

	d := app.NewAggregator().Fetch(ctx)

	formatter := formatterFor(cmd)
	if formatter.JSON || formatter.Quiet {
		if err := formatter.Success(newStatsView(d)); err != nil {
			return err
		}
	} else {
		dashboard.Render(formatter.out(), d)
	}

	if failed := d.Failed(); len(failed) > 0 {
		err := fmt.Errorf("sections unavailable: %s", strings.Join(failed, ", "))
		return &CommandError{Code: "PARTIAL", Exit: ExitPartial, Err: err, Reported: formatter.JSON}
	}
	return nil
}
