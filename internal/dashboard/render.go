package dashboard

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Render writes the dashboard as ranked tables. A failed section prints an
// unavailable line in place of its table.
func Render(w io.Writer, d Dashboard) {
	section(w, "Team activity", d.Team.Err, len(d.Team.Rows), func(t table.Writer) {
		t.AppendHeader(table.Row{"#", "Seller", "Interactions"})
		for i, r := range d.Team.Rows {
			t.AppendRow(table.Row{i + 1, r.SellerName, r.Interactions})
		}
	})
	section(w, "Industries", d.Industries.Err, len(d.Industries.Rows), func(t table.Writer) {
		t.AppendHeader(table.Row{"#", "Industry", "Interactions", "Share %"})
		for i, r := range d.Industries.Rows {
			t.AppendRow(table.Row{i + 1, r.IndustryName, r.Interactions, r.Share.String()})
		}
	})
	section(w, "Birthdays", d.Birthdays.Err, len(d.Birthdays.Rows), func(t table.Writer) {
		t.AppendHeader(table.Row{"Date", "Client", "Phone"})
		for _, r := range d.Birthdays.Rows {
			t.AppendRow(table.Row{r.Date, r.ClientName, r.Phone})
		}
	})
}

func section(w io.Writer, title string, err error, rows int, fill func(table.Writer)) {
	_, _ = fmt.Fprintf(w, "%s\n", title)
	switch {
	case err != nil:
		_, _ = fmt.Fprintf(w, "  unavailable: %v\n\n", err)
		return
	case rows == 0:
		_, _ = fmt.Fprintln(w, "  (no data)")
		_, _ = fmt.Fprintln(w)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	fill(t)
	t.Render()
	_, _ = fmt.Fprintln(w)
}
