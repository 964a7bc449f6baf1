package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lachiem1/meterUp/internal/billing"
	"github.com/lachiem1/meterUp/internal/export"
	"github.com/lachiem1/meterUp/internal/form"
	"github.com/lachiem1/meterUp/internal/lookup"
)

var (
	fetchMonth  string
	fetchYear   string
	fetchBiller string
	fetchPrev   int
	fetchNext   int
	fetchExport string
	fetchJSON   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one bill, optionally stepping to an adjacent month",
	Long: `fetch looks up the bill for --month/--year/--biller. With --prev or
--next it then steps that many months from the fetched bill, using the
bill's account number, and shows the last bill reached.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchMonth, "month", "", "billing month name, e.g. March")
	fetchCmd.Flags().StringVar(&fetchYear, "year", "", "billing year, 2010-2024")
	fetchCmd.Flags().StringVar(&fetchBiller, "biller", "", "meter/biller number (digits only)")
	fetchCmd.Flags().IntVar(&fetchPrev, "prev", 0, "step back this many months after the first fetch")
	fetchCmd.Flags().IntVar(&fetchNext, "next", 0, "step forward this many months after the first fetch")
	fetchCmd.Flags().StringVar(&fetchExport, "export", "", "write the bill to an .xlsx or .pdf file")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the bill as JSON")
	fetchCmd.MarkFlagsMutuallyExclusive("prev", "next")
	_ = fetchCmd.MarkFlagRequired("month")
	_ = fetchCmd.MarkFlagRequired("year")
	_ = fetchCmd.MarkFlagRequired("biller")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if fetchPrev < 0 || fetchNext < 0 {
		return errors.New("--prev and --next must not be negative")
	}

	fields := form.Fields{
		Month:  form.Normalize(fetchMonth),
		Year:   form.Normalize(fetchYear),
		Biller: form.Normalize(fetchBiller),
	}
	if err := fields.Check(); err != nil {
		return err
	}

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	req, err := a.engine.Submit(lookup.Form{
		Month:    fields.Month,
		Year:     fields.Year,
		MeterNo:  fields.Biller,
		AllValid: true,
	})
	if err != nil {
		return err
	}
	view, err := lookupWithSpinner(ctx, cmd, a.engine, req)
	if err != nil {
		return err
	}

	dir, steps := lookup.Next, fetchNext
	if fetchPrev > 0 {
		dir, steps = lookup.Previous, fetchPrev
	}
	for i := 0; i < steps && view.SummaryVisible; i++ {
		req, err := a.engine.Navigate(dir)
		if err != nil {
			return fmt.Errorf("navigate: %w", err)
		}
		view, err = lookupWithSpinner(ctx, cmd, a.engine, req)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if fetchJSON {
		if err := writeViewJSON(out, view); err != nil {
			return err
		}
	} else {
		writeView(out, view)
	}

	if !view.SummaryVisible {
		return fmt.Errorf("no bill data found for %s", view.PeriodLabel)
	}
	if fetchExport != "" {
		if err := export.Write(fetchExport, view); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %s\n", fetchExport)
	}
	return nil
}

func lookupWithSpinner(ctx context.Context, cmd *cobra.Command, engine *lookup.Engine, req lookup.Request) (lookup.View, error) {
	stop := startSpinner(ctx, cmd.ErrOrStderr())
	view, applied := engine.Lookup(ctx, req)
	stop()
	if !applied {
		return lookup.View{}, errors.New("bill response was superseded")
	}
	return view, nil
}

func writeView(w io.Writer, view lookup.View) {
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(view.PeriodLabel))
	if !view.SummaryVisible {
		fmt.Fprintln(w, "No bill data found for this period.")
		return
	}
	rows := make([][]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		rows = append(rows, []string{row.Field, row.Value})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Field", "Value").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

type viewJSON struct {
	Period  string            `json:"period"`
	Outcome string            `json:"outcome"`
	Error   string            `json:"error,omitempty"`
	Bill    map[string]string `json:"bill,omitempty"`
	Fields  []string          `json:"fields,omitempty"`
}

func writeViewJSON(w io.Writer, view lookup.View) error {
	out := viewJSON{
		Period:  view.PeriodLabel,
		Outcome: view.Outcome.String(),
	}
	if view.Reason != nil {
		out.Error = view.Reason.Error()
	}
	if view.Outcome == billing.OutcomeFound {
		out.Bill = make(map[string]string, len(view.Rows))
		for _, row := range view.Rows {
			out.Bill[row.Field] = row.Value
			out.Fields = append(out.Fields, row.Field)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode bill json: %w", err)
	}
	return nil
}
