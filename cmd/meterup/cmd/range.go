package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/lachiem1/meterUp/internal/billing"
	"github.com/lachiem1/meterUp/internal/export"
	"github.com/lachiem1/meterUp/internal/form"
	"github.com/lachiem1/meterUp/internal/lookup"
)

var (
	rangeFrom    string
	rangeTo      string
	rangeAccount string
	rangeWorkers int
	rangeExport  string
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Fetch consecutive months for one account and total them",
	RunE:  runRange,
}

func init() {
	rangeCmd.Flags().StringVar(&rangeFrom, "from", "", "first month, YYYY-MM")
	rangeCmd.Flags().StringVar(&rangeTo, "to", "", "last month, YYYY-MM")
	rangeCmd.Flags().StringVar(&rangeAccount, "account", "", "account number (digits only)")
	rangeCmd.Flags().IntVar(&rangeWorkers, "workers", 4, "concurrent lookups")
	rangeCmd.Flags().StringVar(&rangeExport, "export", "", "write the results to an .xlsx file")
	_ = rangeCmd.MarkFlagRequired("from")
	_ = rangeCmd.MarkFlagRequired("to")
	_ = rangeCmd.MarkFlagRequired("account")
}

func runRange(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	from, err := billing.ParseKey(rangeFrom)
	if err != nil {
		return fmt.Errorf("parse --from: %w", err)
	}
	to, err := billing.ParseKey(rangeTo)
	if err != nil {
		return fmt.Errorf("parse --to: %w", err)
	}
	account := form.Normalize(rangeAccount)
	if !form.ValidValue(form.FieldBiller, account) {
		return fmt.Errorf("account %q must contain digits only", rangeAccount)
	}
	if rangeExport != "" && !strings.EqualFold(filepath.Ext(rangeExport), ".xlsx") {
		return fmt.Errorf("%w: range export supports .xlsx only", export.ErrUnsupportedFormat)
	}

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	stop := startSpinner(ctx, cmd.ErrOrStderr())
	items, err := a.engine.FetchRange(ctx, account, from, to, rangeWorkers)
	stop()
	if err != nil {
		return err
	}

	total, skipped := lookup.SumTotals(items)
	writeRange(cmd.OutOrStdout(), items, total, skipped)

	if rangeExport != "" {
		if err := export.WriteRange(rangeExport, items, total); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %s\n", rangeExport)
	}
	return nil
}

func writeRange(w io.Writer, items []lookup.RangeItem, total decimal.Decimal, skipped int) {
	rows := make([][]string, 0, len(items))
	found := 0
	for _, item := range items {
		row := []string{item.Period.Label(), item.Identifier, item.Result.Outcome.String(), "", ""}
		if item.Result.Outcome == billing.OutcomeFound {
			found++
			row[3] = item.Result.Record.TotalKWh.String()
			row[4] = item.Result.Record.TotalAmount.String()
		}
		rows = append(rows, row)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Period", "Identifier", "Status", "kWh", "Total Amount").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "%d of %d bills found, total amount %s\n", found, len(items), total.StringFixed(2))
	if skipped > 0 {
		fmt.Fprintf(w, "%d totals were not numeric and were left out\n", skipped)
	}
}
