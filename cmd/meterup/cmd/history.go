package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/lachiem1/meterUp/internal/config"
	"github.com/lachiem1/meterUp/internal/storage"
)

var (
	historyLimit int
	historyKeep  int
	historyWipe  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent lookups recorded with --history",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of lookups to show")
	historyCmd.Flags().IntVar(&historyKeep, "keep", 0, "delete all but the newest N lookups")
	historyCmd.Flags().BoolVar(&historyWipe, "wipe", false, "delete the history database")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if historyWipe {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		path, err := cfg.DBPath()
		if err != nil {
			return err
		}
		exists, err := storage.Exists(path)
		if err != nil {
			return err
		}
		if !exists {
			fmt.Fprintln(cmd.OutOrStdout(), "no history database to wipe")
			return nil
		}
		if err := storage.Wipe(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "history wiped: %s\n", path)
		return nil
	}

	a, err := newApp(ctx, appOptions{openHistory: true})
	if err != nil {
		return err
	}
	defer a.close()
	if a.history == nil {
		return errors.New("history database is not available")
	}

	if historyKeep > 0 {
		removed, err := a.history.Prune(ctx, historyKeep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d lookups\n", removed)
		return nil
	}

	lookups, err := a.history.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(lookups) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no lookups recorded; run with --history or set METERUP_HISTORY=true")
		return nil
	}

	rows := make([][]string, 0, len(lookups))
	for _, l := range lookups {
		rows = append(rows, []string{
			l.LookedUpAt.Local().Format(time.DateTime),
			l.Period.Label(),
			l.Identifier,
			l.Outcome,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("When", "Period", "Identifier", "Outcome").
		Rows(rows...)
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}
