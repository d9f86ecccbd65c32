package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/streamta/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query a SQLite run journal",
	Long: `Query and display runs recorded in a SQLite journal.

Subcommands:
  run    - Print the Org-mode report of a run
  bars   - List the bars of a run
  values - List the values an indicator produced during a run

Examples:
  streamta journal run 01JABCDEF...
  streamta journal values 01JABCDEF... sma20`,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Print the report of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalBarsCmd = &cobra.Command{
	Use:   "bars <run-id>",
	Short: "List the bars of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalBars,
}

var journalValuesCmd = &cobra.Command{
	Use:   "values <run-id> <indicator>",
	Short: "List the values of one indicator",
	Args:  cobra.ExactArgs(2),
	RunE:  runJournalValues,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalBarsCmd)
	journalCmd.AddCommand(journalValuesCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./streamta.sqlite", "path to SQLite journal DB")
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetRun(args[0])
	if err != nil {
		return err
	}
	s, err := journal.FormatRunOrg(rec)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), s)
	return nil
}

func runJournalBars(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	bars, err := j.ListBars(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %12s %12s %12s %12s %14s\n", "TIME", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
	for _, b := range bars {
		fmt.Fprintf(out, "%-20s %12.5f %12.5f %12.5f %12.5f %14.2f\n",
			b.Time.UTC().Format(time.DateTime), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	fmt.Fprintf(out, "\nTotal bars: %d\n", len(bars))
	return nil
}

func runJournalValues(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	values, err := j.ListValues(args[0], args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %16s %-6s %s\n", "TIME", "VALUE", "READY", "STATUS")
	for _, v := range values {
		fmt.Fprintf(out, "%-20s %16.6f %-6t %s\n",
			v.Time.UTC().Format(time.DateTime), v.Value, v.Ready, v.Status)
	}
	fmt.Fprintf(out, "\nTotal values: %d\n", len(values))
	return nil
}
