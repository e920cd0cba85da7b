package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hwdiag/internal/ir"
	"github.com/roach88/hwdiag/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database  string
	Limit     int
	RulesHash string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [record-id]",
		Short: "Show logged consultations",
		Long: `Show consultations logged to the SQLite database, newest first.
With a record ID, show that consultation in full. --rules-hash keeps only
consultations diagnosed by one rule table; a prefix such as the short hash
printed by "hwdiag validate" is enough.

Exit codes:
  0 - Success
  2 - Command error (no database, unknown record or bad hash prefix)

Examples:
  hwdiag history --db diag.db
  hwdiag history --limit 5
  hwdiag history --rules-hash 3f9a1c0b7d2e
  hwdiag history 0192f3a0-7c1e-7b3a-9a55-3c1f0e2d4b6a --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite log database (default HWDIAG_DB)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum records to list (0 for all)")
	cmd.Flags().StringVar(&opts.RulesHash, "rules-hash", "", "only list consultations from the rule table with this hash (prefix)")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := commandContext(cmd)

	dbPath := opts.Database
	if dbPath == "" {
		cfg, err := opts.loadConfig(formatter)
		if err != nil {
			return err
		}
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		msg := "no log database configured (use --db or HWDIAG_DB)"
		_ = formatter.Error(ErrCodeNotConfigured, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	// Open would create an empty database; a typo should not.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		msg := fmt.Sprintf("log database not found: %s", dbPath)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	if len(args) == 1 {
		rec, err := st.ReadRecord(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			msg := fmt.Sprintf("record %q not found", args[0])
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		if err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to read record", err)
		}
		if formatter.IsJSON() {
			return formatter.Success(rec)
		}
		writeRecord(formatter.Writer, rec)
		return nil
	}

	var records []ir.LogRecord
	if opts.RulesHash != "" {
		records, err = st.ListRecordsByRulesHash(ctx, strings.ToLower(opts.RulesHash), opts.Limit)
	} else {
		records, err = st.ListRecords(ctx, opts.Limit)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list records", err)
	}
	if formatter.IsJSON() {
		return formatter.Success(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(formatter.Writer, "No consultations logged.")
		return nil
	}
	for _, rec := range records {
		first := ""
		if len(rec.Diagnoses) > 0 {
			first = rec.Diagnoses[0].Diagnosis
		}
		more := ""
		if len(rec.Diagnoses) > 1 {
			more = dimStyle.Sprintf(" (+%d)", len(rec.Diagnoses)-1)
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  %s%s\n",
			dimStyle.Sprint(rec.Timestamp.Format(historyTimeLayout)), rec.ID, first, more)
	}
	return nil
}

const historyTimeLayout = "2006-01-02 15:04:05Z"

func writeRecord(w io.Writer, rec ir.LogRecord) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Sprint("Record"), rec.ID)
	fmt.Fprintf(w, "  Time:      %s\n", rec.Timestamp.Format(historyTimeLayout))
	fmt.Fprintf(w, "  Symptoms:  %s\n", symptomList(rec.Symptoms))
	if rec.ExtraDescription != "" {
		fmt.Fprintf(w, "  Description: %s\n", rec.ExtraDescription)
	}
	hw := rec.HardwareSummary
	fmt.Fprintf(w, "  Host:      %s (%s %s), %d CPUs, memory %.1f%% used\n",
		orUnknown(hw.Hostname), orUnknown(hw.Platform), hw.PlatformRelease, hw.CPUCount, hw.MemoryUsagePercent)
	if rec.RulesHash != "" {
		fmt.Fprintf(w, "  Rules:     %s\n", shortHash(rec.RulesHash))
	}
	fmt.Fprintln(w)
	for i, d := range rec.Diagnoses {
		fmt.Fprintf(w, "  %d. %s\n", i+1, successStyle.Sprint(d.Diagnosis))
		if d.Cause != "" {
			fmt.Fprintf(w, "     Cause: %s\n", d.Cause)
		}
		if d.Recommendation != "" {
			fmt.Fprintf(w, "     Recommendation: %s\n", d.Recommendation)
		}
	}
}
