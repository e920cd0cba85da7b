package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/hwdiag/internal/catalog"
	"github.com/roach88/hwdiag/internal/config"
	"github.com/roach88/hwdiag/internal/consult"
	"github.com/roach88/hwdiag/internal/ir"
	"github.com/roach88/hwdiag/internal/sink"
	"github.com/roach88/hwdiag/internal/store"
	"github.com/roach88/hwdiag/internal/sysinfo"
)

// DiagnoseOptions holds flags for the diagnose command.
type DiagnoseOptions struct {
	*RootOptions
	Description string
	Rules       string
	Database    string
	NoLog       bool
	NoMetrics   bool
	CPUInterval time.Duration

	// Collector overrides host metric collection. Used in tests.
	Collector consult.MetricsCollector
	// IDGenerator overrides record IDs. Defaults to UUIDv7.
	IDGenerator consult.IDGenerator
	// Now overrides record timestamps.
	Now func() time.Time
}

// NewDiagnoseCommand creates the diagnose command.
func NewDiagnoseCommand(rootOpts *RootOptions) *cobra.Command {
	return newDiagnoseCommand(&DiagnoseOptions{RootOptions: rootOpts})
}

func newDiagnoseCommand(opts *DiagnoseOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose [symptom...]",
		Short: "Diagnose a set of symptoms",
		Long: `Diagnose reported hardware symptoms.

Every rule whose symptoms are all present contributes its diagnosis, in
rule table order. When no rule matches, a single generic result is returned.
Run "hwdiag symptoms" for the list of identifiers.

The consultation is logged to SQLite (--db or HWDIAG_DB) and S3
(S3_LOG_BUCKET) when configured. Logging failures never hide the diagnosis.

Examples:
  hwdiag diagnose lento pouca_memoria
  hwdiag diagnose nao_liga -d "parou depois de uma queda de energia"
  hwdiag diagnose superaquecendo reinicia_sozinho --db diag.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "free-text description of the problem")
	cmd.Flags().StringVar(&opts.Rules, "rules", "", "CUE rules directory (default HWDIAG_RULES or built-in)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite log database (default HWDIAG_DB)")
	cmd.Flags().BoolVar(&opts.NoLog, "no-log", false, "do not persist the consultation")
	cmd.Flags().BoolVar(&opts.NoMetrics, "no-metrics", false, "skip host metric collection")
	cmd.Flags().DurationVar(&opts.CPUInterval, "cpu-interval", sysinfo.DefaultCPUSampleInterval, "CPU usage sampling window")

	return cmd
}

func runDiagnose(opts *DiagnoseOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := commandContext(cmd)

	cfg, err := opts.loadConfig(formatter)
	if err != nil {
		return err
	}
	if opts.Rules != "" {
		cfg.RulesDir = opts.Rules
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}

	eng, src, err := mustLoadEngine(cfg.RulesDir)
	if err != nil {
		_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
		return err
	}
	slog.Debug("rule table loaded", "rules", src.RuleCount, "hash", src.RulesHash, "dir", src.Dir)

	var logSink sink.Sink
	if !opts.NoLog {
		s, closeSinks := buildSink(ctx, cfg)
		defer closeSinks()
		logSink = s
	}

	svcOpts := []consult.Option{
		consult.WithSink(logSink),
		consult.WithLogger(slog.Default()),
	}
	switch {
	case opts.NoMetrics:
		svcOpts = append(svcOpts, consult.WithCollector(nil))
	case opts.Collector != nil:
		svcOpts = append(svcOpts, consult.WithCollector(opts.Collector))
	default:
		svcOpts = append(svcOpts, consult.WithCollector(sysinfo.NewCollector(nil,
			sysinfo.WithSampleInterval(opts.CPUInterval),
			sysinfo.WithLogger(slog.Default()),
		)))
	}
	if opts.IDGenerator != nil {
		svcOpts = append(svcOpts, consult.WithIDGenerator(opts.IDGenerator))
	}
	if opts.Now != nil {
		svcOpts = append(svcOpts, consult.WithClock(opts.Now))
	}

	out := consult.New(eng, svcOpts...).Consult(ctx, consult.Request{
		Symptoms:    ir.ParseSymptoms(args),
		Description: opts.Description,
	})

	if formatter.IsJSON() {
		return formatter.Success(out)
	}
	writeOutcome(formatter.Writer, out, !opts.NoMetrics)
	return nil
}

// buildSink opens every configured log destination. Destinations that fail
// to open are skipped with a warning; logging is best-effort.
// The returned func closes whatever was opened.
func buildSink(ctx context.Context, cfg config.Config) (sink.Sink, func()) {
	var (
		sinks   []sink.Sink
		closers []func()
	)

	if cfg.StoreEnabled() {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			slog.Warn("log store unavailable", "path", cfg.DBPath, "error", err)
		} else {
			sinks = append(sinks, sink.NewStoreSink(st, cfg.DBPath))
			closers = append(closers, func() {
				if err := st.Close(); err != nil {
					slog.Error("error closing database", "error", err)
				}
			})
		}
	}

	if cfg.S3Enabled() {
		s3Sink, err := sink.NewS3Sink(ctx, cfg.S3LogBucket, cfg.AWSRegion)
		if err != nil {
			slog.Warn("s3 log sink unavailable", "bucket", cfg.S3LogBucket, "error", err)
		} else {
			sinks = append(sinks, s3Sink)
		}
	}

	return sink.NewMulti(sinks...), func() {
		for _, c := range closers {
			c()
		}
	}
}

// writeOutcome renders a consultation for the terminal.
func writeOutcome(w io.Writer, out consult.Outcome, withSystem bool) {
	headerStyle.Fprintln(w, "Symptoms")
	if len(out.Record.Symptoms) == 0 {
		fmt.Fprintln(w, dimStyle.Sprint("  (none reported)"))
	}
	for _, s := range out.Record.Symptoms {
		if label, ok := catalog.Label(s); ok {
			fmt.Fprintf(w, "  - %s %s\n", label, dimStyle.Sprintf("(%s)", s))
		} else {
			fmt.Fprintf(w, "  - %s %s\n", s, warnStyle.Sprint("(unknown symptom)"))
		}
	}
	if out.Record.ExtraDescription != "" {
		fmt.Fprintf(w, "  Description: %s\n", out.Record.ExtraDescription)
	}
	fmt.Fprintln(w)

	title := "Diagnoses"
	if out.Fallback {
		title = "Diagnoses (no rule matched)"
	}
	headerStyle.Fprintln(w, title)
	for i, d := range out.Diagnoses {
		fmt.Fprintf(w, "  %d. %s\n", i+1, successStyle.Sprint(d.Diagnosis))
		if d.Cause != "" {
			fmt.Fprintf(w, "     Cause: %s\n", d.Cause)
		}
		if d.Recommendation != "" {
			fmt.Fprintf(w, "     Recommendation: %s\n", d.Recommendation)
		}
	}
	fmt.Fprintln(w)

	if withSystem {
		hw := out.Record.HardwareSummary
		headerStyle.Fprintln(w, "System")
		fmt.Fprintf(w, "  %s (%s %s), %d CPUs, memory %.1f%% used\n",
			orUnknown(hw.Hostname), orUnknown(hw.Platform), hw.PlatformRelease, hw.CPUCount, hw.MemoryUsagePercent)
		if len(out.System.Warnings) > 0 {
			fmt.Fprintf(w, "  %s %s\n", warnStyle.Sprint("incomplete:"), strings.Join(out.System.Warnings, "; "))
		}
		fmt.Fprintln(w)
	}

	status := out.LogStatus.String()
	switch out.LogStatus.Code {
	case sink.StatusSaved:
		status = successStyle.Sprint(status)
	case sink.StatusFailed:
		status = warnStyle.Sprint(status)
	default:
		status = dimStyle.Sprint(status)
	}
	fmt.Fprintf(w, "%s %s\n", dimStyle.Sprintf("[%s]", out.Record.ID), status)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute (tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
