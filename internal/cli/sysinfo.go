package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/hwdiag/internal/consult"
	"github.com/roach88/hwdiag/internal/sysinfo"
)

// SysinfoOptions holds flags for the sysinfo command.
type SysinfoOptions struct {
	*RootOptions
	Interval time.Duration

	// Collector overrides host collection. Used in tests.
	Collector consult.MetricsCollector
}

// NewSysinfoCommand creates the sysinfo command.
func NewSysinfoCommand(rootOpts *RootOptions) *cobra.Command {
	return newSysinfoCommand(&SysinfoOptions{RootOptions: rootOpts})
}

func newSysinfoCommand(opts *SysinfoOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sysinfo",
		Short: "Show host hardware facts",
		Long: `Collect and show the host facts captured with every consultation:
platform, CPU, memory, disks and uptime. Readings that fail are listed as
warnings; the rest is still shown.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)

			collector := opts.Collector
			if collector == nil {
				collector = sysinfo.NewCollector(nil,
					sysinfo.WithSampleInterval(opts.Interval),
					sysinfo.WithLogger(slog.Default()),
				)
			}
			info := collector.Collect(commandContext(cmd))

			if formatter.IsJSON() {
				return formatter.Success(info)
			}
			writeInfo(formatter.Writer, info)
			return nil
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", sysinfo.DefaultCPUSampleInterval, "CPU usage sampling window")

	return cmd
}

func writeInfo(w io.Writer, info sysinfo.Info) {
	headerStyle.Fprintln(w, "Host")
	fmt.Fprintf(w, "  Hostname:  %s\n", orUnknown(info.Hostname))
	fmt.Fprintf(w, "  Platform:  %s %s (%s)\n", orUnknown(info.Platform), info.PlatformRelease, orUnknown(info.Architecture))
	if !info.BootTime.IsZero() {
		fmt.Fprintf(w, "  Booted:    %s (up %s)\n", info.BootTime.Format(sysinfo.BootTimeLayout), info.Uptime.Round(time.Second))
	}
	fmt.Fprintln(w)

	headerStyle.Fprintln(w, "CPU")
	fmt.Fprintf(w, "  Model:     %s\n", orUnknown(info.Processor))
	fmt.Fprintf(w, "  Cores:     %d\n", info.CPUCount)
	if info.CPUFreqCurrent != nil {
		fmt.Fprintf(w, "  Frequency: %.0f MHz\n", *info.CPUFreqCurrent)
	}
	fmt.Fprintf(w, "  Usage:     %.1f%%\n", info.CPUUsagePercent)
	fmt.Fprintln(w)

	headerStyle.Fprintln(w, "Memory")
	fmt.Fprintf(w, "  Total:     %s\n", formatBytes(info.TotalMemory))
	fmt.Fprintf(w, "  Available: %s\n", formatBytes(info.AvailableMemory))
	fmt.Fprintf(w, "  Usage:     %.1f%%\n", info.MemoryUsagePercent)

	if len(info.Disks) > 0 {
		fmt.Fprintln(w)
		headerStyle.Fprintln(w, "Disks")
		for _, d := range info.Disks {
			fmt.Fprintf(w, "  %-20s %s of %s used (%.1f%%) %s\n",
				d.Mountpoint, formatBytes(d.Used), formatBytes(d.Total), d.Percent, dimStyle.Sprint(d.FSType))
		}
	}

	for _, warning := range info.Warnings {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Sprint("warning:"), warning)
	}
}

// formatBytes renders n with a binary unit suffix.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
