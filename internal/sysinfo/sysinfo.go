package sysinfo

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/roach88/hwdiag/internal/ir"
)

// DefaultCPUSampleInterval is how long Collect samples CPU usage.
const DefaultCPUSampleInterval = time.Second

// BootTimeLayout formats Info.BootTime for display.
const BootTimeLayout = "2006-01-02 15:04:05"

// Info holds the collected host facts. Zero values mean "unknown"; the
// reading that failed is named in Warnings.
type Info struct {
	Platform        string `json:"platform"`
	PlatformRelease string `json:"platform_release"`
	Architecture    string `json:"architecture"`
	Hostname        string `json:"hostname"`
	Processor       string `json:"processor"`

	CPUCount       int      `json:"cpu_count"`
	CPUFreqCurrent *float64 `json:"cpu_freq_current"` // MHz, nil when unavailable
	// Lowest and highest MHz reported across CPU entries. These are not
	// hardware frequency bounds; the host source does not expose those.
	CPUFreqLow      *float64 `json:"cpu_freq_low"`
	CPUFreqHigh     *float64 `json:"cpu_freq_high"`
	CPUUsagePercent float64  `json:"cpu_usage_percent"`

	TotalMemory        uint64  `json:"total_memory"`
	AvailableMemory    uint64  `json:"available_memory"`
	MemoryUsagePercent float64 `json:"memory_usage_percent"`

	Disks []Disk `json:"disks"`

	BootTime time.Time     `json:"boot_time"`
	Uptime   time.Duration `json:"uptime"`

	Warnings []string `json:"warnings,omitempty"`
}

// Disk describes one mounted partition.
type Disk struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	FSType     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
}

// Summary returns the subset of facts attached to a LogRecord.
func (i Info) Summary() ir.HardwareSummary {
	return ir.HardwareSummary{
		Hostname:           i.Hostname,
		Platform:           i.Platform,
		PlatformRelease:    i.PlatformRelease,
		CPUCount:           i.CPUCount,
		MemoryUsagePercent: i.MemoryUsagePercent,
	}
}

// Collector gathers Info from a Source.
type Collector struct {
	src            Source
	sampleInterval time.Duration
	logger         *slog.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithSampleInterval sets the CPU usage sampling window.
// Zero compares against the previous call instead of blocking.
func WithSampleInterval(d time.Duration) CollectorOption {
	return func(c *Collector) {
		c.sampleInterval = d
	}
}

// WithLogger sets the logger used for skipped readings.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a Collector over src. A nil src uses HostSource.
func NewCollector(src Source, opts ...CollectorOption) *Collector {
	if src == nil {
		src = HostSource{}
	}
	c := &Collector{
		src:            src,
		sampleInterval: DefaultCPUSampleInterval,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect takes every reading and returns what it could gather.
func (c *Collector) Collect(ctx context.Context) Info {
	info := Info{
		Architecture: runtime.GOARCH,
		Platform:     runtime.GOOS,
		Disks:        []Disk{},
	}

	c.collectHost(ctx, &info)
	c.collectCPU(ctx, &info)
	c.collectMemory(ctx, &info)
	c.collectDisks(ctx, &info)

	return info
}

func (c *Collector) warn(info *Info, reading string, err error) {
	msg := fmt.Sprintf("%s: %v", reading, err)
	info.Warnings = append(info.Warnings, msg)
	c.logger.Debug("sysinfo reading skipped", "reading", reading, "error", err)
}

func (c *Collector) collectHost(ctx context.Context, info *Info) {
	h, err := c.src.Host(ctx)
	if err != nil {
		c.warn(info, "host", err)
		return
	}
	info.Hostname = h.Hostname
	if h.OS != "" {
		info.Platform = h.OS
	}
	info.PlatformRelease = h.KernelVersion
	if h.KernelArch != "" {
		info.Architecture = h.KernelArch
	}
	if h.BootTime > 0 {
		info.BootTime = time.Unix(int64(h.BootTime), 0).UTC()
	}
	info.Uptime = time.Duration(h.Uptime) * time.Second
}

func (c *Collector) collectCPU(ctx context.Context, info *Info) {
	if n, err := c.src.CPUCount(ctx); err != nil {
		c.warn(info, "cpu count", err)
	} else {
		info.CPUCount = n
	}

	// Frequency and model are optional on many platforms (containers, ARM).
	if stats, err := c.src.CPUInfo(ctx); err != nil {
		c.warn(info, "cpu info", err)
	} else if len(stats) > 0 {
		info.Processor = stats[0].ModelName
		if stats[0].Mhz > 0 {
			current := stats[0].Mhz
			info.CPUFreqCurrent = &current
			lo, hi := current, current
			for _, s := range stats[1:] {
				lo = min(lo, s.Mhz)
				hi = max(hi, s.Mhz)
			}
			info.CPUFreqLow = &lo
			info.CPUFreqHigh = &hi
		}
	}

	if pct, err := c.src.CPUPercent(ctx, c.sampleInterval); err != nil {
		c.warn(info, "cpu percent", err)
	} else {
		info.CPUUsagePercent = pct
	}
}

func (c *Collector) collectMemory(ctx context.Context, info *Info) {
	vm, err := c.src.VirtualMemory(ctx)
	if err != nil {
		c.warn(info, "memory", err)
		return
	}
	info.TotalMemory = vm.Total
	info.AvailableMemory = vm.Available
	info.MemoryUsagePercent = vm.UsedPercent
}

func (c *Collector) collectDisks(ctx context.Context, info *Info) {
	parts, err := c.src.Partitions(ctx)
	if err != nil {
		c.warn(info, "partitions", err)
		return
	}

	for _, p := range parts {
		usage, err := c.src.Usage(ctx, p.Mountpoint)
		if err != nil {
			// Unreadable partitions (permissions, stale mounts) are skipped.
			c.logger.Debug("skipping partition", "mountpoint", p.Mountpoint, "error", err)
			continue
		}
		info.Disks = append(info.Disks, Disk{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			FSType:     p.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    usage.UsedPercent,
		})
	}
}
