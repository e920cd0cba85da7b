package sysinfo

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Source abstracts the host readings used by Collect.
// Implemented by HostSource (production) and fakes in tests.
type Source interface {
	Host(ctx context.Context) (*host.InfoStat, error)
	CPUCount(ctx context.Context) (int, error)
	CPUInfo(ctx context.Context) ([]cpu.InfoStat, error)
	CPUPercent(ctx context.Context, interval time.Duration) (float64, error)
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	Partitions(ctx context.Context) ([]disk.PartitionStat, error)
	Usage(ctx context.Context, mountpoint string) (*disk.UsageStat, error)
}

// HostSource reads the local machine through gopsutil.
//
// Thread-safety: HostSource is stateless and safe for concurrent use.
type HostSource struct{}

// Host returns platform, kernel and uptime facts.
func (HostSource) Host(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

// CPUCount returns the number of logical CPUs.
func (HostSource) CPUCount(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}

// CPUInfo returns per-socket CPU model information.
func (HostSource) CPUInfo(ctx context.Context) ([]cpu.InfoStat, error) {
	return cpu.InfoWithContext(ctx)
}

// CPUPercent samples total CPU usage over interval.
func (HostSource) CPUPercent(ctx context.Context, interval time.Duration) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return pcts[0], nil
}

// VirtualMemory returns physical memory statistics.
func (HostSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

// Partitions returns mounted physical partitions.
func (HostSource) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, false)
}

// Usage returns usage statistics for the filesystem at mountpoint.
func (HostSource) Usage(ctx context.Context, mountpoint string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, mountpoint)
}
