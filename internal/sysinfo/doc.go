// Package sysinfo collects host facts (platform, CPU, memory, disks,
// uptime) for display and for the hardware summary attached to logs.
//
// Collection is best-effort. Every failed reading is absorbed into
// Info.Warnings and the remaining readings are still taken; a disk partition whose
// usage cannot be read is skipped. Collect never returns an error.
package sysinfo
