// Package system collects facts about the host running the harness, so
// a verdict can be traced back to the environment that produced it.
package system

import (
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type HostFacts struct {
	Hostname         string `json:"hostname"`
	OS               string `json:"os"`
	Platform         string `json:"platform"`
	KernelArch       string `json:"kernel_arch"`
	CPUCount         int    `json:"cpu_count"`
	MemoryTotalBytes uint64 `json:"memory_total_bytes"`
}

// Collect gathers host facts; unavailable probes leave zero values
// rather than failing the run.
func Collect() *HostFacts {
	f := &HostFacts{}

	if info, err := host.Info(); err == nil {
		f.Hostname = info.Hostname
		f.OS = info.OS
		f.Platform = info.Platform
		f.KernelArch = info.KernelArch
	}

	if count, err := cpu.Counts(true); err == nil {
		f.CPUCount = count
	}

	if memStats, err := mem.VirtualMemory(); err == nil {
		f.MemoryTotalBytes = memStats.Total
	}

	return f
}
