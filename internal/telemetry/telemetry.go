// Package telemetry samples host-level resource usage for the dashboard
// status endpoint.
package telemetry

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"charmlive/internal/models"
)

// Sample collects a point-in-time snapshot of CPU, memory, and disk
// usage. Individual probe failures zero that probe rather than failing
// the whole sample.
func Sample(ctx context.Context) models.SystemStatus {
	status := models.SystemStatus{SampledAt: time.Now()}

	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		status.MemoryPercent = vm.UsedPercent
		status.MemoryUsed = vm.Used
		status.MemoryTotal = vm.Total
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		status.DiskPercent = du.UsedPercent
		status.DiskUsed = du.Used
		status.DiskTotal = du.Total
	}
	return status
}
