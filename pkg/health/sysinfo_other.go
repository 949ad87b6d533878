//go:build !linux

package health

import (
	"context"
	"time"
)

// DiskCheck checks available disk space. On non-Linux platforms the
// check reports unknown rather than failing.
type DiskCheck struct {
	Path         string
	MinFreeBytes int64

	// MinFreePercent is the minimum percentage of free space required
	// (0-100). If set, this takes precedence over MinFreeBytes.
	MinFreePercent float64
}

func (c *DiskCheck) Name() string { return "disk" }

func (c *DiskCheck) Check(ctx context.Context) CheckResult {
	return CheckResult{
		Status:    StatusUnknown,
		Message:   "disk stats not supported on this platform",
		Timestamp: time.Now(),
	}
}
