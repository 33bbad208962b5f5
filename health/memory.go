package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the memory health checker.
type MemoryCheckerConfig struct {
	// Name is the reported check name.
	// Default: "heap-memory"
	Name string

	// CriticalThreshold is the fraction of MaxAlloc at which the check goes DOWN.
	// Value should be between 0 and 1. Default: 0.9 (90%)
	CriticalThreshold float64

	// MaxAlloc is the maximum expected heap allocation in bytes.
	// If zero, the memory obtained from the OS is used.
	// Default: 0 (auto-detect)
	MaxAlloc uint64
}

// MemoryChecker reports DOWN when heap usage crosses a threshold. It is
// intended as a liveness probe.
type MemoryChecker struct {
	config MemoryCheckerConfig
}

// NewMemoryChecker creates a new memory health checker.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.Name == "" {
		config.Name = "heap-memory"
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.9
	}
	return &MemoryChecker{config: config}
}

// Name returns the name of this checker.
func (m *MemoryChecker) Name() string {
	return m.config.Name
}

// Check performs the memory health check.
func (m *MemoryChecker) Check(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	maxAlloc := m.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}

	details := map[string]any{
		"heap_alloc":  stats.HeapAlloc,
		"heap_in_use": stats.HeapInuse,
		"max_alloc":   maxAlloc,
		"num_gc":      stats.NumGC,
		"goroutines":  runtime.NumGoroutine(),
	}

	if maxAlloc == 0 {
		return Up(m.config.Name).WithDetails(details), nil
	}

	usage := float64(stats.HeapAlloc) / float64(maxAlloc)
	details["usage_percent"] = fmt.Sprintf("%.1f", usage*100)

	if usage >= m.config.CriticalThreshold {
		return Down(m.config.Name).WithDetails(details), nil
	}
	return Up(m.config.Name).WithDetails(details), nil
}
