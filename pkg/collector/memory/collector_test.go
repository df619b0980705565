package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
)

func TestSampleSubtractsFreeAndInactive(t *testing.T) {
	t.Cleanup(func() { virtualMemory = mem.VirtualMemoryWithContext })
	virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 16 << 30, Free: 2 << 30, Inactive: 4 << 30, Used: 1}, nil
	}

	stat, err := NewCollector().Sample(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.Total != 16<<30 {
		t.Fatalf("unexpected total: %d", stat.Total)
	}
	if stat.Used != 10<<30 {
		t.Fatalf("expected 10GiB used, got %d", stat.Used)
	}
}

func TestSampleFloorsUsedAtZero(t *testing.T) {
	t.Cleanup(func() { virtualMemory = mem.VirtualMemoryWithContext })
	virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 100, Free: 80, Inactive: 40}, nil
	}

	stat, err := NewCollector().Sample(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stat.Used != 0 {
		t.Fatalf("expected used to floor at zero, got %d", stat.Used)
	}
}

func TestSampleErrors(t *testing.T) {
	t.Cleanup(func() { virtualMemory = mem.VirtualMemoryWithContext })

	virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("host_statistics failed")
	}
	if _, err := NewCollector().Sample(context.Background()); err == nil {
		t.Fatalf("expected error to propagate")
	}

	virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{}, nil
	}
	if _, err := NewCollector().Sample(context.Background()); err == nil {
		t.Fatalf("expected error for zero total")
	}
}
