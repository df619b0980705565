package disk

import (
	"context"
	"fmt"
	"strings"

	godisk "github.com/shirou/gopsutil/v3/disk"
	"github.com/srodi/hotspot-alert/pkg/types"
)

// ioCounters allows tests to stub the block device counters.
var ioCounters = godisk.IOCountersWithContext

// Virtual devices: loop and ram disks, plus device-mapper and md RAID
// volumes whose I/O is already counted on the backing disks.
var ignoredPrefixes = []string{"loop", "ram", "dm-", "md"}

// Collector sums cumulative read/write bytes over every block device.
type Collector struct{}

// NewCollector returns a block device collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Sample returns cumulative read (In) and written (Out) bytes of physical
// devices. Partitions whose parent device is also listed and stacked virtual
// devices are skipped so bytes are counted once.
func (c *Collector) Sample(ctx context.Context) (types.ByteCounters, error) {
	stats, err := ioCounters(ctx)
	if err != nil {
		return types.ByteCounters{}, fmt.Errorf("reading block device counters: %w", err)
	}

	var counters types.ByteCounters
	for name, dev := range stats {
		if ignored(name) || isPartition(name, stats) {
			continue
		}
		counters.In += dev.ReadBytes
		counters.Out += dev.WriteBytes
	}
	return counters, nil
}

func ignored(name string) bool {
	for _, prefix := range ignoredPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// isPartition recognises sda1 -> sda, nvme0n1p2 -> nvme0n1 and disk0s1 -> disk0.
func isPartition(name string, all map[string]godisk.IOCountersStat) bool {
	base := strings.TrimRight(name, "0123456789")
	if base == name || base == "" {
		return false
	}
	if _, ok := all[base]; ok {
		return true
	}
	if strings.HasSuffix(base, "p") || strings.HasSuffix(base, "s") {
		if _, ok := all[base[:len(base)-1]]; ok {
			return true
		}
	}
	return false
}
