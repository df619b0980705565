package network

import (
	"context"
	"fmt"
	"strings"

	gonet "github.com/shirou/gopsutil/v3/net"
	"github.com/srodi/hotspot-alert/pkg/types"
)

// ioCounters allows tests to stub the per-interface byte counters.
var ioCounters = gonet.IOCountersWithContext

// ExcludedPrefixes are interface name prefixes skipped so loopback, virtual
// and tunnel traffic is not counted twice.
var ExcludedPrefixes = []string{
	"lo", "utun", "awdl", "vmnet", "bridge", "llw", "ap", "p2p", "gif", "stf", "vnic", "tap", "tun",
	"docker", "veth", "br-", "virbr",
}

// Collector sums rx/tx byte counters over physical interfaces.
type Collector struct {
	excluded []string
}

// NewCollector returns a collector using ExcludedPrefixes.
func NewCollector() *Collector {
	return &Collector{excluded: ExcludedPrefixes}
}

// Sample returns cumulative received (In) and sent (Out) bytes.
func (c *Collector) Sample(ctx context.Context) (types.ByteCounters, error) {
	stats, err := ioCounters(ctx, true)
	if err != nil {
		return types.ByteCounters{}, fmt.Errorf("reading interface counters: %w", err)
	}

	var counters types.ByteCounters
	for _, nic := range stats {
		if c.isExcluded(nic.Name) {
			continue
		}
		counters.In += nic.BytesRecv
		counters.Out += nic.BytesSent
	}
	return counters, nil
}

func (c *Collector) isExcluded(name string) bool {
	for _, prefix := range c.excluded {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
