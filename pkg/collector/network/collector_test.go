package network

import (
	"context"
	"errors"
	"testing"

	gonet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSkipsVirtualInterfaces(t *testing.T) {
	t.Cleanup(func() { ioCounters = gonet.IOCountersWithContext })
	ioCounters = func(ctx context.Context, pernic bool) ([]gonet.IOCountersStat, error) {
		require.True(t, pernic)
		return []gonet.IOCountersStat{
			{Name: "lo", BytesRecv: 1 << 30, BytesSent: 1 << 30},
			{Name: "en0", BytesRecv: 1000, BytesSent: 200},
			{Name: "eth1", BytesRecv: 50, BytesSent: 5},
			{Name: "utun3", BytesRecv: 999, BytesSent: 999},
			{Name: "docker0", BytesRecv: 777, BytesSent: 777},
			{Name: "veth12ab", BytesRecv: 555, BytesSent: 555},
			{Name: "awdl0", BytesRecv: 333, BytesSent: 333},
		}, nil
	}

	counters, err := NewCollector().Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1050), counters.In)
	assert.Equal(t, uint64(205), counters.Out)
}

func TestSamplePropagatesErrors(t *testing.T) {
	t.Cleanup(func() { ioCounters = gonet.IOCountersWithContext })
	boom := errors.New("getifaddrs failed")
	ioCounters = func(ctx context.Context, pernic bool) ([]gonet.IOCountersStat, error) {
		return nil, boom
	}

	_, err := NewCollector().Sample(context.Background())
	assert.ErrorIs(t, err, boom)
}
