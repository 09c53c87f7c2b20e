package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoller_RunsUntilStopped(t *testing.T) {
	p := NewPoller()
	defer p.StopAll()

	var ticks atomic.Int32
	p.Start(PurposeConnectionStatus, 20*time.Millisecond, func() { ticks.Add(1) })
	require.True(t, p.Running(PurposeConnectionStatus))

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	p.Stop(PurposeConnectionStatus)
	require.False(t, p.Running(PurposeConnectionStatus))
	stopped := ticks.Load()
	time.Sleep(100 * time.Millisecond)
	require.LessOrEqual(t, ticks.Load(), stopped+1)
}

func TestPoller_RestartReplacesJob(t *testing.T) {
	p := NewPoller()
	defer p.StopAll()

	var first, second atomic.Int32
	p.Start(PurposePairing, 20*time.Millisecond, func() { first.Add(1) })
	p.Start(PurposePairing, 20*time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool { return second.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	require.Zero(t, first.Load())
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	p := NewPoller()
	p.Stop("nothing")
	p.Start(PurposePairing, time.Hour, func() {})
	p.Stop(PurposePairing)
	p.Stop(PurposePairing)
	p.StopAll()
	require.False(t, p.Running(PurposePairing))
}

func TestPoller_RejectsNonPositiveInterval(t *testing.T) {
	p := NewPoller()
	defer p.StopAll()

	var ticks atomic.Int32
	p.Start(PurposePairing, time.Hour, func() {})
	p.Start(PurposePairing, 0, func() { ticks.Add(1) })
	require.False(t, p.Running(PurposePairing))

	p.Start(PurposeConnectionStatus, -time.Second, func() { ticks.Add(1) })
	require.False(t, p.Running(PurposeConnectionStatus))

	time.Sleep(50 * time.Millisecond)
	require.Zero(t, ticks.Load())
}
