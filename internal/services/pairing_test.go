package services

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"imob-followup/internal/models"
)

func TestPairingSequence(t *testing.T) {
	gw, backend := newGateway(t)
	poller := NewPoller()
	defer poller.StopAll()

	backend.QueueStatuses(
		models.ConnectionStatus{Status: models.ConnStatusQRReady},
		models.ConnectionStatus{IsReady: true, Status: models.ConnStatusReady},
	)

	var connected atomic.Int32
	var states []PairingState
	p := NewPairingSession(gw, poller, time.Hour, 30*time.Millisecond)
	p.OnConnected(func() { connected.Add(1) })
	p.OnChange(func(s PairingSnapshot) { states = append(states, s.State) })

	require.Equal(t, PairingLoading, p.Snapshot().State)

	snap := p.Tick(context.Background())
	require.Equal(t, PairingQRReady, snap.State)
	require.True(t, strings.HasPrefix(snap.QRCode, "data:image/png;base64,"))

	snap = p.Tick(context.Background())
	require.Equal(t, PairingSuccess, snap.State)
	require.Zero(t, connected.Load(), "callback waits for the success delay")

	// further polls after success change nothing and never re-arm the callback
	p.Tick(context.Background())
	p.Tick(context.Background())

	require.Eventually(t, func() bool { return connected.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	require.EqualValues(t, 1, connected.Load())
	require.Equal(t, []PairingState{PairingQRReady, PairingSuccess}, states)
	require.Equal(t, 2, backend.Hits("/status"))
}

func TestPairingNetworkErrorStopsPolling(t *testing.T) {
	gw, backend := newGateway(t)
	poller := NewPoller()
	defer poller.StopAll()

	backend.Server.Close()

	p := NewPairingSession(gw, poller, 10*time.Millisecond, time.Millisecond)
	snap := p.Open(context.Background())

	require.Equal(t, PairingError, snap.State)
	require.NotEmpty(t, snap.Error)
	require.False(t, poller.Running(PurposePairing))
}

func TestPairingOpenPollsUntilReady(t *testing.T) {
	gw, backend := newGateway(t)
	poller := NewPoller()
	defer poller.StopAll()

	backend.QueueStatuses(
		models.ConnectionStatus{Status: "loading"},
		models.ConnectionStatus{Status: models.ConnStatusQRReady},
		models.ConnectionStatus{IsReady: true},
	)

	done := make(chan struct{})
	p := NewPairingSession(gw, poller, 15*time.Millisecond, time.Millisecond)
	p.OnConnected(func() { close(done) })

	snap := p.Open(context.Background())
	require.Equal(t, PairingLoading, snap.State)
	require.True(t, poller.Running(PurposePairing))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connected callback not called")
	}
	require.Equal(t, PairingSuccess, p.Snapshot().State)
	require.Eventually(t, func() bool { return !poller.Running(PurposePairing) }, time.Second, 5*time.Millisecond)
}

func TestPairingCloseCancelsCallback(t *testing.T) {
	gw, backend := newGateway(t)
	poller := NewPoller()
	defer poller.StopAll()

	backend.QueueStatuses(models.ConnectionStatus{IsReady: true})

	var connected atomic.Int32
	p := NewPairingSession(gw, poller, time.Hour, 50*time.Millisecond)
	p.OnConnected(func() { connected.Add(1) })

	require.Equal(t, PairingSuccess, p.Open(context.Background()).State)
	p.Close()

	time.Sleep(100 * time.Millisecond)
	require.Zero(t, connected.Load())
	require.False(t, poller.Running(PurposePairing))
}
