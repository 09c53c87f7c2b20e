package services

import (
	"context"
	"sync"
	"time"

	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

type PairingState string

const (
	PairingLoading PairingState = "loading"
	PairingQRReady PairingState = "qr_ready"
	PairingSuccess PairingState = "success"
	PairingError   PairingState = "error"
)

type PairingSnapshot struct {
	State  PairingState `json:"state"`
	QRCode string       `json:"qrCode,omitempty"`
	Error  string       `json:"error,omitempty"`
}

func (s PairingSnapshot) terminal() bool {
	return s.State == PairingSuccess || s.State == PairingError
}

// PairingSession drives the QR handshake with the remote messaging session.
// While open it polls the status endpoint; once the remote reports ready it
// moves to success and, after successDelay, calls onConnected exactly once.
type PairingSession struct {
	mutex        sync.Mutex
	gateway      *SyncGateway
	poller       *Poller
	interval     time.Duration
	successDelay time.Duration
	onConnected  func()
	onChange     func(PairingSnapshot)

	snapshot   PairingSnapshot
	generation int
	connected  *sync.Once
	timer      *time.Timer
}

func NewPairingSession(gateway *SyncGateway, poller *Poller, interval, successDelay time.Duration) *PairingSession {
	return &PairingSession{
		gateway:      gateway,
		poller:       poller,
		interval:     interval,
		successDelay: successDelay,
		snapshot:     PairingSnapshot{State: PairingLoading},
		connected:    &sync.Once{},
	}
}

func (p *PairingSession) OnConnected(fn func()) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.onConnected = fn
}

func (p *PairingSession) OnChange(fn func(PairingSnapshot)) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.onChange = fn
}

func (p *PairingSession) Snapshot() PairingSnapshot {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.snapshot
}

// Open resets the handshake, polls once and keeps polling until a terminal
// state is reached or Close is called. Opening again restarts from loading.
func (p *PairingSession) Open(ctx context.Context) PairingSnapshot {
	p.mutex.Lock()
	p.cancelTimerLocked()
	p.generation++
	p.connected = &sync.Once{}
	p.mutex.Unlock()
	p.set(p.currentGeneration(), PairingSnapshot{State: PairingLoading})

	snap := p.Tick(ctx)
	if !snap.terminal() {
		p.poller.Start(PurposePairing, p.interval, func() {
			p.Tick(context.Background())
		})
	}
	return p.Snapshot()
}

// Close stops polling and cancels a pending connected callback.
func (p *PairingSession) Close() {
	p.poller.Stop(PurposePairing)
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.cancelTimerLocked()
	p.generation++
}

func (p *PairingSession) cancelTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *PairingSession) currentGeneration() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.generation
}

// Tick performs one status poll and applies the result.
func (p *PairingSession) Tick(ctx context.Context) PairingSnapshot {
	gen := p.currentGeneration()
	if current := p.Snapshot(); current.terminal() {
		return current
	}

	status, err := p.gateway.PollConnectionStatus(ctx)
	if err != nil {
		utils.LogWarning("Falha ao consultar status do pareamento: %v", err)
		return p.fail(gen, err)
	}

	if status.IsReady {
		snap := p.set(gen, PairingSnapshot{State: PairingSuccess})
		if snap.State == PairingSuccess {
			p.poller.Stop(PurposePairing)
			p.scheduleConnected(gen)
		}
		return snap
	}

	if status.Status == models.ConnStatusQRReady {
		qr, err := p.gateway.FetchQRImage(ctx)
		if err != nil {
			utils.LogWarning("Falha ao obter QR code: %v", err)
			return p.fail(gen, err)
		}
		return p.set(gen, PairingSnapshot{State: PairingQRReady, QRCode: qr})
	}

	return p.Snapshot()
}

func (p *PairingSession) fail(gen int, err error) PairingSnapshot {
	snap := p.set(gen, PairingSnapshot{State: PairingError, Error: err.Error()})
	if snap.State == PairingError {
		p.poller.Stop(PurposePairing)
	}
	return snap
}

// set applies a snapshot unless the session was reopened or closed since gen.
func (p *PairingSession) set(gen int, snap PairingSnapshot) PairingSnapshot {
	p.mutex.Lock()
	if gen != p.generation {
		current := p.snapshot
		p.mutex.Unlock()
		return current
	}
	changed := p.snapshot != snap
	p.snapshot = snap
	notify := p.onChange
	p.mutex.Unlock()

	if changed && notify != nil {
		notify(snap)
	}
	return snap
}

func (p *PairingSession) scheduleConnected(gen int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if gen != p.generation {
		return
	}
	p.connected.Do(func() {
		callback := p.onConnected
		utils.LogInfo("WhatsApp pareado com sucesso")
		p.timer = time.AfterFunc(p.successDelay, func() {
			if callback != nil {
				callback()
			}
		})
	})
}
