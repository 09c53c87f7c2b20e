package services

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"imob-followup/internal/utils"
)

const (
	PurposeConnectionStatus = "connection-status"
	PurposePairing          = "pairing"
)

// intervalSchedule fires every d. cron.Every rounds to whole seconds, which
// is too coarse for tests.
type intervalSchedule time.Duration

func (s intervalSchedule) Next(t time.Time) time.Time {
	return t.Add(time.Duration(s))
}

// Poller runs at most one periodic job per purpose. Starting a purpose that
// is already running replaces the old job; Stop and StopAll are idempotent.
type Poller struct {
	mutex   sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
}

func NewPoller() *Poller {
	logger := cron.PrintfLogger(utils.Logger)
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Start()
	return &Poller{cron: c, entries: make(map[string]cron.EntryID)}
}

// Start schedules job every interval. A non-positive interval stops the
// purpose instead of scheduling it.
func (p *Poller) Start(purpose string, interval time.Duration, job func()) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if id, ok := p.entries[purpose]; ok {
		p.cron.Remove(id)
		delete(p.entries, purpose)
	}
	if interval <= 0 {
		utils.LogError("Polling %s ignorado: intervalo inválido %s", purpose, interval)
		return
	}
	p.entries[purpose] = p.cron.Schedule(intervalSchedule(interval), cron.FuncJob(job))
	utils.LogDebug("Polling %s iniciado a cada %s", purpose, interval)
}

func (p *Poller) Stop(purpose string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if id, ok := p.entries[purpose]; ok {
		p.cron.Remove(id)
		delete(p.entries, purpose)
		utils.LogDebug("Polling %s encerrado", purpose)
	}
}

func (p *Poller) Running(purpose string) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	_, ok := p.entries[purpose]
	return ok
}

// StopAll cancels every job and waits for running ones to finish.
func (p *Poller) StopAll() {
	p.mutex.Lock()
	for purpose, id := range p.entries {
		p.cron.Remove(id)
		delete(p.entries, purpose)
	}
	p.mutex.Unlock()
	<-p.cron.Stop().Done()
}
