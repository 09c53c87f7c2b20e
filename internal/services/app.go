package services

import (
	"context"
	"fmt"

	"imob-followup/config"
	"imob-followup/internal/models"
	"imob-followup/internal/repositories"
	"imob-followup/internal/utils"
	"imob-followup/internal/wsnotify"
)

// App wires the session gate, the dashboard and the pairing dialog around a
// single gateway. Both the HTTP server and the CLI commands start from it.
type App struct {
	Gateway   *SyncGateway
	Gate      *AuthGate
	Dashboard *Dashboard
	Pairing   *PairingSession
	Poller    *Poller

	live bool
}

func NewApp(cfg *config.Config, sessions models.SessionRepository, notifier *wsnotify.WebSocketManager) (*App, error) {
	session, err := sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar sessão: %w", err)
	}

	gateway := NewSyncGateway(session, cfg.HTTPTimeout)
	poller := NewPoller()

	dashboard := NewDashboard(
		repositories.NewMemoryContactRepository(),
		gateway,
		NewContactService(),
		NewDraftingServiceFromConfig(cfg.OpenAI),
		poller,
		notifier,
		cfg.StatusPollInterval,
	)
	if cfg.Backup.Enabled {
		backup, err := NewS3Backup(cfg.Backup)
		if err != nil {
			utils.LogError("Backup S3 desativado: %v", err)
		} else {
			dashboard.SetBackup(backup)
		}
	}

	app := &App{
		Gateway:   gateway,
		Gate:      NewAuthGate(gateway, sessions),
		Dashboard: dashboard,
		Pairing:   NewPairingSession(gateway, poller, cfg.PairingPollInterval, cfg.PairingSuccessDelay),
		Poller:    poller,
	}

	app.Gate.OnDashboard(func(ctx context.Context, settings models.AppSettings) error {
		if err := dashboard.Load(ctx, settings); err != nil {
			return err
		}
		if app.live {
			dashboard.Activate()
		}
		return nil
	})
	app.Gate.OnLeave(func() {
		app.Pairing.Close()
		dashboard.Unload()
	})

	app.Pairing.OnChange(func(s PairingSnapshot) {
		notifier.Notify(wsnotify.EventPairing, s)
	})
	app.Pairing.OnConnected(func() {
		notifier.Toast(wsnotify.ToastSuccess, "WhatsApp conectado", "")
		dashboard.PollOnce(context.Background())
	})

	return app, nil
}

// EnableLiveUpdates makes the dashboard poll status and contacts while it
// is the active view. The CLI runs without it.
func (a *App) EnableLiveUpdates() {
	a.live = true
}

func (a *App) Close() {
	a.Pairing.Close()
	a.Poller.StopAll()
}
