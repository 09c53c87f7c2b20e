package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

type GateState string

const (
	GateLoading   GateState = "loading"
	GateWizard    GateState = "wizard"
	GateLogin     GateState = "login"
	GateDashboard GateState = "dashboard"
)

// DashboardEntry is called when the gate reaches the dashboard. It receives
// the remote settings and is expected to load the contact list.
type DashboardEntry func(ctx context.Context, settings models.AppSettings) error

// AuthGate decides which screen the session belongs on: setup wizard, login
// or dashboard. Evaluations start from loading, except re-checks of a
// session already on the dashboard.
type AuthGate struct {
	mutex    sync.RWMutex
	gateway  *SyncGateway
	sessions models.SessionRepository
	state    GateState
	settings models.SettingsState

	onDashboard DashboardEntry
	onLeave     func()
}

func NewAuthGate(gateway *SyncGateway, sessions models.SessionRepository) *AuthGate {
	return &AuthGate{
		gateway:  gateway,
		sessions: sessions,
		state:    GateLoading,
		settings: models.Unconfigured(),
	}
}

func (a *AuthGate) OnDashboard(fn DashboardEntry) { a.onDashboard = fn }

func (a *AuthGate) OnLeave(fn func()) { a.onLeave = fn }

func (a *AuthGate) State() GateState {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.state
}

func (a *AuthGate) Settings() models.SettingsState {
	a.mutex.RLock()
	defer a.mutex.RUnlock()
	return a.settings
}

func (a *AuthGate) transition(state GateState, settings models.SettingsState) {
	a.mutex.Lock()
	previous := a.state
	a.state = state
	a.settings = settings
	a.mutex.Unlock()

	if previous != state {
		utils.LogInfo("Sessão: %s -> %s", previous, state)
	}
	if previous == GateDashboard && state != GateDashboard && a.onLeave != nil {
		a.onLeave()
	}
}

// Evaluate runs the gate from loading. Network failures leave the gate in
// loading and are returned to the caller. A re-check from the dashboard stays
// on the dashboard unless it ends in the wizard or at login.
func (a *AuthGate) Evaluate(ctx context.Context) (GateState, error) {
	pending := GateLoading
	if a.State() == GateDashboard {
		pending = GateDashboard
	} else {
		a.transition(GateLoading, a.Settings())
	}

	status, err := a.gateway.CheckConfigured(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotConfigured) {
			a.transition(GateWizard, models.Unconfigured())
			return GateWizard, nil
		}
		return pending, err
	}
	if !status.Configured {
		a.transition(GateWizard, models.Unconfigured())
		return GateWizard, nil
	}

	if !a.gateway.Session().HasToken() {
		a.transition(GateLogin, models.Unconfigured())
		return GateLogin, nil
	}

	settings, err := a.gateway.FetchSettings(ctx)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			utils.LogWarning("Token rejeitado pelo servidor")
			a.transition(GateLogin, models.Unconfigured())
			return GateLogin, nil
		}
		return pending, err
	}

	a.transition(GateDashboard, models.Configured(settings))
	if a.onDashboard != nil {
		if err := a.onDashboard(ctx, settings); err != nil {
			return GateDashboard, fmt.Errorf("erro ao carregar contatos: %w", err)
		}
	}
	return GateDashboard, nil
}

// Login stores the submitted token as-is and re-evaluates; the settings
// fetch decides whether it was accepted.
func (a *AuthGate) Login(ctx context.Context, token string) (GateState, error) {
	session := a.gateway.Session()
	session.Token = strings.TrimSpace(token)
	if err := a.sessions.Save(session); err != nil {
		return a.State(), fmt.Errorf("erro ao salvar token: %w", err)
	}
	a.gateway.SetSession(session)
	return a.Evaluate(ctx)
}

func (a *AuthGate) Logout() error {
	if err := a.sessions.ClearToken(); err != nil {
		return fmt.Errorf("erro ao remover token: %w", err)
	}
	session := a.gateway.Session()
	session.Token = ""
	a.gateway.SetSession(session)
	a.transition(GateLogin, models.Unconfigured())
	return nil
}

// Setup completes the first-run wizard: the settings are validated, stored
// remotely, and the returned token is kept for the session.
func (a *AuthGate) Setup(ctx context.Context, settings models.AppSettings, password string) (GateState, error) {
	settings, err := ValidateSettings(settings)
	if err != nil {
		return a.State(), err
	}
	token, err := a.gateway.Setup(ctx, settings, password)
	if err != nil {
		return a.State(), err
	}
	return a.Login(ctx, token)
}

// SetServerURL points the session at another remote service.
func (a *AuthGate) SetServerURL(ctx context.Context, serverURL string) (GateState, error) {
	serverURL = strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if !utils.IsURL(serverURL) {
		return a.State(), models.NewAppError(models.ErrInvalidSettings, 0, "URL do servidor inválida", nil)
	}
	session := a.gateway.Session()
	session.ServerURL = serverURL
	if err := a.sessions.Save(session); err != nil {
		return a.State(), fmt.Errorf("erro ao salvar URL do servidor: %w", err)
	}
	a.gateway.SetSession(session)
	return a.Evaluate(ctx)
}
