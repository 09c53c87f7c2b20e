package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"imob-followup/internal/models"
	"imob-followup/internal/testutil/mockbackend"
)

type memorySessions struct {
	session models.Session
	saves   int
}

func (m *memorySessions) Load() (models.Session, error) { return m.session, nil }

func (m *memorySessions) Save(s models.Session) error {
	m.session = s
	m.saves++
	return nil
}

func (m *memorySessions) ClearToken() error {
	m.session.Token = ""
	return nil
}

func newGate(t *testing.T, token string) (*AuthGate, *mockbackend.Server, *memorySessions) {
	t.Helper()
	backend := mockbackend.New(t)
	sessions := &memorySessions{session: models.Session{Token: token, ServerURL: backend.URL()}}
	gw := NewSyncGateway(sessions.session, 5*time.Second)
	return NewAuthGate(gw, sessions), backend, sessions
}

func TestAuthGateWizardWhenNotConfigured(t *testing.T) {
	gate, backend, _ := newGate(t, "")
	backend.SetConfigured(false)

	state, err := gate.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, GateWizard, state)
	require.False(t, gate.Settings().IsConfigured())
}

func TestAuthGateWizardWithoutServerURL(t *testing.T) {
	gate := NewAuthGate(NewSyncGateway(models.Session{}, time.Second), &memorySessions{})

	state, err := gate.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, GateWizard, state)
}

func TestAuthGateLoginWithoutToken(t *testing.T) {
	gate, backend, _ := newGate(t, "")
	backend.SetSettings(testSettings())

	state, err := gate.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, GateLogin, state)
	require.Zero(t, backend.Hits("/settings"))
}

func TestAuthGateLoginWhenTokenRejected(t *testing.T) {
	gate, backend, _ := newGate(t, "stale")
	backend.SetSettings(testSettings())

	state, err := gate.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, GateLogin, state)
}

func TestAuthGateDashboardLoadsContacts(t *testing.T) {
	gate, backend, _ := newGate(t, "test-token")
	backend.SetSettings(testSettings())

	var entered models.AppSettings
	gate.OnDashboard(func(ctx context.Context, s models.AppSettings) error {
		entered = s
		return nil
	})

	state, err := gate.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, GateDashboard, state)
	require.Equal(t, "Carla Corretora", entered.AgentName)

	s, ok := gate.Settings().Get()
	require.True(t, ok)
	require.Equal(t, testSettings(), s)
}

func TestAuthGateNetworkErrorStaysLoading(t *testing.T) {
	gate, backend, _ := newGate(t, "test-token")
	backend.Server.Close()

	state, err := gate.Evaluate(context.Background())
	require.ErrorIs(t, err, models.ErrNetwork)
	require.Equal(t, GateLoading, state)
	require.Equal(t, GateLoading, gate.State())
}

func TestAuthGateRecheckFromDashboardKeepsDashboard(t *testing.T) {
	gate, backend, _ := newGate(t, "test-token")
	backend.SetSettings(testSettings())
	left := 0
	gate.OnLeave(func() { left++ })

	state, err := gate.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, GateDashboard, state)

	state, err = gate.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, GateDashboard, state)
	require.Zero(t, left)

	backend.Server.Close()
	state, err = gate.Evaluate(context.Background())
	require.ErrorIs(t, err, models.ErrNetwork)
	require.Equal(t, GateDashboard, state)
	require.Equal(t, GateDashboard, gate.State())
	require.Zero(t, left)
}

func TestAuthGateLoginAndLogout(t *testing.T) {
	gate, backend, sessions := newGate(t, "")
	backend.SetSettings(testSettings())

	left := 0
	gate.OnLeave(func() { left++ })

	state, err := gate.Login(context.Background(), "wrong")
	require.NoError(t, err)
	require.Equal(t, GateLogin, state)
	require.Equal(t, "wrong", sessions.session.Token)

	state, err = gate.Login(context.Background(), "  test-token ")
	require.NoError(t, err)
	require.Equal(t, GateDashboard, state)
	require.Equal(t, "test-token", sessions.session.Token)

	require.NoError(t, gate.Logout())
	require.Equal(t, GateLogin, gate.State())
	require.Empty(t, sessions.session.Token)
	require.False(t, gate.Settings().IsConfigured())
	require.Equal(t, 1, left)
}

func TestAuthGateSetup(t *testing.T) {
	gate, backend, sessions := newGate(t, "")
	backend.SetConfigured(false)

	state, err := gate.Evaluate(context.Background())
	require.NoError(t, err)
	require.Equal(t, GateWizard, state)

	invalid := testSettings()
	invalid.AgentName = ""
	_, err = gate.Setup(context.Background(), invalid, "segredo")
	require.ErrorIs(t, err, models.ErrInvalidSettings)

	state, err = gate.Setup(context.Background(), testSettings(), "segredo")
	require.NoError(t, err)
	require.Equal(t, GateDashboard, state)
	require.Equal(t, "token-segredo", sessions.session.Token)
}

func TestAuthGateSetServerURL(t *testing.T) {
	gate, backend, sessions := newGate(t, "test-token")
	backend.SetSettings(testSettings())

	_, err := gate.SetServerURL(context.Background(), "not a url")
	require.ErrorIs(t, err, models.ErrInvalidSettings)

	state, err := gate.SetServerURL(context.Background(), backend.URL()+"/")
	require.NoError(t, err)
	require.Equal(t, GateDashboard, state)
	require.Equal(t, backend.URL(), sessions.session.ServerURL)
}
