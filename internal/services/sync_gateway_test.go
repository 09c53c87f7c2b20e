package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"imob-followup/internal/models"
	"imob-followup/internal/testutil/mockbackend"
)

func newGateway(t *testing.T) (*SyncGateway, *mockbackend.Server) {
	t.Helper()
	backend := mockbackend.New(t)
	gw := NewSyncGateway(models.Session{Token: backend.Token(), ServerURL: backend.URL()}, 5*time.Second)
	return gw, backend
}

func TestGatewayCheckConfigured(t *testing.T) {
	gw, backend := newGateway(t)
	ctx := context.Background()

	status, err := gw.CheckConfigured(ctx)
	require.NoError(t, err)
	require.True(t, status.Configured)

	backend.SetConfigured(false)
	status, err = gw.CheckConfigured(ctx)
	require.NoError(t, err)
	require.False(t, status.Configured)
}

func TestGatewayFetchSettingsAuth(t *testing.T) {
	gw, backend := newGateway(t)
	backend.SetSettings(testSettings())
	ctx := context.Background()

	s, err := gw.FetchSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "Carla Corretora", s.AgentName)

	gw.SetSession(models.Session{Token: "wrong", ServerURL: backend.URL()})
	_, err = gw.FetchSettings(ctx)
	require.ErrorIs(t, err, models.ErrUnauthorized)

	gw.SetSession(models.Session{ServerURL: backend.URL()})
	_, err = gw.FetchSettings(ctx)
	require.ErrorIs(t, err, models.ErrUnauthorized)
	require.Equal(t, 2, backend.Hits("/settings"), "a missing token never reaches the server")
}

func TestGatewayPersistFetchRoundTrip(t *testing.T) {
	gw, _ := newGateway(t)
	ctx := context.Background()
	svc := NewContactService()

	result := svc.ImportRows([]string{
		"João Silva;11999998888;Cliente",
		"Maria Clara;11988887777;Proprietário",
		"Construtora Alfa;1133334444;Construtora",
	}, models.Configured(testSettings()), today)
	require.Empty(t, result.Errors)

	require.NoError(t, gw.PersistContacts(ctx, result.Imported))

	fetched, err := gw.FetchContacts(ctx)
	require.NoError(t, err)
	require.Len(t, fetched, len(result.Imported))

	byID := make(map[string]models.Contact)
	for _, c := range fetched {
		byID[c.ID] = c
	}
	for _, c := range result.Imported {
		require.Equal(t, c, byID[c.ID])
	}
}

func TestGatewayPersistEmptyList(t *testing.T) {
	gw, backend := newGateway(t)
	backend.SetContacts([]models.Contact{{ID: "old"}})

	require.NoError(t, gw.PersistContacts(context.Background(), nil))
	require.Empty(t, backend.Contacts())
}

func TestGatewaySendMessage(t *testing.T) {
	gw, backend := newGateway(t)
	ctx := context.Background()

	require.NoError(t, gw.SendMessage(ctx, "11999998888", "Olá!"))
	sent := backend.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "5511999998888", sent[0].Phone)
	require.Equal(t, "Olá!", sent[0].Message)

	backend.SetFailSend(true)
	err := gw.SendMessage(ctx, "11999998888", "Olá de novo")
	require.ErrorIs(t, err, models.ErrSend)
	require.ErrorIs(t, err, models.ErrNetwork)
	require.Len(t, backend.Sent(), 1)
	require.Equal(t, 2, backend.Hits("POST /send"), "send must not be retried")
}

func TestGatewayStatusAndQR(t *testing.T) {
	gw, backend := newGateway(t)
	ctx := context.Background()
	backend.QueueStatuses(models.ConnectionStatus{Status: models.ConnStatusQRReady}, models.ConnectionStatus{IsReady: true})

	st, err := gw.PollConnectionStatus(ctx)
	require.NoError(t, err)
	require.False(t, st.IsReady)
	require.Equal(t, models.ConnStatusQRReady, st.Status)

	qr, err := gw.FetchQRImage(ctx)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))

	st, err = gw.PollConnectionStatus(ctx)
	require.NoError(t, err)
	require.True(t, st.IsReady)
}

func TestGatewaySetup(t *testing.T) {
	gw, backend := newGateway(t)
	backend.SetConfigured(false)

	token, err := gw.Setup(context.Background(), testSettings(), "segredo")
	require.NoError(t, err)
	require.Equal(t, "token-segredo", token)
	require.Equal(t, backend.Token(), token)
}

func TestGatewayNetworkErrors(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	url := down.URL
	down.Close()

	gw := NewSyncGateway(models.Session{Token: "t", ServerURL: url}, time.Second)
	_, err := gw.CheckConfigured(context.Background())
	require.ErrorIs(t, err, models.ErrNetwork)

	gw = NewSyncGateway(models.Session{Token: "t"}, time.Second)
	_, err = gw.FetchContacts(context.Background())
	require.ErrorIs(t, err, models.ErrNotConfigured)
}

func TestGatewayServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"banco indisponível"}`))
	}))
	defer srv.Close()

	gw := NewSyncGateway(models.Session{Token: "t", ServerURL: srv.URL}, time.Second)
	err := gw.PersistContacts(context.Background(), []models.Contact{})
	require.ErrorIs(t, err, models.ErrNetwork)
	require.Contains(t, err.Error(), "banco indisponível")
	require.Equal(t, http.StatusServiceUnavailable, models.HTTPStatus(err))
}
