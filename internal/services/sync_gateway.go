package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"imob-followup/internal/models"
	"imob-followup/internal/utils"
)

// SyncGateway is the only component that talks to the remote automation
// service. It never retries: every failure is returned to the caller.
type SyncGateway struct {
	mutex      sync.RWMutex
	session    models.Session
	httpClient *http.Client
}

func NewSyncGateway(session models.Session, timeout time.Duration) *SyncGateway {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &SyncGateway{
		session:    session,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *SyncGateway) Session() models.Session {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return g.session
}

func (g *SyncGateway) SetSession(session models.Session) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.session = session
}

func (g *SyncGateway) do(ctx context.Context, method, path string, authenticated bool, body, out interface{}) error {
	session := g.Session()
	if session.ServerURL == "" {
		return models.NewAppError(models.ErrNotConfigured, 0, "URL do servidor não configurada", nil)
	}
	if authenticated && !session.HasToken() {
		return models.NewAppError(models.ErrUnauthorized, http.StatusUnauthorized, "token de acesso ausente", nil)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("erro ao serializar requisição %s: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, utils.JoinURL(session.ServerURL, path), reader)
	if err != nil {
		return fmt.Errorf("erro ao criar requisição %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		utils.LogWarning("Falha de rede em %s %s: %v", method, path, err)
		return models.NewAppError(models.ErrNetwork, 0, "servidor indisponível", err)
	}
	defer resp.Body.Close()
	utils.TimeTrack(start, method+" "+path)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.NewAppError(models.ErrNetwork, resp.StatusCode, "erro ao ler resposta", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return models.NewAppError(models.ErrUnauthorized, resp.StatusCode, remoteMessage(raw), nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.NewAppError(models.ErrNetwork, resp.StatusCode, remoteMessage(raw), nil)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return models.NewAppError(models.ErrNetwork, resp.StatusCode, "resposta inválida do servidor", err)
	}
	return nil
}

func remoteMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}

// CheckConfigured tells whether the first-run setup already happened.
func (g *SyncGateway) CheckConfigured(ctx context.Context) (models.AuthStatus, error) {
	var status models.AuthStatus
	err := g.do(ctx, http.MethodGet, "/auth-status", false, nil, &status)
	return status, err
}

// Setup stores the wizard settings remotely and returns the new access token.
func (g *SyncGateway) Setup(ctx context.Context, settings models.AppSettings, password string) (string, error) {
	var resp models.SetupResponse
	body := models.SetupRequest{Settings: settings, Password: password}
	if err := g.do(ctx, http.MethodPost, "/setup", false, body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", models.NewAppError(models.ErrUnauthorized, 0, "servidor não retornou token", nil)
	}
	return resp.Token, nil
}

func (g *SyncGateway) FetchSettings(ctx context.Context) (models.AppSettings, error) {
	var settings models.AppSettings
	err := g.do(ctx, http.MethodGet, "/settings", true, nil, &settings)
	return settings, err
}

func (g *SyncGateway) FetchContacts(ctx context.Context) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0)
	if err := g.do(ctx, http.MethodGet, "/contacts", true, nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// PersistContacts replaces the remote list with the given, complete list.
func (g *SyncGateway) PersistContacts(ctx context.Context, contacts []models.Contact) error {
	if contacts == nil {
		contacts = []models.Contact{}
	}
	var ack models.Ack
	if err := g.do(ctx, http.MethodPost, "/contacts", true, contacts, &ack); err != nil {
		utils.LogError("Erro ao salvar %d contatos: %v", len(contacts), err)
		return err
	}
	utils.LogDebug("%d contatos salvos no servidor", len(contacts))
	return nil
}

// SendMessage dispatches a single WhatsApp message through the remote
// session. Failures are wrapped as ErrSend and never retried.
func (g *SyncGateway) SendMessage(ctx context.Context, phone, message string) error {
	req := models.SendMessageRequest{Phone: utils.NormalizePhone(phone), Message: message}
	if err := g.do(ctx, http.MethodPost, "/send", true, req, nil); err != nil {
		utils.LogError("Erro ao enviar mensagem para %s: %v", req.Phone, err)
		return models.NewAppError(models.ErrSend, statusOf(err), "falha ao enviar mensagem", err)
	}
	utils.LogInfo("Mensagem enviada com sucesso para %s", req.Phone)
	return nil
}

func (g *SyncGateway) PollConnectionStatus(ctx context.Context) (models.ConnectionStatus, error) {
	var status models.ConnectionStatus
	err := g.do(ctx, http.MethodGet, "/status", false, nil, &status)
	return status, err
}

// FetchQRImage returns the pairing QR code image payload (a data URL).
func (g *SyncGateway) FetchQRImage(ctx context.Context) (string, error) {
	var resp models.QRCodeResponse
	if err := g.do(ctx, http.MethodGet, "/qr", false, nil, &resp); err != nil {
		return "", err
	}
	if resp.QRCode == "" {
		return "", models.NewAppError(models.ErrNetwork, 0, "QR Code ainda não disponível", nil)
	}
	return resp.QRCode, nil
}

func statusOf(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 0
}
