package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"imob-followup/internal/automation"
	"imob-followup/internal/models"
	"imob-followup/internal/services"
	"imob-followup/internal/utils"
)

type HTTPHandler struct {
	app *services.App
	now func() time.Time
}

func NewHTTPHandler(app *services.App) *HTTPHandler {
	return &HTTPHandler{app: app, now: time.Now}
}

// userMessage is the text shown to the user for each failure kind.
func userMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrNotConfigured):
		return "O serviço ainda não foi configurado. Conclua a configuração inicial."
	case errors.Is(err, models.ErrUnauthorized):
		return "Sessão expirada ou token inválido. Faça login novamente."
	case errors.Is(err, models.ErrContactNotFound):
		return "Contato não encontrado"
	case errors.Is(err, models.ErrSend):
		return "Não foi possível enviar a mensagem. Tente novamente."
	case errors.Is(err, models.ErrNetwork):
		return "Servidor indisponível. Verifique a conexão e tente novamente."
	case errors.Is(err, models.ErrInvalidContact), errors.Is(err, models.ErrInvalidSettings), errors.Is(err, models.ErrInvalidMessage):
		return "Dados inválidos: " + err.Error()
	}
	return "Erro interno. Tente novamente em alguns instantes."
}

func respondError(w http.ResponseWriter, route string, err error) {
	status := models.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		utils.LogError("Erro em %s: %v", route, err)
	} else {
		utils.LogWarning("Requisição rejeitada em %s: %v", route, err)
	}
	models.RespondWithJSON(w, status, models.NewErrorResponse(userMessage(err)))
}

func decode(w http.ResponseWriter, r *http.Request, route string, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.LogError("Erro ao decodificar requisição %s: %v", route, err)
		models.RespondWithJSON(w, http.StatusBadRequest, models.NewErrorResponse("Erro ao decodificar requisição: "+err.Error()))
		return false
	}
	return true
}

// decodeOptional is decode for routes whose body may be absent. Chunked
// requests report ContentLength -1, so an empty body only shows up as io.EOF.
func decodeOptional(w http.ResponseWriter, r *http.Request, route string, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	utils.LogError("Erro ao decodificar requisição %s: %v", route, err)
	models.RespondWithJSON(w, http.StatusBadRequest, models.NewErrorResponse("Erro ao decodificar requisição: "+err.Error()))
	return false
}

// RequireDashboard rejects contact routes until the session reached the dashboard.
func (h *HTTPHandler) RequireDashboard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch h.app.Gate.State() {
		case services.GateDashboard:
			next.ServeHTTP(w, r)
		case services.GateWizard:
			respondError(w, r.URL.Path, models.NewAppError(models.ErrNotConfigured, 0, "configuração pendente", nil))
		default:
			respondError(w, r.URL.Path, models.NewAppError(models.ErrUnauthorized, 0, "sessão não autenticada", nil))
		}
	})
}

type SessionView struct {
	State    services.GateState      `json:"state"`
	Settings *models.AppSettings     `json:"settings,omitempty"`
	Status   models.ConnectionStatus `json:"connection"`
}

func (h *HTTPHandler) sessionView() SessionView {
	view := SessionView{State: h.app.Gate.State(), Status: h.app.Dashboard.ConnectionStatus()}
	if s, ok := h.app.Gate.Settings().Get(); ok {
		view.Settings = &s
	}
	return view
}

// @Summary Session state
// @Description Returns which screen the session belongs on: wizard, login or dashboard
// @Tags session
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /session [get]
func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Estado da sessão", h.sessionView()))
}

// @Summary Re-evaluate session
// @Tags session
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /session/refresh [post]
func (h *HTTPHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	if _, err := h.app.Gate.Evaluate(r.Context()); err != nil {
		respondError(w, "/session/refresh", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Sessão atualizada", h.sessionView()))
}

// @Summary Login
// @Description Stores the access token; the next settings fetch decides if it is valid
// @Tags session
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Token de acesso"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /session/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, "/session/login", &req) {
		return
	}
	state, err := h.app.Gate.Login(r.Context(), req.Token)
	if err != nil {
		respondError(w, "/session/login", err)
		return
	}
	if state == services.GateLogin {
		models.RespondWithJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Token inválido"))
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Login realizado com sucesso", h.sessionView()))
}

// @Summary Logout
// @Tags session
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /session/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Gate.Logout(); err != nil {
		respondError(w, "/session/logout", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Sessão encerrada", h.sessionView()))
}

// @Summary First-run setup
// @Description Saves the wizard settings on the remote service and logs in with the returned token
// @Tags session
// @Accept json
// @Produce json
// @Param request body models.SetupRequest true "Configurações e senha"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /session/setup [post]
func (h *HTTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req models.SetupRequest
	if !decode(w, r, "/session/setup", &req) {
		return
	}
	if _, err := h.app.Gate.Setup(r.Context(), req.Settings, req.Password); err != nil {
		respondError(w, "/session/setup", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Configuração concluída", h.sessionView()))
}

// @Summary List contacts
// @Tags contacts
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /contacts [get]
func (h *HTTPHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contatos", h.app.Dashboard.Contacts()))
}

// @Summary Contacts due for follow-up
// @Tags contacts
// @Produce json
// @Param date query string false "Data de referência (AAAA-MM-DD)"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /contacts/due [get]
func (h *HTTPHandler) DueContacts(w http.ResponseWriter, r *http.Request) {
	today := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			models.RespondWithJSON(w, http.StatusBadRequest, models.NewErrorResponse("Data inválida, use AAAA-MM-DD"))
			return
		}
		today = d
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contatos pendentes", h.app.Dashboard.Due(today)))
}

// @Summary Create contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body models.CreateContactRequest true "Novo contato"
// @Success 201 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /contacts [post]
func (h *HTTPHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContactRequest
	if !decode(w, r, "/contacts", &req) {
		return
	}
	c, err := h.app.Dashboard.Create(r.Context(), req)
	if err != nil {
		respondError(w, "/contacts", err)
		return
	}
	models.RespondWithJSON(w, http.StatusCreated, models.NewSuccessResponse("Contato criado com sucesso", c))
}

// @Summary Update contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "ID do contato"
// @Param request body models.UpdateContactRequest true "Campos alterados"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /contacts/{id} [put]
func (h *HTTPHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateContactRequest
	if !decode(w, r, "/contacts/{id}", &req) {
		return
	}
	c, err := h.app.Dashboard.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		respondError(w, "/contacts/{id}", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contato atualizado com sucesso", c))
}

// @Summary Delete contact
// @Tags contacts
// @Produce json
// @Param id path string true "ID do contato"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /contacts/{id} [delete]
func (h *HTTPHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.app.Dashboard.Delete(r.Context(), id); err != nil {
		respondError(w, "/contacts/{id}", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contato removido", map[string]string{"id": id}))
}

// @Summary Import contacts
// @Description One contact per row, "nome;telefone;tipo"
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body models.ImportRequest true "Linhas a importar"
// @Success 200 {object} models.APIResponse
// @Router /contacts/import [post]
func (h *HTTPHandler) ImportContacts(w http.ResponseWriter, r *http.Request) {
	var req models.ImportRequest
	if !decode(w, r, "/contacts/import", &req) {
		return
	}
	result, err := h.app.Dashboard.Import(r.Context(), req.Rows)
	if err != nil {
		respondError(w, "/contacts/import", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Importação concluída", result))
}

// @Summary Send message
// @Description Sends through the remote WhatsApp session, or returns a wa.me link in browser mode
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "ID do contato"
// @Param request body models.DashboardSendRequest true "Mensagem"
// @Success 200 {object} models.APIResponse
// @Failure 502 {object} models.APIResponse
// @Router /contacts/{id}/send [post]
func (h *HTTPHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.DashboardSendRequest
	if !decode(w, r, "/contacts/{id}/send", &req) {
		return
	}
	result, err := h.app.Dashboard.Send(r.Context(), mux.Vars(r)["id"], req.Message)
	if err != nil {
		respondError(w, "/contacts/{id}/send", err)
		return
	}
	message := "Mensagem enviada com sucesso"
	if result.Link != "" {
		message = "Abra o link para enviar pelo WhatsApp"
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse(message, result))
}

// @Summary Draft message
// @Description Writes a follow-up or nudge message; falls back to a fixed template
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "ID do contato"
// @Param request body models.DraftRequest false "Tipo de rascunho"
// @Success 200 {object} models.APIResponse
// @Router /contacts/{id}/draft [post]
func (h *HTTPHandler) DraftMessage(w http.ResponseWriter, r *http.Request) {
	var req models.DraftRequest
	if !decodeOptional(w, r, "/contacts/{id}/draft", &req) {
		return
	}
	draft, err := h.app.Dashboard.Draft(r.Context(), mux.Vars(r)["id"], req.IsNudge)
	if err != nil {
		respondError(w, "/contacts/{id}/draft", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Rascunho gerado", draft))
}

// @Summary Automation event
// @Description Applies automated_send, manual_send, reply_received or reply_read to the contact
// @Tags automation
// @Accept json
// @Produce json
// @Param id path string true "ID do contato"
// @Param request body models.AutomationEventRequest true "Evento"
// @Success 200 {object} models.APIResponse
// @Failure 400 {object} models.APIResponse
// @Router /contacts/{id}/events [post]
func (h *HTTPHandler) ApplyEvent(w http.ResponseWriter, r *http.Request) {
	var req models.AutomationEventRequest
	if !decode(w, r, "/contacts/{id}/events", &req) {
		return
	}
	kind, err := automation.ParseEventKind(req.Event)
	if err != nil {
		models.RespondWithJSON(w, http.StatusBadRequest, models.NewErrorResponse("Evento desconhecido: "+req.Event))
		return
	}
	c, err := h.app.Dashboard.ApplyEvent(r.Context(), mux.Vars(r)["id"], automation.Event{Kind: kind, At: h.now(), Content: req.Content})
	if err != nil {
		respondError(w, "/contacts/{id}/events", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Evento aplicado", c))
}

// @Summary Mark reply as viewed
// @Tags contacts
// @Produce json
// @Param id path string true "ID do contato"
// @Success 200 {object} models.APIResponse
// @Router /contacts/{id}/viewed [post]
func (h *HTTPHandler) MarkContactViewed(w http.ResponseWriter, r *http.Request) {
	c, err := h.app.Dashboard.MarkViewed(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, "/contacts/{id}/viewed", err)
		return
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Contato marcado como visualizado com sucesso", c))
}

// @Summary Check Connection Status
// @Description Last WhatsApp connection status seen by the dashboard poll
// @Tags connection
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /status [get]
func (h *HTTPHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.app.Dashboard.ConnectionStatus()

	var message string
	switch {
	case status.IsReady:
		message = "O WhatsApp está conectado e pronto para enviar mensagens!"
	case status.Status == models.ConnStatusQRReady:
		message = "O QR Code está pronto para ser escaneado."
	case status.Status == "offline":
		message = "Servidor indisponível."
	default:
		message = "O WhatsApp está desconectado."
	}
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse(message, status))
}

// @Summary Open pairing
// @Description Starts polling the pairing status; the QR code arrives over the websocket and GET /pairing
// @Tags connection
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /pairing [post]
func (h *HTTPHandler) OpenPairing(w http.ResponseWriter, r *http.Request) {
	snap := h.app.Pairing.Open(r.Context())
	h.respondPairing(w, snap)
}

// @Summary Pairing state
// @Tags connection
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /pairing [get]
func (h *HTTPHandler) GetPairing(w http.ResponseWriter, r *http.Request) {
	h.respondPairing(w, h.app.Pairing.Snapshot())
}

// @Summary Close pairing
// @Tags connection
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /pairing [delete]
func (h *HTTPHandler) ClosePairing(w http.ResponseWriter, r *http.Request) {
	h.app.Pairing.Close()
	models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("Pareamento encerrado", nil))
}

func (h *HTTPHandler) respondPairing(w http.ResponseWriter, snap services.PairingSnapshot) {
	switch snap.State {
	case services.PairingQRReady:
		models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("QR Code gerado com sucesso", snap))
	case services.PairingSuccess:
		models.RespondWithJSON(w, http.StatusOK, models.NewSuccessResponse("WhatsApp conectado com sucesso", snap))
	case services.PairingError:
		models.RespondWithJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Não foi possível obter o QR Code. Tente novamente."))
	default:
		resp := models.NewWaitingResponse("Aguardando QR Code")
		resp.Data = snap
		models.RespondWithJSON(w, http.StatusAccepted, resp)
	}
}
