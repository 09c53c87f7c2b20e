// Package mockbackend is an in-memory stand-in for the remote automation
// service, used by tests.
package mockbackend

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/skip2/go-qrcode"

	"imob-followup/internal/models"
)

type SentMessage struct {
	Phone   string
	Message string
}

type Server struct {
	Server *httptest.Server

	mutex      sync.Mutex
	configured bool
	token      string
	settings   *models.AppSettings
	contacts   []models.Contact
	sent       []SentMessage
	failSend   bool
	statuses   []models.ConnectionStatus
	qrContent  string
	hits       map[string]int

	fetchStarted chan struct{}
	fetchRelease chan struct{}
}

func New(t *testing.T) *Server {
	t.Helper()

	m := &Server{
		configured: true,
		token:      "test-token",
		contacts:   []models.Contact{},
		qrContent:  "2@pairing-ref,abc,def",
		hits:       make(map[string]int),
	}

	router := mux.NewRouter()
	router.HandleFunc("/auth-status", m.authStatus).Methods(http.MethodGet)
	router.HandleFunc("/setup", m.setup).Methods(http.MethodPost)
	router.HandleFunc("/settings", m.requireToken(m.getSettings)).Methods(http.MethodGet)
	router.HandleFunc("/contacts", m.requireToken(m.getContacts)).Methods(http.MethodGet)
	router.HandleFunc("/contacts", m.requireToken(m.postContacts)).Methods(http.MethodPost)
	router.HandleFunc("/send", m.requireToken(m.send)).Methods(http.MethodPost)
	router.HandleFunc("/status", m.status).Methods(http.MethodGet)
	router.HandleFunc("/qr", m.qr).Methods(http.MethodGet)
	router.Use(m.count)

	m.Server = httptest.NewServer(router)
	t.Cleanup(m.Server.Close)
	return m
}

func (m *Server) URL() string { return m.Server.URL }

func (m *Server) Token() string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.token
}

func (m *Server) SetConfigured(configured bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.configured = configured
}

func (m *Server) SetSettings(s models.AppSettings) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.settings = &s
}

func (m *Server) SetContacts(contacts []models.Contact) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.contacts = append([]models.Contact(nil), contacts...)
}

func (m *Server) Contacts() []models.Contact {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]models.Contact(nil), m.contacts...)
}

func (m *Server) SetFailSend(fail bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failSend = fail
}

func (m *Server) Sent() []SentMessage {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]SentMessage(nil), m.sent...)
}

// QueueStatuses sets the answers of successive GET /status calls. The last
// one keeps being returned once the queue is drained.
func (m *Server) QueueStatuses(statuses ...models.ConnectionStatus) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.statuses = append([]models.ConnectionStatus(nil), statuses...)
}

func (m *Server) Hits(path string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.hits[path]
}

func (m *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mutex.Lock()
		m.hits[r.Method+" "+r.URL.Path]++
		m.hits[r.URL.Path]++
		m.mutex.Unlock()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (m *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token != m.Token() {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		next(w, r)
	}
}

func (m *Server) authStatus(w http.ResponseWriter, r *http.Request) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	writeJSON(w, http.StatusOK, models.AuthStatus{Configured: m.configured})
}

func (m *Server) setup(w http.ResponseWriter, r *http.Request) {
	var req models.SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid setup"})
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.configured = true
	m.settings = &req.Settings
	m.token = "token-" + req.Password
	writeJSON(w, http.StatusOK, models.SetupResponse{Token: m.token})
}

func (m *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.settings == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "settings not found"})
		return
	}
	writeJSON(w, http.StatusOK, m.settings)
}

// HoldNextFetch makes the next GET /contacts read the list and then wait
// until release is called. started is closed once the list was read.
func (m *Server) HoldNextFetch() (started <-chan struct{}, release func()) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.fetchStarted = make(chan struct{})
	m.fetchRelease = make(chan struct{})
	gate := m.fetchRelease
	var once sync.Once
	return m.fetchStarted, func() { once.Do(func() { close(gate) }) }
}

func (m *Server) getContacts(w http.ResponseWriter, r *http.Request) {
	contacts := m.Contacts()

	m.mutex.Lock()
	started, release := m.fetchStarted, m.fetchRelease
	m.fetchStarted, m.fetchRelease = nil, nil
	m.mutex.Unlock()
	if started != nil {
		close(started)
		<-release
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (m *Server) postContacts(w http.ResponseWriter, r *http.Request) {
	var contacts []models.Contact
	if err := json.NewDecoder(r.Body).Decode(&contacts); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	m.SetContacts(contacts)
	writeJSON(w, http.StatusOK, models.Ack{Success: true})
}

func (m *Server) send(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.failSend {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "whatsapp not ready"})
		return
	}
	m.sent = append(m.sent, SentMessage{Phone: req.Phone, Message: req.Message})
	writeJSON(w, http.StatusOK, models.Ack{Success: true})
}

func (m *Server) status(w http.ResponseWriter, r *http.Request) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	status := models.ConnectionStatus{IsReady: false, Status: "loading"}
	if len(m.statuses) > 0 {
		status = m.statuses[0]
		if len(m.statuses) > 1 {
			m.statuses = m.statuses[1:]
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (m *Server) qr(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(m.qrContent, qrcode.Medium, 256)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, models.QRCodeResponse{
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}
