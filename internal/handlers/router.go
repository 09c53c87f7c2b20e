package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"imob-followup/internal/wsnotify"
)

// NewRouter builds the local dashboard API under /api/v1 with CORS applied.
func NewRouter(h *HTTPHandler, manager *wsnotify.WebSocketManager) http.Handler {
	router := mux.NewRouter().PathPrefix("/api/v1").Subrouter()

	// Rotas de sessão
	router.HandleFunc("/session", h.GetSession).Methods("GET", "OPTIONS")
	router.HandleFunc("/session/refresh", h.RefreshSession).Methods("POST", "OPTIONS")
	router.HandleFunc("/session/login", h.Login).Methods("POST", "OPTIONS")
	router.HandleFunc("/session/logout", h.Logout).Methods("POST", "OPTIONS")
	router.HandleFunc("/session/setup", h.Setup).Methods("POST", "OPTIONS")

	// Rotas de contatos, só disponíveis no painel
	contacts := router.PathPrefix("/contacts").Subrouter()
	contacts.Use(h.RequireDashboard)
	contacts.HandleFunc("", h.ListContacts).Methods("GET", "OPTIONS")
	contacts.HandleFunc("", h.CreateContact).Methods("POST", "OPTIONS")
	contacts.HandleFunc("/due", h.DueContacts).Methods("GET", "OPTIONS")
	contacts.HandleFunc("/import", h.ImportContacts).Methods("POST", "OPTIONS")
	contacts.HandleFunc("/{id}", h.UpdateContact).Methods("PUT", "OPTIONS")
	contacts.HandleFunc("/{id}", h.DeleteContact).Methods("DELETE", "OPTIONS")
	contacts.HandleFunc("/{id}/send", h.SendMessage).Methods("POST", "OPTIONS")
	contacts.HandleFunc("/{id}/draft", h.DraftMessage).Methods("POST", "OPTIONS")
	contacts.HandleFunc("/{id}/events", h.ApplyEvent).Methods("POST", "OPTIONS")
	contacts.HandleFunc("/{id}/viewed", h.MarkContactViewed).Methods("POST", "OPTIONS")

	// Rotas de conexão
	router.HandleFunc("/status", h.GetStatus).Methods("GET", "OPTIONS")
	router.HandleFunc("/pairing", h.OpenPairing).Methods("POST", "OPTIONS")
	router.HandleFunc("/pairing", h.GetPairing).Methods("GET", "OPTIONS")
	router.HandleFunc("/pairing", h.ClosePairing).Methods("DELETE", "OPTIONS")

	// Rota WebSocket
	router.HandleFunc("/ws", WebSocketHandler(manager))

	// Swagger UI servido a partir da documentação registrada em docs
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/api/v1/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	mainRouter := mux.NewRouter()
	mainRouter.PathPrefix("/api/v1").Handler(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(mainRouter)
}
