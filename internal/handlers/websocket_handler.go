package handlers

import (
	"net/http"

	"imob-followup/internal/utils"
	"imob-followup/internal/wsnotify"
)

// WebSocketHandler streams dashboard events (toasts, connection status,
// pairing progress, contact list changes) to the browser.
func WebSocketHandler(manager *wsnotify.WebSocketManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsnotify.Upgrader().Upgrade(w, r, nil)
		if err != nil {
			utils.LogWarning("Falha ao abrir websocket: %v", err)
			return
		}
		manager.AddClient(conn)
		defer func() {
			manager.RemoveClient(conn)
			conn.Close()
		}()
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				break
			}
		}
	}
}
