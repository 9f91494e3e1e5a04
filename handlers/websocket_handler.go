package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/tournio/swiss-system/pairing"
	"github.com/tournio/swiss-system/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin фильтруется CORS-слоем маршрутизатора; сокет отдаёт только
		// публичные данные турнира.
		return true
	},
}

type WebSocketHandler struct {
	hub         *pairing.Hub
	tournaments services.TournamentService
}

func NewWebSocketHandler(hub *pairing.Hub, tournaments services.TournamentService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		tournaments: tournaments,
	}
}

// ServeWs подписывает клиента на события турнира {id}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "id")

	if _, err := h.tournaments.Get(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту HTTP-ошибкой.
		log.Printf("websocket upgrade for tournament %s: %v", tournamentID, err)
		return
	}

	client := &pairing.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: tournamentID,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
