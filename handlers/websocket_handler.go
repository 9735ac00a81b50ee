package handlers

import (
	"log"
	"net/http"

	"github.com/Dosada05/padel-ladder-system/realtime"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// В продакшене здесь должна быть проверка Origin по списку
		// доверенных доменов.
		return true
	},
}

type WebSocketHandler struct {
	hub *realtime.Hub
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeCategoryWs подписывает клиента на события категории лестницы.
// Подключение: /ws/categories/{categoryID}
func (h *WebSocketHandler) ServeCategoryWs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "categoryID", realtime.CategoryRoom)
}

// ServeTournamentWs подписывает клиента на обновления сетки турнира.
// Подключение: /ws/tournaments/{tournamentID}
func (h *WebSocketHandler) ServeTournamentWs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "tournamentID", realtime.TournamentRoom)
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, param string, room func(int) string) {
	id, err := getIDFromURL(r, param)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту.
		log.Printf("realtime: failed to upgrade connection for %s %d: %v", param, id, err)
		return
	}

	realtime.NewClient(h.hub, conn, room(id)).Serve()
}
