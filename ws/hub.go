package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	applog "github.com/evanmmo/vod-dashboard/logger"
	"github.com/evanmmo/vod-dashboard/metrics"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub giữ các dashboard admin đang mở để báo khi danh sách VOD thay đổi
type Hub struct {
	Clients map[*websocket.Conn]*Client
	Mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{Clients: make(map[*websocket.Conn]*Client)}
}

var H = NewHub()

// VODListChanged báo client cần tải lại danh sách và tổng số VOD
type VODListChanged struct {
	Type   string `json:"type"`
	Action string `json:"action"` // insert | delete
	VODID  string `json:"vod_id"`
}

func (h *Hub) Register(conn *websocket.Conn) *Client {
	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Mutex.Lock()
	h.Clients[conn] = client
	h.Mutex.Unlock()
	metrics.WebsocketClients.Inc()

	go h.writePump(client)
	return client
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.Clients[conn]; ok {
		close(client.Send)
		delete(h.Clients, conn)
		metrics.WebsocketClients.Dec()
	}
}

// Broadcast gửi cho mọi client; client chậm (buffer đầy) bị bỏ qua message này
func (h *Hub) Broadcast(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()
	return map[string]int{"clients": len(h.Clients)}
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// BroadcastVODListChanged gửi signal sau khi insert/delete thành công
func BroadcastVODListChanged(action, vodID string) {
	data, err := json.Marshal(VODListChanged{
		Type:   "vod_list_changed",
		Action: action,
		VODID:  vodID,
	})
	if err != nil {
		applog.WithComponent("ws").Error().Err(err).Msg("marshal vod_list_changed")
		return
	}
	H.Broadcast(data)
}
