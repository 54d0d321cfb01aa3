package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	applog "github.com/evanmmo/vod-dashboard/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // request đã qua middleware kiểm tra quyền admin
	},
}

// HandleVODWebSocket mở kênh vod_list_changed cho dashboard; quyền admin do middleware kiểm tra
func HandleVODWebSocket(c *gin.Context) {
	log := applog.WithComponent("ws")
	userID := c.GetString("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := H.Register(conn)
	defer H.Unregister(conn)
	log.Info().Str("user_id", userID).Msg("dashboard websocket connected")

	hello, _ := json.Marshal(gin.H{"type": "connected", "message": "Connected to VOD updates"})
	select {
	case client.Send <- hello:
	default:
	}

	// chỉ đọc để phát hiện client đóng kết nối
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	log.Info().Str("user_id", userID).Msg("dashboard websocket disconnected")
}
