package tasks

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // OK for demo; restrict in production
	},
}

// WSHandler upgrades the connection and keeps it registered with the
// hub until the client goes away.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		// welcome goes out before registration: once the conn is in
		// the hub, only BroadcastJSON may write to it
		_ = ws.WriteMessage(
			websocket.TextMessage,
			[]byte(`{"type":"welcome","transport":"websocket"}`+"\n"),
		)

		hub.Add(ws)
		log.Println("[ws] client connected")

		// Keep connection alive (ignore incoming messages)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Remove(ws)
		log.Println("[ws] client disconnected")
	}
}
