package handlers

import (
	"context"
	"log"
	"net/http"

	"buzzboard/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler attaches push subscribers for a game. SSE and WebSocket
// connections share one registry and receive the same frames.
type StreamHandler struct {
	gameService *services.GameService
	hub         *services.Hub
}

func NewStreamHandler(gameService *services.GameService, hub *services.Hub) *StreamHandler {
	return &StreamHandler{
		gameService: gameService,
		hub:         hub,
	}
}

func (h *StreamHandler) gameID(c *gin.Context) (uint, bool) {
	gameID, ok := parseID(c, "gameId", "game")
	if !ok {
		return 0, false
	}
	if err := h.gameService.GameExists(c.Request.Context(), gameID); err != nil {
		respondError(c, err)
		return 0, false
	}
	return gameID, true
}

func (h *StreamHandler) ServeSSE(c *gin.Context) {
	gameID, ok := h.gameID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	client := services.NewClient()
	id, err := h.hub.Connect(gameID, client)
	if err != nil {
		log.Printf("[hub] sse handshake for game %d failed: %v", gameID, err)
		return
	}
	defer h.hub.Disconnect(id)

	if err := client.WritePump(c.Request.Context(), services.NewSSEWriter(c.Writer)); err != nil {
		log.Printf("[hub] sse connection %s write failed: %v", id, err)
	}
}

func (h *StreamHandler) ServeWebSocket(c *gin.Context) {
	gameID, ok := h.gameID(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[hub] websocket upgrade failed for game %d: %v", gameID, err)
		return
	}
	defer conn.Close()

	client := services.NewClient()
	id, err := h.hub.Connect(gameID, client)
	if err != nil {
		log.Printf("[hub] websocket handshake for game %d failed: %v", gameID, err)
		return
	}
	defer h.hub.Disconnect(id)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go readPump(conn, cancel)

	if err := client.WritePump(ctx, services.NewWebSocketWriter(conn)); err != nil {
		log.Printf("[hub] websocket connection %s write failed: %v", id, err)
	}
}

// readPump discards inbound messages; the stream is push only. It cancels
// the write side once the peer goes away.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[hub] websocket read error: %v", err)
			}
			return
		}
	}
}
