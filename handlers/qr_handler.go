package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"buzzboard/services"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

type QRHandler struct {
	gameService *services.GameService
	baseURL     string
}

func NewQRHandler(gameService *services.GameService, baseURL string) *QRHandler {
	return &QRHandler{gameService: gameService, baseURL: baseURL}
}

// JoinURL is the student join page for code. Without a configured base URL
// the request's own origin is used.
func (h *QRHandler) JoinURL(r *http.Request, code string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return fmt.Sprintf("%s/game/%s/join", strings.TrimRight(base, "/"), code)
}

func (h *QRHandler) GameQR(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	if game.InstructorID != userID {
		respondError(c, services.NotFoundf("game not found"))
		return
	}

	png, err := qrcode.Encode(h.JoinURL(c.Request, game.Code), qrcode.Medium, qrSize)
	if err != nil {
		respondError(c, fmt.Errorf("qr generation failed: %w", err))
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
