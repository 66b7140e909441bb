package handlers

import (
	"net/http"

	"buzzboard/services"

	"github.com/gin-gonic/gin"
)

// StudentHandler serves the unauthenticated student endpoints.
type StudentHandler struct {
	gameService *services.GameService
}

func NewStudentHandler(gameService *services.GameService) *StudentHandler {
	return &StudentHandler{gameService: gameService}
}

func (h *StudentHandler) JoinGame(c *gin.Context) {
	var req services.JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.gameService.JoinGame(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *StudentHandler) PressBuzzer(c *gin.Context) {
	var req services.BuzzRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.gameService.PressBuzzer(c.Request.Context(), req.GameID, req.StudentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
