package handlers

import (
	"net/http"

	"buzzboard/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService *services.GameService
}

func NewGameHandler(gameService *services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	game, err := h.gameService.CreateGame(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"game": game})
}

func (h *GameHandler) ListGames(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	games, err := h.gameService.ListGames(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": games})
}

// GetGame is public: students render the board from it.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) GetGameByCode(c *gin.Context) {
	game, err := h.gameService.GetGameByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game})
}

func (h *GameHandler) StartGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	game, err := h.gameService.StartGame(c.Request.Context(), userID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game})
}

func (h *GameHandler) RevealQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	var req services.RevealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	state, err := h.gameService.RevealQuestion(c.Request.Context(), userID, gameID, req.SlotID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game_state": state})
}

func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.gameService.SubmitAnswer(c.Request.Context(), userID, gameID, req.TeamID, *req.IsCorrect)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) AssignTeam(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	var req services.AssignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	student, err := h.gameService.AssignTeam(c.Request.Context(), userID, gameID, req.StudentID, req.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"student": student})
}

func (h *GameHandler) SetBuzzer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	var req services.SetBuzzerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	state, err := h.gameService.SetBuzzer(c.Request.Context(), userID, gameID, *req.Enabled)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game_state": state})
}

func (h *GameHandler) EndGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	game, err := h.gameService.EndGame(c.Request.Context(), userID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game})
}

func (h *GameHandler) Results(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	game, err := h.gameService.Results(c.Request.Context(), userID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": game})
}

func (h *GameHandler) Events(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := parseID(c, "id", "game")
	if !ok {
		return
	}

	events, err := h.gameService.Events(c.Request.Context(), userID, gameID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
