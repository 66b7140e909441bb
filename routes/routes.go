package routes

import (
	"net/http"

	"buzzboard/handlers"
	"buzzboard/middleware"
	"buzzboard/services"

	"github.com/gin-gonic/gin"
)

// Handlers groups every handler the route table needs.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Tag      *handlers.TagHandler
	Question *handlers.QuestionHandler
	Board    *handlers.BoardHandler
	Game     *handlers.GameHandler
	Student  *handlers.StudentHandler
	Stream   *handlers.StreamHandler
	QR       *handlers.QRHandler
}

func SetupRoutes(router *gin.Engine, h *Handlers, authService *services.AuthService) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(authService))
		{
			// User profile
			protected.GET("/auth/profile", h.Auth.GetProfile)

			tags := protected.Group("/tags")
			{
				tags.GET("", h.Tag.ListTags)
				tags.POST("", h.Tag.CreateTag)
				tags.DELETE("/:id", h.Tag.DeleteTag)
			}

			questions := protected.Group("/questions")
			{
				questions.GET("", h.Question.ListQuestions)
				questions.POST("", h.Question.CreateQuestion)
				questions.GET("/search", h.Question.SearchQuestions)
				questions.GET("/export", h.Question.ExportQuestions)
				questions.POST("/import", h.Question.ImportQuestions)
				questions.GET("/:id", h.Question.GetQuestion)
				questions.PUT("/:id", h.Question.UpdateQuestion)
				questions.DELETE("/:id", h.Question.DeleteQuestion)
			}

			boards := protected.Group("/boards")
			{
				boards.GET("", h.Board.GetUserBoards)
				boards.POST("", h.Board.CreateBoard)
				boards.GET("/:id", h.Board.GetBoard)
				boards.PUT("/:id", h.Board.UpdateBoard)
				boards.DELETE("/:id", h.Board.DeleteBoard)
			}

			games := protected.Group("/games")
			{
				games.GET("", h.Game.ListGames)
				games.POST("", h.Game.CreateGame)
				games.POST("/:id/start", h.Game.StartGame)
				games.POST("/:id/reveal-question", h.Game.RevealQuestion)
				games.POST("/:id/answer", h.Game.SubmitAnswer)
				games.POST("/:id/assign-team", h.Game.AssignTeam)
				games.POST("/:id/buzzer", h.Game.SetBuzzer)
				games.POST("/:id/end", h.Game.EndGame)
				games.GET("/:id/results", h.Game.Results)
				games.GET("/:id/events", h.Game.Events)
				games.GET("/:id/qr", h.QR.GameQR)
			}
		}

		// Public game routes
		api.GET("/games/:id", h.Game.GetGame)
		api.GET("/join/:code", h.Game.GetGameByCode)

		students := api.Group("/students")
		{
			students.POST("/join", h.Student.JoinGame)
			students.POST("/buzzer", h.Student.PressBuzzer)
		}

		api.GET("/sse/:gameId", h.Stream.ServeSSE)
	}

	router.GET("/ws/:gameId", h.Stream.ServeWebSocket)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
