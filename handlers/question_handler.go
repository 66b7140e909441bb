package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"buzzboard/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questionService *services.QuestionService
	authService     *services.AuthService
}

func NewQuestionHandler(questionService *services.QuestionService, authService *services.AuthService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		authService:     authService,
	}
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tagIDs, err := parseIDList(c.Query("tagIds"))
	if err != nil {
		respondError(c, services.InvalidInputf("invalid tag ids"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.questionService.ListQuestions(c.Request.Context(), userID, services.QuestionFilter{
		Search: strings.TrimSpace(c.Query("search")),
		TagIDs: tagIDs,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *QuestionHandler) SearchQuestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var tags []string
	for _, name := range strings.Split(c.Query("tags"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			tags = append(tags, name)
		}
	}

	questions, err := h.questionService.SearchQuestions(c.Request.Context(), userID, strings.TrimSpace(c.Query("q")), tags)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"question": question})
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	questionID, ok := parseID(c, "id", "question")
	if !ok {
		return
	}

	question, err := h.questionService.GetQuestion(c.Request.Context(), questionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question})
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	questionID, ok := parseID(c, "id", "question")
	if !ok {
		return
	}

	var req services.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	question, err := h.questionService.UpdateQuestion(c.Request.Context(), questionID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"question": question})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	questionID, ok := parseID(c, "id", "question")
	if !ok {
		return
	}

	if err := h.questionService.DeleteQuestion(c.Request.Context(), questionID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.questionService.ImportQuestions(c.Request.Context(), userID, req.Questions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ExportQuestions serves the instructor's bank as a downloadable JSON file.
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	export, err := h.questionService.ExportQuestions(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("questions-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.JSON(http.StatusOK, export)
}

func parseIDList(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
