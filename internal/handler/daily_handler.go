package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gracepointe/engage/internal/service"
	"github.com/gracepointe/engage/pkg/response"
)

type DailyHandler struct {
	dailyService service.DailyService
}

func NewDailyHandler(dailyService service.DailyService) *DailyHandler {
	return &DailyHandler{
		dailyService: dailyService,
	}
}

func (h *DailyHandler) GetVerse(c *gin.Context) {
	verse, err := h.dailyService.GetVerse(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, verse)
}

func (h *DailyHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.dailyService.GetQuiz(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *DailyHandler) SubmitQuiz(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input service.AnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	res, err := h.dailyService.SubmitQuizAnswer(c.Request.Context(), userID, *input.OptionIndex)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *DailyHandler) CreateQuiz(c *gin.Context) {
	var input service.CreateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	quiz, err := h.dailyService.CreateQuiz(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}
