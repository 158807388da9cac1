package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gracepointe/engage/internal/service"
	"github.com/gracepointe/engage/pkg/response"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

type markAttendanceInput struct {
	Method string `json:"method"`
}

func (h *AttendanceHandler) Mark(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input markAttendanceInput
	_ = c.ShouldBindJSON(&input) // method is optional

	res, err := h.attendanceService.Mark(c.Request.Context(), userID, input.Method)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "attendance marked",
		"points_added": res.PointsAdded,
		"total_points": res.TotalPoints,
	})
}

func (h *AttendanceHandler) History(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	history, err := h.attendanceService.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
