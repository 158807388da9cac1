package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gracepointe/engage/internal/model"
	"github.com/gracepointe/engage/internal/service"
	"github.com/gracepointe/engage/pkg/apperror"
	"github.com/gracepointe/engage/pkg/response"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.ListUpcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Create(c *gin.Context) {
	var input service.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	// RequireAdmin stored the caller; the emergency admin has no row id.
	createdBy := uuid.Nil
	if u, exists := c.Get("user"); exists {
		if user, ok := u.(*model.User); ok {
			createdBy = user.ID
		}
	}

	event, err := h.eventService.Create(c.Request.Context(), createdBy, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), uint(id)); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}
