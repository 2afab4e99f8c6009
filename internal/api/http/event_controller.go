package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beermile/backend/internal/api/http/converter"
	"github.com/beermile/backend/internal/service"
)

type EventController struct {
	events  service.EventInteractor
	eventID uuid.UUID
}

func NewEventController(events service.EventInteractor, eventID uuid.UUID) *EventController {
	return &EventController{events: events, eventID: eventID}
}

func (c *EventController) CurrentEvent(ctx *gin.Context) {
	event, err := c.events.CurrentEvent(ctx.Request.Context(), c.eventID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"event": converter.EventToApi(event)})
}

func (c *EventController) LockDate(ctx *gin.Context) {
	type request struct {
		Date string `json:"date" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	event, err := c.events.Lock(ctx.Request.Context(), c.eventID, req.Date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"event": converter.EventToApi(event)})
}

func (c *EventController) UnlockDate(ctx *gin.Context) {
	event, err := c.events.Unlock(ctx.Request.Context(), c.eventID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"event": converter.EventToApi(event)})
}
