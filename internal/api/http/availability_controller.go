package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beermile/backend/internal/service"
)

type AvailabilityController struct {
	availability service.AvailabilityInteractor
	eventID      uuid.UUID
}

func NewAvailabilityController(availability service.AvailabilityInteractor, eventID uuid.UUID) *AvailabilityController {
	return &AvailabilityController{availability: availability, eventID: eventID}
}

func (c *AvailabilityController) GetMonth(ctx *gin.Context) {
	principal := principalFrom(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	month := time.Now()
	if raw := ctx.Query("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "month must look like 2026-03"})
			return
		}
		month = parsed
	}

	view, err := c.availability.MonthView(ctx.Request.Context(), c.eventID, principal.UserID, month.Year(), int(month.Month()))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (c *AvailabilityController) Update(ctx *gin.Context) {
	principal := principalFrom(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	type request struct {
		Updates []service.AvailabilityUpdate `json:"updates" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := c.availability.Update(ctx.Request.Context(), c.eventID, principal.UserID, req.Updates)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"updated": updated})
}
