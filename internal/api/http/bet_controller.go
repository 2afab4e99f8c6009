package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beermile/backend/internal/api/http/converter"
	"github.com/beermile/backend/internal/service"
)

type BetController struct {
	bets    service.BetInteractor
	eventID uuid.UUID
}

func NewBetController(bets service.BetInteractor, eventID uuid.UUID) *BetController {
	return &BetController{bets: bets, eventID: eventID}
}

func (c *BetController) Place(ctx *gin.Context) {
	principal := principalFrom(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var input service.BetInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	bet, err := c.bets.Place(ctx.Request.Context(), c.eventID, principal.UserID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"bet": converter.BetToApi(bet)})
}

func (c *BetController) List(ctx *gin.Context) {
	principal := principalFrom(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	list, err := c.bets.List(ctx.Request.Context(), c.eventID, principal.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, list)
}

func (c *BetController) Delete(ctx *gin.Context) {
	principal := principalFrom(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	betID, err := uuid.Parse(ctx.Param("betID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid bet id"})
		return
	}

	if err := c.bets.Delete(ctx.Request.Context(), c.eventID, betID, principal.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
