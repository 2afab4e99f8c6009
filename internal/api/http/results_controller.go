package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beermile/backend/internal/api/http/converter"
	"github.com/beermile/backend/internal/service"
)

type ResultsController struct {
	results service.ResultsInteractor
	eventID uuid.UUID
}

func NewResultsController(results service.ResultsInteractor, eventID uuid.UUID) *ResultsController {
	return &ResultsController{results: results, eventID: eventID}
}

func (c *ResultsController) EnterResults(ctx *gin.Context) {
	type request struct {
		FinalTimeSeconds *int  `json:"finalTimeSeconds" binding:"required"`
		VomitOccurred    *bool `json:"vomitOccurred" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	preview, err := c.results.Enter(ctx.Request.Context(), c.eventID, *req.FinalTimeSeconds, *req.VomitOccurred)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, preview)
}

func (c *ResultsController) FinalizeResults(ctx *gin.Context) {
	event, err := c.results.Finalize(ctx.Request.Context(), c.eventID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"event": converter.EventToApi(event)})
}

func (c *ResultsController) ResetResults(ctx *gin.Context) {
	type request struct {
		Reason string `json:"reason" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := c.results.Reset(ctx.Request.Context(), c.eventID, req.Reason); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "reset"})
}
