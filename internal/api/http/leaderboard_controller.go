package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beermile/backend/internal/service"
)

type LeaderboardController struct {
	leaderboard service.LeaderboardInteractor
	eventID     uuid.UUID
}

func NewLeaderboardController(leaderboard service.LeaderboardInteractor, eventID uuid.UUID) *LeaderboardController {
	return &LeaderboardController{leaderboard: leaderboard, eventID: eventID}
}

func (c *LeaderboardController) Get(ctx *gin.Context) {
	view, err := c.leaderboard.Leaderboard(ctx.Request.Context(), c.eventID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}
