package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/beermile/backend/internal/api/http/converter"
	"github.com/beermile/backend/internal/service"
	libjwt "github.com/beermile/backend/lib/jwt"
)

type AuthController struct {
	users    service.UserInteractor
	eventID  uuid.UUID
	secret   string
	tokenTTL time.Duration
}

func NewAuthController(users service.UserInteractor, eventID uuid.UUID, secret string, tokenTTL time.Duration) *AuthController {
	return &AuthController{
		users:    users,
		eventID:  eventID,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (c *AuthController) Signup(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := c.users.Signup(ctx.Request.Context(), c.eventID, req.Username, req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := libjwt.NewToken(user, c.secret, c.tokenTTL)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session"})
		return
	}

	c.setSession(ctx, token)
	ctx.JSON(http.StatusCreated, gin.H{"user": converter.UserToApi(user), "token": token})
}

func (c *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := c.users.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := libjwt.NewToken(user, c.secret, c.tokenTTL)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session"})
		return
	}

	c.setSession(ctx, token)
	ctx.JSON(http.StatusOK, gin.H{"user": converter.UserToApi(user), "token": token})
}

func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (c *AuthController) Me(ctx *gin.Context) {
	principal := principalFrom(ctx)
	if principal == nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := c.users.GetUser(ctx.Request.Context(), principal.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": converter.UserToApi(user)})
}

func (c *AuthController) setSession(ctx *gin.Context, token string) {
	ctx.SetCookie(sessionCookie, token, int(c.tokenTTL.Seconds()), "/", "", false, true)
}
