package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beermile/backend/internal/domain"
	"github.com/beermile/backend/internal/repository"
	"github.com/beermile/backend/internal/service"
	libjwt "github.com/beermile/backend/lib/jwt"
)

const (
	sessionCookie = "session"
	principalKey  = "principal"
)

// AuthMiddleware verifies the session token from the Authorization header
// or the session cookie and stores the principal in the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var token string
		if header := ctx.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimPrefix(header, "Bearer ")
		} else if cookie, err := ctx.Cookie(sessionCookie); err == nil {
			token = cookie
		}
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		principal, err := libjwt.ParseToken(token, secret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		ctx.Set(principalKey, principal)
		ctx.Next()
	}
}

// AdminOnly rejects requests whose principal does not carry the admin role.
// Must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal := principalFrom(ctx)
		if principal == nil || principal.Role != domain.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		ctx.Next()
	}
}

func principalFrom(ctx *gin.Context) *libjwt.Principal {
	value, ok := ctx.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := value.(*libjwt.Principal)
	return principal
}

// respondError maps business errors to HTTP statuses. Anything unmapped
// is a 500 with the detail kept out of the response body.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotBetOwner):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrBetNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrUsernameExists),
		errors.Is(err, repository.ErrAlreadyLocked),
		errors.Is(err, repository.ErrNotLocked),
		errors.Is(err, repository.ErrAlreadyFinalized),
		errors.Is(err, service.ErrNoConsensus),
		errors.Is(err, service.ErrPastDate),
		errors.Is(err, service.ErrOutOfWindow),
		errors.Is(err, service.ErrEventLocked),
		errors.Is(err, service.ErrResultsFinalized),
		errors.Is(err, service.ErrResultsNotEntered):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
