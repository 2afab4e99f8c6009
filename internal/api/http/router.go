package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth         *AuthController
	Event        *EventController
	Availability *AvailabilityController
	Bet          *BetController
	Results      *ResultsController
	Leaderboard  *LeaderboardController
}

func SetupRouter(controllers Controllers, jwtSecret string) *gin.Engine {
	router := gin.Default()
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{
		"http://localhost:3000",
	}
	config.AllowCredentials = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	config.ExposeHeaders = []string{"Set-Cookie"}
	router.Use(cors.New(config))
	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", controllers.Auth.Signup)
	auth.POST("/login", controllers.Auth.Login)
	auth.POST("/logout", controllers.Auth.Logout)

	authed := api.Group("")
	authed.Use(AuthMiddleware(jwtSecret))

	authed.GET("/auth/me", controllers.Auth.Me)
	authed.GET("/event/current", controllers.Event.CurrentEvent)
	authed.GET("/leaderboard", controllers.Leaderboard.Get)

	authed.GET("/availability", controllers.Availability.GetMonth)
	authed.POST("/availability", controllers.Availability.Update)

	authed.GET("/bets", controllers.Bet.List)
	authed.POST("/bets", controllers.Bet.Place)
	authed.DELETE("/bets/:betID", controllers.Bet.Delete)

	admin := authed.Group("/admin")
	admin.Use(AdminOnly())
	admin.POST("/lock-date", controllers.Event.LockDate)
	admin.POST("/unlock-date", controllers.Event.UnlockDate)
	admin.POST("/results", controllers.Results.EnterResults)
	admin.POST("/finalize-results", controllers.Results.FinalizeResults)
	admin.POST("/reset-results", controllers.Results.ResetResults)

	return router
}
