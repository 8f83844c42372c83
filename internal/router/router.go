package router

import (
	"time"

	"github.com/gamefit-dev/gamefit/internal/auth"
	"github.com/gamefit-dev/gamefit/internal/handlers"
	"github.com/gamefit-dev/gamefit/internal/mailer"
	"github.com/gamefit-dev/gamefit/internal/middleware"
	"github.com/gamefit-dev/gamefit/internal/observability"
	achievementsrepo "github.com/gamefit-dev/gamefit/internal/repositories/achievements"
	exercisesrepo "github.com/gamefit-dev/gamefit/internal/repositories/exercises"
	usersrepo "github.com/gamefit-dev/gamefit/internal/repositories/users"
	"github.com/gamefit-dev/gamefit/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies is the explicit application context handed to the router;
// nothing here lives in package-level state.
type Dependencies struct {
	Users        usersrepo.Repository
	Exercises    exercisesrepo.Repository
	Achievements achievementsrepo.Repository
	Tokens       *auth.TokenManager
	Mailer       mailer.Mailer
	Cookies      middleware.SessionCookies
	BaseURL      string
	Version      string
	CORSOrigins  []string
}

func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(observability.Middleware())

	achievementService := services.NewAchievementService(deps.Users, deps.Achievements)

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens, deps.Mailer, deps.Cookies, deps.BaseURL)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Achievements, deps.Cookies)
	exerciseHandler := handlers.NewExerciseHandler(deps.Exercises, achievementService)
	achievementHandler := handlers.NewAchievementHandler(achievementService, deps.Achievements)
	leaderboardHandler := handlers.NewLeaderboardHandler(deps.Users)

	authRequired := middleware.AuthMiddleware(deps.Tokens, deps.Users, deps.Cookies)

	r.GET("/metrics", observability.Handler())

	// The emailed confirmation link lands outside /api.
	r.GET("/confirm/:token", authHandler.ConfirmEmail)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck(deps.Version))

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/confirm/:token", authHandler.ConfirmEmail)
		}

		usersGroup := api.Group("/users", authRequired)
		{
			usersGroup.GET("/me", userHandler.Me)
			usersGroup.PUT("/me", userHandler.UpdateProfile)
			usersGroup.DELETE("/me", userHandler.DeleteAccount)
			usersGroup.GET("/me/achievements", userHandler.MyAchievements)
		}

		exercisesGroup := api.Group("/exercises", authRequired)
		{
			exercisesGroup.POST("", exerciseHandler.Log)
			exercisesGroup.POST("/batch", exerciseHandler.LogBatch)
			exercisesGroup.GET("", exerciseHandler.List)
			exercisesGroup.GET("/ranks", exerciseHandler.Ranks)
			exercisesGroup.GET("/:type/stats", exerciseHandler.Stats)
		}

		api.GET("/achievements", authRequired, achievementHandler.Get)

		leaderboardGroup := api.Group("/leaderboard", authRequired)
		{
			leaderboardGroup.GET("", leaderboardHandler.Get)
			leaderboardGroup.GET("/me", leaderboardHandler.MyRank)
		}
	}

	return r
}
