package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/audit"
	"github.com/fitlifehq/gym-api/internal/cache"
	"github.com/fitlifehq/gym-api/internal/challenge"
	"github.com/fitlifehq/gym-api/internal/config"
	"github.com/fitlifehq/gym-api/internal/gamification"
	"github.com/fitlifehq/gym-api/internal/handlers"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/models"
	"github.com/fitlifehq/gym-api/internal/notify"
	"github.com/fitlifehq/gym-api/internal/payments"
	"github.com/fitlifehq/gym-api/internal/realtime"
	"github.com/fitlifehq/gym-api/internal/recommend"
	"github.com/fitlifehq/gym-api/internal/storage"
	ucWorkout "github.com/fitlifehq/gym-api/internal/usecase/workout"
)

// Deps carries the long-lived infrastructure built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Hub      *realtime.Hub
	Cache    *cache.Cache
	Provider payments.Provider
	Store    *storage.S3Store
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	db := d.DB

	r.Use(middleware.CORSMiddleware(cfg.ClientURL))

	// ------------------------------
	// infra singletons
	// ------------------------------
	auditDispatcher := audit.NewDispatcher(audit.New(db))

	notifier := notify.NewService(db, d.Hub)
	gamificationSvc := gamification.NewService(db, notifier, cfg.Timezone)
	challengeSvc := challenge.NewService(db, notifier, gamificationSvc)
	paymentSvc := payments.NewService(db, d.Provider, notifier)
	recommendSvc := recommend.NewService(db)

	createWorkoutUC := ucWorkout.NewCreateWorkout(db, gamificationSvc, challengeSvc, notifier, cfg.Timezone)

	// ------------------------------
	// handlers
	// ------------------------------
	authHandler := handlers.NewAuthHandler(db, cfg, auditDispatcher)
	userHandler := handlers.NewUserHandler(db, auditDispatcher)
	classHandler := handlers.NewClassHandler(db, auditDispatcher)
	bookingHandler := handlers.NewBookingHandler(db, auditDispatcher, gamificationSvc, cfg.Timezone)
	workoutHandler := handlers.NewWorkoutHandler(db, createWorkoutUC)
	membershipHandler := handlers.NewMembershipHandler(db, auditDispatcher)
	paymentHandler := handlers.NewPaymentHandler(db, paymentSvc, auditDispatcher)
	notificationHandler := handlers.NewNotificationHandler(db)
	gamificationHandler := handlers.NewGamificationHandler(db, gamificationSvc, d.Cache)
	socialHandler := handlers.NewSocialHandler(db, notifier)
	challengeHandler := handlers.NewChallengeHandler(db, challengeSvc, cfg.Timezone)
	exerciseHandler := handlers.NewExerciseHandler(db, recommendSvc, cfg.Timezone)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg.Timezone)
	realtimeHandler := handlers.NewRealtimeHandler(d.Hub, cfg.ClientURL)
	mediaHandler := handlers.NewMediaHandler(db, d.Store)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// ------------------------------
		// public
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// Provider webhooks authenticate by signature, never by session, so
		// the route sits outside the auth chain.
		api.POST("/payments/webhook", paymentHandler.Webhook)

		api.GET("/classes", classHandler.List)
		api.GET("/classes/:id", classHandler.Get)
		api.GET("/memberships/plans", membershipHandler.ListPlans)
		api.GET("/memberships/plans/:id", membershipHandler.GetPlan)

		// ------------------------------
		// authenticated
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg, db))
		{
			secured.GET("/me", authHandler.Me)
			secured.PATCH("/me", authHandler.UpdateProfile)
			secured.POST("/me/password", authHandler.ChangePassword)
			secured.POST("/me/avatar", mediaHandler.UploadAvatar)
			secured.GET("/me/membership", membershipHandler.MyMembership)

			secured.GET("/ws", realtimeHandler.Connect)

			secured.GET("/workouts", workoutHandler.List)
			secured.POST("/workouts", workoutHandler.Create)
			secured.GET("/workouts/stats", workoutHandler.Stats)
			secured.GET("/workouts/:id", workoutHandler.Get)
			secured.PUT("/workouts/:id", workoutHandler.Update)
			secured.DELETE("/workouts/:id", workoutHandler.Delete)

			secured.GET("/bookings", bookingHandler.List)
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings/stats", bookingHandler.Stats)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

			secured.GET("/achievements", gamificationHandler.ListAchievements)
			secured.GET("/achievements/me", gamificationHandler.MyAchievements)
			secured.GET("/stats/me", gamificationHandler.MyStats)
			secured.GET("/leaderboard", gamificationHandler.Leaderboard)

			secured.GET("/challenges", challengeHandler.List)
			secured.GET("/challenges/me", challengeHandler.MyChallenges)
			secured.GET("/challenges/:id", challengeHandler.Get)
			secured.POST("/challenges/:id/join", challengeHandler.Join)
			secured.GET("/challenges/:id/leaderboard", challengeHandler.Leaderboard)

			secured.GET("/feed", socialHandler.Feed)
			secured.POST("/posts", socialHandler.CreatePost)
			secured.PATCH("/posts/:id", socialHandler.UpdatePost)
			secured.DELETE("/posts/:id", socialHandler.DeletePost)
			secured.POST("/posts/:id/like", socialHandler.ToggleLike)
			secured.POST("/posts/:id/comments", socialHandler.Comment)
			secured.POST("/users/:id/follow", socialHandler.ToggleFollow)
			secured.GET("/connections", socialHandler.Connections)
			secured.POST("/media", mediaHandler.UploadMedia)

			secured.GET("/notifications", notificationHandler.List)
			secured.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
			secured.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
			secured.DELETE("/notifications/:id", notificationHandler.Delete)

			secured.POST("/payments/intent", paymentHandler.CreateIntent)
			secured.POST("/payments/confirm", paymentHandler.Confirm)
			secured.GET("/payments", paymentHandler.History)
			secured.POST("/payments/subscription", paymentHandler.CreateSubscription)

			secured.GET("/exercises", exerciseHandler.List)
			secured.GET("/exercises/recommendations", exerciseHandler.Recommendations)
			secured.GET("/exercises/:id", exerciseHandler.Get)
			secured.POST("/exercises", exerciseHandler.Create)
			secured.POST("/exercises/seed", exerciseHandler.Seed)

			secured.GET("/analytics/progress", analyticsHandler.Progress)
			secured.GET("/analytics/weekly", analyticsHandler.Weekly)
			secured.GET("/analytics/types", analyticsHandler.TypeDistribution)
			secured.GET("/analytics/records", analyticsHandler.Records)

			// ------------------------------
			// trainer and admin
			// ------------------------------
			staff := secured.Group("/")
			staff.Use(middleware.RequireRoles(models.RoleTrainer, models.RoleAdmin))
			{
				staff.POST("/classes", classHandler.Create)
				staff.PUT("/classes/:id", classHandler.Update)
				staff.PATCH("/bookings/:id/complete", bookingHandler.Complete)
				staff.POST("/challenges", challengeHandler.Create)
				staff.GET("/analytics/classes", analyticsHandler.ClassAnalytics)
			}

			// ------------------------------
			// admin only
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/users", userHandler.List)
				admin.POST("/users", userHandler.Create)
				admin.GET("/users/:id", userHandler.Get)
				admin.PATCH("/users/:id", userHandler.Update)
				admin.DELETE("/users/:id", userHandler.Delete)

				admin.DELETE("/classes/:id", classHandler.Delete)

				admin.POST("/memberships/plans", membershipHandler.CreatePlan)
				admin.PUT("/memberships/plans/:id", membershipHandler.UpdatePlan)
				admin.DELETE("/memberships/plans/:id", membershipHandler.DeletePlan)

				admin.POST("/achievements/seed", gamificationHandler.SeedAchievements)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
