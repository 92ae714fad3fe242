package routes

import (
	"net/http"
	"time"

	"cleanly/config"
	"cleanly/handlers"
	"cleanly/middleware"
	"cleanly/models"
	"cleanly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1"

func authed(hb *handlers.HandlerBundle) gin.HandlerFunc {
	return middleware.JWTAuthMiddleware(hb.Secret, hb.Sessions)
}

// RegisterAuthRoutes registers registration, login and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group(apiPrefix + "/auth")
	api.Use(middleware.DeviceDetailsMiddleware())
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		protected := api.Group("")
		protected.Use(authed(hb))
		protected.POST("/logout", hb.Auth.LogoutHandler)
		protected.GET("/me", hb.Auth.MeHandler)
		protected.PATCH("/fcm-token", hb.Auth.UpdateFCMTokenHandler)
	}
}

// RegisterHomeownerRoutes registers homes, appointments, pending requests
// and preferred cleaners.
func RegisterHomeownerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	homeowner := middleware.RequireRole(models.UserTypeHomeowner)

	userInfo := r.Group(apiPrefix+"/user-info", authed(hb), homeowner)
	{
		userInfo.GET("", hb.Homes.DashboardHandler)
		userInfo.POST("/home", hb.Homes.CreateHomeHandler)
		userInfo.PATCH("/home/:homeID", hb.Homes.UpdateHomeHandler)
		userInfo.DELETE("/home/:homeID", hb.Homes.DeleteHomeHandler)
		userInfo.POST("/home/:homeID/photo", hb.Homes.UploadPhotoHandler)
	}

	appts := r.Group(apiPrefix+"/appointments", authed(hb), homeowner)
	{
		appts.POST("", hb.Appointments.CreateAppointmentHandler)
		appts.GET("/home/:homeID", hb.Appointments.ListByHomeHandler)
		appts.PATCH("/:id/sheets", hb.Appointments.UpdateSheetsHandler)
		appts.PATCH("/:id/towels", hb.Appointments.UpdateTowelsHandler)
		appts.PATCH("/:id/time", hb.Appointments.UpdateTimeHandler)
		appts.DELETE("/:id", hb.Appointments.CancelAppointmentHandler)
		appts.POST("/:id/payment-intent", hb.Appointments.PaymentIntentHandler)
		appts.POST("/:id/confirm-payment", hb.Appointments.ConfirmPaymentHandler)
	}

	pending := r.Group(apiPrefix+"/pending-requests", authed(hb), homeowner)
	{
		pending.GET("", hb.PendingRequests.ListHandler)
		pending.POST("/:id/approve", hb.PendingRequests.ApproveHandler)
		pending.POST("/:id/deny", hb.PendingRequests.DenyHandler)
	}

	preferred := r.Group(apiPrefix+"/preferred-cleaner", authed(hb), homeowner)
	{
		preferred.GET("/:homeID", hb.PreferredCleaner.ListHandler)
		preferred.POST("/:homeID", hb.PreferredCleaner.AddHandler)
		preferred.DELETE("/:homeID/:cleanerID", hb.PreferredCleaner.RemoveHandler)
	}
}

// RegisterCleanerRoutes registers the employee-info endpoints.
func RegisterCleanerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group(apiPrefix+"/employee-info", authed(hb), middleware.RequireRole(models.UserTypeCleaner))
	{
		api.GET("", hb.Cleaners.DashboardHandler)
		api.GET("/available", hb.Cleaners.AvailableJobsHandler)
		api.POST("/requests", hb.Cleaners.RequestJobHandler)
		api.DELETE("/requests/:id", hb.Cleaners.CancelRequestHandler)
		api.POST("/appointments/:id/leave", hb.Cleaners.LeaveHandler)
		api.POST("/appointments/:id/complete", hb.Cleaners.CompleteHandler)
		api.GET("/payouts", hb.Cleaners.PayoutsHandler)
		api.PUT("/stripe-account", hb.Cleaners.StripeAccountHandler)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group(apiPrefix+"/reviews", authed(hb))
	{
		api.POST("", middleware.RequireRole(models.UserTypeHomeowner), hb.Reviews.CreateReviewHandler)
		api.GET("/cleaner/:cleanerID", hb.Reviews.CleanerReviewsHandler)
	}
}

// RegisterMessageRoutes registers conversations, support and broadcasts.
func RegisterMessageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group(apiPrefix+"/messages", authed(hb))
	{
		api.GET("/conversations", hb.Messages.ConversationsHandler)
		api.POST("/conversations", hb.Messages.StartConversationHandler)
		api.POST("/support", hb.Messages.SupportHandler)
		api.GET("/conversations/:id/messages", hb.Messages.MessagesHandler)
		api.POST("/conversations/:id/messages", hb.Messages.SendMessageHandler)
		api.GET("/unread-count", hb.Messages.UnreadCountHandler)
		api.POST("/broadcast", middleware.RequireRole(models.UserTypeOwner), hb.Messages.BroadcastHandler)
	}
}

// RegisterOwnerRoutes sets up endpoints for owner operations.
func RegisterOwnerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group(apiPrefix+"/owner-dashboard", authed(hb), middleware.RequireRole(models.UserTypeOwner))
	{
		api.GET("/stats", hb.Owner.StatsHandler)
		api.GET("/cleaners", hb.Owner.CleanersHandler)
		api.POST("/cleaners/:id/freeze", hb.Owner.FreezeHandler)
		api.POST("/cleaners/:id/unfreeze", hb.Owner.UnfreezeHandler)
		api.POST("/cleaners/:id/warn", hb.Owner.WarnHandler)
		api.GET("/cleaners/:id/warnings", hb.Owner.WarningsHandler)
		api.GET("/withdrawals", hb.Owner.WithdrawalsHandler)
		api.GET("/balance", hb.Owner.BalanceHandler)
		api.POST("/withdrawals", hb.Owner.WithdrawHandler)
	}
}

// RegisterSettingsRoutes registers terms, service areas and perks.
func RegisterSettingsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	owner := middleware.RequireRole(models.UserTypeOwner)

	// Current terms are public so the sign-up screen can show them.
	terms := r.Group(apiPrefix + "/terms")
	{
		terms.GET("/current", hb.Terms.CurrentHandler)
		terms.POST("", authed(hb), owner, hb.Terms.PublishHandler)
		terms.GET("/history", authed(hb), owner, hb.Terms.HistoryHandler)
		terms.POST("/accept", authed(hb), hb.Terms.AcceptHandler)
		terms.GET("/status", authed(hb), hb.Terms.StatusHandler)
	}

	areas := r.Group(apiPrefix+"/service-areas", authed(hb))
	{
		areas.GET("/config", hb.ServiceAreas.GetConfigHandler)
		areas.PUT("/config", owner, hb.ServiceAreas.UpdateConfigHandler)
		areas.POST("/check", hb.ServiceAreas.CheckHandler)
	}

	perks := r.Group(apiPrefix+"/perks", authed(hb))
	{
		perks.GET("/config", hb.Perks.GetConfigHandler)
		perks.PUT("/config", owner, hb.Perks.UpdateConfigHandler)
		perks.GET("/my-tier", middleware.RequireRole(models.UserTypeCleaner), hb.Perks.MyTierHandler)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "Hi, I'm Cleanly"})
	})
	r.GET("/metrics", utils.MetricsHandler())
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
// limiter may be nil to disable rate limiting.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, limiter *middleware.RateLimiter) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.DeviceIDHeader, middleware.DeviceNameHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler(), middleware.RequestLogger(), utils.MetricsMiddleware())
	if limiter != nil {
		r.Use(limiter.Middleware())
	}

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterHomeownerRoutes(r, hb)
	RegisterCleanerRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterMessageRoutes(r, hb)
	RegisterOwnerRoutes(r, hb)
	RegisterSettingsRoutes(r, hb)
}
