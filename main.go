package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cleanly/config"
	"cleanly/cron"
	"cleanly/database"
	"cleanly/database/repository"
	"cleanly/handlers"
	"cleanly/middleware"
	"cleanly/routes"
	"cleanly/services/appointment"
	"cleanly/services/cleaner"
	"cleanly/services/geo"
	"cleanly/services/home"
	"cleanly/services/messaging"
	"cleanly/services/notification"
	"cleanly/services/owner"
	"cleanly/services/payment"
	"cleanly/services/payout"
	"cleanly/services/perks"
	"cleanly/services/review"
	"cleanly/services/servicearea"
	"cleanly/services/storage"
	"cleanly/services/tasks"
	"cleanly/services/terms"
	"cleanly/services/user"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	repos := repository.NewMongoRepos()
	cache := utils.NewRedisCache(utils.GetCacheClient())
	authCache := utils.NewRedisCache(utils.GetAuthCacheClient())

	// external gateways.
	gateway := payment.NewStripeGateway(config.AppConfig.StripeSecretKey, config.AppConfig.StripeCurrency)
	geocoder := geo.NewGoogleGeocoder(config.AppConfig.GoogleAPIKey, cache)

	var media storage.StorageService = storage.Disabled{}
	if cld, err := storage.NewCloudinaryStorageService(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	); err == nil {
		media = cld
	} else {
		logger.Warn("Photo uploads disabled", zap.Error(err))
	}

	notifier := &notification.DefaultNotificationService{Users: repos.Users}
	if file := config.AppConfig.FirebaseCredentialsFile; file != "" {
		fcm, err := notification.NewFCMClient(rootCtx, file)
		if err != nil {
			logger.Warn("Push notifications disabled", zap.Error(err))
		} else {
			notifier.Sender = fcm
		}
	}

	queueOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	reminders := tasks.NewAsynqReminderScheduler(queueOpt)
	defer reminders.Close()

	feePercent, err := decimal.NewFromString(config.AppConfig.PlatformFeePercent)
	if err != nil {
		logger.Fatal("Invalid PLATFORM_FEE_PERCENT", zap.Error(err))
	}

	// services.
	termsService := &terms.DefaultTermsService{Repo: repos.Terms, Users: repos.Users, Cache: cache}
	if err := termsService.SeedDefaults(rootCtx); err != nil {
		logger.Fatal("Failed to seed default terms", zap.Error(err))
	}

	userService := &user.DefaultUserService{
		Repo:      repos.Users,
		Bills:     repos.Bills,
		Terms:     termsService,
		AuthCache: authCache,
		Secret:    []byte(config.AppConfig.SessionSecret),
		TokenTTL:  time.Duration(config.AppConfig.TokenTTLHours) * time.Hour,
	}
	areaService := &servicearea.DefaultServiceAreaService{
		Settings: repos.Settings,
		Homes:    repos.Homes,
		Geocoder: geocoder,
		Cache:    cache,
	}
	perksService := &perks.DefaultPerksService{Settings: repos.Settings, Users: repos.Users}
	payoutService := &payout.DefaultPayoutService{
		Payouts:    repos.Payouts,
		Users:      repos.Users,
		Perks:      perksService,
		Gateway:    gateway,
		FeePercent: feePercent,
	}
	homeService := &home.DefaultHomeService{
		Users:        repos.Users,
		Homes:        repos.Homes,
		Appointments: repos.Appointments,
		Bills:        repos.Bills,
		Requests:     repos.Requests,
		Area:         areaService,
		Geocoder:     geocoder,
		Storage:      media,
		Reminders:    reminders,
	}
	appointmentService := &appointment.DefaultAppointmentService{
		Appointments: repos.Appointments,
		Homes:        repos.Homes,
		Bills:        repos.Bills,
		Requests:     repos.Requests,
		Area:         areaService,
		Payments:     gateway,
		Reminders:    reminders,
		Notifier:     notifier,
		Policy: appointment.BillingPolicy{
			CancellationFee:        config.AppConfig.CancellationFeeCents,
			CancellationWindowDays: config.AppConfig.CancellationWindowDays,
		},
	}
	cleanerService := &cleaner.DefaultCleanerService{
		Users:        repos.Users,
		Homes:        repos.Homes,
		Appointments: repos.Appointments,
		Requests:     repos.Requests,
		Perks:        perksService,
		Payouts:      payoutService,
		Notifier:     notifier,
	}
	reviewService := &review.DefaultReviewService{
		Reviews:      repos.Reviews,
		Appointments: repos.Appointments,
		Users:        repos.Users,
	}
	messagingService := &messaging.DefaultMessagingService{
		ConversationRepo: repos.Conversations,
		MessageRepo:      repos.Messages,
		Users:            repos.Users,
		Appointments:     repos.Appointments,
		Notifier:         notifier,
	}
	ownerService := &owner.DefaultOwnerService{
		Users:          repos.Users,
		Appointments:   repos.Appointments,
		Requests:       repos.Requests,
		Payouts:        repos.Payouts,
		WithdrawalRepo: repos.Withdrawals,
		Sessions:       userService,
		Gateway:        gateway,
		Notifier:       notifier,
	}

	// background workers.
	reminderServer, reminderMux := cron.NewReminderServer(queueOpt, &cron.ReminderHandler{
		Appointments: repos.Appointments,
		Homes:        repos.Homes,
		Notifier:     notifier,
	})
	if err := cron.StartReminderWorker(reminderServer, reminderMux); err != nil {
		logger.Error("Appointment reminders will not be delivered", zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(config.AppConfig.MaxRequestsPerMin)

	var scheduler *cron.Scheduler
	if config.AppConfig.SchedulerEnabled {
		scheduler, err = cron.NewScheduler(cron.Jobs{
			Payouts:  payoutService,
			Requests: cleanerService,
			Cleanup:  limiter.Cleanup,
		})
		if err != nil {
			logger.Fatal("Failed to build scheduler", zap.Error(err))
		}
		scheduler.Start()
	}

	utils.StartHealthMonitor(rootCtx,
		utils.PingFunc(database.Ping),
		[]utils.Pinger{
			utils.PingFunc(func(ctx context.Context) error { return utils.GetCacheClient().Ping(ctx).Err() }),
			utils.PingFunc(func(ctx context.Context) error { return utils.GetAuthCacheClient().Ping(ctx).Err() }),
		},
	)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Secret:           userService.Secret,
		Sessions:         userService,
		Auth:             handlers.NewAuthHandler(userService),
		Homes:            handlers.NewHomeHandler(homeService),
		Appointments:     handlers.NewAppointmentHandler(appointmentService),
		Cleaners:         handlers.NewCleanerHandler(cleanerService),
		PendingRequests:  handlers.NewPendingRequestHandler(cleanerService),
		PreferredCleaner: handlers.NewPreferredCleanerHandler(homeService),
		Reviews:          handlers.NewReviewHandler(reviewService),
		Messages:         handlers.NewMessageHandler(messagingService),
		Owner:            handlers.NewOwnerHandler(ownerService),
		Terms:            handlers.NewTermsHandler(termsService),
		ServiceAreas:     handlers.NewServiceAreaHandler(areaService),
		Perks:            handlers.NewPerksHandler(perksService),
	}

	router := gin.New()
	routes.RegisterRoutes(router, handlerBundle, limiter)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", config.GetEnv()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop(ctx)
	}
	reminderServer.Shutdown()
	if err := database.Close(ctx); err != nil {
		logger.Warn("Failed to close MongoDB", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
