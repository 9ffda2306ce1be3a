package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campus-kit/repair-service/internal/api/http"
	"github.com/campus-kit/repair-service/internal/api/http/handlers"
	"github.com/campus-kit/repair-service/internal/auth"
	"github.com/campus-kit/repair-service/internal/config"
	"github.com/campus-kit/repair-service/internal/events"
	"github.com/campus-kit/repair-service/internal/helpdesk"
	"github.com/campus-kit/repair-service/internal/media"
	"github.com/campus-kit/repair-service/internal/notify"
	"github.com/campus-kit/repair-service/internal/observability"
	"github.com/campus-kit/repair-service/internal/persistence"
	"github.com/campus-kit/repair-service/internal/ratelimit"
	"github.com/campus-kit/repair-service/internal/repository"
	"github.com/campus-kit/repair-service/internal/service"
	"github.com/campus-kit/repair-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	typeRepo := repository.NewTicketTypeRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	staffRepo := repository.NewStaffBindingRepository(pool)
	adminRepo := repository.NewAdminBindingRepository(pool)
	messageRepo := repository.NewChatMessageRepository(pool)
	statisticRepo := repository.NewStatisticRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	tokenStore := helpdesk.NewRedisTokenStore(redis.Client)
	mirror := helpdesk.NewClient(cfg.Helpdesk, tokenStore, logger)
	mediaFetcher := media.NewFetcher(cfg.Wechat, logger)

	var notifier notify.Notifier
	if cfg.Push.UserWebhookURL != "" || cfg.Push.StaffWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.Push, logger)
	} else {
		notifier = notify.NewNopNotifier()
	}

	limiter := ratelimit.NewLimiter(ticketRepo, reminderRepo)
	dispatchService := service.NewDispatchService(staffRepo, adminRepo)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)
	authMiddleware := auth.NewMiddleware(tokens, userRepo, staffRepo, adminRepo)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    ticketRepo,
		TypeRepo:      typeRepo,
		StaffRepo:     staffRepo,
		StatisticRepo: statisticRepo,
		ReminderRepo:  reminderRepo,
		UserRepo:      userRepo,
		Picker:        dispatchService,
		Limiter:       limiter,
		Mirror:        mirror,
		Media:         mediaFetcher,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	messageService := service.NewMessageService(ticketRepo, messageRepo, mirror, dispatcher, metrics, logger)
	departmentService := service.NewDepartmentService(departmentRepo, typeRepo, staffRepo, adminRepo, userRepo)
	notificationService := service.NewNotificationService(dispatcher, notifier, cfg.App.PublicBaseURL, logger)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Messages:       handlers.NewMessagesHandler(messageService),
		Departments:    handlers.NewDepartmentsHandler(departmentService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
