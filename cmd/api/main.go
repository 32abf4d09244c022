package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"pinkblueberry/internal/config"
	"pinkblueberry/internal/database"
	"pinkblueberry/internal/middleware"
	"pinkblueberry/internal/modules/auth"
	"pinkblueberry/internal/modules/availability"
	"pinkblueberry/internal/modules/booking"
	"pinkblueberry/internal/modules/catalog"
	"pinkblueberry/internal/modules/notification"
	jwtsvc "pinkblueberry/internal/pkg/jwt"
	"pinkblueberry/internal/pkg/logger"
	"pinkblueberry/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	branchRepo := repository.NewBranchRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := notification.NewHub()
	defer hub.Close()
	publisher := notification.NewPublisher(hub, log)

	authService := auth.NewService(customerRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(branchRepo, serviceRepo, staffRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	availabilityService := availability.NewService(bookingRepo, staffRepo, branchRepo, serviceRepo)
	availabilityHandler := availability.NewHandler(availabilityService)

	bookingService := booking.NewService(
		bookingRepo,
		branchRepo,
		serviceRepo,
		staffRepo,
		availabilityService,
		publisher,
		booking.NoDiscount,
	)
	bookingHandler := booking.NewHandler(bookingService)

	notificationHandler := notification.NewHandler(hub)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			admin := protected.Group("/")
			admin.Use(middleware.AdminOnly())
			{
				catalogHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	log.Info().Str("addr", cfg.HTTPAddr).Msg("starting api server")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
