package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/DEV-MEDEV/osecours-backend/internal/audit"
	"github.com/DEV-MEDEV/osecours-backend/internal/config"
	"github.com/DEV-MEDEV/osecours-backend/internal/database"
	"github.com/DEV-MEDEV/osecours-backend/internal/middleware"
	"github.com/DEV-MEDEV/osecours-backend/internal/modules/auth"
	"github.com/DEV-MEDEV/osecours-backend/internal/modules/citizen"
	"github.com/DEV-MEDEV/osecours-backend/internal/modules/info"
	"github.com/DEV-MEDEV/osecours-backend/internal/modules/otp"
	jwtsvc "github.com/DEV-MEDEV/osecours-backend/internal/pkg/jwt"
	"github.com/DEV-MEDEV/osecours-backend/internal/pkg/sms"
	"github.com/DEV-MEDEV/osecours-backend/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	otpRepo := repository.NewOtpRepository(db)

	codec := jwtsvc.New(cfg.JWTSecret)
	recorder := audit.NewStore(db, cfg.Env)
	gateway := sms.NewClient(cfg.SMS.BaseURL, cfg.SMS.APIKey, cfg.SMS.Sender, cfg.SMS.CountryCode)

	tokenService := auth.NewTokenService(tokenRepo, codec)
	authService := auth.NewService(userRepo, tokenService, codec, recorder)
	authHandler := auth.NewHandler(authService)

	otpService := otp.NewService(otpRepo, gateway, recorder, cfg.OTP)
	otpHandler := otp.NewHandler(otpService)

	citizenService := citizen.NewService(userRepo, otpService, tokenService, recorder)
	citizenHandler := citizen.NewHandler(citizenService)

	infoHandler := info.NewHandler(cfg.Env)

	authMW := middleware.NewAuthMiddleware(codec, tokenService, userRepo, recorder)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		otpHandler.RegisterPublicRoutes(v1)
		citizenHandler.RegisterPublicRoutes(v1)
		infoHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(authMW.Authenticate())
		{
			authHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
