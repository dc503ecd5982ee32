package main

import (
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/joho/godotenv"

  "github.com/Mobin-Heydari/Todo-Plus/internal/db"
  "github.com/Mobin-Heydari/Todo-Plus/internal/handlers"
  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/middleware"
  "github.com/Mobin-Heydari/Todo-Plus/internal/repos"
  "github.com/Mobin-Heydari/Todo-Plus/internal/seed"
  "github.com/Mobin-Heydari/Todo-Plus/internal/server"
  "github.com/Mobin-Heydari/Todo-Plus/internal/services"
  "github.com/Mobin-Heydari/Todo-Plus/internal/utils"
)

func main() {
  // Env file is optional; real deployments set variables directly.
  _ = godotenv.Load()

  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsDuration("ACCESS_TOKEN_TTL", time.Hour, log)
  refreshTokenTTL := utils.GetEnvAsDuration("REFRESH_TOKEN_TTL", 24*time.Hour, log)
  otpTTL := utils.GetEnvAsDuration("OTP_TTL", 2*time.Minute, log)
  redisAddress := utils.GetEnv("REDIS_ADDRESS", "localhost:6379", log)
  redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)
  allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
  rateLimitPerSecond := utils.GetEnvAsInt("RATE_LIMIT_PER_SECOND", 10, log)
  rateLimitBurst := utils.GetEnvAsInt("RATE_LIMIT_BURST", 20, log)
  log.Debug("Environment variables loaded for Main :)",
    "accessTokenTTL", accessTokenTTL,
    "refreshTokenTTL", refreshTokenTTL,
    "otpTTL", otpTTL,
    "redisAddress", redisAddress,
  )

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Redis Setup
  log.Info("Setting Up Redis from Main now...")
  redisClient, err := db.NewRedisClient(log, redisAddress, redisPassword)
  if err != nil {
    log.Error("Redis init failed", "error", err)
    os.Exit(1)
  }
  log.Info("Redis Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  profileRepo := repos.NewProfileRepo(thePG, log)
  otpRepo := repos.NewOneTimeCodeRepo(thePG, log)
  taskRepo := repos.NewTaskRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Seed Setup
  log.Info("Attempting to Seed The Postgres From Main now...")
  if err := seed.SeedAdmin(thePG, log, userRepo, profileRepo); err != nil {
    log.Warn("Failed to seed admin user :(", "error", err)
  }
  log.Info("Seeding of Postgres From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  emailService, err := services.NewEmailService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init EmailService", "error", err)
    os.Exit(1)
  }
  bucketService, err := services.NewBucketService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init BucketService", "error", err)
    os.Exit(1)
  }
  avatarService, err := services.NewAvatarService(log, bucketService)
  if err != nil {
    log.Error("Fatal error: Cannot init AvatarService", "error", err)
    os.Exit(1)
  }
  blacklist := services.NewRedisTokenBlacklist(log, redisClient)
  authService := services.NewAuthService(thePG, log, userRepo, profileRepo, avatarService, blacklist, jwtSecretKey, accessTokenTTL, refreshTokenTTL)
  verificationService := services.NewVerificationService(thePG, log, userRepo, otpRepo, emailService, otpTTL)
  userService := services.NewUserService(thePG, log, userRepo)
  profileService := services.NewProfileService(thePG, log, userRepo, profileRepo, avatarService)
  taskService := services.NewTaskService(thePG, log, taskRepo)
  log.Info("Services Set Up From Main Successful :)")

  // Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(authService)
  accountHandler := handlers.NewAccountHandler(verificationService)
  userHandler := handlers.NewUserHandler(userService)
  profileHandler := handlers.NewProfileHandler(profileService)
  taskHandler := handlers.NewTaskHandler(taskService)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  rateLimitMiddleware := middleware.NewRateLimitMiddleware(log, float64(rateLimitPerSecond), rateLimitBurst)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:         authHandler,
    AccountHandler:      accountHandler,
    UserHandler:         userHandler,
    ProfileHandler:      profileHandler,
    TaskHandler:         taskHandler,
    AuthMiddleware:      authMiddleware,
    RateLimitMiddleware: rateLimitMiddleware,
    AllowOrigins:        allowOrigins,
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
