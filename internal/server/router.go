package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/Mobin-Heydari/Todo-Plus/internal/handlers"
  "github.com/Mobin-Heydari/Todo-Plus/internal/middleware"
)

type RouterConfig struct {
  AuthHandler         *handlers.AuthHandler
  AccountHandler      *handlers.AccountHandler
  UserHandler         *handlers.UserHandler
  ProfileHandler      *handlers.ProfileHandler
  TaskHandler         *handlers.TaskHandler
  AuthMiddleware      *middleware.AuthMiddleware
  RateLimitMiddleware *middleware.RateLimitMiddleware
  AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  allowOrigins := cfg.AllowOrigins
  if len(allowOrigins) == 0 {
    allowOrigins = []string{"http://localhost:3000"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     allowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  if cfg.RateLimitMiddleware != nil {
    router.Use(cfg.RateLimitMiddleware.Limit())
  }

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Auth Routes
  //-----------------------------------------
  auth := router.Group("/auth")
  {
    auth.POST("/register", cfg.AuthHandler.Register)
    auth.POST("/login", cfg.AuthMiddleware.OptionalAuth(), cfg.AuthHandler.Login)
    auth.POST("/token", cfg.AuthHandler.Token)
    auth.POST("/token/refresh", cfg.AuthHandler.Refresh)
    auth.POST("/logout", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Logout)
  }

  //------------------------------------------
  // Account Verification Routes
  //------------------------------------------
  accounts := router.Group("/accounts")
  accounts.Use(cfg.AuthMiddleware.RequireAuth())
  {
    accounts.GET("/generate-otp", cfg.AccountHandler.GenerateOTP)
    accounts.POST("/generate-otp", cfg.AccountHandler.GenerateOTP)
    accounts.POST("/account-verification/:token", cfg.AccountHandler.VerifyAccount)
  }

  //------------------------------------------
  // User Routes
  //------------------------------------------
  users := router.Group("/users")
  users.Use(cfg.AuthMiddleware.RequireAuth())
  {
    users.GET("", cfg.AuthMiddleware.RequireStaff(), cfg.UserHandler.List)
    users.GET("/:username", cfg.UserHandler.Detail)
    users.PUT("/:username", cfg.UserHandler.Update)
    users.DELETE("/:username", cfg.UserHandler.Delete)
  }

  //------------------------------------------
  // Profile Routes
  //------------------------------------------
  profiles := router.Group("/profiles")
  profiles.Use(cfg.AuthMiddleware.RequireAuth())
  {
    profiles.GET("", cfg.AuthMiddleware.RequireStaff(), cfg.ProfileHandler.List)
    profiles.GET("/:username", cfg.ProfileHandler.Detail)
    profiles.PUT("/:username", cfg.ProfileHandler.Update)
    profiles.POST("/:username/image", cfg.ProfileHandler.UploadImage)
  }

  //------------------------------------------
  // Task Routes
  //------------------------------------------
  tasks := router.Group("/tasks")
  tasks.Use(cfg.AuthMiddleware.RequireAuth())
  {
    tasks.GET("", cfg.TaskHandler.List)
    tasks.POST("", cfg.TaskHandler.Create)
    tasks.GET("/:slug", cfg.TaskHandler.Detail)
    tasks.PUT("/:slug", cfg.TaskHandler.Update)
    tasks.DELETE("/:slug", cfg.TaskHandler.Delete)
  }

  return router
}
