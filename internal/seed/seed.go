package seed

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/normalization"
  "github.com/Mobin-Heydari/Todo-Plus/internal/repos"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
  "github.com/Mobin-Heydari/Todo-Plus/internal/utils"
)

// SeedAdmin bootstraps the first staff account from ADMIN_* environment
// variables so a fresh database has someone who can reach the staff-only
// routes. It is a no-op when the variables are unset or the email is
// already registered.
func SeedAdmin(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  profileRepo repos.ProfileRepo,
) error {
  adminEmail := normalization.ParseEmail(os.Getenv("ADMIN_EMAIL"))
  adminPassword := os.Getenv("ADMIN_PASSWORD")
  adminUsername := normalization.ParseInputString(os.Getenv("ADMIN_USERNAME"))
  if adminEmail == "" || adminPassword == "" {
    log.Debug("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
    return nil
  }
  if adminUsername == "" {
    adminUsername = "admin"
  }

  ctx := context.Background()
  exists, err := userRepo.EmailExists(ctx, nil, adminEmail)
  if err != nil {
    return fmt.Errorf("failed to check for existing admin: %w", err)
  }
  if exists {
    log.Debug("Admin email already registered, skipping admin seed", "email", adminEmail)
    return nil
  }

  hashed, err := utils.HashPassword(adminPassword)
  if err != nil {
    return fmt.Errorf("failed to hash admin password: %w", err)
  }

  log.Info("Seeding admin user now...", "email", adminEmail, "username", adminUsername)
  return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    admin := &types.User{
      ID:         uuid.New(),
      Username:   adminUsername,
      Email:      adminEmail,
      FullName:   "Administrator",
      Password:   hashed,
      IsVerified: true,
      IsActive:   true,
      IsAdmin:    true,
      JoinedDate: datatypes.Date(time.Now()),
    }
    if _, err := userRepo.Create(ctx, tx, []*types.User{admin}); err != nil {
      return fmt.Errorf("failed to create admin user: %w", err)
    }
    profile := &types.Profile{
      ID:     uuid.New(),
      UserID: admin.ID,
    }
    if _, err := profileRepo.Create(ctx, tx, []*types.Profile{profile}); err != nil {
      return fmt.Errorf("failed to create admin profile: %w", err)
    }
    return nil
  })
}
