package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

type UserRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)

  // READ
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
  GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error)
  GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error)
  EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error)
  UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error)

  // PARTIAL UPDATE
  SetVerified(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error

  // FULL UPDATE
  Update(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)

  // FULL (HARD) DELETE
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  repoLog := baseLog.With("repo", "UserRepo")
  return &userRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
    ur.log.Debug("Transaction is nil, using ur.db")
  }

  if len(users) == 0 {
    ur.log.Debug("No users provided, returning empty slice")
    return []*types.User{}, nil
  }

  ur.log.Info("Creating users now...", "count", len(users))
  if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
    ur.log.Error("Failed to create users", "error", err)
    return nil, err
  }
  ur.log.Info("Successfully created users", "count", len(users))
  return users, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (ur *userRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  var results []*types.User
  ur.log.Info("Fetching all users now...")
  if err := transaction.WithContext(ctx).
    Order("joined_date").
    Find(&results).Error; err != nil {
    ur.log.Error("Failed to fetch all users", "error", err)
    return nil, err
  }
  ur.log.Info("Successfully fetched all users", "count", len(results))
  return results, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  var results []*types.User
  if len(userIDs) == 0 {
    ur.log.Debug("No userIDs provided, returning empty slice")
    return results, nil
  }

  ur.log.Info("Fetching users by IDs now...", "count", len(userIDs))
  if err := transaction.WithContext(ctx).
    Where("id IN ?", userIDs).
    Find(&results).Error; err != nil {
    ur.log.Error("Failed to fetch users by IDs", "error", err)
    return nil, err
  }
  ur.log.Info("Successfully fetched users by IDs", "count", len(results))
  return results, nil
}

func (ur *userRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  var results []*types.User
  if len(userEmails) == 0 {
    ur.log.Debug("No userEmails provided, returning empty slice")
    return results, nil
  }

  ur.log.Info("Fetching users by emails now...", "count", len(userEmails))
  if err := transaction.WithContext(ctx).
    Where("email IN ?", userEmails).
    Find(&results).Error; err != nil {
    ur.log.Error("Failed to fetch users by emails", "error", err)
    return nil, err
  }
  ur.log.Info("Successfully fetched users by emails", "count", len(results))
  return results, nil
}

func (ur *userRepo) GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  var results []*types.User
  if len(usernames) == 0 {
    ur.log.Debug("No usernames provided, returning empty slice")
    return results, nil
  }

  ur.log.Info("Fetching users by usernames now...", "count", len(usernames))
  if err := transaction.WithContext(ctx).
    Where("username IN ?", usernames).
    Find(&results).Error; err != nil {
    ur.log.Error("Failed to fetch users by usernames", "error", err)
    return nil, err
  }
  ur.log.Info("Successfully fetched users by usernames", "count", len(results))
  return results, nil
}

func (ur *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("email = ?", userEmail).
    Count(&count).Error; err != nil {
    ur.log.Error("Failed to count users by email", "error", err)
    return false, err
  }
  return count > 0, nil
}

func (ur *userRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("username = ?", username).
    Count(&count).Error; err != nil {
    ur.log.Error("Failed to count users by username", "error", err)
    return false, err
  }
  return count > 0, nil
}

// ----------------------------------------------------------------
// PARTIAL UPDATE
// ----------------------------------------------------------------

func (ur *userRepo) SetVerified(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  if userID == uuid.Nil {
    ur.log.Debug("userID is nil, skipping SetVerified")
    return nil
  }

  ur.log.Info("Locking user row (for update) to set verified...", "userID", userID)
  var user types.User
  if err := transaction.WithContext(ctx).
    Clauses(clause.Locking{Strength: "UPDATE"}).
    Where("id = ?", userID).
    First(&user).Error; err != nil {
    ur.log.Error("Failed to load user in SetVerified", "error", err)
    return err
  }

  if user.IsVerified {
    ur.log.Debug("User already verified, skipping", "userID", userID)
    return nil
  }
  user.IsVerified = true

  if err := transaction.WithContext(ctx).Save(&user).Error; err != nil {
    ur.log.Error("Failed to save user as verified", "error", err)
    return err
  }
  ur.log.Info("Successfully marked user as verified", "userID", userID)
  return nil
}

// ----------------------------------------------------------------
// FULL UPDATE
// ----------------------------------------------------------------

func (ur *userRepo) Update(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  if len(users) == 0 {
    ur.log.Debug("No users provided, returning empty slice")
    return users, nil
  }

  ur.log.Info("Saving each user now...", "count", len(users))
  for i := range users {
    if err := transaction.WithContext(ctx).Save(users[i]).Error; err != nil {
      ur.log.Error("Failed to update user", "error", err, "userID", users[i].ID)
      return nil, err
    }
  }
  ur.log.Info("Successfully updated users", "count", len(users))
  return users, nil
}

// ----------------------------------------------------------------
// FULL (HARD) DELETE
// ----------------------------------------------------------------

func (ur *userRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ur.db
  }

  if len(userIDs) == 0 {
    ur.log.Debug("No userIDs provided, skipping full delete")
    return nil
  }

  ur.log.Info("Performing FULL (hard) delete by user IDs now...", "count", len(userIDs))
  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id IN (?)", userIDs).
    Delete(&types.User{}).Error; err != nil {
    ur.log.Error("Failed to FULL delete users by IDs", "error", err)
    return err
  }
  ur.log.Info("Successfully FULL deleted users by IDs", "count", len(userIDs))
  return nil
}
