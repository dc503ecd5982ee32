package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

type ProfileRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error)

  // READ
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Profile, error)
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Profile, error)

  // FULL UPDATE
  Update(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error)

  // FULL (HARD) DELETE
  FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
}

type profileRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
  repoLog := baseLog.With("repo", "ProfileRepo")
  return &profileRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
    pr.log.Debug("Transaction is nil, using pr.db")
  }

  if len(profiles) == 0 {
    pr.log.Debug("No profiles provided, returning empty slice")
    return []*types.Profile{}, nil
  }

  pr.log.Info("Creating profiles now...", "count", len(profiles))
  if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
    pr.log.Error("Failed to create profiles", "error", err)
    return nil, err
  }
  pr.log.Info("Successfully created profiles", "count", len(profiles))
  return profiles, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (pr *profileRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Profile, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.Profile
  pr.log.Info("Fetching all profiles now...")
  if err := transaction.WithContext(ctx).
    Preload("User").
    Find(&results).Error; err != nil {
    pr.log.Error("Failed to fetch all profiles", "error", err)
    return nil, err
  }
  pr.log.Info("Successfully fetched all profiles", "count", len(results))
  return results, nil
}

func (pr *profileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Profile, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.Profile
  if len(userIDs) == 0 {
    pr.log.Debug("No userIDs provided, returning empty slice")
    return results, nil
  }

  pr.log.Info("Fetching profiles by user IDs now...", "count", len(userIDs))
  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Find(&results).Error; err != nil {
    pr.log.Error("Failed to fetch profiles by user IDs", "error", err)
    return nil, err
  }
  pr.log.Info("Successfully fetched profiles by user IDs", "count", len(results))
  return results, nil
}

// ----------------------------------------------------------------
// FULL UPDATE
// ----------------------------------------------------------------

func (pr *profileRepo) Update(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  if len(profiles) == 0 {
    pr.log.Debug("No profiles provided, returning empty slice")
    return profiles, nil
  }

  pr.log.Info("Saving each profile now...", "count", len(profiles))
  for i := range profiles {
    if err := transaction.WithContext(ctx).Save(profiles[i]).Error; err != nil {
      pr.log.Error("Failed to update profile", "error", err, "profileID", profiles[i].ID)
      return nil, err
    }
  }
  pr.log.Info("Successfully updated profiles", "count", len(profiles))
  return profiles, nil
}

// ----------------------------------------------------------------
// FULL (HARD) DELETE
// ----------------------------------------------------------------

func (pr *profileRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  if len(userIDs) == 0 {
    pr.log.Debug("No userIDs provided, skipping full delete")
    return nil
  }

  pr.log.Info("Performing FULL (hard) delete of profiles by user IDs now...", "count", len(userIDs))
  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("user_id IN (?)", userIDs).
    Delete(&types.Profile{}).Error; err != nil {
    pr.log.Error("Failed to FULL delete profiles by user IDs", "error", err)
    return err
  }
  pr.log.Info("Successfully FULL deleted profiles by user IDs", "count", len(userIDs))
  return nil
}
