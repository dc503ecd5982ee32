package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

type TaskRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error)

  // READ
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Task, error)
  GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Task, error)
  SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error)

  // FULL UPDATE
  Update(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error)

  // FULL (HARD) DELETE
  FullDeleteByIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) error
}

type taskRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
  repoLog := baseLog.With("repo", "TaskRepo")
  return &taskRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (tr *taskRepo) Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
    tr.log.Debug("Transaction is nil, using tr.db")
  }

  if len(tasks) == 0 {
    tr.log.Debug("No tasks provided, returning empty slice")
    return []*types.Task{}, nil
  }

  tr.log.Info("Creating tasks now...", "count", len(tasks))
  if err := transaction.WithContext(ctx).Create(&tasks).Error; err != nil {
    tr.log.Error("Failed to create tasks", "error", err)
    return nil, err
  }
  tr.log.Info("Successfully created tasks", "count", len(tasks))
  return tasks, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (tr *taskRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Task, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  var results []*types.Task
  if len(userIDs) == 0 {
    tr.log.Debug("No userIDs provided, returning empty slice")
    return results, nil
  }

  tr.log.Info("Fetching tasks by user IDs now...", "count", len(userIDs))
  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    tr.log.Error("Failed to fetch tasks by user IDs", "error", err)
    return nil, err
  }
  tr.log.Info("Successfully fetched tasks by user IDs", "count", len(results))
  return results, nil
}

func (tr *taskRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Task, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  var results []*types.Task
  if len(slugs) == 0 {
    tr.log.Debug("No slugs provided, returning empty slice")
    return results, nil
  }

  tr.log.Info("Fetching tasks by slugs now...", "count", len(slugs))
  if err := transaction.WithContext(ctx).
    Where("slug IN ?", slugs).
    Find(&results).Error; err != nil {
    tr.log.Error("Failed to fetch tasks by slugs", "error", err)
    return nil, err
  }
  tr.log.Info("Successfully fetched tasks by slugs", "count", len(results))
  return results, nil
}

func (tr *taskRepo) SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.Task{}).
    Where("slug = ?", slug).
    Count(&count).Error; err != nil {
    tr.log.Error("Failed to count tasks by slug", "error", err)
    return false, err
  }
  return count > 0, nil
}

// ----------------------------------------------------------------
// FULL UPDATE
// ----------------------------------------------------------------

func (tr *taskRepo) Update(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  if len(tasks) == 0 {
    tr.log.Debug("No tasks provided, returning empty slice")
    return tasks, nil
  }

  tr.log.Info("Saving each task now...", "count", len(tasks))
  for i := range tasks {
    if err := transaction.WithContext(ctx).Save(tasks[i]).Error; err != nil {
      tr.log.Error("Failed to update task", "error", err, "taskID", tasks[i].ID)
      return nil, err
    }
  }
  tr.log.Info("Successfully updated tasks", "count", len(tasks))
  return tasks, nil
}

// ----------------------------------------------------------------
// FULL (HARD) DELETE
// ----------------------------------------------------------------

func (tr *taskRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }

  if len(taskIDs) == 0 {
    tr.log.Debug("No taskIDs provided, skipping full delete")
    return nil
  }

  tr.log.Info("Performing FULL (hard) delete by task IDs now...", "count", len(taskIDs))
  if err := transaction.WithContext(ctx).
    Unscoped().
    Where("id IN (?)", taskIDs).
    Delete(&types.Task{}).Error; err != nil {
    tr.log.Error("Failed to FULL delete tasks by IDs", "error", err)
    return err
  }
  tr.log.Info("Successfully FULL deleted tasks by IDs", "count", len(taskIDs))
  return nil
}
