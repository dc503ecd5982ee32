package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

type OneTimeCodeRepo interface {
  // CREATE
  Create(ctx context.Context, tx *gorm.DB, otCodes []*types.OneTimeCode) ([]*types.OneTimeCode, error)

  // READ
  GetByTokens(ctx context.Context, tx *gorm.DB, tokens []uuid.UUID) ([]*types.OneTimeCode, error)

  // PARTIAL UPDATE
  MarkConsumed(ctx context.Context, tx *gorm.DB, otCodeID uuid.UUID) error
}

type oneTimeCodeRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewOneTimeCodeRepo(db *gorm.DB, baseLog *logger.Logger) OneTimeCodeRepo {
  repoLog := baseLog.With("repo", "OneTimeCodeRepo")
  return &oneTimeCodeRepo{db: db, log: repoLog}
}

// ----------------------------------------------------------------
// CREATE
// ----------------------------------------------------------------

func (ocr *oneTimeCodeRepo) Create(ctx context.Context, tx *gorm.DB, otCodes []*types.OneTimeCode) ([]*types.OneTimeCode, error) {
  transaction := tx
  if transaction == nil {
    transaction = ocr.db
    ocr.log.Debug("Transaction is nil, using ocr.db")
  }

  if len(otCodes) == 0 {
    ocr.log.Debug("No OneTimeCodes provided, returning empty slice")
    return []*types.OneTimeCode{}, nil
  }

  ocr.log.Info("Creating one-time codes now...", "count", len(otCodes))
  if err := transaction.WithContext(ctx).Create(&otCodes).Error; err != nil {
    ocr.log.Error("Failed to create one-time codes", "error", err)
    return nil, err
  }
  ocr.log.Info("Successfully created one-time codes", "count", len(otCodes))
  return otCodes, nil
}

// ----------------------------------------------------------------
// READ
// ----------------------------------------------------------------

func (ocr *oneTimeCodeRepo) GetByTokens(ctx context.Context, tx *gorm.DB, tokens []uuid.UUID) ([]*types.OneTimeCode, error) {
  transaction := tx
  if transaction == nil {
    transaction = ocr.db
  }

  var results []*types.OneTimeCode
  if len(tokens) == 0 {
    ocr.log.Debug("No tokens provided, returning empty slice")
    return results, nil
  }

  ocr.log.Info("Fetching one-time codes by tokens now...", "count", len(tokens))
  if err := transaction.WithContext(ctx).
    Where("token IN ?", tokens).
    Find(&results).Error; err != nil {
    ocr.log.Error("Failed to fetch one-time codes by tokens", "error", err)
    return nil, err
  }
  ocr.log.Info("Successfully fetched one-time codes by tokens", "count", len(results))
  return results, nil
}

// ----------------------------------------------------------------
// PARTIAL UPDATE
// ----------------------------------------------------------------

func (ocr *oneTimeCodeRepo) MarkConsumed(ctx context.Context, tx *gorm.DB, otCodeID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = ocr.db
  }

  if otCodeID == uuid.Nil {
    ocr.log.Debug("otCodeID is nil, skipping MarkConsumed")
    return nil
  }

  ocr.log.Info("Locking one-time code row (for update) to mark consumed...", "otCodeID", otCodeID)
  var otc types.OneTimeCode
  if err := transaction.WithContext(ctx).
    Clauses(clause.Locking{Strength: "UPDATE"}).
    Where("id = ?", otCodeID).
    First(&otc).Error; err != nil {
    ocr.log.Error("Failed to load one-time code in MarkConsumed", "error", err)
    return err
  }

  if otc.Status == types.OtpStatusConsumed {
    ocr.log.Debug("One-time code already consumed, skipping", "otCodeID", otCodeID)
    return nil
  }
  otc.Status = types.OtpStatusConsumed

  if err := transaction.WithContext(ctx).Save(&otc).Error; err != nil {
    ocr.log.Error("Failed to save one-time code as consumed", "error", err)
    return err
  }
  ocr.log.Info("Successfully marked one-time code as consumed", "otCodeID", otCodeID)
  return nil
}
