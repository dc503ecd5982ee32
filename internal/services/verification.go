package services

import (
  "context"
  "fmt"
  "math/rand"
  "strconv"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/repos"
  "github.com/Mobin-Heydari/Todo-Plus/internal/requestdata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

type VerificationService interface {
  GenerateOTP(ctx context.Context) (*types.OneTimeCode, error)
  VerifyAccount(ctx context.Context, token uuid.UUID, code string) error
}

type verificationService struct {
  db           *gorm.DB
  log          *logger.Logger
  userRepo     repos.UserRepo
  otpRepo      repos.OneTimeCodeRepo
  emailService EmailService
  otpTTL       time.Duration
}

func NewVerificationService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  otpRepo repos.OneTimeCodeRepo,
  emailService EmailService,
  otpTTL time.Duration,
) VerificationService {
  serviceLog := log.With("service", "VerificationService")
  return &verificationService{
    db:           db,
    log:          serviceLog,
    userRepo:     userRepo,
    otpRepo:      otpRepo,
    emailService: emailService,
    otpTTL:       otpTTL,
  }
}

//----------------------------------------------------------------------------------------------------------------------
// GenerateOTP
//----------------------------------------------------------------------------------------------------------------------

func (vs *verificationService) GenerateOTP(ctx context.Context) (*types.OneTimeCode, error) {
  //1) Caller must be authenticated
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    vs.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  //2) An already-verified account has nothing to verify
  if rd.IsVerified {
    vs.log.Warn("User is already verified, Cannot proceed.", "userID", rd.UserID)
    return nil, errordata.New(errordata.Validation, "account is already verified")
  }

  //3) Mint the six-digit code and its lookup token
  code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
  otc := &types.OneTimeCode{
    ID:        uuid.New(),
    UserID:    rd.UserID,
    Token:     uuid.New(),
    Code:      code,
    Status:    types.OtpStatusActive,
    ExpiresAt: time.Now().Add(vs.otpTTL),
  }
  created, cErr := vs.otpRepo.Create(ctx, nil, []*types.OneTimeCode{otc})
  if cErr != nil {
    vs.log.Warn("Failed to create one-time code, Cannot proceed. Returning error.", "error", cErr)
    return nil, errordata.Wrap(errordata.Internal, "failed to create one-time code", cErr)
  }
  if len(created) == 0 {
    vs.log.Warn("No one-time code returned from create, Cannot proceed.")
    return nil, errordata.New(errordata.Internal, "failed to create one-time code")
  }
  otc = created[0]

  //4) Email delivery is best-effort; the code stays fetchable by token
  if eErr := vs.emailService.SendVerificationCode(ctx, rd.Email, code); eErr != nil {
    vs.log.Warn("Failed to email verification code, continuing anyway.", "error", eErr, "userID", rd.UserID)
  }
  return otc, nil
}

//----------------------------------------------------------------------------------------------------------------------
// VerifyAccount
//----------------------------------------------------------------------------------------------------------------------

// VerifyAccount runs its checks in a fixed order so a caller probing with
// someone else's token learns nothing past the first failing gate.
func (vs *verificationService) VerifyAccount(ctx context.Context, token uuid.UUID, code string) error {
  //1) Look up the code by its token
  found, fErr := vs.otpRepo.GetByTokens(ctx, nil, []uuid.UUID{token})
  if fErr != nil {
    vs.log.Warn("Failed to fetch one-time code by token, Cannot proceed. Returning error.", "error", fErr)
    return errordata.Wrap(errordata.Internal, "failed to fetch one-time code", fErr)
  }
  if len(found) == 0 {
    vs.log.Warn("No one-time code found for token, Cannot proceed.", "token", token)
    return errordata.New(errordata.Validation, "invalid verification token")
  }
  otc := found[0]

  //2) Caller must be authenticated
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    vs.log.Warn("No Request Data found in context, Cannot proceed.")
    return errordata.New(errordata.Unauthorized, "authentication required")
  }

  //3) Only the code's owner may verify with it
  if otc.UserID != rd.UserID {
    vs.log.Warn("Caller does not own this one-time code, Cannot proceed.", "callerID", rd.UserID, "ownerID", otc.UserID)
    return errordata.New(errordata.Forbidden, "one-time code belongs to another user")
  }

  //4) An already-verified account has nothing to verify
  if rd.IsVerified {
    vs.log.Warn("User is already verified, Cannot proceed.", "userID", rd.UserID)
    return errordata.New(errordata.Validation, "account is already verified")
  }

  //5) Status gate: consumed codes never come back, expired codes are dead
  switch otc.StatusNow(time.Now()) {
  case types.OtpStatusConsumed:
    vs.log.Warn("One-time code was already used, Cannot proceed.", "otCodeID", otc.ID)
    return errordata.New(errordata.Validation, "one-time code has already been used")
  case types.OtpStatusExpired:
    vs.log.Warn("One-time code has expired, Cannot proceed.", "otCodeID", otc.ID)
    return errordata.New(errordata.Validation, "one-time code has expired")
  }

  //6) Compare codes numerically so leading-zero formatting never matters
  submitted, sErr := strconv.Atoi(code)
  if sErr != nil {
    vs.log.Warn("Submitted code is not numeric, Cannot proceed.", "error", sErr)
    return errordata.New(errordata.Validation, "incorrect verification code")
  }
  stored, stErr := strconv.Atoi(otc.Code)
  if stErr != nil {
    vs.log.Warn("Stored code is not numeric, Cannot proceed. Returning error.", "error", stErr)
    return errordata.Wrap(errordata.Internal, "stored one-time code is malformed", stErr)
  }
  if submitted != stored {
    vs.log.Warn("Submitted code does not match, Cannot proceed.", "otCodeID", otc.ID)
    return errordata.New(errordata.Validation, "incorrect verification code")
  }

  //7) Consume the code and flip the user in one transaction
  return vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    return vs.consumeAndVerify(ctx, tx, otc, rd.UserID)
  })
}

func (vs *verificationService) consumeAndVerify(ctx context.Context, tx *gorm.DB, otc *types.OneTimeCode, userID uuid.UUID) error {
  if mErr := vs.otpRepo.MarkConsumed(ctx, tx, otc.ID); mErr != nil {
    vs.log.Warn("Failed to mark one-time code consumed, Cannot proceed. Returning error.", "error", mErr)
    return errordata.Wrap(errordata.Internal, "failed to consume one-time code", mErr)
  }
  if vErr := vs.userRepo.SetVerified(ctx, tx, userID); vErr != nil {
    vs.log.Warn("Failed to mark user verified, Cannot proceed. Returning error.", "error", vErr)
    return errordata.Wrap(errordata.Internal, "failed to mark user verified", vErr)
  }
  vs.log.Info("User successfully verified", "userID", userID, "otCodeID", otc.ID)
  return nil
}
