package services

import (
  "context"
  "net/http"
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/requestdata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

func newVerificationFixture(t *testing.T) (*verificationService, *fakeUserRepo, *fakeOneTimeCodeRepo, *fakeEmailService) {
  t.Helper()
  userRepo := &fakeUserRepo{}
  otpRepo := &fakeOneTimeCodeRepo{}
  email := &fakeEmailService{}
  vs := &verificationService{
    log:          newTestLogger(t),
    userRepo:     userRepo,
    otpRepo:      otpRepo,
    emailService: email,
    otpTTL:       2 * time.Minute,
  }
  return vs, userRepo, otpRepo, email
}

func authedContext(userID uuid.UUID, email string, verified bool) context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID:     userID,
    Username:   "somebody",
    Email:      email,
    IsVerified: verified,
  })
}

func TestGenerateOTPRequiresAuth(t *testing.T) {
  vs, _, _, _ := newVerificationFixture(t)

  _, err := vs.GenerateOTP(context.Background())
  if err == nil {
    t.Fatal("expected error for anonymous caller")
  }
  if errordata.KindOf(err) != errordata.Unauthorized {
    t.Errorf("expected Unauthorized, got %v", errordata.KindOf(err))
  }
}

func TestGenerateOTPRejectsVerifiedUser(t *testing.T) {
  vs, _, _, _ := newVerificationFixture(t)
  ctx := authedContext(uuid.New(), "a@b.com", true)

  _, err := vs.GenerateOTP(ctx)
  if err == nil {
    t.Fatal("expected error for already-verified caller")
  }
  if errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation, got %v", errordata.KindOf(err))
  }
}

func TestGenerateOTPCreatesSixDigitCode(t *testing.T) {
  vs, _, otpRepo, email := newVerificationFixture(t)
  userID := uuid.New()
  ctx := authedContext(userID, "a@b.com", false)

  before := time.Now()
  otc, err := vs.GenerateOTP(ctx)
  if err != nil {
    t.Fatalf("GenerateOTP failed: %v", err)
  }
  if len(otc.Code) != 6 {
    t.Errorf("expected a 6-digit code, got %q", otc.Code)
  }
  if otc.Code[0] == '0' {
    t.Errorf("code must be in [100000, 999999], got %q", otc.Code)
  }
  if otc.Status != types.OtpStatusActive {
    t.Errorf("expected fresh code to be active, got %q", otc.Status)
  }
  if otc.UserID != userID {
    t.Errorf("code bound to wrong user: %s", otc.UserID)
  }
  if otc.ExpiresAt.Before(before.Add(vs.otpTTL)) {
    t.Errorf("expiration shorter than the configured window: %v", otc.ExpiresAt)
  }
  if len(otpRepo.codes) != 1 {
    t.Fatalf("expected 1 persisted code, got %d", len(otpRepo.codes))
  }
  if len(email.sent) != 1 || email.sent[0].to != "a@b.com" || email.sent[0].code != otc.Code {
    t.Errorf("verification email not delivered as expected: %+v", email.sent)
  }
}

func TestGenerateOTPSurvivesEmailFailure(t *testing.T) {
  vs, _, otpRepo, email := newVerificationFixture(t)
  email.fail = true
  ctx := authedContext(uuid.New(), "a@b.com", false)

  otc, err := vs.GenerateOTP(ctx)
  if err != nil {
    t.Fatalf("GenerateOTP should not fail on email delivery: %v", err)
  }
  if otc == nil || len(otpRepo.codes) != 1 {
    t.Fatal("code should be persisted even when the email bounces")
  }
}

func TestVerifyAccountUnknownToken(t *testing.T) {
  vs, _, _, _ := newVerificationFixture(t)
  ctx := authedContext(uuid.New(), "a@b.com", false)

  err := vs.VerifyAccount(ctx, uuid.New(), "123456")
  if errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation for unknown token, got %v", errordata.KindOf(err))
  }
  if got := errordata.HTTPStatus(err); got != http.StatusBadRequest {
    t.Errorf("an unknown token must read as a bad request, got %d", got)
  }
}

func TestVerifyAccountRequiresAuth(t *testing.T) {
  vs, _, otpRepo, _ := newVerificationFixture(t)
  token := uuid.New()
  otpRepo.codes = append(otpRepo.codes, &types.OneTimeCode{
    ID: uuid.New(), UserID: uuid.New(), Token: token, Code: "123456",
    Status: types.OtpStatusActive, ExpiresAt: time.Now().Add(time.Minute),
  })

  err := vs.VerifyAccount(context.Background(), token, "123456")
  if errordata.KindOf(err) != errordata.Unauthorized {
    t.Errorf("expected Unauthorized for anonymous caller, got %v", errordata.KindOf(err))
  }
}

func TestVerifyAccountRejectsForeignToken(t *testing.T) {
  vs, _, otpRepo, _ := newVerificationFixture(t)
  token := uuid.New()
  otpRepo.codes = append(otpRepo.codes, &types.OneTimeCode{
    ID: uuid.New(), UserID: uuid.New(), Token: token, Code: "123456",
    Status: types.OtpStatusActive, ExpiresAt: time.Now().Add(time.Minute),
  })
  ctx := authedContext(uuid.New(), "other@b.com", false)

  err := vs.VerifyAccount(ctx, token, "123456")
  if errordata.KindOf(err) != errordata.Forbidden {
    t.Errorf("expected Forbidden for someone else's code, got %v", errordata.KindOf(err))
  }
}

func TestVerifyAccountRejectsExpiredCode(t *testing.T) {
  vs, _, otpRepo, _ := newVerificationFixture(t)
  userID := uuid.New()
  token := uuid.New()
  // Expiration in the past; the exact-instant case is covered by the
  // StatusNow tests in types.
  otpRepo.codes = append(otpRepo.codes, &types.OneTimeCode{
    ID: uuid.New(), UserID: userID, Token: token, Code: "123456",
    Status: types.OtpStatusActive, ExpiresAt: time.Now().Add(-time.Second),
  })
  ctx := authedContext(userID, "a@b.com", false)

  err := vs.VerifyAccount(ctx, token, "123456")
  if errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation for expired code, got %v", errordata.KindOf(err))
  }
}

func TestVerifyAccountRejectsConsumedCode(t *testing.T) {
  vs, _, otpRepo, _ := newVerificationFixture(t)
  userID := uuid.New()
  token := uuid.New()
  otpRepo.codes = append(otpRepo.codes, &types.OneTimeCode{
    ID: uuid.New(), UserID: userID, Token: token, Code: "123456",
    Status: types.OtpStatusConsumed, ExpiresAt: time.Now().Add(time.Minute),
  })
  ctx := authedContext(userID, "a@b.com", false)

  err := vs.VerifyAccount(ctx, token, "123456")
  if errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation for consumed code, got %v", errordata.KindOf(err))
  }
}

func TestVerifyAccountRejectsWrongCode(t *testing.T) {
  vs, _, otpRepo, _ := newVerificationFixture(t)
  userID := uuid.New()
  token := uuid.New()
  otpRepo.codes = append(otpRepo.codes, &types.OneTimeCode{
    ID: uuid.New(), UserID: userID, Token: token, Code: "123456",
    Status: types.OtpStatusActive, ExpiresAt: time.Now().Add(time.Minute),
  })
  ctx := authedContext(userID, "a@b.com", false)

  if err := vs.VerifyAccount(ctx, token, "654321"); errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation for wrong code, got %v", errordata.KindOf(err))
  }
  if err := vs.VerifyAccount(ctx, token, "banana"); errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation for non-numeric code, got %v", errordata.KindOf(err))
  }
}

func TestVerifyAccountRejectsVerifiedUser(t *testing.T) {
  vs, _, otpRepo, _ := newVerificationFixture(t)
  userID := uuid.New()
  token := uuid.New()
  otpRepo.codes = append(otpRepo.codes, &types.OneTimeCode{
    ID: uuid.New(), UserID: userID, Token: token, Code: "123456",
    Status: types.OtpStatusActive, ExpiresAt: time.Now().Add(time.Minute),
  })
  ctx := authedContext(userID, "a@b.com", true)

  err := vs.VerifyAccount(ctx, token, "123456")
  if errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation for already-verified caller, got %v", errordata.KindOf(err))
  }
}

func TestConsumeAndVerifyFlipsUserAndCode(t *testing.T) {
  vs, userRepo, otpRepo, _ := newVerificationFixture(t)
  userID := uuid.New()
  userRepo.users = append(userRepo.users, &types.User{ID: userID})
  otc := &types.OneTimeCode{
    ID: uuid.New(), UserID: userID, Token: uuid.New(), Code: "123456",
    Status: types.OtpStatusActive, ExpiresAt: time.Now().Add(time.Minute),
  }
  otpRepo.codes = append(otpRepo.codes, otc)

  if err := vs.consumeAndVerify(context.Background(), nil, otc, userID); err != nil {
    t.Fatalf("consumeAndVerify failed: %v", err)
  }
  if !userRepo.users[0].IsVerified {
    t.Error("user should be verified after a successful check")
  }
  if otpRepo.codes[0].Status != types.OtpStatusConsumed {
    t.Errorf("code should be consumed after a successful check, got %q", otpRepo.codes[0].Status)
  }
  // A consumed code stays consumed regardless of the clock.
  if got := otc.StatusNow(time.Now().Add(-time.Hour)); got != types.OtpStatusConsumed {
    t.Errorf("consumed status must be sticky, got %q", got)
  }
}
