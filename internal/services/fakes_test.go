package services

import (
  "bytes"
  "context"
  "fmt"
  "io"
  "testing"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("failed to build test logger: %v", err)
  }
  return log
}

// ---------------------------------------------------------------
// fakeUserRepo
// ---------------------------------------------------------------

type fakeUserRepo struct {
  users []*types.User
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  f.users = append(f.users, users...)
  return users, nil
}

func (f *fakeUserRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
  return f.users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
  var out []*types.User
  for _, u := range f.users {
    for _, id := range userIDs {
      if u.ID == id {
        out = append(out, u)
      }
    }
  }
  return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, userEmails []string) ([]*types.User, error) {
  var out []*types.User
  for _, u := range f.users {
    for _, email := range userEmails {
      if u.Email == email {
        out = append(out, u)
      }
    }
  }
  return out, nil
}

func (f *fakeUserRepo) GetByUsernames(ctx context.Context, tx *gorm.DB, usernames []string) ([]*types.User, error) {
  var out []*types.User
  for _, u := range f.users {
    for _, username := range usernames {
      if u.Username == username {
        out = append(out, u)
      }
    }
  }
  return out, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, userEmail string) (bool, error) {
  for _, u := range f.users {
    if u.Email == userEmail {
      return true, nil
    }
  }
  return false, nil
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
  for _, u := range f.users {
    if u.Username == username {
      return true, nil
    }
  }
  return false, nil
}

func (f *fakeUserRepo) SetVerified(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
  for _, u := range f.users {
    if u.ID == userID {
      u.IsVerified = true
      return nil
    }
  }
  return fmt.Errorf("user not found: %s", userID)
}

func (f *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
  return users, nil
}

func (f *fakeUserRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
  var kept []*types.User
  for _, u := range f.users {
    deleted := false
    for _, id := range userIDs {
      if u.ID == id {
        deleted = true
      }
    }
    if !deleted {
      kept = append(kept, u)
    }
  }
  f.users = kept
  return nil
}

// ---------------------------------------------------------------
// fakeOneTimeCodeRepo
// ---------------------------------------------------------------

type fakeOneTimeCodeRepo struct {
  codes []*types.OneTimeCode
}

func (f *fakeOneTimeCodeRepo) Create(ctx context.Context, tx *gorm.DB, otCodes []*types.OneTimeCode) ([]*types.OneTimeCode, error) {
  f.codes = append(f.codes, otCodes...)
  return otCodes, nil
}

func (f *fakeOneTimeCodeRepo) GetByTokens(ctx context.Context, tx *gorm.DB, tokens []uuid.UUID) ([]*types.OneTimeCode, error) {
  var out []*types.OneTimeCode
  for _, otc := range f.codes {
    for _, token := range tokens {
      if otc.Token == token {
        out = append(out, otc)
      }
    }
  }
  return out, nil
}

func (f *fakeOneTimeCodeRepo) MarkConsumed(ctx context.Context, tx *gorm.DB, otCodeID uuid.UUID) error {
  for _, otc := range f.codes {
    if otc.ID == otCodeID {
      otc.Status = types.OtpStatusConsumed
      return nil
    }
  }
  return fmt.Errorf("one-time code not found: %s", otCodeID)
}

// ---------------------------------------------------------------
// fakeProfileRepo
// ---------------------------------------------------------------

type fakeProfileRepo struct {
  profiles []*types.Profile
}

func (f *fakeProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
  f.profiles = append(f.profiles, profiles...)
  return profiles, nil
}

func (f *fakeProfileRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Profile, error) {
  return f.profiles, nil
}

func (f *fakeProfileRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Profile, error) {
  var out []*types.Profile
  for _, p := range f.profiles {
    for _, id := range userIDs {
      if p.UserID == id {
        out = append(out, p)
      }
    }
  }
  return out, nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, tx *gorm.DB, profiles []*types.Profile) ([]*types.Profile, error) {
  return profiles, nil
}

func (f *fakeProfileRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
  var kept []*types.Profile
  for _, p := range f.profiles {
    deleted := false
    for _, id := range userIDs {
      if p.UserID == id {
        deleted = true
      }
    }
    if !deleted {
      kept = append(kept, p)
    }
  }
  f.profiles = kept
  return nil
}

// ---------------------------------------------------------------
// fakeTaskRepo
// ---------------------------------------------------------------

type fakeTaskRepo struct {
  tasks []*types.Task
}

func (f *fakeTaskRepo) Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
  f.tasks = append(f.tasks, tasks...)
  return tasks, nil
}

func (f *fakeTaskRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.Task, error) {
  var out []*types.Task
  for _, task := range f.tasks {
    for _, id := range userIDs {
      if task.UserID == id {
        out = append(out, task)
      }
    }
  }
  return out, nil
}

func (f *fakeTaskRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Task, error) {
  var out []*types.Task
  for _, task := range f.tasks {
    for _, slug := range slugs {
      if task.Slug == slug {
        out = append(out, task)
      }
    }
  }
  return out, nil
}

func (f *fakeTaskRepo) SlugExists(ctx context.Context, tx *gorm.DB, slug string) (bool, error) {
  for _, task := range f.tasks {
    if task.Slug == slug {
      return true, nil
    }
  }
  return false, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
  return tasks, nil
}

func (f *fakeTaskRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) error {
  var kept []*types.Task
  for _, task := range f.tasks {
    deleted := false
    for _, id := range taskIDs {
      if task.ID == id {
        deleted = true
      }
    }
    if !deleted {
      kept = append(kept, task)
    }
  }
  f.tasks = kept
  return nil
}

// ---------------------------------------------------------------
// fakeEmailService, fakeBlacklist, fakeAvatarService
// ---------------------------------------------------------------

type sentEmail struct {
  to   string
  code string
}

type fakeEmailService struct {
  sent []sentEmail
  fail bool
}

func (f *fakeEmailService) SendEmail(ctx context.Context, toEmail, subject, plainText, htmlContent string) error {
  if f.fail {
    return fmt.Errorf("email delivery failed")
  }
  f.sent = append(f.sent, sentEmail{to: toEmail})
  return nil
}

func (f *fakeEmailService) SendVerificationCode(ctx context.Context, toEmail, code string) error {
  if f.fail {
    return fmt.Errorf("email delivery failed")
  }
  f.sent = append(f.sent, sentEmail{to: toEmail, code: code})
  return nil
}

type fakeBlacklist struct {
  revoked map[string]bool
}

func newFakeBlacklist() *fakeBlacklist {
  return &fakeBlacklist{revoked: make(map[string]bool)}
}

func (f *fakeBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
  if ttl > 0 {
    f.revoked[jti] = true
  }
  return nil
}

func (f *fakeBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
  return f.revoked[jti], nil
}

type fakeAvatarService struct {
  uploads int
}

func (f *fakeAvatarService) CreateAndUploadProfileAvatar(ctx context.Context, user *types.User, profile *types.Profile) error {
  f.uploads++
  profile.ImageBucketKey = fmt.Sprintf("profile_images/%s.png", user.ID)
  profile.ImageURL = "https://storage.example.com/" + profile.ImageBucketKey
  return nil
}

func (f *fakeAvatarService) ProcessAndUploadProfileImage(ctx context.Context, profile *types.Profile, upload io.Reader) error {
  f.uploads++
  profile.ImageBucketKey = fmt.Sprintf("profile_images/%s.png", profile.UserID)
  profile.ImageURL = "https://storage.example.com/" + profile.ImageBucketKey
  return nil
}

func (f *fakeAvatarService) GenerateProfileAvatar(user *types.User) (bytes.Buffer, error) {
  return bytes.Buffer{}, nil
}
