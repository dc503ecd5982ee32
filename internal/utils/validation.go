package utils

import (
  "context"
  "fmt"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/normalization"
  "github.com/Mobin-Heydari/Todo-Plus/internal/repos"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

const (
  // Passwords must be strictly between 8 and 16 characters, so 9-15
  // inclusive.
  PasswordMinLen = 8
  PasswordMaxLen = 16

  UsernameMaxLen = 12
)

// registrationCheck is one predicate in the ordered validation pipeline.
// Checks run in order and append into the accumulator; they never abort
// the pipeline so the client sees every failing field at once.
type registrationCheck func(user *types.User, password, confirm string, fe errordata.FieldErrors)

var registrationChecks = []registrationCheck{
  checkUsername,
  checkEmailPresent,
  checkFullName,
  checkPasswordRules,
  checkPasswordConfirmation,
}

func checkUsername(user *types.User, password, confirm string, fe errordata.FieldErrors) {
  if user.Username == "" {
    fe.Add("username", "a username is required to register")
    return
  }
  if len(user.Username) > UsernameMaxLen {
    fe.Add("username", fmt.Sprintf("username must be at most %d characters long", UsernameMaxLen))
  }
}

func checkEmailPresent(user *types.User, password, confirm string, fe errordata.FieldErrors) {
  if user.Email == "" {
    fe.Add("email", "an email is required to register")
  }
}

func checkFullName(user *types.User, password, confirm string, fe errordata.FieldErrors) {
  if user.FullName == "" {
    fe.Add("full_name", "a full name is required to register")
  }
}

func checkPasswordRules(user *types.User, password, confirm string, fe errordata.FieldErrors) {
  if password == "" {
    fe.Add("password", "a password is required to register")
    return
  }
  if len(password) <= PasswordMinLen || len(password) >= PasswordMaxLen {
    fe.Add("password", fmt.Sprintf("password must be between %d and %d characters long", PasswordMinLen+1, PasswordMaxLen-1))
  }
  if user.Username != "" && password == user.Username {
    fe.Add("password", "password must not equal the username")
  }
}

func checkPasswordConfirmation(user *types.User, password, confirm string, fe errordata.FieldErrors) {
  if password != confirm {
    fe.Add("confirm_password", "password fields did not match")
  }
}

// RegistrationValidation runs the field pipeline first and only then the
// uniqueness checks, so malformed input reads as Validation and a taken
// username/email reads as Conflict.
func RegistrationValidation(ctx context.Context, userRepo repos.UserRepo, log *logger.Logger, user *types.User, password, confirm string) error {
  fe := errordata.FieldErrors{}
  for _, check := range registrationChecks {
    check(user, password, confirm, fe)
  }
  if fe.HasErrors() {
    log.Warn("Registration input validation failed, Cannot proceed. Returning error.", "fields", fe)
    return fe.AsError()
  }

  emailExists, err := userRepo.EmailExists(ctx, nil, user.Email)
  if err != nil {
    log.Warn("Failed to check if user email exists, Cannot proceed. Returning error.", "error", err)
    return errordata.Wrap(errordata.Internal, "failed checking email existence", err)
  }
  if emailExists {
    log.Warn("Email is already in use, Cannot proceed.", "email", user.Email)
    return errordata.New(errordata.Conflict, "email is already in use")
  }

  usernameExists, err := userRepo.UsernameExists(ctx, nil, user.Username)
  if err != nil {
    log.Warn("Failed to check if username exists, Cannot proceed. Returning error.", "error", err)
    return errordata.Wrap(errordata.Internal, "failed checking username existence", err)
  }
  if usernameExists {
    log.Warn("Username is already in use, Cannot proceed.", "username", user.Username)
    return errordata.New(errordata.Conflict, "username is already in use")
  }
  return nil
}

func LoginValidation(log *logger.Logger, email, password string) error {
  fe := errordata.FieldErrors{}
  if email == "" {
    fe.Add("email", "an email is required to log in")
  }
  if password == "" {
    fe.Add("password", "a password is required to log in")
  } else if len(password) <= PasswordMinLen {
    fe.Add("password", fmt.Sprintf("password must be longer than %d characters", PasswordMinLen))
  }
  if fe.HasErrors() {
    log.Warn("Login input validation failed, Cannot proceed. Returning error.", "fields", fe)
    return fe.AsError()
  }
  return nil
}

func NormalizeUserFields(user *types.User) {
  user.Username = normalization.ParseInputString(user.Username)
  user.Email = normalization.ParseEmail(user.Email)
  user.FullName = normalization.ParseInputString(user.FullName)
}
