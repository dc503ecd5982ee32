package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/normalization"
  "github.com/Mobin-Heydari/Todo-Plus/internal/repos"
  "github.com/Mobin-Heydari/Todo-Plus/internal/requestdata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
  "github.com/Mobin-Heydari/Todo-Plus/internal/utils"
)

// UserUpdate carries the mutable account fields; nil means leave as-is.
type UserUpdate struct {
  Username *string
  Email    *string
  FullName *string
  Password *string
}

type UserService interface {
  List(ctx context.Context) ([]*types.User, error)
  Get(ctx context.Context, username string) (*types.User, error)
  Update(ctx context.Context, username string, updates UserUpdate) (*types.User, error)
  Delete(ctx context.Context, username string) error
}

type userService struct {
  db       *gorm.DB
  log      *logger.Logger
  userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
  serviceLog := log.With("service", "UserService")
  return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

//----------------------------------------------------------------------------------------------------------------------
// List, Get
//----------------------------------------------------------------------------------------------------------------------

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    us.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }
  if !rd.IsStaff() {
    us.log.Warn("Caller is not staff, Cannot proceed.", "userID", rd.UserID)
    return nil, errordata.New(errordata.Forbidden, "staff access required")
  }

  users, err := us.userRepo.GetAll(ctx, nil)
  if err != nil {
    us.log.Warn("Failed to fetch all users, Cannot proceed. Returning error.", "error", err)
    return nil, errordata.Wrap(errordata.Internal, "failed to fetch users", err)
  }
  return users, nil
}

func (us *userService) Get(ctx context.Context, username string) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    us.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  user, err := us.getByUsername(ctx, username)
  if err != nil {
    return nil, err
  }
  if user.ID != rd.UserID && !rd.IsStaff() {
    us.log.Warn("Caller is neither the account owner nor staff, Cannot proceed.", "callerID", rd.UserID)
    return nil, errordata.New(errordata.Forbidden, "cannot view another user's account")
  }
  return user, nil
}

//----------------------------------------------------------------------------------------------------------------------
// Update
//----------------------------------------------------------------------------------------------------------------------

func (us *userService) Update(ctx context.Context, username string, updates UserUpdate) (*types.User, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    us.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  user, err := us.getByUsername(ctx, username)
  if err != nil {
    return nil, err
  }
  if user.ID != rd.UserID && !rd.IsStaff() {
    us.log.Warn("Caller is neither the account owner nor staff, Cannot proceed.", "callerID", rd.UserID)
    return nil, errordata.New(errordata.Forbidden, "cannot update another user's account")
  }

  //1) Apply field changes with the same rules registration enforces
  fe := errordata.FieldErrors{}
  if updates.Username != nil {
    newUsername := normalization.ParseInputString(*updates.Username)
    if newUsername == "" {
      fe.Add("username", "username must not be empty")
    } else if len(newUsername) > utils.UsernameMaxLen {
      fe.Add("username", fmt.Sprintf("username must be at most %d characters long", utils.UsernameMaxLen))
    } else if newUsername != user.Username {
      taken, tErr := us.userRepo.UsernameExists(ctx, nil, newUsername)
      if tErr != nil {
        us.log.Warn("Failed to check username existence, Cannot proceed. Returning error.", "error", tErr)
        return nil, errordata.Wrap(errordata.Internal, "failed checking username existence", tErr)
      }
      if taken {
        return nil, errordata.New(errordata.Conflict, "username is already in use")
      }
      user.Username = newUsername
    }
  }
  if updates.Email != nil {
    newEmail := normalization.ParseEmail(*updates.Email)
    if newEmail == "" {
      fe.Add("email", "email must not be empty")
    } else if newEmail != user.Email {
      taken, tErr := us.userRepo.EmailExists(ctx, nil, newEmail)
      if tErr != nil {
        us.log.Warn("Failed to check email existence, Cannot proceed. Returning error.", "error", tErr)
        return nil, errordata.Wrap(errordata.Internal, "failed checking email existence", tErr)
      }
      if taken {
        return nil, errordata.New(errordata.Conflict, "email is already in use")
      }
      user.Email = newEmail
    }
  }
  if updates.FullName != nil {
    newFullName := normalization.ParseInputString(*updates.FullName)
    if newFullName == "" {
      fe.Add("full_name", "full name must not be empty")
    } else {
      user.FullName = newFullName
    }
  }
  if updates.Password != nil {
    password := *updates.Password
    if len(password) <= utils.PasswordMinLen || len(password) >= utils.PasswordMaxLen {
      fe.Add("password", fmt.Sprintf("password must be between %d and %d characters long", utils.PasswordMinLen+1, utils.PasswordMaxLen-1))
    } else if password == user.Username {
      fe.Add("password", "password must not equal the username")
    } else {
      hashed, hErr := utils.HashPassword(password)
      if hErr != nil {
        us.log.Warn("Failed to hash password, Cannot proceed. Returning error.", "error", hErr)
        return nil, errordata.Wrap(errordata.Internal, "failed to hash password", hErr)
      }
      user.Password = hashed
    }
  }
  if fe.HasErrors() {
    us.log.Warn("User update validation failed, Cannot proceed. Returning error.", "fields", fe)
    return nil, fe.AsError()
  }

  //2) Persist
  updated, uErr := us.userRepo.Update(ctx, nil, []*types.User{user})
  if uErr != nil {
    us.log.Warn("Failed to update user, Cannot proceed. Returning error.", "error", uErr)
    return nil, errordata.Wrap(errordata.Internal, "failed to update user", uErr)
  }
  return updated[0], nil
}

//----------------------------------------------------------------------------------------------------------------------
// Delete
//----------------------------------------------------------------------------------------------------------------------

func (us *userService) Delete(ctx context.Context, username string) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    us.log.Warn("No Request Data found in context, Cannot proceed.")
    return errordata.New(errordata.Unauthorized, "authentication required")
  }

  user, err := us.getByUsername(ctx, username)
  if err != nil {
    return err
  }
  if user.ID != rd.UserID && !rd.IsStaff() {
    us.log.Warn("Caller is neither the account owner nor staff, Cannot proceed.", "callerID", rd.UserID)
    return errordata.New(errordata.Forbidden, "cannot delete another user's account")
  }

  // Profiles, one-time codes and tasks go with the user via FK cascade.
  if dErr := us.userRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{user.ID}); dErr != nil {
    us.log.Warn("Failed to delete user, Cannot proceed. Returning error.", "error", dErr)
    return errordata.Wrap(errordata.Internal, "failed to delete user", dErr)
  }
  return nil
}

//----------------------------------------------------------------------------------------------------------------------
// Helpers
//----------------------------------------------------------------------------------------------------------------------

func (us *userService) getByUsername(ctx context.Context, username string) (*types.User, error) {
  users, err := us.userRepo.GetByUsernames(ctx, nil, []string{username})
  if err != nil {
    us.log.Warn("Failed to fetch user by username, Cannot proceed. Returning error.", "error", err)
    return nil, errordata.Wrap(errordata.Internal, "failed to fetch user", err)
  }
  if len(users) == 0 {
    us.log.Warn("No user found for username, Cannot proceed.", "username", username)
    return nil, errordata.New(errordata.NotFound, "user not found")
  }
  return users[0], nil
}
