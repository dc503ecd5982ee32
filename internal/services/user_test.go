package services

import (
  "context"
  "testing"

  "github.com/google/uuid"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/requestdata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
  "github.com/Mobin-Heydari/Todo-Plus/internal/utils"
)

func newUserFixture(t *testing.T) (*userService, *fakeUserRepo) {
  t.Helper()
  userRepo := &fakeUserRepo{}
  us := &userService{log: newTestLogger(t), userRepo: userRepo}
  return us, userRepo
}

func addUser(userRepo *fakeUserRepo, username string) *types.User {
  user := &types.User{ID: uuid.New(), Username: username, Email: username + "@b.com", FullName: "Some Body", IsActive: true}
  userRepo.users = append(userRepo.users, user)
  return user
}

func asUser(user *types.User) context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID: user.ID, Username: user.Username, Email: user.Email, IsAdmin: user.IsAdmin,
  })
}

func TestUserListIsStaffOnly(t *testing.T) {
  us, userRepo := newUserFixture(t)
  regular := addUser(userRepo, "regular")
  staff := addUser(userRepo, "staff")
  staff.IsAdmin = true

  if _, err := us.List(asUser(regular)); errordata.KindOf(err) != errordata.Forbidden {
    t.Errorf("expected Forbidden for a regular caller, got %v", err)
  }
  users, err := us.List(asUser(staff))
  if err != nil {
    t.Fatalf("staff List failed: %v", err)
  }
  if len(users) != 2 {
    t.Errorf("expected the full roster, got %d users", len(users))
  }
}

func TestUserGetOwnerAndStaffOnly(t *testing.T) {
  us, userRepo := newUserFixture(t)
  owner := addUser(userRepo, "owner")
  other := addUser(userRepo, "other")
  staff := addUser(userRepo, "staff")
  staff.IsAdmin = true

  if _, err := us.Get(asUser(owner), "owner"); err != nil {
    t.Errorf("owner should read their own account: %v", err)
  }
  if _, err := us.Get(asUser(staff), "owner"); err != nil {
    t.Errorf("staff should read any account: %v", err)
  }
  if _, err := us.Get(asUser(other), "owner"); errordata.KindOf(err) != errordata.Forbidden {
    t.Errorf("expected Forbidden for a stranger, got %v", err)
  }
  if _, err := us.Get(asUser(owner), "nobody"); errordata.KindOf(err) != errordata.NotFound {
    t.Errorf("expected NotFound for unknown username, got %v", err)
  }
}

func TestUserUpdateChangesFieldsAndRehashes(t *testing.T) {
  us, userRepo := newUserFixture(t)
  owner := addUser(userRepo, "owner")

  newName := "  New   Name "
  newPassword := "fresh-pass-1"
  updated, err := us.Update(asUser(owner), "owner", UserUpdate{FullName: &newName, Password: &newPassword})
  if err != nil {
    t.Fatalf("Update failed: %v", err)
  }
  if updated.FullName != "New Name" {
    t.Errorf("full name should be normalized, got %q", updated.FullName)
  }
  if !utils.CheckPassword(updated.Password, newPassword) {
    t.Error("new password should verify against the stored hash")
  }
}

func TestUserUpdateRejectsTakenUsername(t *testing.T) {
  us, userRepo := newUserFixture(t)
  owner := addUser(userRepo, "owner")
  addUser(userRepo, "taken")

  taken := "taken"
  if _, err := us.Update(asUser(owner), "owner", UserUpdate{Username: &taken}); errordata.KindOf(err) != errordata.Conflict {
    t.Errorf("expected Conflict for a taken username, got %v", err)
  }
}

func TestUserUpdateRejectsForeignAccount(t *testing.T) {
  us, userRepo := newUserFixture(t)
  addUser(userRepo, "owner")
  other := addUser(userRepo, "other")

  newName := "New Name"
  if _, err := us.Update(asUser(other), "owner", UserUpdate{FullName: &newName}); errordata.KindOf(err) != errordata.Forbidden {
    t.Errorf("expected Forbidden for a stranger, got %v", err)
  }
}

func TestUserUpdateValidatesPassword(t *testing.T) {
  us, userRepo := newUserFixture(t)
  owner := addUser(userRepo, "owner")

  short := "12345678"
  if _, err := us.Update(asUser(owner), "owner", UserUpdate{Password: &short}); errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation for a too-short password, got %v", err)
  }
}

func TestUserDeleteOwnerAndStaffOnly(t *testing.T) {
  us, userRepo := newUserFixture(t)
  owner := addUser(userRepo, "owner")
  other := addUser(userRepo, "other")
  staff := addUser(userRepo, "staff")
  staff.IsAdmin = true

  if err := us.Delete(asUser(other), "owner"); errordata.KindOf(err) != errordata.Forbidden {
    t.Errorf("expected Forbidden for a stranger, got %v", err)
  }
  if err := us.Delete(asUser(owner), "owner"); err != nil {
    t.Fatalf("owner Delete failed: %v", err)
  }
  if exists, _ := userRepo.UsernameExists(context.Background(), nil, "owner"); exists {
    t.Error("deleted account should be gone")
  }
  if err := us.Delete(asUser(staff), "other"); err != nil {
    t.Errorf("staff should delete any account: %v", err)
  }
}
