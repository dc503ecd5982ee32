package services

import (
  "context"
  "io"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/normalization"
  "github.com/Mobin-Heydari/Todo-Plus/internal/repos"
  "github.com/Mobin-Heydari/Todo-Plus/internal/requestdata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

// ProfileUpdate carries the mutable profile fields; nil means leave as-is.
type ProfileUpdate struct {
  Age              *int
  Bio              *string
  Location         *string
  Language         *string
  LinkedinProfile  *string
  GithubProfile    *string
  GitlabProfile    *string
  InstagramProfile *string
  YoutubeProfile   *string
  XProfile         *string
}

type ProfileService interface {
  List(ctx context.Context) ([]*types.Profile, error)
  Get(ctx context.Context, username string) (*types.Profile, error)
  Update(ctx context.Context, username string, updates ProfileUpdate) (*types.Profile, error)
  UploadImage(ctx context.Context, username string, upload io.Reader) (*types.Profile, error)
}

type profileService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  profileRepo   repos.ProfileRepo
  avatarService AvatarService
}

func NewProfileService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, profileRepo repos.ProfileRepo, avatarService AvatarService) ProfileService {
  serviceLog := log.With("service", "ProfileService")
  return &profileService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    profileRepo:   profileRepo,
    avatarService: avatarService,
  }
}

//----------------------------------------------------------------------------------------------------------------------
// List, Get
//----------------------------------------------------------------------------------------------------------------------

func (ps *profileService) List(ctx context.Context) ([]*types.Profile, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }
  if !rd.IsStaff() {
    ps.log.Warn("Caller is not staff, Cannot proceed.", "userID", rd.UserID)
    return nil, errordata.New(errordata.Forbidden, "staff access required")
  }

  profiles, err := ps.profileRepo.GetAll(ctx, nil)
  if err != nil {
    ps.log.Warn("Failed to fetch all profiles, Cannot proceed. Returning error.", "error", err)
    return nil, errordata.Wrap(errordata.Internal, "failed to fetch profiles", err)
  }
  return profiles, nil
}

func (ps *profileService) Get(ctx context.Context, username string) (*types.Profile, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  profile, owner, err := ps.getByUsername(ctx, username)
  if err != nil {
    return nil, err
  }
  if owner.ID != rd.UserID && !rd.IsStaff() {
    ps.log.Warn("Caller is neither the profile owner nor staff, Cannot proceed.", "callerID", rd.UserID)
    return nil, errordata.New(errordata.Forbidden, "cannot view another user's profile")
  }
  return profile, nil
}

//----------------------------------------------------------------------------------------------------------------------
// Update, UploadImage
//----------------------------------------------------------------------------------------------------------------------

func (ps *profileService) Update(ctx context.Context, username string, updates ProfileUpdate) (*types.Profile, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  profile, owner, err := ps.getByUsername(ctx, username)
  if err != nil {
    return nil, err
  }
  if owner.ID != rd.UserID && !rd.IsStaff() {
    ps.log.Warn("Caller is neither the profile owner nor staff, Cannot proceed.", "callerID", rd.UserID)
    return nil, errordata.New(errordata.Forbidden, "cannot update another user's profile")
  }

  if updates.Age != nil {
    if *updates.Age < 0 {
      return nil, errordata.New(errordata.Validation, "age must not be negative")
    }
    profile.Age = updates.Age
  }
  if updates.Bio != nil {
    profile.Bio = normalization.ParseInputString(*updates.Bio)
  }
  if updates.Location != nil {
    profile.Location = normalization.ParseInputString(*updates.Location)
  }
  if updates.Language != nil {
    lang := normalization.ParseInputString(*updates.Language)
    if len(lang) > 10 {
      return nil, errordata.New(errordata.Validation, "language must be at most 10 characters long")
    }
    profile.Language = lang
  }
  if updates.LinkedinProfile != nil {
    profile.LinkedinProfile = normalization.ParseInputString(*updates.LinkedinProfile)
  }
  if updates.GithubProfile != nil {
    profile.GithubProfile = normalization.ParseInputString(*updates.GithubProfile)
  }
  if updates.GitlabProfile != nil {
    profile.GitlabProfile = normalization.ParseInputString(*updates.GitlabProfile)
  }
  if updates.InstagramProfile != nil {
    profile.InstagramProfile = normalization.ParseInputString(*updates.InstagramProfile)
  }
  if updates.YoutubeProfile != nil {
    profile.YoutubeProfile = normalization.ParseInputString(*updates.YoutubeProfile)
  }
  if updates.XProfile != nil {
    profile.XProfile = normalization.ParseInputString(*updates.XProfile)
  }

  updated, uErr := ps.profileRepo.Update(ctx, nil, []*types.Profile{profile})
  if uErr != nil {
    ps.log.Warn("Failed to update profile, Cannot proceed. Returning error.", "error", uErr)
    return nil, errordata.Wrap(errordata.Internal, "failed to update profile", uErr)
  }
  return updated[0], nil
}

func (ps *profileService) UploadImage(ctx context.Context, username string, upload io.Reader) (*types.Profile, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ps.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  profile, owner, err := ps.getByUsername(ctx, username)
  if err != nil {
    return nil, err
  }
  if owner.ID != rd.UserID && !rd.IsStaff() {
    ps.log.Warn("Caller is neither the profile owner nor staff, Cannot proceed.", "callerID", rd.UserID)
    return nil, errordata.New(errordata.Forbidden, "cannot update another user's profile")
  }

  if pErr := ps.avatarService.ProcessAndUploadProfileImage(ctx, profile, upload); pErr != nil {
    ps.log.Warn("Failed to process and upload profile image, Cannot proceed. Returning error.", "error", pErr)
    return nil, errordata.Wrap(errordata.Internal, "failed to upload profile image", pErr)
  }

  updated, uErr := ps.profileRepo.Update(ctx, nil, []*types.Profile{profile})
  if uErr != nil {
    ps.log.Warn("Failed to save profile image fields, Cannot proceed. Returning error.", "error", uErr)
    return nil, errordata.Wrap(errordata.Internal, "failed to save profile", uErr)
  }
  return updated[0], nil
}

//----------------------------------------------------------------------------------------------------------------------
// Helpers
//----------------------------------------------------------------------------------------------------------------------

func (ps *profileService) getByUsername(ctx context.Context, username string) (*types.Profile, *types.User, error) {
  users, err := ps.userRepo.GetByUsernames(ctx, nil, []string{username})
  if err != nil {
    ps.log.Warn("Failed to fetch user by username, Cannot proceed. Returning error.", "error", err)
    return nil, nil, errordata.Wrap(errordata.Internal, "failed to fetch user", err)
  }
  if len(users) == 0 {
    ps.log.Warn("No user found for username, Cannot proceed.", "username", username)
    return nil, nil, errordata.New(errordata.NotFound, "profile not found")
  }
  owner := users[0]

  profiles, pErr := ps.profileRepo.GetByUserIDs(ctx, nil, []uuid.UUID{owner.ID})
  if pErr != nil {
    ps.log.Warn("Failed to fetch profile by user ID, Cannot proceed. Returning error.", "error", pErr)
    return nil, nil, errordata.Wrap(errordata.Internal, "failed to fetch profile", pErr)
  }
  if len(profiles) == 0 {
    ps.log.Warn("No profile found for user, Cannot proceed.", "userID", owner.ID)
    return nil, nil, errordata.New(errordata.NotFound, "profile not found")
  }
  return profiles[0], owner, nil
}
