package services

import (
  "context"
  "time"

  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/normalization"
  "github.com/Mobin-Heydari/Todo-Plus/internal/repos"
  "github.com/Mobin-Heydari/Todo-Plus/internal/requestdata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
  "github.com/Mobin-Heydari/Todo-Plus/internal/utils"
)

const (
  TokenTypeAccess  = "access"
  TokenTypeRefresh = "refresh"
)

// JWTClaims carries identity fields alongside the registered set so
// clients can render the logged-in user without a follow-up request.
type JWTClaims struct {
  jwt.RegisteredClaims
  TokenType  string `json:"token_type"`
  Username   string `json:"username,omitempty"`
  Email      string `json:"email,omitempty"`
  FullName   string `json:"full_name,omitempty"`
  JoinedDate string `json:"joined_date,omitempty"`
}

type AuthService interface {
  Register(ctx context.Context, user *types.User, password, confirmPassword string) (string, string, error)
  Login(ctx context.Context, email, password string) (string, string, error)
  ObtainByCredentials(ctx context.Context, email, password string) (string, string, error)
  Refresh(ctx context.Context, refreshToken string) (string, string, error)
  Logout(ctx context.Context, refreshToken string) error

  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)

  GetAccessTTL() time.Duration
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  profileRepo   repos.ProfileRepo
  avatarService AvatarService
  blacklist     TokenBlacklist
  jwtSecretKey  string
  accessTTL     time.Duration
  refreshTTL    time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  profileRepo repos.ProfileRepo,
  avatarService AvatarService,
  blacklist TokenBlacklist,
  jwtSecretKey string,
  accessTTL time.Duration,
  refreshTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    profileRepo:   profileRepo,
    avatarService: avatarService,
    blacklist:     blacklist,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
    refreshTTL:    refreshTTL,
  }
}

//----------------------------------------------------------------------------------------------------------------------
// Register
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) Register(ctx context.Context, user *types.User, password, confirmPassword string) (string, string, error) {
  as.log.Info("Starting Register now...")

  //1) Normalize User Fields
  utils.NormalizeUserFields(user)

  //2) Checks on user fields
  if vErr := utils.RegistrationValidation(ctx, as.userRepo, as.log, user, password, confirmPassword); vErr != nil {
    return "", "", vErr
  }

  //3) Hash Password
  hashed, hErr := utils.HashPassword(password)
  if hErr != nil {
    as.log.Warn("Failed to hash password, Cannot proceed. Returning error.", "error", hErr)
    return "", "", errordata.Wrap(errordata.Internal, "failed to hash password", hErr)
  }
  user.Password = hashed

  //4) Transaction Body: user and profile are created together or not at all
  if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    return as.createUserAndProfile(ctx, tx, user)
  }); err != nil {
    return "", "", err
  }

  //5) Issue the first token pair so registration doubles as login
  return as.generateTokenPair(user)
}

func (as *authService) createUserAndProfile(ctx context.Context, tx *gorm.DB, user *types.User) error {
  user.ID = uuid.New()
  user.JoinedDate = datatypes.Date(time.Now())
  createdUsers, cUErr := as.userRepo.Create(ctx, tx, []*types.User{user})
  if cUErr != nil {
    as.log.Warn("Failed to create user, Cannot proceed. Returning error.", "error", cUErr)
    return errordata.Wrap(errordata.Internal, "failed to create user", cUErr)
  }
  if len(createdUsers) == 0 {
    as.log.Warn("No user returned from create, Cannot proceed.")
    return errordata.New(errordata.Internal, "failed to create user")
  }

  profile := &types.Profile{
    ID:     uuid.New(),
    UserID: user.ID,
  }
  if aErr := as.avatarService.CreateAndUploadProfileAvatar(ctx, user, profile); aErr != nil {
    as.log.Warn("Failed to create and upload profile avatar, Cannot proceed. Returning error.", "error", aErr)
    return errordata.Wrap(errordata.Internal, "failed to create profile avatar", aErr)
  }
  if _, cPErr := as.profileRepo.Create(ctx, tx, []*types.Profile{profile}); cPErr != nil {
    as.log.Warn("Failed to create profile, Cannot proceed. Returning error.", "error", cPErr)
    return errordata.Wrap(errordata.Internal, "failed to create profile", cPErr)
  }
  return nil
}

//----------------------------------------------------------------------------------------------------------------------
// Login, ObtainByCredentials
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) Login(ctx context.Context, email, password string) (string, string, error) {
  //1) Reject callers that already hold a valid session
  if rd := requestdata.GetRequestData(ctx); rd != nil {
    as.log.Warn("Caller is already authenticated, Cannot proceed.", "userID", rd.UserID)
    return "", "", errordata.New(errordata.Validation, "already authenticated")
  }
  return as.ObtainByCredentials(ctx, email, password)
}

func (as *authService) ObtainByCredentials(ctx context.Context, email, password string) (string, string, error) {
  //1) Normalize Input
  email = normalization.ParseEmail(email)
  password = normalization.ParseInputString(password)

  //2) Input Validations
  if vErr := utils.LoginValidation(as.log, email, password); vErr != nil {
    return "", "", vErr
  }

  //3) Find User By Email
  users, uSErr := as.userRepo.GetByEmails(ctx, nil, []string{email})
  if uSErr != nil {
    as.log.Warn("Failure to retrieve user by email, Cannot proceed. Returning error.", "error", uSErr)
    return "", "", errordata.Wrap(errordata.Internal, "error retrieving user by email", uSErr)
  }
  if len(users) == 0 {
    as.log.Warn("Invalid email, no users returned", "len(users)", len(users))
    return "", "", errordata.New(errordata.Validation, "invalid email or password")
  }
  user := users[0]

  //4) Check Password and Active Flag
  if !utils.CheckPassword(user.Password, password) {
    as.log.Warn("Invalid password, user password and hash dont match, Cannot proceed.")
    return "", "", errordata.New(errordata.Validation, "invalid email or password")
  }
  if !user.IsActive {
    as.log.Warn("User account is deactivated, Cannot proceed.", "userID", user.ID)
    return "", "", errordata.New(errordata.Unauthorized, "account is deactivated")
  }

  //5) Issue Token Pair
  return as.generateTokenPair(user)
}

//----------------------------------------------------------------------------------------------------------------------
// Refresh, Logout
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
  //1) Parse and type-check the presented refresh token
  claims, pErr := as.parseToken(refreshToken)
  if pErr != nil {
    as.log.Warn("Failed to parse refresh token, Cannot proceed. Returning error.", "error", pErr)
    return "", "", errordata.New(errordata.Unauthorized, "invalid or expired refresh token")
  }
  if claims.TokenType != TokenTypeRefresh {
    as.log.Warn("Token is not a refresh token, Cannot proceed.", "tokenType", claims.TokenType)
    return "", "", errordata.New(errordata.Unauthorized, "invalid or expired refresh token")
  }

  //2) Check the revocation list
  revoked, rErr := as.blacklist.IsRevoked(ctx, claims.ID)
  if rErr != nil {
    as.log.Warn("Failed to check refresh token revocation, Cannot proceed. Returning error.", "error", rErr)
    return "", "", errordata.Wrap(errordata.Internal, "failed to check token revocation", rErr)
  }
  if revoked {
    as.log.Warn("Refresh token has been revoked, Cannot proceed.", "jti", claims.ID)
    return "", "", errordata.New(errordata.Unauthorized, "refresh token has been revoked")
  }

  //3) Load the user the token was issued for
  userID, uidErr := uuid.Parse(claims.Subject)
  if uidErr != nil {
    as.log.Warn("Invalid subject in refresh token, Cannot proceed.", "error", uidErr)
    return "", "", errordata.New(errordata.Unauthorized, "invalid or expired refresh token")
  }
  users, uErr := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil {
    as.log.Warn("Failed to load user for refresh, Cannot proceed. Returning error.", "error", uErr)
    return "", "", errordata.Wrap(errordata.Internal, "failed to load user for refresh", uErr)
  }
  if len(users) == 0 {
    as.log.Warn("No user found for the given refresh token, Cannot proceed.")
    return "", "", errordata.New(errordata.Unauthorized, "invalid or expired refresh token")
  }
  user := users[0]
  if !user.IsActive {
    as.log.Warn("User account is deactivated, Cannot proceed.", "userID", user.ID)
    return "", "", errordata.New(errordata.Unauthorized, "account is deactivated")
  }

  //4) Rotate: revoke the old token for its remaining lifetime, then issue fresh
  if claims.ExpiresAt != nil {
    if revErr := as.blacklist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); revErr != nil {
      as.log.Warn("Failed to revoke rotated refresh token, Cannot proceed. Returning error.", "error", revErr)
      return "", "", errordata.Wrap(errordata.Internal, "failed to revoke rotated refresh token", revErr)
    }
  }
  return as.generateTokenPair(user)
}

func (as *authService) Logout(ctx context.Context, refreshToken string) error {
  //1) Caller must be authenticated
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    as.log.Warn("No Request Data found in context, Cannot proceed.")
    return errordata.New(errordata.Unauthorized, "authentication required")
  }

  //2) Parse and type-check the presented refresh token
  claims, pErr := as.parseToken(refreshToken)
  if pErr != nil {
    as.log.Warn("Failed to parse refresh token on logout, Cannot proceed. Returning error.", "error", pErr)
    return errordata.New(errordata.Validation, "invalid refresh token")
  }
  if claims.TokenType != TokenTypeRefresh {
    as.log.Warn("Token is not a refresh token, Cannot proceed.", "tokenType", claims.TokenType)
    return errordata.New(errordata.Validation, "invalid refresh token")
  }

  //3) The token must point at a real user id
  if _, uidErr := uuid.Parse(claims.Subject); uidErr != nil {
    as.log.Warn("Invalid subject in refresh token on logout, Cannot proceed.", "error", uidErr)
    return errordata.New(errordata.Validation, "invalid refresh token")
  }

  //4) Only the session owner or staff may revoke it
  if claims.Subject != rd.UserID.String() && !rd.IsStaff() {
    as.log.Warn("Caller does not own the refresh token and is not staff, Cannot proceed.", "callerID", rd.UserID)
    return errordata.New(errordata.Forbidden, "cannot revoke another user's session")
  }

  //5) A token already on the revocation list is dead and stays rejected
  revoked, rErr := as.blacklist.IsRevoked(ctx, claims.ID)
  if rErr != nil {
    as.log.Warn("Failed to check refresh token revocation on logout, Cannot proceed. Returning error.", "error", rErr)
    return errordata.Wrap(errordata.Internal, "failed to check token revocation", rErr)
  }
  if revoked {
    as.log.Warn("Refresh token was already revoked, Cannot proceed.", "jti", claims.ID)
    return errordata.New(errordata.Validation, "refresh token has been revoked")
  }

  //6) Revoke for the token's remaining lifetime
  ttl := as.refreshTTL
  if claims.ExpiresAt != nil {
    ttl = time.Until(claims.ExpiresAt.Time)
  }
  if revErr := as.blacklist.Revoke(ctx, claims.ID, ttl); revErr != nil {
    as.log.Warn("Failed to revoke refresh token, Cannot proceed. Returning error.", "error", revErr)
    return errordata.Wrap(errordata.Internal, "failed to revoke refresh token", revErr)
  }
  return nil
}

//----------------------------------------------------------------------------------------------------------------------
// Token Minting + Parsing
//----------------------------------------------------------------------------------------------------------------------

func (as *authService) generateTokenPair(user *types.User) (string, string, error) {
  now := time.Now()
  joined := time.Time(user.JoinedDate).Format("2006-01-02")

  accessClaims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(now),
      ID:        uuid.New().String(),
    },
    TokenType:  TokenTypeAccess,
    Username:   user.Username,
    Email:      user.Email,
    FullName:   user.FullName,
    JoinedDate: joined,
  }
  accessToken, aErr := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(as.jwtSecretKey))
  if aErr != nil {
    as.log.Warn("Failed to sign access token, Cannot proceed. Returning error.", "error", aErr)
    return "", "", errordata.Wrap(errordata.Internal, "failed to sign access token", aErr)
  }

  refreshClaims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(now.Add(as.refreshTTL)),
      IssuedAt:  jwt.NewNumericDate(now),
      ID:        uuid.New().String(),
    },
    TokenType: TokenTypeRefresh,
  }
  refreshToken, rErr := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(as.jwtSecretKey))
  if rErr != nil {
    as.log.Warn("Failed to sign refresh token, Cannot proceed. Returning error.", "error", rErr)
    return "", "", errordata.Wrap(errordata.Internal, "failed to sign refresh token", rErr)
  }
  return accessToken, refreshToken, nil
}

func (as *authService) parseToken(tokenString string) (*JWTClaims, error) {
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, errordata.Newf(errordata.Unauthorized, "unexpected signing method: %v", token.Header["alg"])
    }
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return nil, err
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return nil, errordata.New(errordata.Unauthorized, "invalid or expired token")
  }
  return claims, nil
}

// SetContextFromToken validates an access token and loads the caller into
// the request context. The user row is re-read so admin and verified
// flags reflect the database, not the moment the token was minted.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  claims, pErr := as.parseToken(tokenString)
  if pErr != nil {
    return ctx, errordata.New(errordata.Unauthorized, "invalid or expired access token")
  }
  if claims.TokenType != TokenTypeAccess {
    as.log.Warn("Token is not an access token, Cannot proceed.", "tokenType", claims.TokenType)
    return ctx, errordata.New(errordata.Unauthorized, "invalid or expired access token")
  }
  userID, uidErr := uuid.Parse(claims.Subject)
  if uidErr != nil {
    return ctx, errordata.New(errordata.Unauthorized, "invalid user ID in token")
  }
  users, uErr := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
  if uErr != nil {
    as.log.Warn("Failed to load user from access token, Cannot proceed. Returning error.", "error", uErr)
    return ctx, errordata.Wrap(errordata.Internal, "failed to load user from token", uErr)
  }
  if len(users) == 0 {
    as.log.Warn("No user found for access token subject, Cannot proceed.", "userID", userID)
    return ctx, errordata.New(errordata.Unauthorized, "invalid or expired access token")
  }
  user := users[0]
  if !user.IsActive {
    as.log.Warn("User account is deactivated, Cannot proceed.", "userID", user.ID)
    return ctx, errordata.New(errordata.Unauthorized, "account is deactivated")
  }

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      user.ID,
    Username:    user.Username,
    Email:       user.Email,
    IsAdmin:     user.IsAdmin,
    IsVerified:  user.IsVerified,
  }
  ctx = requestdata.WithRequestData(ctx, rd)
  return ctx, nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
