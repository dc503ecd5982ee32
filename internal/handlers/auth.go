package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/Mobin-Heydari/Todo-Plus/internal/services"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

type AuthHandler struct {
  authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Username        string `json:"username"`
    Email           string `json:"email"`
    FullName        string `json:"full_name"`
    Password        string `json:"password"`
    ConfirmPassword string `json:"confirm_password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user := types.User{
    Username: req.Username,
    Email:    req.Email,
    FullName: req.FullName,
  }
  accessToken, refreshToken, err := ah.authService.Register(c.Request.Context(), &user, req.Password, req.ConfirmPassword)
  if err != nil {
    respondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())

  c.JSON(http.StatusCreated, gin.H{
    "user":          user,
    "access_token":  accessToken,
    "refresh_token": refreshToken,
    "expires_in":    expiresIn,
  })
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  accessToken, refreshToken, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    respondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())

  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

// Token is the bare credentials-for-tokens exchange; unlike Login it does
// not care whether the caller already holds a session.
func (ah *AuthHandler) Token(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  accessToken, refreshToken, err := ah.authService.ObtainByCredentials(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    respondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())

  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  var req struct {
    RefreshToken string `json:"refresh_token"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  accessToken, refreshToken, err := ah.authService.Refresh(c.Request.Context(), req.RefreshToken)
  if err != nil {
    respondError(c, err)
    return
  }
  expiresIn := int(ah.authService.GetAccessTTL().Seconds())

  c.JSON(http.StatusOK, gin.H{"access_token": accessToken, "refresh_token": refreshToken, "expires_in": expiresIn})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  var req struct {
    RefreshToken string `json:"refresh_token"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := ah.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}
