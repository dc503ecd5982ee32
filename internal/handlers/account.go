package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/Mobin-Heydari/Todo-Plus/internal/services"
)

type AccountHandler struct {
  verificationService services.VerificationService
}

func NewAccountHandler(verificationService services.VerificationService) *AccountHandler {
  return &AccountHandler{verificationService: verificationService}
}

// GenerateOTP mints a fresh verification code for the caller. The code
// itself travels by email; the response only carries the lookup token.
func (ach *AccountHandler) GenerateOTP(c *gin.Context) {
  otc, err := ach.verificationService.GenerateOTP(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{
    "token":      otc.Token,
    "expires_at": otc.ExpiresAt,
  })
}

func (ach *AccountHandler) VerifyAccount(c *gin.Context) {
  token, err := uuid.Parse(c.Param("token"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification token"})
    return
  }
  var req struct {
    Code string `json:"code"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := ach.verificationService.VerifyAccount(c.Request.Context(), token, req.Code); err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "account successfully verified"})
}
