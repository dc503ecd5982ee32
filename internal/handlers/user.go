package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/Mobin-Heydari/Todo-Plus/internal/services"
)

type UserHandler struct {
  userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) List(c *gin.Context) {
  users, err := uh.userService.List(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"users": users})
}

func (uh *UserHandler) Detail(c *gin.Context) {
  user, err := uh.userService.Get(c.Request.Context(), c.Param("username"))
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"user": user})
}

func (uh *UserHandler) Update(c *gin.Context) {
  var req struct {
    Username *string `json:"username"`
    Email    *string `json:"email"`
    FullName *string `json:"full_name"`
    Password *string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  updates := services.UserUpdate{
    Username: req.Username,
    Email:    req.Email,
    FullName: req.FullName,
    Password: req.Password,
  }
  user, err := uh.userService.Update(c.Request.Context(), c.Param("username"), updates)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusAccepted, gin.H{"user": user})
}

func (uh *UserHandler) Delete(c *gin.Context) {
  if err := uh.userService.Delete(c.Request.Context(), c.Param("username")); err != nil {
    respondError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}
