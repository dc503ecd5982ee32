package handlers

import (
  "net/http"
  "time"

  "github.com/gin-gonic/gin"

  "github.com/Mobin-Heydari/Todo-Plus/internal/services"
)

type TaskHandler struct {
  taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
  return &TaskHandler{taskService: taskService}
}

func (th *TaskHandler) List(c *gin.Context) {
  tasks, err := th.taskService.List(c.Request.Context())
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (th *TaskHandler) Create(c *gin.Context) {
  var req struct {
    Title       string    `json:"title"`
    Description string    `json:"description"`
    DeadLine    time.Time `json:"dead_line"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  task, err := th.taskService.Create(c.Request.Context(), req.Title, req.Description, req.DeadLine)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (th *TaskHandler) Detail(c *gin.Context) {
  task, err := th.taskService.Get(c.Request.Context(), c.Param("slug"))
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"task": task})
}

func (th *TaskHandler) Update(c *gin.Context) {
  var req struct {
    Title       *string    `json:"title"`
    Description *string    `json:"description"`
    Status      *string    `json:"status"`
    DeadLine    *time.Time `json:"dead_line"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  updates := services.TaskUpdate{
    Title:       req.Title,
    Description: req.Description,
    Status:      req.Status,
    DeadLine:    req.DeadLine,
  }
  task, err := th.taskService.Update(c.Request.Context(), c.Param("slug"), updates)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"task": task})
}

func (th *TaskHandler) Delete(c *gin.Context) {
  if err := th.taskService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
    respondError(c, err)
    return
  }
  c.Status(http.StatusNoContent)
}
