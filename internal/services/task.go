package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/logger"
  "github.com/Mobin-Heydari/Todo-Plus/internal/normalization"
  "github.com/Mobin-Heydari/Todo-Plus/internal/repos"
  "github.com/Mobin-Heydari/Todo-Plus/internal/requestdata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

// TaskUpdate carries the mutable task fields; nil means leave as-is.
type TaskUpdate struct {
  Title       *string
  Description *string
  Status      *string
  DeadLine    *time.Time
}

type TaskService interface {
  List(ctx context.Context) ([]*types.Task, error)
  Create(ctx context.Context, title, description string, deadLine time.Time) (*types.Task, error)
  Get(ctx context.Context, slug string) (*types.Task, error)
  Update(ctx context.Context, slug string, updates TaskUpdate) (*types.Task, error)
  Delete(ctx context.Context, slug string) error
}

type taskService struct {
  db       *gorm.DB
  log      *logger.Logger
  taskRepo repos.TaskRepo
}

func NewTaskService(db *gorm.DB, log *logger.Logger, taskRepo repos.TaskRepo) TaskService {
  serviceLog := log.With("service", "TaskService")
  return &taskService{db: db, log: serviceLog, taskRepo: taskRepo}
}

//----------------------------------------------------------------------------------------------------------------------
// List, Get
//----------------------------------------------------------------------------------------------------------------------

func (ts *taskService) List(ctx context.Context) ([]*types.Task, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ts.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  tasks, err := ts.taskRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
  if err != nil {
    ts.log.Warn("Failed to fetch tasks, Cannot proceed. Returning error.", "error", err)
    return nil, errordata.Wrap(errordata.Internal, "failed to fetch tasks", err)
  }

  // Deadline expiry is derived on read rather than by a sweeper.
  now := time.Now()
  for _, task := range tasks {
    task.Status = task.StatusNow(now)
  }
  return tasks, nil
}

func (ts *taskService) Get(ctx context.Context, slug string) (*types.Task, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ts.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  task, err := ts.getOwnedBySlug(ctx, rd, slug)
  if err != nil {
    return nil, err
  }
  task.Status = task.StatusNow(time.Now())
  return task, nil
}

//----------------------------------------------------------------------------------------------------------------------
// Create
//----------------------------------------------------------------------------------------------------------------------

func (ts *taskService) Create(ctx context.Context, title, description string, deadLine time.Time) (*types.Task, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ts.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  //1) Validate input
  title = normalization.ParseInputString(title)
  fe := errordata.FieldErrors{}
  if title == "" {
    fe.Add("title", "a title is required to create a task")
  }
  if deadLine.IsZero() {
    fe.Add("dead_line", "a deadline is required to create a task")
  }
  if fe.HasErrors() {
    ts.log.Warn("Task input validation failed, Cannot proceed. Returning error.", "fields", fe)
    return nil, fe.AsError()
  }

  //2) Derive a slug nothing else holds
  slug, sErr := ts.ensureUniqueSlug(ctx, normalization.Slugify(title))
  if sErr != nil {
    return nil, sErr
  }

  //3) Persist
  task := &types.Task{
    ID:          uuid.New(),
    UserID:      rd.UserID,
    Status:      types.TaskStatusPending,
    Title:       title,
    Slug:        slug,
    Description: normalization.ParseInputString(description),
    DeadLine:    deadLine,
  }
  created, cErr := ts.taskRepo.Create(ctx, nil, []*types.Task{task})
  if cErr != nil {
    ts.log.Warn("Failed to create task, Cannot proceed. Returning error.", "error", cErr)
    return nil, errordata.Wrap(errordata.Internal, "failed to create task", cErr)
  }
  if len(created) == 0 {
    ts.log.Warn("No task returned from create, Cannot proceed.")
    return nil, errordata.New(errordata.Internal, "failed to create task")
  }
  return created[0], nil
}

//----------------------------------------------------------------------------------------------------------------------
// Update
//----------------------------------------------------------------------------------------------------------------------

func (ts *taskService) Update(ctx context.Context, slug string, updates TaskUpdate) (*types.Task, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ts.log.Warn("No Request Data found in context, Cannot proceed.")
    return nil, errordata.New(errordata.Unauthorized, "authentication required")
  }

  task, err := ts.getOwnedBySlug(ctx, rd, slug)
  if err != nil {
    return nil, err
  }

  if updates.Title != nil {
    newTitle := normalization.ParseInputString(*updates.Title)
    if newTitle == "" {
      return nil, errordata.New(errordata.Validation, "title must not be empty")
    }
    if newTitle != task.Title {
      // A retitle that lands on the task's own slug keeps it; the
      // uniqueness loop would collide with this very row.
      if base := normalization.Slugify(newTitle); base != task.Slug {
        newSlug, sErr := ts.ensureUniqueSlug(ctx, base)
        if sErr != nil {
          return nil, sErr
        }
        task.Slug = newSlug
      }
      task.Title = newTitle
    }
  }
  if updates.Description != nil {
    task.Description = normalization.ParseInputString(*updates.Description)
  }
  if updates.Status != nil {
    switch *updates.Status {
    case types.TaskStatusPending, types.TaskStatusCompleted:
      task.Status = *updates.Status
    default:
      ts.log.Warn("Invalid task status given, Cannot proceed.", "status", *updates.Status)
      return nil, errordata.Newf(errordata.Validation, "status must be either '%s' or '%s'", types.TaskStatusPending, types.TaskStatusCompleted)
    }
  }
  if updates.DeadLine != nil {
    if updates.DeadLine.IsZero() {
      return nil, errordata.New(errordata.Validation, "deadline must not be empty")
    }
    task.DeadLine = *updates.DeadLine
  }

  updated, uErr := ts.taskRepo.Update(ctx, nil, []*types.Task{task})
  if uErr != nil {
    ts.log.Warn("Failed to update task, Cannot proceed. Returning error.", "error", uErr)
    return nil, errordata.Wrap(errordata.Internal, "failed to update task", uErr)
  }
  updated[0].Status = updated[0].StatusNow(time.Now())
  return updated[0], nil
}

//----------------------------------------------------------------------------------------------------------------------
// Delete
//----------------------------------------------------------------------------------------------------------------------

func (ts *taskService) Delete(ctx context.Context, slug string) error {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    ts.log.Warn("No Request Data found in context, Cannot proceed.")
    return errordata.New(errordata.Unauthorized, "authentication required")
  }

  task, err := ts.getOwnedBySlug(ctx, rd, slug)
  if err != nil {
    return err
  }
  if dErr := ts.taskRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{task.ID}); dErr != nil {
    ts.log.Warn("Failed to delete task, Cannot proceed. Returning error.", "error", dErr)
    return errordata.Wrap(errordata.Internal, "failed to delete task", dErr)
  }
  return nil
}

//----------------------------------------------------------------------------------------------------------------------
// Helpers
//----------------------------------------------------------------------------------------------------------------------

// getOwnedBySlug answers NotFound for foreign tasks as well, so slugs do
// not leak which titles other users have taken.
func (ts *taskService) getOwnedBySlug(ctx context.Context, rd *requestdata.RequestData, slug string) (*types.Task, error) {
  tasks, err := ts.taskRepo.GetBySlugs(ctx, nil, []string{slug})
  if err != nil {
    ts.log.Warn("Failed to fetch task by slug, Cannot proceed. Returning error.", "error", err)
    return nil, errordata.Wrap(errordata.Internal, "failed to fetch task", err)
  }
  if len(tasks) == 0 || tasks[0].UserID != rd.UserID {
    ts.log.Warn("No task found for slug and caller, Cannot proceed.", "slug", slug, "callerID", rd.UserID)
    return nil, errordata.New(errordata.NotFound, "task not found")
  }
  return tasks[0], nil
}

func (ts *taskService) ensureUniqueSlug(ctx context.Context, base string) (string, error) {
  if base == "" {
    base = "task"
  }
  slug := base
  for i := 2; ; i++ {
    exists, err := ts.taskRepo.SlugExists(ctx, nil, slug)
    if err != nil {
      ts.log.Warn("Failed to check slug existence, Cannot proceed. Returning error.", "error", err)
      return "", errordata.Wrap(errordata.Internal, "failed checking slug existence", err)
    }
    if !exists {
      return slug, nil
    }
    slug = fmt.Sprintf("%s-%d", base, i)
  }
}
