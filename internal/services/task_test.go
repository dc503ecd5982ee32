package services

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/Mobin-Heydari/Todo-Plus/internal/errordata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/requestdata"
  "github.com/Mobin-Heydari/Todo-Plus/internal/types"
)

func newTaskFixture(t *testing.T) (*taskService, *fakeTaskRepo, uuid.UUID, context.Context) {
  t.Helper()
  taskRepo := &fakeTaskRepo{}
  ts := &taskService{log: newTestLogger(t), taskRepo: taskRepo}
  userID := uuid.New()
  ctx := requestdata.WithRequestData(context.Background(), &requestdata.RequestData{UserID: userID})
  return ts, taskRepo, userID, ctx
}

func TestTaskCreateRequiresAuth(t *testing.T) {
  ts, _, _, _ := newTaskFixture(t)

  _, err := ts.Create(context.Background(), "Buy milk", "", time.Now().Add(time.Hour))
  if errordata.KindOf(err) != errordata.Unauthorized {
    t.Errorf("expected Unauthorized for anonymous caller, got %v", err)
  }
}

func TestTaskCreateValidation(t *testing.T) {
  ts, _, _, ctx := newTaskFixture(t)

  _, err := ts.Create(ctx, "   ", "", time.Time{})
  if errordata.KindOf(err) != errordata.Validation {
    t.Fatalf("expected Validation for blank title and zero deadline, got %v", err)
  }
  fields := errordata.FieldsOf(err)
  if _, ok := fields["title"]; !ok {
    t.Errorf("expected a field error for title, got %v", fields)
  }
  if _, ok := fields["dead_line"]; !ok {
    t.Errorf("expected a field error for dead_line, got %v", fields)
  }
}

func TestTaskCreateDerivesSlug(t *testing.T) {
  ts, _, userID, ctx := newTaskFixture(t)

  task, err := ts.Create(ctx, "  Buy   Milk!  ", "2% only", time.Now().Add(time.Hour))
  if err != nil {
    t.Fatalf("Create failed: %v", err)
  }
  if task.Title != "Buy Milk!" {
    t.Errorf("title should be whitespace-normalized, got %q", task.Title)
  }
  if task.Slug != "buy-milk" {
    t.Errorf("expected slug %q, got %q", "buy-milk", task.Slug)
  }
  if task.Status != types.TaskStatusPending {
    t.Errorf("fresh task should be pending, got %q", task.Status)
  }
  if task.UserID != userID {
    t.Errorf("task bound to wrong user: %s", task.UserID)
  }
}

func TestTaskCreateSuffixesCollidingSlugs(t *testing.T) {
  ts, _, _, ctx := newTaskFixture(t)

  first, err := ts.Create(ctx, "Buy milk", "", time.Now().Add(time.Hour))
  if err != nil {
    t.Fatalf("first Create failed: %v", err)
  }
  second, err := ts.Create(ctx, "Buy milk", "", time.Now().Add(time.Hour))
  if err != nil {
    t.Fatalf("second Create failed: %v", err)
  }
  third, err := ts.Create(ctx, "Buy milk", "", time.Now().Add(time.Hour))
  if err != nil {
    t.Fatalf("third Create failed: %v", err)
  }
  if first.Slug != "buy-milk" || second.Slug != "buy-milk-2" || third.Slug != "buy-milk-3" {
    t.Errorf("slug suffixing broken: %q, %q, %q", first.Slug, second.Slug, third.Slug)
  }
}

func TestTaskListOnlyOwnAndLazyExpiry(t *testing.T) {
  ts, taskRepo, userID, ctx := newTaskFixture(t)
  taskRepo.tasks = append(taskRepo.tasks,
    &types.Task{ID: uuid.New(), UserID: userID, Slug: "overdue", Status: types.TaskStatusPending, DeadLine: time.Now().Add(-time.Hour)},
    &types.Task{ID: uuid.New(), UserID: userID, Slug: "open", Status: types.TaskStatusPending, DeadLine: time.Now().Add(time.Hour)},
    &types.Task{ID: uuid.New(), UserID: uuid.New(), Slug: "foreign", Status: types.TaskStatusPending, DeadLine: time.Now().Add(time.Hour)},
  )

  tasks, err := ts.List(ctx)
  if err != nil {
    t.Fatalf("List failed: %v", err)
  }
  if len(tasks) != 2 {
    t.Fatalf("expected only the caller's 2 tasks, got %d", len(tasks))
  }
  byStatus := map[string]string{}
  for _, task := range tasks {
    byStatus[task.Slug] = task.Status
  }
  if byStatus["overdue"] != types.TaskStatusExpired {
    t.Errorf("past-deadline pending task should read expired, got %q", byStatus["overdue"])
  }
  if byStatus["open"] != types.TaskStatusPending {
    t.Errorf("future-deadline task should stay pending, got %q", byStatus["open"])
  }
}

func TestTaskGetHidesForeignSlugs(t *testing.T) {
  ts, taskRepo, _, ctx := newTaskFixture(t)
  taskRepo.tasks = append(taskRepo.tasks, &types.Task{
    ID: uuid.New(), UserID: uuid.New(), Slug: "foreign",
    Status: types.TaskStatusPending, DeadLine: time.Now().Add(time.Hour),
  })

  // Foreign tasks answer NotFound, not Forbidden, so slugs don't leak.
  if _, err := ts.Get(ctx, "foreign"); errordata.KindOf(err) != errordata.NotFound {
    t.Errorf("expected NotFound for someone else's task, got %v", err)
  }
  if _, err := ts.Get(ctx, "never-existed"); errordata.KindOf(err) != errordata.NotFound {
    t.Errorf("expected NotFound for unknown slug, got %v", err)
  }
}

func TestTaskUpdateRegeneratesSlugOnTitleChange(t *testing.T) {
  ts, _, _, ctx := newTaskFixture(t)
  if _, err := ts.Create(ctx, "Buy milk", "", time.Now().Add(time.Hour)); err != nil {
    t.Fatalf("Create failed: %v", err)
  }

  newTitle := "Buy bread"
  updated, err := ts.Update(ctx, "buy-milk", TaskUpdate{Title: &newTitle})
  if err != nil {
    t.Fatalf("Update failed: %v", err)
  }
  if updated.Title != "Buy bread" || updated.Slug != "buy-bread" {
    t.Errorf("title change should regenerate the slug, got title %q slug %q", updated.Title, updated.Slug)
  }
}

func TestTaskUpdateKeepsOwnSlugOnRetitle(t *testing.T) {
  ts, _, _, ctx := newTaskFixture(t)
  if _, err := ts.Create(ctx, "Buy milk", "", time.Now().Add(time.Hour)); err != nil {
    t.Fatalf("Create failed: %v", err)
  }

  // Different title, same slug; must not suffix against its own row.
  newTitle := "Buy Milk!"
  updated, err := ts.Update(ctx, "buy-milk", TaskUpdate{Title: &newTitle})
  if err != nil {
    t.Fatalf("Update failed: %v", err)
  }
  if updated.Title != "Buy Milk!" || updated.Slug != "buy-milk" {
    t.Errorf("retitle onto the same slug should keep it, got title %q slug %q", updated.Title, updated.Slug)
  }
}

func TestTaskUpdateRejectsInvalidStatus(t *testing.T) {
  ts, _, _, ctx := newTaskFixture(t)
  if _, err := ts.Create(ctx, "Buy milk", "", time.Now().Add(time.Hour)); err != nil {
    t.Fatalf("Create failed: %v", err)
  }

  bad := "EXP"
  if _, err := ts.Update(ctx, "buy-milk", TaskUpdate{Status: &bad}); errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expired status is derived, never settable, got %v", err)
  }
  garbage := "DONE"
  if _, err := ts.Update(ctx, "buy-milk", TaskUpdate{Status: &garbage}); errordata.KindOf(err) != errordata.Validation {
    t.Errorf("expected Validation for unknown status, got %v", err)
  }
}

func TestTaskUpdateCompletesTask(t *testing.T) {
  ts, _, _, ctx := newTaskFixture(t)
  if _, err := ts.Create(ctx, "Buy milk", "", time.Now().Add(time.Hour)); err != nil {
    t.Fatalf("Create failed: %v", err)
  }

  done := types.TaskStatusCompleted
  updated, err := ts.Update(ctx, "buy-milk", TaskUpdate{Status: &done})
  if err != nil {
    t.Fatalf("Update failed: %v", err)
  }
  if updated.Status != types.TaskStatusCompleted {
    t.Errorf("expected completed status, got %q", updated.Status)
  }
  // Completion is sticky across the deadline.
  if got := updated.StatusNow(updated.DeadLine.Add(time.Hour)); got != types.TaskStatusCompleted {
    t.Errorf("completed task must not expire, got %q", got)
  }
}

func TestTaskDelete(t *testing.T) {
  ts, taskRepo, _, ctx := newTaskFixture(t)
  if _, err := ts.Create(ctx, "Buy milk", "", time.Now().Add(time.Hour)); err != nil {
    t.Fatalf("Create failed: %v", err)
  }

  if err := ts.Delete(ctx, "buy-milk"); err != nil {
    t.Fatalf("Delete failed: %v", err)
  }
  if len(taskRepo.tasks) != 0 {
    t.Errorf("expected task to be gone, %d remain", len(taskRepo.tasks))
  }
  if err := ts.Delete(ctx, "buy-milk"); errordata.KindOf(err) != errordata.NotFound {
    t.Errorf("deleting twice should answer NotFound, got %v", err)
  }
}
