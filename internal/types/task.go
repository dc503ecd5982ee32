package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

const (
  TaskStatusPending   = "PEN"
  TaskStatusCompleted = "COM"
  TaskStatusExpired   = "EXP"
)

type Task struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID              uuid.UUID                 `gorm:"index;not null" json:"userID"`
  User                *User                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

  Status              string                    `gorm:"size:3;not null;default:PEN;column:status" json:"status"`
  Title               string                    `gorm:"not null;column:title" json:"title"`
  Slug                string                    `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
  Description         string                    `gorm:"column:description" json:"description"`
  DeadLine            time.Time                 `gorm:"not null;column:dead_line" json:"deadLine"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Task) TableName() string {
  return "task"
}

// StatusNow lazily derives EXPIRED once the deadline has passed, the same
// way one-time codes expire on read. Completed tasks stay completed.
func (t *Task) StatusNow(now time.Time) string {
  if t.Status == TaskStatusCompleted {
    return TaskStatusCompleted
  }
  if !now.Before(t.DeadLine) {
    return TaskStatusExpired
  }
  return t.Status
}
