package types

import (
  "time"

  "gorm.io/gorm"
  "gorm.io/datatypes"
  "github.com/google/uuid"
)

type User struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

  Username            string                    `gorm:"uniqueIndex;not null;size:12;column:username" json:"username"`
  Email               string                    `gorm:"uniqueIndex;not null;column:email" json:"email"`
  FullName            string                    `gorm:"not null;column:full_name" json:"fullName"`
  Password            string                    `gorm:"not null;column:password" json:"-"`

  IsVerified          bool                      `gorm:"not null;default:false;column:is_verified" json:"isVerified"`
  IsActive            bool                      `gorm:"not null;default:true;column:is_active" json:"isActive"`
  IsAdmin             bool                      `gorm:"not null;default:false;column:is_admin" json:"isAdmin"`

  JoinedDate          datatypes.Date            `gorm:"not null;column:joined_date" json:"joinedDate"`
  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (User) TableName() string {
  return "user"
}

// IsStaff mirrors the admin flag; every admin counts as staff.
func (u *User) IsStaff() bool {
  return u.IsAdmin
}
