package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

// OneTimeCode statuses. A code starts ACTIVE, lazily becomes EXPIRED once
// its expiration passes, and is marked CONSUMED after a successful
// verification so it cannot be replayed inside its window.
const (
  OtpStatusActive   = "ACT"
  OtpStatusExpired  = "EXP"
  OtpStatusConsumed = "CON"
)

type OneTimeCode struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID              uuid.UUID                 `gorm:"index;not null" json:"userID"`
  User                *User                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`

  Token               uuid.UUID                 `gorm:"type:uuid;uniqueIndex;not null;column:token" json:"token"`
  Code                string                    `gorm:"size:6;not null;column:code" json:"-"`
  Status              string                    `gorm:"size:3;not null;default:ACT;column:status" json:"status"`
  ExpiresAt           time.Time                 `gorm:"not null;column:expires_at" json:"expiresAt"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (OneTimeCode) TableName() string {
  return "one_time_code"
}

// StatusNow derives the status from now against the stored expiration
// without touching the row. An attempt at exactly the expiration instant
// counts as expired. CONSUMED is sticky.
func (otc *OneTimeCode) StatusNow(now time.Time) string {
  if otc.Status == OtpStatusConsumed {
    return OtpStatusConsumed
  }
  if !now.Before(otc.ExpiresAt) {
    return OtpStatusExpired
  }
  return OtpStatusActive
}
