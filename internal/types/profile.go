package types

import (
  "time"

  "gorm.io/gorm"
  "github.com/google/uuid"
)

type Profile struct {
  gorm.Model
  ID                  uuid.UUID                 `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID              uuid.UUID                 `gorm:"uniqueIndex;not null" json:"userID"`
  User                *User                     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

  ImageBucketKey      string                    `gorm:"column:image_bucket_key" json:"imageBucketKey"`
  ImageURL            string                    `gorm:"column:image_url" json:"imageURL"`

  Age                 *int                      `gorm:"column:age" json:"age,omitempty"`
  Bio                 string                    `gorm:"column:bio" json:"bio"`
  Location            string                    `gorm:"column:location" json:"location"`
  Language            string                    `gorm:"size:10;column:language" json:"language"`

  LinkedinProfile     string                    `gorm:"column:linkedin_profile" json:"linkedinProfile"`
  GithubProfile       string                    `gorm:"column:github_profile" json:"githubProfile"`
  GitlabProfile       string                    `gorm:"column:gitlab_profile" json:"gitlabProfile"`
  InstagramProfile    string                    `gorm:"column:instagram_profile" json:"instagramProfile"`
  YoutubeProfile      string                    `gorm:"column:youtube_profile" json:"youtubeProfile"`
  XProfile            string                    `gorm:"column:x_profile" json:"xProfile"`

  CreatedAt           time.Time                 `gorm:"not null;default:now()" json:"createdAt"`
  UpdatedAt           time.Time                 `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Profile) TableName() string {
  return "profile"
}
