package models

import "time"

// Platform identifies the client platform that opened a session.
type Platform string

const (
	PlatformIOS     Platform = "IOS"
	PlatformAndroid Platform = "ANDROID"
	PlatformWeb     Platform = "WEB"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return true
	}
	return false
}

// SessionModel represents one authenticated device/client instance.
// Rows are hard-deleted on sign-out, ban, or account deletion; deleting the
// row is the revocation mechanism for its still-signed tokens.
type SessionModel struct {
	Base
	UserID     string   `json:"user_id"     gorm:"type:char(36);index;not null"`
	DeviceID   string   `json:"device_id"   gorm:"type:varchar(255);not null"`
	DeviceName string   `json:"device_name" gorm:"type:varchar(255);not null"`
	Platform   Platform `json:"platform"    gorm:"type:varchar(16);not null"`
}

func (SessionModel) TableName() string { return "sessions" }

// UserDeletionRequestModel schedules an account for deletion after the
// grace period. One request per user.
type UserDeletionRequestModel struct {
	Base
	UserID   string    `json:"user_id"   gorm:"type:char(36);uniqueIndex;not null"`
	DeleteAt time.Time `json:"delete_at" gorm:"index;not null"`
}

func (UserDeletionRequestModel) TableName() string { return "user_deletion_requests" }
