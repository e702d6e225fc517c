package models

import "time"

// UserStatus is the lifecycle state of a user account. It is a closed set:
// every switch over it must enumerate all five values.
type UserStatus string

const (
	StatusActive            UserStatus = "ACTIVE"
	StatusAnonymous         UserStatus = "ANONYMOUS"
	StatusBanned            UserStatus = "BANNED"
	StatusRequestedDeletion UserStatus = "REQUESTED_DELETION"
	StatusDeleted           UserStatus = "DELETED"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusAnonymous, StatusBanned, StatusRequestedDeletion, StatusDeleted:
		return true
	}
	return false
}

// Gender is a user profile attribute collected at sign-up.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// UserModel represents an account. Anonymous accounts carry only a status;
// all profile fields are populated on sign-up (possibly converting the
// anonymous row in place).
type UserModel struct {
	Base
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Gender           Gender     `json:"gender"       gorm:"type:varchar(16)"`
	CountryCode      string     `json:"country_code" gorm:"type:varchar(8);index:idx_users_phone"`
	PhoneNumber      string     `json:"phone_number" gorm:"type:varchar(32);index:idx_users_phone"`
	Email            string     `json:"email"        gorm:"type:varchar(320);index"`
	Dob              string     `json:"dob"          gorm:"type:varchar(10)"` // yyyy-MM-dd
	ProfileImagePath *string    `json:"-"`
	Status           UserStatus `json:"status"       gorm:"type:varchar(32);index;not null"`
	BannedAt         *time.Time `json:"banned_at"`
	DeletedAt        *time.Time `json:"deleted_at"`
}

func (UserModel) TableName() string { return "users" }
