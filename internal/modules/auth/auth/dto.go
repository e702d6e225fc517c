package auth

import (
	"github.com/kaushik-sharma/full-stack-app/internal/models"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/session"
)

type deviceDTO struct {
	DeviceID   string          `json:"deviceId"   binding:"required,max=255"`
	DeviceName string          `json:"deviceName" binding:"required,max=255"`
	Platform   models.Platform `json:"platform"   binding:"required,oneof=IOS ANDROID WEB"`
}

func (d deviceDTO) device() session.Device {
	return session.Device{ID: d.DeviceID, Name: d.DeviceName, Platform: d.Platform}
}

type sendCodeDTO struct {
	Email         string `json:"email"         binding:"required,email"`
	PreviousToken string `json:"previousToken"`
}

type signUpDTO struct {
	deviceDTO
	FirstName         string        `json:"firstName"         binding:"required,max=50"`
	LastName          string        `json:"lastName"          binding:"required,max=50"`
	Gender            models.Gender `json:"gender"            binding:"required,oneof=MALE FEMALE OTHER"`
	CountryCode       string        `json:"countryCode"       binding:"required,max=8"`
	PhoneNumber       string        `json:"phoneNumber"       binding:"required,max=32"`
	Dob               string        `json:"dob"               binding:"required,datetime=2006-01-02"`
	Email             string        `json:"email"             binding:"required,email"`
	VerificationCode  string        `json:"verificationCode"  binding:"required,len=6,numeric"`
	VerificationToken string        `json:"verificationToken" binding:"required"`
}

type signInDTO struct {
	deviceDTO
	Email                        string `json:"email"             binding:"required,email"`
	VerificationCode             string `json:"verificationCode"  binding:"required,len=6,numeric"`
	VerificationToken            string `json:"verificationToken" binding:"required"`
	CancelAccountDeletionRequest bool   `json:"cancelAccountDeletionRequest"`
}

type anonymousAuthDTO struct {
	deviceDTO
}
