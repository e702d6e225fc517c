package auth

import (
	"context"

	"gorm.io/gorm"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/session"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/mail"
)

// AccessMode selects the access-control policy applied during token
// verification.
type AccessMode int

const (
	// ModeAuthenticated admits only ACTIVE users.
	ModeAuthenticated AccessMode = iota
	// ModeAllowAnonymous admits ACTIVE and ANONYMOUS users.
	ModeAllowAnonymous
	// ModeAnonymousOnly admits only ANONYMOUS users.
	ModeAnonymousOnly
)

// Identity is the authenticated caller attached to a request. UserStatus is
// the live status resolved from the session store, never the token's
// issuance-time snapshot.
type Identity struct {
	SessionID  string            `json:"session_id"`
	UserID     string            `json:"user_id"`
	UserStatus models.UserStatus `json:"user_status"`
}

// UserAction tells the client which flow to start for an email.
type UserAction string

const (
	ActionSignUp            UserAction = "SIGN_UP"
	ActionSignIn            UserAction = "SIGN_IN"
	ActionBanned            UserAction = "BANNED"
	ActionRequestedDeletion UserAction = "REQUESTED_DELETION"
)

// SessionStore is the session persistence surface the service composes.
// Implemented by *session.Store.
type SessionStore interface {
	Create(ctx context.Context, tx *gorm.DB, userID string, status models.UserStatus, dev session.Device) (string, error)
	Resolve(ctx context.Context, sessionID string) (session.Entry, error)
	DeleteAll(ctx context.Context, tx *gorm.DB, userID string) error
}

// UserStore is the account persistence surface the upgrade flows need.
// Implemented by *user.Store.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (id string, status models.UserStatus, ok bool, err error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, countryCode, phoneNumber string) (bool, error)
	AnonymousExists(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, u *models.UserModel) (string, error)
	ConvertAnonymousToActive(ctx context.Context, tx *gorm.DB, anonymousUserID string, profile *models.UserModel) (string, error)
	DeleteAnonymous(ctx context.Context, tx *gorm.DB, userID string) error
	SetActive(ctx context.Context, tx *gorm.DB, userID string) error
	RemoveDeletionRequest(ctx context.Context, tx *gorm.DB, userID string) error
}

// TxRunner runs a function within one durable transaction.
// Implemented by *database.TxRunner.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Mailer dispatches outbound mail. Implemented by *mail.Sender.
type Mailer interface {
	Send(msg mail.Message) error
}

// SignUpParams carries the validated sign-up request.
type SignUpParams struct {
	FirstName        string
	LastName         string
	Gender           models.Gender
	CountryCode      string
	PhoneNumber      string
	Dob              string
	Email            string
	VerificationCode string
	VerificationToken string
	Device           session.Device
}

// SignInParams carries the validated sign-in request.
type SignInParams struct {
	Email                        string
	VerificationCode             string
	VerificationToken            string
	CancelAccountDeletionRequest bool
	Device                       session.Device
}
