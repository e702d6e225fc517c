package auth

import (
	"net/http"

	"github.com/kaushik-sharma/full-stack-app/internal/pkg/apperr"
)

// Policy rejections surfaced by token verification and the sign-up/sign-in
// flows. Every rejection carries a specific message so clients can pick the
// right recovery path (re-prompt for a code vs restart verification vs
// contact support).
var (
	ErrUserMismatch          = apperr.New(http.StatusConflict, "Wrong user ID in the auth token.")
	ErrAnonymousNotAllowed   = apperr.New(http.StatusUnauthorized, "Access denied: Anonymous users cannot perform this action.")
	ErrUserNotActive         = apperr.New(http.StatusForbidden, "Access denied: User is not active.")
	ErrUserNotEligible       = apperr.New(http.StatusForbidden, "Access denied: User is neither active nor anonymous.")
	ErrAnonymousOnlyRequired = apperr.New(http.StatusUnauthorized, "Access denied: Only anonymous users are allowed.")

	ErrEmailMismatch = apperr.New(http.StatusUnauthorized, "Email does not match!")
	ErrInvalidCode   = apperr.New(http.StatusUnauthorized, "Incorrect verification code!")

	ErrAccountNotFound       = apperr.New(http.StatusNotFound, "Account with this email not found.")
	ErrAccountBanned         = apperr.New(http.StatusForbidden, "Your account is banned due to violation of our moderation guidelines. Please contact our customer support.")
	ErrDeletionPending       = apperr.New(http.StatusForbidden, "You have an active account deletion request pending.")
	ErrAnonymousUserNotFound = apperr.New(http.StatusNotFound, "Anonymous user not found!")
	ErrEmailTaken            = apperr.New(http.StatusConflict, "Account with this email already exists.")
	ErrPhoneTaken            = apperr.New(http.StatusConflict, "Account with this phone number already exists.")
)
