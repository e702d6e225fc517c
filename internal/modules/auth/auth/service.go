package auth

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/session"
	jwtpkg "github.com/kaushik-sharma/full-stack-app/internal/pkg/jwt"
)

// Service is the central authentication authority. It composes the token
// codec with the session store and enforces the access-mode policy; HTTP
// semantics live in the handler and middleware, not here.
type Service struct {
	codec    *jwtpkg.Codec
	sessions SessionStore
	users    UserStore
	tx       TxRunner
	mailer   Mailer
	policy   VerificationPolicy
	log      *zap.Logger
}

func NewService(
	codec *jwtpkg.Codec,
	sessions SessionStore,
	users UserStore,
	tx TxRunner,
	mailer Mailer,
	policy VerificationPolicy,
	log *zap.Logger,
) *Service {
	return &Service{
		codec:    codec,
		sessions: sessions,
		users:    users,
		tx:       tx,
		mailer:   mailer,
		policy:   policy,
		log:      log,
	}
}

// VerifyAuthToken validates an inbound bearer token under the requested
// access mode and returns the caller's identity with its freshly resolved
// status. The token's embedded status snapshot is never trusted for the
// policy decision.
func (s *Service) VerifyAuthToken(ctx context.Context, token string, mode AccessMode) (Identity, error) {
	claims, err := s.codec.VerifyAuthToken(token)
	if err != nil {
		return Identity{}, err
	}

	entry, err := s.sessions.Resolve(ctx, claims.SessionID)
	if err != nil {
		return Identity{}, err
	}

	// Guards against a token replayed against a session it no longer owns,
	// e.g. after a delete/recreate cycle reused a session id.
	if claims.UserID != entry.UserID {
		return Identity{}, ErrUserMismatch
	}

	if err := applyAccessPolicy(mode, entry.UserStatus); err != nil {
		return Identity{}, err
	}

	return Identity{
		SessionID:  claims.SessionID,
		UserID:     entry.UserID,
		UserStatus: entry.UserStatus,
	}, nil
}

// applyAccessPolicy decides admission for a live user status under an
// access mode. Both switches enumerate their full closed sets so a new
// status value forces review here.
func applyAccessPolicy(mode AccessMode, status models.UserStatus) error {
	switch mode {
	case ModeAuthenticated:
		switch status {
		case models.StatusActive:
			return nil
		case models.StatusAnonymous:
			return ErrAnonymousNotAllowed
		case models.StatusBanned, models.StatusRequestedDeletion, models.StatusDeleted:
			return ErrUserNotActive
		}
	case ModeAllowAnonymous:
		switch status {
		case models.StatusActive, models.StatusAnonymous:
			return nil
		case models.StatusBanned, models.StatusRequestedDeletion, models.StatusDeleted:
			return ErrUserNotEligible
		}
	case ModeAnonymousOnly:
		switch status {
		case models.StatusAnonymous:
			return nil
		case models.StatusActive, models.StatusBanned, models.StatusRequestedDeletion, models.StatusDeleted:
			return ErrAnonymousOnlyRequired
		}
	}
	return jwtpkg.ErrInvalidToken
}

// issueAuthToken creates a session row plus its cache entry within the
// caller's transaction, then signs a token bound to the fresh session id.
// The caller chooses the status to embed (ACTIVE vs ANONYMOUS).
func (s *Service) issueAuthToken(ctx context.Context, tx *gorm.DB, userID string, status models.UserStatus, dev session.Device) (string, error) {
	sessionID, err := s.sessions.Create(ctx, tx, userID, status, dev)
	if err != nil {
		return "", err
	}
	return s.codec.CreateAuthToken(sessionID, userID, status)
}

// RefreshAuthToken re-signs the identity claims of an already-verified
// token. It is stateless: the session's stored lifetime is untouched, only
// the token's own expiry moves.
func (s *Service) RefreshAuthToken(id Identity) (string, error) {
	return s.codec.RefreshAuthToken(id.SessionID, id.UserID, id.UserStatus)
}

// CheckEmailStatus tells the client which flow applies to an email.
func (s *Service) CheckEmailStatus(ctx context.Context, email string) (UserAction, error) {
	_, status, ok, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if !ok {
		return ActionSignUp, nil
	}
	switch status {
	case models.StatusActive:
		return ActionSignIn, nil
	case models.StatusBanned:
		return ActionBanned, nil
	case models.StatusRequestedDeletion:
		return ActionRequestedDeletion, nil
	case models.StatusAnonymous, models.StatusDeleted:
		// Anonymous users have no email; deleted users are excluded by the
		// lookup. Either way the email is free to register.
		return ActionSignUp, nil
	}
	return ActionSignUp, nil
}

// SignUp registers a new account, or upgrades the caller's anonymous
// account in place when anonymousUserID is non-empty. The user write,
// session creation, and token issuance commit as one transaction.
func (s *Service) SignUp(ctx context.Context, anonymousUserID string, p SignUpParams) (string, error) {
	if err := s.VerifyEmailCredentials(ctx, p.Email, p.VerificationCode, p.VerificationToken); err != nil {
		return "", err
	}

	if anonymousUserID != "" {
		exists, err := s.users.AnonymousExists(ctx, anonymousUserID)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", ErrAnonymousUserNotFound
		}
	}

	emailExists, err := s.users.EmailExists(ctx, p.Email)
	if err != nil {
		return "", err
	}
	if emailExists {
		return "", ErrEmailTaken
	}
	phoneExists, err := s.users.PhoneExists(ctx, p.CountryCode, p.PhoneNumber)
	if err != nil {
		return "", err
	}
	if phoneExists {
		return "", ErrPhoneTaken
	}

	profile := &models.UserModel{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Gender:      p.Gender,
		CountryCode: p.CountryCode,
		PhoneNumber: p.PhoneNumber,
		Email:       p.Email,
		Dob:         p.Dob,
		Status:      models.StatusActive,
	}

	var authToken string
	err = s.tx.InTx(ctx, func(tx *gorm.DB) error {
		var userID string
		var err error
		if anonymousUserID != "" {
			userID, err = s.users.ConvertAnonymousToActive(ctx, tx, anonymousUserID, profile)
		} else {
			userID, err = s.users.Create(ctx, tx, profile)
		}
		if err != nil {
			return err
		}
		authToken, err = s.issueAuthToken(ctx, tx, userID, models.StatusActive, p.Device)
		return err
	})
	if err != nil {
		return "", err
	}
	return authToken, nil
}

// SignIn authenticates an existing account by email credentials. An inbound
// anonymous identity is consumed: its sessions are purged and the anonymous
// user row deleted within the same transaction that issues the new token.
func (s *Service) SignIn(ctx context.Context, anonymousUserID string, p SignInParams) (string, error) {
	if err := s.VerifyEmailCredentials(ctx, p.Email, p.VerificationCode, p.VerificationToken); err != nil {
		return "", err
	}

	if anonymousUserID != "" {
		exists, err := s.users.AnonymousExists(ctx, anonymousUserID)
		if err != nil {
			return "", err
		}
		if !exists {
			return "", ErrAnonymousUserNotFound
		}
	}

	userID, status, ok, err := s.users.FindByEmail(ctx, p.Email)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAccountNotFound
	}

	switch status {
	case models.StatusBanned:
		return "", ErrAccountBanned
	case models.StatusRequestedDeletion:
		if !p.CancelAccountDeletionRequest {
			return "", ErrDeletionPending
		}
	case models.StatusActive, models.StatusAnonymous, models.StatusDeleted:
		// ACTIVE proceeds; the lookup excludes DELETED and anonymous users
		// hold no email.
	}

	var authToken string
	err = s.tx.InTx(ctx, func(tx *gorm.DB) error {
		if p.CancelAccountDeletionRequest {
			if err := s.users.RemoveDeletionRequest(ctx, tx, userID); err != nil {
				return err
			}
			if err := s.users.SetActive(ctx, tx, userID); err != nil {
				return err
			}
		}
		if anonymousUserID != "" {
			// Sessions first, so no cache entry survives the user row.
			if err := s.sessions.DeleteAll(ctx, tx, anonymousUserID); err != nil {
				return err
			}
			if err := s.users.DeleteAnonymous(ctx, tx, anonymousUserID); err != nil {
				return err
			}
		}
		var err error
		authToken, err = s.issueAuthToken(ctx, tx, userID, models.StatusActive, p.Device)
		return err
	})
	if err != nil {
		return "", err
	}
	return authToken, nil
}

// AnonymousAuth creates a fresh anonymous account with one session and
// returns its token.
func (s *Service) AnonymousAuth(ctx context.Context, dev session.Device) (string, error) {
	var authToken string
	err := s.tx.InTx(ctx, func(tx *gorm.DB) error {
		userID, err := s.users.Create(ctx, tx, &models.UserModel{Status: models.StatusAnonymous})
		if err != nil {
			return err
		}
		authToken, err = s.issueAuthToken(ctx, tx, userID, models.StatusAnonymous, dev)
		return err
	})
	if err != nil {
		return "", err
	}
	return authToken, nil
}
