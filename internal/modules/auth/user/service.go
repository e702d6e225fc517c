package user

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/apperr"
)

// ErrSessionMismatch rejects a sign-out targeting a session the caller does
// not own.
var ErrSessionMismatch = apperr.New(http.StatusForbidden, "Session user ID mismatch!")

// Grace periods before a requested deletion is executed. The short
// non-production window keeps the flow testable end to end.
const (
	deletionGracePeriodProd = 30 * 24 * time.Hour
	deletionGracePeriodDev  = 5 * time.Minute
)

// SessionStore is the session surface the lifecycle endpoints need.
// Implemented by *session.Store.
type SessionStore interface {
	ListForUser(ctx context.Context, userID string) ([]models.SessionModel, error)
	Delete(ctx context.Context, sessionID, userID string) error
	DeleteAll(ctx context.Context, tx *gorm.DB, userID string) error
	Owner(ctx context.Context, sessionID string) (string, error)
}

// TxRunner runs a function within one durable transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// accounts is the subset of *Store the service consumes.
type accounts interface {
	MarkForDeletion(ctx context.Context, tx *gorm.DB, userID string) error
	CreateDeletionRequest(ctx context.Context, tx *gorm.DB, userID string, deleteAt time.Time) error
}

// Service implements session overview, sign-out, and the account-deletion
// request.
type Service struct {
	sessions   SessionStore
	accounts   accounts
	tx         TxRunner
	production bool
}

func NewService(sessions SessionStore, store *Store, tx TxRunner, production bool) *Service {
	return &Service{sessions: sessions, accounts: store, tx: tx, production: production}
}

// SessionInfo describes one active session for the overview endpoint.
type SessionInfo struct {
	ID         string          `json:"id"`
	DeviceName string          `json:"deviceName"`
	Platform   models.Platform `json:"platform"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// SessionsOverview groups the caller's sessions into the one backing the
// presented token and all others.
type SessionsOverview struct {
	Current SessionInfo   `json:"current"`
	Others  []SessionInfo `json:"others"`
}

// Overview lists the caller's sessions, newest first, split into
// current/others by the session id of the presented token.
func (s *Service) Overview(ctx context.Context, userID, currentSessionID string) (SessionsOverview, error) {
	rows, err := s.sessions.ListForUser(ctx, userID)
	if err != nil {
		return SessionsOverview{}, err
	}

	overview := SessionsOverview{Others: []SessionInfo{}}
	for _, row := range rows {
		info := SessionInfo{
			ID:         row.ID,
			DeviceName: row.DeviceName,
			Platform:   row.Platform,
			CreatedAt:  row.CreatedAt,
		}
		if row.ID == currentSessionID {
			overview.Current = info
		} else {
			overview.Others = append(overview.Others, info)
		}
	}
	return overview, nil
}

// SignOutCurrent destroys the session backing the presented token.
func (s *Service) SignOutCurrent(ctx context.Context, userID, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID, userID)
}

// SignOutAll destroys every session of the user.
func (s *Service) SignOutAll(ctx context.Context, userID string) error {
	return s.sessions.DeleteAll(ctx, nil, userID)
}

// SignOutSession destroys one session by id after verifying the caller
// owns it.
func (s *Service) SignOutSession(ctx context.Context, userID, sessionID string) error {
	owner, err := s.sessions.Owner(ctx, sessionID)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrSessionMismatch
	}
	return s.sessions.Delete(ctx, sessionID, userID)
}

// RequestAccountDeletion signs the user out everywhere, marks the account
// REQUESTED_DELETION, and schedules the final deletion after the grace
// period, all in one transaction.
func (s *Service) RequestAccountDeletion(ctx context.Context, userID string) error {
	grace := deletionGracePeriodDev
	if s.production {
		grace = deletionGracePeriodProd
	}
	deleteAt := time.Now().UTC().Add(grace)

	return s.tx.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.sessions.DeleteAll(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.accounts.MarkForDeletion(ctx, tx, userID); err != nil {
			return err
		}
		return s.accounts.CreateDeletionRequest(ctx, tx, userID, deleteAt)
	})
}
