// Package cleanup executes the scheduled account-deletion task, reachable
// both through the shared-secret cron endpoint and the in-process scheduler.
package cleanup

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// accounts is the account surface the task needs.
type accounts interface {
	DueDeletionUserIDs(ctx context.Context) ([]string, error)
	MarkDeleted(ctx context.Context, tx *gorm.DB, userID string) error
	RemoveDeletionRequest(ctx context.Context, tx *gorm.DB, userID string) error
}

// sessions purges a user's sessions (cache entries included).
type sessions interface {
	DeleteAll(ctx context.Context, tx *gorm.DB, userID string) error
}

type txRunner interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service runs the deletion task.
type Service struct {
	accounts accounts
	sessions sessions
	tx       txRunner
	log      *zap.Logger
}

func NewService(accounts accounts, sessions sessions, tx txRunner, log *zap.Logger) *Service {
	return &Service{accounts: accounts, sessions: sessions, tx: tx, log: log}
}

// DeleteScheduledUsers finalizes every account whose deletion grace period
// has elapsed. Each account is processed in its own transaction so one
// failure does not roll back the rest of the batch.
func (s *Service) DeleteScheduledUsers(ctx context.Context) (int, error) {
	s.log.Info("starting scheduled user account deletion task")

	userIDs, err := s.accounts.DueDeletionUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	for _, userID := range userIDs {
		err := s.tx.InTx(ctx, func(tx *gorm.DB) error {
			if err := s.sessions.DeleteAll(ctx, tx, userID); err != nil {
				return err
			}
			if err := s.accounts.MarkDeleted(ctx, tx, userID); err != nil {
				return err
			}
			return s.accounts.RemoveDeletionRequest(ctx, tx, userID)
		})
		if err != nil {
			return 0, err
		}
	}

	s.log.Info("completed scheduled user account deletion task", zap.Int("deleted", len(userIDs)))
	return len(userIDs), nil
}
