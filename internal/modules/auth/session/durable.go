package session

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
)

// durable is the persistence surface Store needs. Tests substitute an
// in-memory implementation; production uses GORM over MySQL.
type durable interface {
	insert(ctx context.Context, tx *gorm.DB, row *models.SessionModel) error
	// find resolves a session's owner and the owner's current status.
	find(ctx context.Context, sessionID string) (Entry, bool, error)
	// remove deletes one session scoped to its owner; reports whether a row matched.
	remove(ctx context.Context, sessionID, userID string) (bool, error)
	idsForUser(ctx context.Context, tx *gorm.DB, userID string) ([]string, error)
	removeForUser(ctx context.Context, tx *gorm.DB, userID string) error
	listForUser(ctx context.Context, userID string) ([]models.SessionModel, error)
}

type gormDurable struct {
	db *gorm.DB
}

// handle returns the transaction when one is supplied, else the root handle.
func (g *gormDurable) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return g.db
}

func (g *gormDurable) insert(ctx context.Context, tx *gorm.DB, row *models.SessionModel) error {
	return g.handle(tx).WithContext(ctx).Create(row).Error
}

func (g *gormDurable) find(ctx context.Context, sessionID string) (Entry, bool, error) {
	var row struct {
		UserID string
		Status models.UserStatus
	}
	err := g.db.WithContext(ctx).
		Table("sessions").
		Select("sessions.user_id, users.status").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.id = ?", sessionID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{UserID: row.UserID, UserStatus: row.Status}, true, nil
}

func (g *gormDurable) remove(ctx context.Context, sessionID, userID string) (bool, error) {
	res := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.SessionModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (g *gormDurable) idsForUser(ctx context.Context, tx *gorm.DB, userID string) ([]string, error) {
	var ids []string
	err := g.handle(tx).WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	return ids, err
}

func (g *gormDurable) removeForUser(ctx context.Context, tx *gorm.DB, userID string) error {
	return g.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.SessionModel{}).Error
}

func (g *gormDurable) listForUser(ctx context.Context, userID string) ([]models.SessionModel, error) {
	var sessions []models.SessionModel
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}
