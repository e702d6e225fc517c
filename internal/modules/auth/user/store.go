// Package user owns account persistence and the session/account lifecycle
// endpoints (sessions overview, sign-out, account-deletion request).
package user

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
)

// Store is the GORM-backed account datasource. Methods taking a tx handle
// participate in the caller's transaction; a nil tx runs standalone.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// FindByEmail returns id and status of the non-deleted user holding email,
// or ok=false when none exists.
func (s *Store) FindByEmail(ctx context.Context, email string) (id string, status models.UserStatus, ok bool, err error) {
	var row models.UserModel
	err = s.db.WithContext(ctx).
		Select("id, status").
		Where("email = ? AND status <> ?", email, models.StatusDeleted).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return row.ID, row.Status, true, nil
}

// EmailExists reports whether a non-deleted user holds email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ? AND status <> ?", email, models.StatusDeleted).
		Count(&count).Error
	return count > 0, err
}

// PhoneExists reports whether a non-deleted user holds the phone number.
func (s *Store) PhoneExists(ctx context.Context, countryCode, phoneNumber string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("country_code = ? AND phone_number = ? AND status <> ?",
			countryCode, phoneNumber, models.StatusDeleted).
		Count(&count).Error
	return count > 0, err
}

// AnonymousExists reports whether userID is a still-anonymous user.
func (s *Store) AnonymousExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ? AND status = ?", userID, models.StatusAnonymous).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a user row and returns its id.
func (s *Store) Create(ctx context.Context, tx *gorm.DB, u *models.UserModel) (string, error) {
	if err := s.handle(tx).WithContext(ctx).Create(u).Error; err != nil {
		return "", err
	}
	return u.ID, nil
}

// ConvertAnonymousToActive populates the anonymous user's row in place and
// flips it to ACTIVE. The row keeps its id, so existing sessions of the
// anonymous user now resolve to an active account.
func (s *Store) ConvertAnonymousToActive(ctx context.Context, tx *gorm.DB, anonymousUserID string, profile *models.UserModel) (string, error) {
	res := s.handle(tx).WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ? AND status = ?", anonymousUserID, models.StatusAnonymous).
		Updates(map[string]interface{}{
			"first_name":   profile.FirstName,
			"last_name":    profile.LastName,
			"gender":       profile.Gender,
			"country_code": profile.CountryCode,
			"phone_number": profile.PhoneNumber,
			"email":        profile.Email,
			"dob":          profile.Dob,
			"status":       models.StatusActive,
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return anonymousUserID, nil
}

// DeleteAnonymous hard-deletes an anonymous user row.
func (s *Store) DeleteAnonymous(ctx context.Context, tx *gorm.DB, userID string) error {
	return s.handle(tx).WithContext(ctx).
		Where("id = ? AND status = ?", userID, models.StatusAnonymous).
		Delete(&models.UserModel{}).Error
}

// SetActive reactivates a user (cancelling a pending deletion).
func (s *Store) SetActive(ctx context.Context, tx *gorm.DB, userID string) error {
	return s.handle(tx).WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("status", models.StatusActive).Error
}

// MarkForDeletion moves an active user into the deletion grace period.
func (s *Store) MarkForDeletion(ctx context.Context, tx *gorm.DB, userID string) error {
	return s.handle(tx).WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ? AND status = ?", userID, models.StatusActive).
		Update("status", models.StatusRequestedDeletion).Error
}

// MarkDeleted finalizes an account deletion. The row is kept with
// StatusDeleted so uniqueness checks can exclude it explicitly.
func (s *Store) MarkDeleted(ctx context.Context, tx *gorm.DB, userID string) error {
	now := time.Now().UTC()
	return s.handle(tx).WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"status":     models.StatusDeleted,
			"deleted_at": &now,
		}).Error
}

// CreateDeletionRequest schedules the user's deletion.
func (s *Store) CreateDeletionRequest(ctx context.Context, tx *gorm.DB, userID string, deleteAt time.Time) error {
	req := &models.UserDeletionRequestModel{UserID: userID, DeleteAt: deleteAt}
	return s.handle(tx).WithContext(ctx).Create(req).Error
}

// RemoveDeletionRequest cancels a scheduled deletion.
func (s *Store) RemoveDeletionRequest(ctx context.Context, tx *gorm.DB, userID string) error {
	return s.handle(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserDeletionRequestModel{}).Error
}

// DueDeletionUserIDs lists users whose deletion grace period has elapsed.
func (s *Store) DueDeletionUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.UserDeletionRequestModel{}).
		Where("delete_at <= ?", time.Now().UTC()).
		Pluck("user_id", &ids).Error
	return ids, err
}
