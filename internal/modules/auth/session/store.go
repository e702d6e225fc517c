// Package session is the single source of truth for which user owns a
// session, with a Redis cache in front of the durable MySQL records.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kaushik-sharma/full-stack-app/internal/models"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/apperr"
	redisc "github.com/kaushik-sharma/full-stack-app/internal/pkg/redis"
)

// ErrNotFound is returned when a session exists in neither the cache nor
// the durable store.
var ErrNotFound = apperr.New(http.StatusNotFound, "Session not found.")

// CacheTTL is deliberately shorter than the 30-day auth-token lifetime so
// that long-lived tokens periodically reconcile against the durable store.
const CacheTTL = 7 * 24 * time.Hour

const cacheKeyPrefix = "sessions:"

// Entry is the resolved identity a session maps to.
type Entry struct {
	UserID     string            `json:"userId"`
	UserStatus models.UserStatus `json:"userStatus"`
}

// Device describes the client instance opening a session.
type Device struct {
	ID       string
	Name     string
	Platform models.Platform
}

// Store maintains sessions across the cache and the durable store.
type Store struct {
	durable durable
	cache   *redisc.Client
	log     *zap.Logger
}

// NewStore builds a Store over a GORM handle and the shared Redis client.
func NewStore(db *gorm.DB, cache *redisc.Client, log *zap.Logger) *Store {
	return &Store{durable: &gormDurable{db: db}, cache: cache, log: log}
}

func cacheKey(sessionID string) string { return cacheKeyPrefix + sessionID }

// Create inserts a durable session row within the caller's transaction and
// warms the cache entry. A failed cache write is not fatal: the entry is
// simply absent until the first resolve repopulates it.
func (s *Store) Create(ctx context.Context, tx *gorm.DB, userID string, status models.UserStatus, dev Device) (string, error) {
	row := &models.SessionModel{
		UserID:     userID,
		DeviceID:   dev.ID,
		DeviceName: dev.Name,
		Platform:   dev.Platform,
	}
	if err := s.durable.insert(ctx, tx, row); err != nil {
		return "", err
	}
	if err := s.writeCache(ctx, row.ID, Entry{UserID: userID, UserStatus: status}); err != nil {
		s.log.Warn("session cache write failed", zap.String("session_id", row.ID), zap.Error(err))
	}
	return row.ID, nil
}

// Resolve returns the owning user of a session. The cache is authoritative
// when it holds an entry; a miss falls through to the durable store and
// repopulates the cache with the user's current status. A cache outage is
// never reported as ErrNotFound; it degrades to a durable read.
func (s *Store) Resolve(ctx context.Context, sessionID string) (Entry, error) {
	key := cacheKey(sessionID)

	val, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("session cache unreachable, falling back to durable store",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	if found {
		var entry Entry
		if err := json.Unmarshal([]byte(val), &entry); err == nil {
			return entry, nil
		}
		s.log.Warn("corrupt session cache entry, treating as miss", zap.String("session_id", sessionID))
	}

	entry, ok, err := s.durable.find(ctx, sessionID)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, ErrNotFound
	}

	if err := s.writeCache(ctx, sessionID, entry); err != nil {
		s.log.Warn("session cache refill failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return entry, nil
}

// Delete signs out one session. The cache delete is best-effort and runs
// first; the durable delete is scoped to both the session and its owner so
// a guessed session id cannot remove another user's session.
func (s *Store) Delete(ctx context.Context, sessionID, userID string) error {
	if err := s.cache.Del(ctx, cacheKey(sessionID)); err != nil {
		s.log.Warn("session cache delete failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	removed, err := s.durable.remove(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every session of a user: each cache entry first, then
// the durable rows in bulk within the caller's transaction.
func (s *Store) DeleteAll(ctx context.Context, tx *gorm.DB, userID string) error {
	ids, err := s.durable.idsForUser(ctx, tx, userID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.cache.Del(ctx, cacheKey(id)); err != nil {
			s.log.Warn("session cache delete failed", zap.String("session_id", id), zap.Error(err))
		}
	}
	return s.durable.removeForUser(ctx, tx, userID)
}

// ListForUser returns a user's sessions, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]models.SessionModel, error) {
	return s.durable.listForUser(ctx, userID)
}

// Owner returns the owning user id of a session straight from the durable
// store, bypassing the cache. Used for ownership checks before sign-out.
func (s *Store) Owner(ctx context.Context, sessionID string) (string, error) {
	entry, ok, err := s.durable.find(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotFound
	}
	return entry.UserID, nil
}

func (s *Store) writeCache(ctx context.Context, sessionID string, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cacheKey(sessionID), raw, CacheTTL)
}
