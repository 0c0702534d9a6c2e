// Package internaldb implements InternalStore using BadgerHold.
// It manages user profiles, saved analyses, and system-level KV.
package internaldb

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/strata/internal/common"
	"github.com/bobmcallan/strata/internal/interfaces"
	"github.com/bobmcallan/strata/internal/models"
)

// Store implements interfaces.InternalStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// systemUserID is the sentinel UserID for system-level key-value pairs.
// Uses a prefix that cannot be a valid user ID to prevent namespace collision.
const systemUserID = "__system__"

// kvSep is the composite key separator for UserKeyValue records. A null byte
// prevents collisions when userID or key contain ":".
const kvSep = "\x00"

// NewStore creates a new InternalStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create internal db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open internal db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("InternalDB opened")
	return &Store{db: db, logger: logger}, nil
}

// --- User profiles ---

func (s *Store) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Get(userID, &profile); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("profile '%s' not found", userID)
		}
		return nil, fmt.Errorf("failed to get profile '%s': %w", userID, err)
	}
	return &profile, nil
}

func (s *Store) SaveProfile(_ context.Context, profile *models.UserProfile) error {
	if profile.UserID == systemUserID {
		return fmt.Errorf("user ID '%s' is reserved for system use", systemUserID)
	}
	now := time.Now()
	var existing models.UserProfile
	if err := s.db.Get(profile.UserID, &existing); err == nil {
		profile.CreatedAt = existing.CreatedAt
	} else if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.ModifiedAt = now

	if err := s.db.Upsert(profile.UserID, profile); err != nil {
		return fmt.Errorf("failed to save profile '%s': %w", profile.UserID, err)
	}
	s.logger.Debug().Str("user_id", profile.UserID).Str("persona", profile.Persona).Msg("Profile saved")
	return nil
}

func (s *Store) DeleteProfile(_ context.Context, userID string) error {
	if err := s.db.Delete(userID, models.UserProfile{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete profile '%s': %w", userID, err)
	}
	// Drop any saved analyses for this user as well.
	_ = s.db.DeleteMatching(models.SavedAnalysis{}, badgerhold.Where("UserID").Eq(userID))
	s.logger.Debug().Str("user_id", userID).Msg("Profile and analyses deleted")
	return nil
}

func (s *Store) ListProfiles(_ context.Context) ([]string, error) {
	var profiles []models.UserProfile
	if err := s.db.Find(&profiles, nil); err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}
	return ids, nil
}

// --- Saved analyses ---

func (s *Store) SaveAnalysis(_ context.Context, analysis *models.SavedAnalysis) error {
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}
	if err := s.db.Upsert(analysis.ID, analysis); err != nil {
		return fmt.Errorf("failed to save analysis '%s': %w", analysis.ID, err)
	}
	return nil
}

func (s *Store) ListAnalyses(_ context.Context, userID string) ([]models.SavedAnalysis, error) {
	var analyses []models.SavedAnalysis
	if err := s.db.Find(&analyses, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list analyses for '%s': %w", userID, err)
	}
	return analyses, nil
}

// --- System KV ---

func (s *Store) GetSystemKV(_ context.Context, key string) (string, error) {
	compositeKey := systemUserID + kvSep + key
	var kv models.UserKeyValue
	if err := s.db.Get(compositeKey, &kv); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", fmt.Errorf("system key '%s' not found", key)
		}
		return "", fmt.Errorf("failed to get system key '%s': %w", key, err)
	}
	return kv.Value, nil
}

func (s *Store) SetSystemKV(_ context.Context, key, value string) error {
	compositeKey := systemUserID + kvSep + key
	kv := models.UserKeyValue{
		UserID:     systemUserID,
		Key:        key,
		Value:      value,
		ModifiedAt: time.Now(),
	}
	if err := s.db.Upsert(compositeKey, &kv); err != nil {
		return fmt.Errorf("failed to set system key '%s': %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements InternalStore
var _ interfaces.InternalStore = (*Store)(nil)
