// Package interfaces defines service contracts for Strata
package interfaces

import (
	"context"

	"github.com/bobmcallan/strata/internal/models"
)

// InternalStore manages user profiles, saved analyses, and system-level
// key-value configuration.
type InternalStore interface {
	// User profiles
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, profile *models.UserProfile) error
	DeleteProfile(ctx context.Context, userID string) error
	ListProfiles(ctx context.Context) ([]string, error)

	// Saved analyses
	SaveAnalysis(ctx context.Context, analysis *models.SavedAnalysis) error
	ListAnalyses(ctx context.Context, userID string) ([]models.SavedAnalysis, error)

	// System KV (API keys, runtime defaults)
	GetSystemKV(ctx context.Context, key string) (string, error)
	SetSystemKV(ctx context.Context, key, value string) error

	Close() error
}
