// Package repository defines the ranking snapshot store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/pucklab/puckrank/internal/domain/model"
)

// Variant names a ranking formula.
type Variant string

const (
	// VariantBaseline is the capped five-component formula.
	VariantBaseline Variant = "baseline"
	// VariantImproved is the weighted blend with the streak bonus.
	VariantImproved Variant = "improved"
)

// ParseVariant resolves a variant name, defaulting empty to baseline.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "", string(VariantBaseline):
		return VariantBaseline, nil
	case string(VariantImproved):
		return VariantImproved, nil
	default:
		return "", ErrUnknownVariant
	}
}

// Snapshot is one completed ranking run.
type Snapshot struct {
	RunID      string            `json:"run_id"`
	ComputedAt time.Time         `json:"computed_at"`
	Scores     []model.TeamScore `json:"scores"`
}

// Store retains, per variant, the latest snapshot and the one before it.
// The previous snapshot exists solely to answer mover comparisons.
type Store interface {
	// SetRankings installs a new latest snapshot, demoting the current
	// latest to previous.
	SetRankings(ctx context.Context, variant Variant, snap Snapshot) error

	// Latest returns the most recent snapshot for a variant.
	// Returns ErrNoSnapshot before the first refresh completes.
	Latest(ctx context.Context, variant Variant) (Snapshot, error)

	// Previous returns the snapshot before the latest one.
	// Returns ErrNoSnapshot until two refreshes have completed.
	Previous(ctx context.Context, variant Variant) (Snapshot, error)

	// TeamRank returns one team's row from the latest snapshot.
	// Returns ErrNotFound if the team is not ranked.
	TeamRank(ctx context.Context, variant Variant, teamID string) (model.TeamScore, error)

	// Count returns the number of teams in the latest snapshot.
	Count(ctx context.Context, variant Variant) int
}
