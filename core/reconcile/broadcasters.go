package reconcile

import (
	"context"
	"fmt"

	"courtside/core/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttachBroadcasters links the named broadcasters to a match.
//
// In merge mode only missing pairs are inserted. In replace mode the match's
// existing links are deleted and the given set inserted in one transaction.
// Blank and duplicate names are dropped; both modes are idempotent. The free
// flag of each link is re-derived from its broadcaster.
func (e *Engine) AttachBroadcasters(ctx context.Context, matchID uint, names []string, mode AttachMode) error {
	if matchID == 0 {
		return fmt.Errorf("%w: attach to match 0", ErrInvalidRecord)
	}
	if mode == "" {
		mode = ModeMerge
	}
	if mode != ModeMerge && mode != ModeReplace {
		return fmt.Errorf("unknown attach mode %q", mode)
	}

	names = e.uniqueNames(names)
	if len(names) == 0 && mode == ModeMerge {
		return nil
	}

	// Each broadcaster is its own atomic create-or-update.
	links := make([]models.MatchBroadcast, 0, len(names))
	for _, name := range names {
		b, err := e.ResolveBroadcaster(ctx, name, BroadcasterHint{})
		if err != nil {
			return err
		}
		links = append(links, models.MatchBroadcast{MatchID: matchID, BroadcasterID: b.ID, IsFree: b.IsFree})
	}

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if mode == ModeReplace {
			if err := tx.Where("match_id = ?", matchID).Delete(&models.MatchBroadcast{}).Error; err != nil {
				return fmt.Errorf("clear broadcasts of match %d: %w", matchID, err)
			}
		}
		if len(links) == 0 {
			return nil
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}, {Name: "broadcaster_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_free"}),
		}).Create(&links).Error
		if err != nil {
			return fmt.Errorf("attach broadcasts to match %d: %w", matchID, err)
		}
		return nil
	})
}

// uniqueNames canonicalizes names and drops blanks and repeats, keeping order.
func (e *Engine) uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = e.catalog.Canonical(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
