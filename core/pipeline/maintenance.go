package pipeline

import (
	"context"
	"fmt"
	"time"

	"courtside/core/models"

	"gorm.io/gorm"
)

// StaleCutoff returns the instant before which matches are stale.
func (p *Pipeline) StaleCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.cfg.StaleDays)
}

// CleanStale deletes matches scheduled before the stale cutoff, together with
// their broadcast links, and returns how many matches were removed.
func (p *Pipeline) CleanStale(ctx context.Context, now time.Time) (int64, error) {
	cutoff := p.StaleCutoff(now).UTC()
	deleted, err := p.deleteMatches(ctx, "date_time < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("clean stale matches: %w", err)
	}
	return deleted, nil
}

// PurgeSource deletes every match ingested from the source with the given
// prefix and returns how many were removed.
func (p *Pipeline) PurgeSource(ctx context.Context, prefix string) (int64, error) {
	if prefix == "" {
		return 0, fmt.Errorf("purge: empty prefix")
	}
	deleted, err := p.deleteMatches(ctx, "source = ?", prefix)
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", prefix, err)
	}
	return deleted, nil
}

// deleteBatch bounds the size of IN lists.
const deleteBatch = 500

// deleteMatches removes the matches selected by the condition and their
// links in one transaction.
func (p *Pipeline) deleteMatches(ctx context.Context, cond string, args ...any) (int64, error) {
	var deleted int64
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Match{}).Where(cond, args...).Pluck("id", &ids).Error; err != nil {
			return err
		}
		for start := 0; start < len(ids); start += deleteBatch {
			batch := ids[start:min(start+deleteBatch, len(ids))]
			if err := tx.Where("match_id IN ?", batch).Delete(&models.MatchBroadcast{}).Error; err != nil {
				return err
			}
			res := tx.Where("id IN ?", batch).Delete(&models.Match{})
			if res.Error != nil {
				return res.Error
			}
			deleted += res.RowsAffected
		}
		return nil
	})
	return deleted, err
}
