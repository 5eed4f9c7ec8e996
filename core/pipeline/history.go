package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"courtside/core/models"

	"gorm.io/datatypes"
)

func (p *Pipeline) saveRun(ctx context.Context, r Report) error {
	sources, err := json.Marshal(r.Sources)
	if err != nil {
		return fmt.Errorf("marshal source reports: %w", err)
	}
	row := models.UpdateRun{
		RunID:      r.RunID,
		Trigger:    r.Trigger,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Stale:      r.Stale,
		Total:      r.Total,
		Sources:    datatypes.JSON(sources),
	}
	if err := p.db.WithContext(context.WithoutCancel(ctx)).Create(&row).Error; err != nil {
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (p *Pipeline) Runs(ctx context.Context, limit int) ([]Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []models.UpdateRun
	if err := p.db.WithContext(ctx).Order("started_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	reports := make([]Report, 0, len(rows))
	for _, row := range rows {
		r := Report{
			RunID:      row.RunID,
			Trigger:    row.Trigger,
			StartedAt:  row.StartedAt,
			FinishedAt: row.FinishedAt,
			Stale:      row.Stale,
			Total:      row.Total,
		}
		if len(row.Sources) > 0 {
			if err := json.Unmarshal(row.Sources, &r.Sources); err != nil {
				return nil, fmt.Errorf("decode run %s: %w", row.RunID, err)
			}
		}
		reports = append(reports, r)
	}
	return reports, nil
}
