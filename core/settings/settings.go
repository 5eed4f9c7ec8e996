package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"courtside/core/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store reads and writes rows of the config table.
// Values missing from the table fall back to the static map given at construction,
// which is how environment-provided API keys reach sources.
type Store struct {
	db       *gorm.DB
	fallback map[string]string
}

// New creates a settings store.
func New(db *gorm.DB, fallback map[string]string) *Store {
	if fallback == nil {
		fallback = map[string]string{}
	}
	return &Store{db: db, fallback: fallback}
}

// SourceEnabledKey returns the toggle key of a source, e.g. SOURCE_TVGUIDE_ENABLED.
func SourceEnabledKey(source string) string {
	name := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(source)))
	return "SOURCE_" + name + "_ENABLED"
}

// Lookup returns the value of key. A row with an empty value counts as absent.
func (s *Store) Lookup(ctx context.Context, key string) (string, bool, error) {
	var row models.Setting
	err := s.db.WithContext(ctx).Where(&models.Setting{Key: key}).Take(&row).Error
	switch {
	case err == nil:
		if row.Value != nil && strings.TrimSpace(*row.Value) != "" {
			return strings.TrimSpace(*row.Value), true, nil
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, fmt.Errorf("lookup setting %s: %w", key, err)
	}

	if v := strings.TrimSpace(s.fallback[key]); v != "" {
		return v, true, nil
	}
	return "", false, nil
}

// Set creates or replaces the value of key.
func (s *Store) Set(ctx context.Context, key, value, description string) error {
	row := models.Setting{Key: key, Value: &value, Description: description}
	update := []string{"value"}
	if description != "" {
		update = append(update, "description")
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns(update),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// List returns every row of the config table ordered by key.
func (s *Store) List(ctx context.Context) ([]models.Setting, error) {
	var rows []models.Setting
	if err := s.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return rows, nil
}

// SourceEnabled reports whether a source may run. Sources are enabled unless
// their toggle holds a false value.
func (s *Store) SourceEnabled(ctx context.Context, source string) (bool, error) {
	v, ok, err := s.Lookup(ctx, SourceEnabledKey(source))
	if err != nil || !ok {
		return true, err
	}
	enabled, perr := strconv.ParseBool(v)
	if perr != nil {
		return true, nil
	}
	return enabled, nil
}

// SetSourceEnabled stores the toggle of a source.
func (s *Store) SetSourceEnabled(ctx context.Context, source string, enabled bool) error {
	return s.Set(ctx, SourceEnabledKey(source), strconv.FormatBool(enabled), "Enable the "+source+" source")
}
