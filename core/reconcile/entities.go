package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"courtside/core/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResolveLeague returns the league named name, creating it on first sighting.
// Lookup is exact and case-sensitive. Short name, country and color are
// back-filled on existing rows only when empty.
func (e *Engine) ResolveLeague(ctx context.Context, name string) (*models.League, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("league: %w", ErrEmptyName)
	}

	v, err, _ := e.sf.Do("league:"+name, func() (any, error) {
		return e.resolveLeague(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	league := *v.(*models.League)
	return &league, nil
}

func (e *Engine) resolveLeague(ctx context.Context, name string) (*models.League, error) {
	db := e.db.WithContext(ctx)
	defaults := defaultsForLeague(name)

	var league models.League
	err := db.Where("name = ?", name).Take(&league).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		league = models.League{
			Name:      name,
			ShortName: defaults.ShortName,
			Country:   defaults.Country,
			Color:     defaults.Color,
			Active:    true,
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&league).Error; err != nil {
			return nil, fmt.Errorf("create league %q: %w", name, err)
		}
		// A concurrent writer may have won the insert.
		league = models.League{}
		err = db.Where("name = ?", name).Take(&league).Error
	}
	if err != nil {
		return nil, fmt.Errorf("find league %q: %w", name, err)
	}

	updates := map[string]any{}
	if league.ShortName == "" && defaults.ShortName != "" {
		updates["short_name"] = defaults.ShortName
	}
	if league.Country == "" && defaults.Country != "" {
		updates["country"] = defaults.Country
	}
	if league.Color == "" && defaults.Color != "" {
		updates["color"] = defaults.Color
	}
	if len(updates) > 0 {
		if err := db.Model(&league).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("backfill league %q: %w", name, err)
		}
		if v, ok := updates["short_name"].(string); ok {
			league.ShortName = v
		}
		if v, ok := updates["country"].(string); ok {
			league.Country = v
		}
		if v, ok := updates["color"].(string); ok {
			league.Color = v
		}
		e.log.Debug("League backfilled", zap.String("league", name), zap.Int("fields", len(updates)))
	}
	return &league, nil
}

// ResolveTeam returns the team named name, creating it on first sighting.
//
// With a league, the (name, league) row is used; a row with the same name and
// no league is reused when no scoped row exists. Without a league, the oldest
// row with that name is used. Names are matched exactly.
func (e *Engine) ResolveTeam(ctx context.Context, name string, leagueID *uint, hint TeamHint) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team: %w", ErrEmptyName)
	}

	key := "team:" + name + "|"
	if leagueID != nil {
		key += strconv.FormatUint(uint64(*leagueID), 10)
	}

	v, err, shared := e.sf.Do(key, func() (any, error) {
		return e.resolveTeam(ctx, name, leagueID, hint)
	})
	if err != nil {
		return nil, err
	}
	team := *v.(*models.Team)
	if shared {
		// The leader ran with its own hint; apply ours to the same row.
		if err := e.enrichTeam(e.db.WithContext(ctx), &team, hint); err != nil {
			return nil, err
		}
	}
	return &team, nil
}

func (e *Engine) resolveTeam(ctx context.Context, name string, leagueID *uint, hint TeamHint) (*models.Team, error) {
	db := e.db.WithContext(ctx)

	team, err := e.findTeam(db, name, leagueID)
	if err != nil {
		return nil, err
	}

	if team == nil {
		created := models.Team{
			Name:      name,
			ShortName: strings.TrimSpace(hint.ShortName),
			LeagueID:  leagueID,
		}
		if created.ShortName == "" {
			created.ShortName = shortNameFallback(name)
		}
		if logo := strings.TrimSpace(hint.LogoURL); logo != "" {
			created.LogoURL = &logo
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&created).Error; err != nil {
			return nil, fmt.Errorf("create team %q: %w", name, err)
		}
		if team, err = e.findTeam(db, name, leagueID); err != nil {
			return nil, err
		}
		if team == nil {
			return nil, fmt.Errorf("team %q vanished after insert", name)
		}
	}

	if err := e.enrichTeam(db, team, hint); err != nil {
		return nil, err
	}
	return team, nil
}

// enrichTeam fills a missing logo or short name from hint.
func (e *Engine) enrichTeam(db *gorm.DB, team *models.Team, hint TeamHint) error {
	updates := map[string]any{}
	if logo := strings.TrimSpace(hint.LogoURL); logo != "" && (team.LogoURL == nil || *team.LogoURL == "") {
		updates["logo_url"] = logo
	}
	if short := strings.TrimSpace(hint.ShortName); short != "" && team.ShortName == "" {
		updates["short_name"] = short
	}
	if len(updates) > 0 {
		if err := db.Model(team).Updates(updates).Error; err != nil {
			return fmt.Errorf("enrich team %q: %w", team.Name, err)
		}
		if logo, ok := updates["logo_url"].(string); ok {
			team.LogoURL = &logo
		}
		if short, ok := updates["short_name"].(string); ok {
			team.ShortName = short
		}
	}
	return nil
}

// findTeam returns nil, nil when no row matches.
func (e *Engine) findTeam(db *gorm.DB, name string, leagueID *uint) (*models.Team, error) {
	var team models.Team

	if leagueID != nil {
		err := db.Where("name = ? AND league_id = ?", name, *leagueID).Take(&team).Error
		if err == nil {
			return &team, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find team %q: %w", name, err)
		}
		err = db.Where("name = ? AND league_id IS NULL", name).Order("id").First(&team).Error
		if err == nil {
			return &team, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("find team %q: %w", name, err)
		}
		return nil, nil
	}

	err := db.Where("name = ?", name).Order("id").First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find team %q: %w", name, err)
	}
	return &team, nil
}

// ResolveBroadcaster returns the broadcaster named name, creating it on first
// sighting. Type and free flag are corrected when the hint or the catalogue
// knows them and they differ from the stored row.
func (e *Engine) ResolveBroadcaster(ctx context.Context, name string, hint BroadcasterHint) (*models.Broadcaster, error) {
	name = e.catalog.Canonical(name)
	if name == "" {
		return nil, fmt.Errorf("broadcaster: %w", ErrEmptyName)
	}

	v, err, _ := e.sf.Do("broadcaster:"+name, func() (any, error) {
		return e.resolveBroadcaster(ctx, name, hint)
	})
	if err != nil {
		return nil, err
	}
	b := *v.(*models.Broadcaster)
	return &b, nil
}

func (e *Engine) resolveBroadcaster(ctx context.Context, name string, hint BroadcasterHint) (*models.Broadcaster, error) {
	db := e.db.WithContext(ctx)

	known, inCatalog := e.catalog.Lookup(name)
	typ := hint.Type
	if typ == "" && inCatalog {
		typ = known.Type
	}
	free := hint.IsFree
	if free == nil && inCatalog {
		isFree := known.IsFree
		free = &isFree
	}
	logo := strings.TrimSpace(hint.LogoURL)
	if logo == "" && inCatalog {
		logo = known.LogoURL
	}

	var b models.Broadcaster
	err := db.Where("name = ?", name).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		b = models.Broadcaster{Name: name, Type: models.BroadcasterTV}
		if typ != "" {
			b.Type = typ
		}
		if free != nil {
			b.IsFree = *free
		}
		if logo != "" {
			b.LogoURL = &logo
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&b).Error; err != nil {
			return nil, fmt.Errorf("create broadcaster %q: %w", name, err)
		}
		b = models.Broadcaster{}
		err = db.Where("name = ?", name).Take(&b).Error
	}
	if err != nil {
		return nil, fmt.Errorf("find broadcaster %q: %w", name, err)
	}

	updates := map[string]any{}
	if typ != "" && b.Type != typ {
		updates["type"] = typ
	}
	if free != nil && b.IsFree != *free {
		updates["is_free"] = *free
	}
	if logo != "" && b.LogoURL == nil {
		updates["logo_url"] = logo
	}
	if len(updates) > 0 {
		if err := db.Model(&b).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update broadcaster %q: %w", name, err)
		}
		if typ != "" {
			b.Type = typ
		}
		if free != nil {
			b.IsFree = *free
		}
		if b.LogoURL == nil && logo != "" {
			b.LogoURL = &logo
		}
		e.log.Debug("Broadcaster corrected", zap.String("broadcaster", name), zap.Any("changes", updates))
	}
	return &b, nil
}
