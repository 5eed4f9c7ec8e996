package models

import (
	"time"

	"gorm.io/datatypes"
)

// MatchStatus is the lifecycle state of a fixture.
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusFinished  MatchStatus = "finished"
)

// Valid reports whether s is one of the known statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusFinished:
		return true
	default:
		return false
	}
}

// HasScore reports whether a match in this status may carry scores.
func (s MatchStatus) HasScore() bool {
	return s == StatusLive || s == StatusFinished
}

// BroadcasterType classifies how a channel is distributed.
type BroadcasterType string

const (
	BroadcasterTV        BroadcasterType = "tv"
	BroadcasterStreaming BroadcasterType = "streaming"
	BroadcasterCable     BroadcasterType = "cable"
	BroadcasterTNT       BroadcasterType = "tnt"
)

// League is a competition, identified by its display name.
type League struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null;uniqueIndex" json:"name"`
	ShortName string    `gorm:"size:20" json:"short_name"`
	Country   string    `gorm:"size:60" json:"country"`
	Color     string    `gorm:"size:16" json:"color"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides the table name.
func (League) TableName() string { return "leagues" }

// Team is identified by (name, league). LeagueID is nil for teams created by
// sources that do not scope teams by league.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null;uniqueIndex:uq_team_name_league" json:"name"`
	ShortName string    `gorm:"size:20" json:"short_name"`
	LogoURL   *string   `gorm:"size:512" json:"logo_url"`
	LeagueID  *uint     `gorm:"uniqueIndex:uq_team_name_league" json:"league_id"`
	League    *League   `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides the table name.
func (Team) TableName() string { return "teams" }

// Match is a single fixture. ExternalID is the only de-duplication anchor.
type Match struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ExternalID string           `gorm:"size:255;not null;uniqueIndex" json:"external_id"`
	Source     string           `gorm:"size:60;index" json:"source"`
	DateTime   time.Time        `gorm:"not null;index" json:"date_time"`
	Status     MatchStatus      `gorm:"size:16;not null;default:scheduled" json:"status"`
	HomeTeamID uint             `gorm:"not null;index" json:"home_team_id"`
	AwayTeamID uint             `gorm:"not null;index" json:"away_team_id"`
	LeagueID   uint             `gorm:"not null;index" json:"league_id"`
	HomeScore  *int             `json:"home_score"`
	AwayScore  *int             `json:"away_score"`
	Venue      *string          `gorm:"size:255" json:"venue"`
	HomeTeam   *Team            `gorm:"foreignKey:HomeTeamID" json:"home_team,omitempty"`
	AwayTeam   *Team            `gorm:"foreignKey:AwayTeamID" json:"away_team,omitempty"`
	League     *League          `gorm:"foreignKey:LeagueID" json:"league,omitempty"`
	Broadcasts []MatchBroadcast `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"broadcasts,omitempty"`
	CreatedAt  time.Time        `json:"-"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// TableName overrides the table name.
func (Match) TableName() string { return "matches" }

// Broadcaster is a channel or service that airs matches, identified by name.
type Broadcaster struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:120;not null;uniqueIndex" json:"name"`
	Type      BroadcasterType `gorm:"size:16;not null;default:tv" json:"type"`
	IsFree    bool            `gorm:"not null;default:false" json:"is_free"`
	LogoURL   *string         `gorm:"size:512" json:"logo_url"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

// TableName overrides the table name.
func (Broadcaster) TableName() string { return "broadcasters" }

// MatchBroadcast links a match to a broadcaster. IsFree mirrors Broadcaster.IsFree.
type MatchBroadcast struct {
	ID            uint         `gorm:"primaryKey" json:"-"`
	MatchID       uint         `gorm:"not null;uniqueIndex:uq_match_broadcaster" json:"match_id"`
	BroadcasterID uint         `gorm:"not null;uniqueIndex:uq_match_broadcaster;index" json:"broadcaster_id"`
	IsFree        bool         `gorm:"not null;default:false" json:"is_free"`
	Broadcaster   *Broadcaster `json:"broadcaster,omitempty"`
	CreatedAt     time.Time    `json:"-"`
}

// TableName overrides the table name.
func (MatchBroadcast) TableName() string { return "match_broadcasts" }

// Setting is a key/value row holding API keys and feature toggles.
type Setting struct {
	Key         string  `gorm:"primaryKey;size:120" json:"key"`
	Value       *string `gorm:"size:1024" json:"value"`
	Description string  `gorm:"size:255" json:"description"`
}

// TableName overrides the table name.
func (Setting) TableName() string { return "config" }

// UpdateRun records the outcome of one pipeline run.
type UpdateRun struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RunID      string         `gorm:"size:36;not null;uniqueIndex" json:"run_id"`
	Trigger    string         `gorm:"size:16;not null" json:"trigger"`
	StartedAt  time.Time      `gorm:"not null;index" json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Stale      int            `json:"stale"`
	Total      int            `json:"total"`
	Sources    datatypes.JSON `json:"sources"`
}

// TableName overrides the table name.
func (UpdateRun) TableName() string { return "update_runs" }

// All returns every model in migration order.
func All() []any {
	return []any{
		&League{},
		&Team{},
		&Broadcaster{},
		&Match{},
		&MatchBroadcast{},
		&Setting{},
		&UpdateRun{},
	}
}
