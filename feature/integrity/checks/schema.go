package checks

import (
	"fmt"
	"sort"

	"courtside/core/database"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport lists the columns a table lacks.
type TableReport struct {
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies the database schema using GORM models as the source of truth.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		tbl := TableReport{Exists: true, MissingColumns: []string{}, Status: "ok"}
		if !db.Migrator().HasTable(table) {
			tbl.Exists = false
			tbl.Status = "error"
			tbl.MissingColumns = append(tbl.MissingColumns, stmt.Schema.DBNames...)
			report.Tables[table] = tbl
			report.Matched = false
			continue
		}

		actual, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}
		present := make(map[string]struct{}, len(actual))
		for _, col := range actual {
			present[col.Field] = struct{}{}
		}

		for _, name := range stmt.Schema.DBNames {
			if _, ok := present[name]; !ok {
				tbl.MissingColumns = append(tbl.MissingColumns, name)
			}
		}
		if len(tbl.MissingColumns) > 0 {
			sort.Strings(tbl.MissingColumns)
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}
