// Package database handles database connections, migrations and schema inspection.
//
// It wraps GORM to configure MySQL, PostgreSQL or SQLite connections from the application's
// configuration. One handle is created at process start and shared by every component.
//
// # Connect
//
// Connect opens the configured driver with error translation enabled, so unique constraint
// violations surface as gorm.ErrDuplicatedKey. IsUniqueViolation also recognises raw driver
// errors (pgconn, MySQL 1062, SQLite) for paths that bypass translation.
//
// # Schema Inspection
//
// GetTableColumns reads live column definitions through the gorm migrator; the integrity
// feature compares them with the models in core/models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	err = database.Migrate(db, models.All()...)
package database
