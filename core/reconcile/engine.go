package reconcile

import (
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Engine resolves entities and writes matches and broadcast links.
// It is safe for concurrent use; resolution of the same entity name within
// one process is coalesced.
type Engine struct {
	db      *gorm.DB
	log     *zap.Logger
	catalog Catalog
	sf      singleflight.Group
}

// NewEngine creates an engine backed by db, using the default broadcaster catalogue.
func NewEngine(db *gorm.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log, catalog: DefaultCatalog()}
}

// WithCatalog replaces the broadcaster catalogue.
func (e *Engine) WithCatalog(c Catalog) *Engine {
	e.catalog = c
	return e
}

// DB returns the underlying handle.
func (e *Engine) DB() *gorm.DB {
	return e.db
}
