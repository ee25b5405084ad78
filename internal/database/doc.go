// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or mysql), migrations
//	├── music/           # Artist, album and song storage for the catalog
//	└── audit/           # Audit trail of catalog writes
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.Open(cfg.Database)
//
//	// Create domain-specific repositories
//	musicRepo := music.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
//	// Use repositories
//	artist, err := musicRepo.GetArtist(ctx, 123)
//
// # Interface Implementations
//
//   - music.Repository: implements catalog.Store
//   - audit.Repository: implements audit.EventStore and http.AuditStore
//
// # Schema
//
// Albums and songs reference their artist, and songs their album, through
// nullable foreign keys declared with ON DELETE CASCADE. Deleting an artist
// or album therefore removes its dependents inside the database. SQLite
// enforces these constraints only with foreign keys enabled, which Open
// does through the connection string.
package database
