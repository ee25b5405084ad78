package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/music-library/internal/audit"
	"github.com/mrlokans/music-library/internal/catalog"
	"github.com/mrlokans/music-library/internal/cli"
	"github.com/mrlokans/music-library/internal/database"
	"github.com/mrlokans/music-library/internal/database/music"
	"github.com/mrlokans/music-library/internal/http"
	"github.com/mrlokans/music-library/internal/scheduler"
	"github.com/mrlokans/music-library/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Store implementations
var _ catalog.Store = (*music.Repository)(nil)

// Maintenance queries
var _ tasks.DuplicateFinder = (*music.Repository)(nil)
var _ tasks.OrphanFinder = (*music.Repository)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.CatalogService = (*catalog.Service)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ http.CatalogAuditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.MaintenanceRecorder = (*audit.Service)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)

// =============================================================================
// CLI
// =============================================================================

var _ cli.ArtistCreator = (*catalog.Service)(nil)
