// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Catalog
//
//   - catalog.Store: Relational store for artists, albums and songs
//     (internal/catalog/store.go), implemented by music.Repository
//
// ## HTTP Layer
//
//   - ArtistService, AlbumService, SongService: Catalog operations per
//     entity kind (internal/http/stores.go), implemented by catalog.Service
//   - CatalogAuditor, AuditReader: Audit trail (internal/http/stores.go,
//     internal/http/audit.go), implemented by audit.Service
//   - TaskQueue: Manual task triggering (internal/http/tasks.go)
//   - Pinger: Health checks (internal/http/health.go)
//
// ## Background Work
//
//   - DuplicateFinder, OrphanFinder: Maintenance queries
//     (internal/tasks), implemented by music.Repository
//   - AuditEventCleaner, MaintenanceRecorder: Audit upkeep (internal/tasks)
//   - Enqueuer: Scheduled enqueueing (internal/scheduler)
//
// # Adding a New Store Backend
//
// To back the catalog with another database:
//
//  1. Implement catalog.Store. Get methods must return catalog.ErrNotFound
//     for a missing id and Set methods must report rows affected, with 0
//     meaning the child row does not exist.
//
//  2. Declare ON DELETE CASCADE from albums and songs to artists and from
//     songs to albums, or deletes will orphan children.
//
//  3. Add a compile-time check:
//
//     var _ catalog.Store = (*Repository)(nil)
//
// # Adding a New Maintenance Task
//
//  1. Define the task and its queue in internal/tasks/
//
//     type ReindexTask struct{}
//
//     func (t ReindexTask) Config() backlite.QueueConfig
//
//     func NewReindexQueue(store Reindexer) backlite.Queue
//
//  2. Add it to Types and NewTask in internal/tasks/registry.go and register
//     the queue in RegisterMaintenance. The scheduler and POST
//     /api/tasks/:type/run pick it up from there.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
