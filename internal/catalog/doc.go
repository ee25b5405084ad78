// Package catalog reconciles loosely specified client input against the
// normalized Artist/Album/Song schema.
//
// # Components
//
//   - Resolver: turns an id, a name or nothing into a parent id, creating
//     the parent row when a name has no match (find-or-create).
//   - Synchronizer: brings the children of an album or artist in line with
//     a desired list (detach, attach, create).
//   - Deleter: removes artists, albums and songs; dependents go with them
//     through the schema's ON DELETE CASCADE constraints.
//   - Aggregator: expands primary rows into composite records using
//     concurrent per-row sub-queries.
//
// Service strings these together into write pipelines with named stages:
//
//	resolveParent -> persist -> reconcileChildren -> aggregate
//
// Updates load the current row first, so an unknown id fails with
// ErrNotFound before any parent is resolved or any child is touched.
//
// # Consistency
//
// By default writes are best-effort: every statement runs on its own, a
// failing child is logged and skipped, and a failure half way leaves the
// earlier statements applied. With Options.Transactional the first three
// stages run inside one store transaction and any failure rolls the whole
// write back.
//
// Name lookups are exact and case-sensitive. Names are not unique, so two
// concurrent resolutions of the same new name can create two rows, and a
// name shared by several rows resolves to whichever row the store returns
// first.
package catalog
