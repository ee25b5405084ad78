package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/mrlokans/music-library/internal/entities"
)

// Report summarises one reconciliation of a parent's children.
type Report struct {
	Relation string  `json:"relation"`
	ParentID uint    `json:"parent_id"`
	Attached int     `json:"attached"`
	Detached int     `json:"detached"`
	Created  int     `json:"created"`
	Failed   int     `json:"failed"`
	Errors   []error `json:"-"`
}

// Err joins the per-child errors, or returns nil when every child succeeded.
func (r Report) Err() error {
	return errors.Join(r.Errors...)
}

type opKind int

const (
	opDetach opKind = iota
	opAttach
	opCreate
)

type childOp struct {
	kind opKind
	run  func(ctx context.Context) error
}

type opResult struct {
	kind opKind
	err  error
}

// Synchronizer brings a parent's children in line with a desired list.
// Rows are never deleted: children missing from the list are detached by
// clearing their parent reference.
type Synchronizer struct {
	store          Store
	metrics        *Metrics
	maxConcurrency int

	// strict runs children one at a time and stops at the first failure.
	// Used inside transactions where a failed child aborts the write.
	strict bool

	now func() time.Time
}

func NewSynchronizer(store Store, metrics *Metrics, maxConcurrency int) *Synchronizer {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Synchronizer{
		store:          store,
		metrics:        metrics,
		maxConcurrency: maxConcurrency,
		now:            time.Now,
	}
}

// bind returns a copy of s that runs against store. With strict set the
// copy stops at the first failing child.
func (s *Synchronizer) bind(store Store, strict bool) *Synchronizer {
	cp := *s
	cp.store = store
	cp.strict = strict
	return &cp
}

// ReconcileAlbumSongs makes the album's songs match desired. Songs created
// here belong to the album and default to its artist and release year.
func (s *Synchronizer) ReconcileAlbumSongs(ctx context.Context, albumID uint, albumArtistID *uint, albumYear *int, desired []ChildRef) Report {
	report := Report{Relation: "album songs", ParentID: albumID}

	current, err := s.store.SongIDsByAlbum(ctx, albumID)
	if err != nil {
		s.fail(ctx, &report, wrapStoreErr("list album songs", err))
		if s.strict {
			return report
		}
	}

	parent := albumID
	var ops []childOp
	for _, id := range detachable(current, desired) {
		id := id
		ops = append(ops, childOp{kind: opDetach, run: func(ctx context.Context) error {
			return affected(s.store.SetSongAlbum(ctx, id, nil))("detach song %d", id)
		}})
	}
	for _, child := range desired {
		child := child
		if child.hasID() {
			id := *child.ID
			ops = append(ops, childOp{kind: opAttach, run: func(ctx context.Context) error {
				return affected(s.store.SetSongAlbum(ctx, id, &parent))("attach song %d", id)
			}})
			continue
		}
		ops = append(ops, childOp{kind: opCreate, run: func(ctx context.Context) error {
			if strings.TrimSpace(child.Name) == "" {
				return invalidInput("song name is required")
			}
			artistID := albumArtistID
			if child.ArtistID != nil {
				artistID, _ = explicitID(Ref{ID: child.ArtistID})
			}
			song := &entities.Song{
				Name:        child.Name,
				ArtistID:    artistID,
				AlbumID:     &parent,
				ReleaseYear: firstNonNil(child.ReleaseYear, albumYear),
			}
			return wrapStoreErr(fmt.Sprintf("create song %q", child.Name), s.store.CreateSong(ctx, song))
		}})
	}

	s.execute(ctx, &report, ops)
	return report
}

// ReconcileArtistAlbums makes the artist's albums match desired.
func (s *Synchronizer) ReconcileArtistAlbums(ctx context.Context, artistID uint, desired []ChildRef) Report {
	report := Report{Relation: "artist albums", ParentID: artistID}

	current, err := s.store.AlbumIDsByArtist(ctx, artistID)
	if err != nil {
		s.fail(ctx, &report, wrapStoreErr("list artist albums", err))
		if s.strict {
			return report
		}
	}

	parent := artistID
	var ops []childOp
	for _, id := range detachable(current, desired) {
		id := id
		ops = append(ops, childOp{kind: opDetach, run: func(ctx context.Context) error {
			return affected(s.store.SetAlbumArtist(ctx, id, nil))("detach album %d", id)
		}})
	}
	for _, child := range desired {
		child := child
		if child.hasID() {
			id := *child.ID
			ops = append(ops, childOp{kind: opAttach, run: func(ctx context.Context) error {
				return affected(s.store.SetAlbumArtist(ctx, id, &parent))("attach album %d", id)
			}})
			continue
		}
		ops = append(ops, childOp{kind: opCreate, run: func(ctx context.Context) error {
			if strings.TrimSpace(child.Name) == "" {
				return invalidInput("album name is required")
			}
			album := &entities.Album{
				Name:        child.Name,
				ArtistID:    &parent,
				ReleaseYear: s.yearOr(child.ReleaseYear),
				NumListens:  valueOr(child.NumListens, 0),
			}
			return wrapStoreErr(fmt.Sprintf("create album %q", child.Name), s.store.CreateAlbum(ctx, album))
		}})
	}

	s.execute(ctx, &report, ops)
	return report
}

// ReconcileArtistSongs makes the artist's songs match desired. A created
// song naming an album is linked to the entry of albumsByName with that
// name; unknown album names leave the song without an album.
func (s *Synchronizer) ReconcileArtistSongs(ctx context.Context, artistID uint, desired []ChildRef, albumsByName map[string]uint) Report {
	report := Report{Relation: "artist songs", ParentID: artistID}

	current, err := s.store.SongIDsByArtist(ctx, artistID)
	if err != nil {
		s.fail(ctx, &report, wrapStoreErr("list artist songs", err))
		if s.strict {
			return report
		}
	}

	parent := artistID
	var ops []childOp
	for _, id := range detachable(current, desired) {
		id := id
		ops = append(ops, childOp{kind: opDetach, run: func(ctx context.Context) error {
			return affected(s.store.SetSongArtist(ctx, id, nil))("detach song %d", id)
		}})
	}
	for _, child := range desired {
		child := child
		if child.hasID() {
			id := *child.ID
			ops = append(ops, childOp{kind: opAttach, run: func(ctx context.Context) error {
				return affected(s.store.SetSongArtist(ctx, id, &parent))("attach song %d", id)
			}})
			continue
		}
		ops = append(ops, childOp{kind: opCreate, run: func(ctx context.Context) error {
			if strings.TrimSpace(child.Name) == "" {
				return invalidInput("song name is required")
			}
			song := &entities.Song{
				Name:        child.Name,
				ArtistID:    &parent,
				ReleaseYear: s.yearOr(child.ReleaseYear),
			}
			if albumID, ok := albumsByName[child.Album]; ok && child.Album != "" {
				song.AlbumID = &albumID
			}
			return wrapStoreErr(fmt.Sprintf("create song %q", child.Name), s.store.CreateSong(ctx, song))
		}})
	}

	s.execute(ctx, &report, ops)
	return report
}

// execute runs ops and waits for all of them before tallying the report.
func (s *Synchronizer) execute(ctx context.Context, report *Report, ops []childOp) {
	if s.strict {
		for _, op := range ops {
			if err := op.run(ctx); err != nil {
				s.fail(ctx, report, err)
				break
			}
			report.count(op.kind)
		}
		s.logReport(ctx, report)
		return
	}

	p := pool.NewWithResults[opResult]().WithMaxGoroutines(s.maxConcurrency)
	for _, op := range ops {
		op := op
		p.Go(func() opResult {
			return opResult{kind: op.kind, err: op.run(ctx)}
		})
	}
	for _, res := range p.Wait() {
		if res.err != nil {
			s.fail(ctx, report, res.err)
			continue
		}
		report.count(res.kind)
	}
	s.logReport(ctx, report)
}

func (s *Synchronizer) fail(ctx context.Context, report *Report, err error) {
	report.Failed++
	report.Errors = append(report.Errors, err)
	s.metrics.addChildFailure()
	logf(ctx, "Failed to reconcile %s of %d: %v", report.Relation, report.ParentID, err)
}

func (s *Synchronizer) logReport(ctx context.Context, report *Report) {
	if report.Attached+report.Detached+report.Created+report.Failed == 0 {
		return
	}
	logf(ctx, "Reconciled %s of %d: %d attached, %d detached, %d created, %d failed",
		report.Relation, report.ParentID, report.Attached, report.Detached, report.Created, report.Failed)
}

func (s *Synchronizer) yearOr(year *int) *int {
	if year != nil {
		return year
	}
	y := s.now().Year()
	return &y
}

func (r *Report) count(kind opKind) {
	switch kind {
	case opDetach:
		r.Detached++
	case opAttach:
		r.Attached++
	case opCreate:
		r.Created++
	}
}

// detachable returns the ids in current that desired does not mention.
func detachable(current []uint, desired []ChildRef) []uint {
	keep := make(map[uint]struct{}, len(desired))
	for _, child := range desired {
		if child.hasID() {
			keep[*child.ID] = struct{}{}
		}
	}
	var out []uint
	for _, id := range current {
		if _, ok := keep[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// affected turns a rows-affected result into an error, treating zero rows
// as a missing child.
func affected(rows int64, err error) func(format string, args ...any) error {
	return func(format string, args ...any) error {
		op := fmt.Sprintf(format, args...)
		if err != nil {
			return wrapStoreErr(op, err)
		}
		if rows == 0 {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil
	}
}

func firstNonNil[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
