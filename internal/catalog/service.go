package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const DefaultMaxConcurrency = 8

// Options tune the write pipelines.
type Options struct {
	// MaxConcurrency bounds the goroutines used by one reconciliation or
	// one aggregation.
	MaxConcurrency int

	// Transactional runs resolveParent, persist and reconcileChildren in a
	// single store transaction. Children are then reconciled one at a time
	// and the first failing child rolls back the whole write.
	Transactional bool
}

// Service exposes the catalog operations used by the HTTP layer. Writes
// run as a fixed pipeline of stages:
//
//	resolveParent -> persist -> reconcileChildren -> aggregate
//
// Updates load the current row before the first stage so a missing id
// fails before anything is written.
type Service struct {
	store      Store
	metrics    *Metrics
	opts       Options
	resolver   *Resolver
	sync       *Synchronizer
	deleter    *Deleter
	aggregator *Aggregator
}

func NewService(store Store, opts Options) *Service {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	metrics := NewMetrics()
	return &Service{
		store:      store,
		metrics:    metrics,
		opts:       opts,
		resolver:   NewResolver(store, metrics),
		sync:       NewSynchronizer(store, metrics, opts.MaxConcurrency),
		deleter:    NewDeleter(store),
		aggregator: NewAggregator(store, metrics, opts.MaxConcurrency),
	}
}

func (s *Service) Metrics() *Metrics {
	return s.metrics
}

func (s *Service) Transactional() bool {
	return s.opts.Transactional
}

// pipeline holds the write stages bound to one store, either the root
// store or a transaction.
type pipeline struct {
	store    Store
	resolver *Resolver
	sync     *Synchronizer
	deleter  *Deleter
	strict   bool
}

// reconciled turns a reconciliation report into the stage result. Only
// strict pipelines fail on child errors. A child id with no row is
// reported as invalid input, not ErrNotFound.
func (p pipeline) reconciled(report Report) error {
	if !p.strict || report.Failed == 0 {
		return nil
	}
	err := report.Err()
	if errors.Is(err, ErrNotFound) {
		return invalidInput("reconcile %s of %d: %v", report.Relation, report.ParentID, err)
	}
	return fmt.Errorf("reconcile %s of %d: %w", report.Relation, report.ParentID, err)
}

// write runs fn against the root store, or inside a transaction when the
// service is transactional.
func (s *Service) write(ctx context.Context, fn func(p pipeline) error) error {
	if !s.opts.Transactional {
		return fn(pipeline{
			store:    s.store,
			resolver: s.resolver,
			sync:     s.sync,
			deleter:  s.deleter,
		})
	}
	return s.store.Transaction(ctx, func(tx Store) error {
		return fn(pipeline{
			store:    tx,
			resolver: NewResolver(tx, s.metrics),
			sync:     s.sync.bind(tx, true),
			deleter:  s.deleter.bind(tx),
			strict:   true,
		})
	})
}

// Stats holds row counts per entity kind.
type Stats struct {
	Artists int64 `json:"artists"`
	Albums  int64 `json:"albums"`
	Songs   int64 `json:"songs"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountArtists(ctx)
		stats.Artists = n
		return wrapStoreErr("count artists", err)
	})
	g.Go(func() error {
		n, err := s.store.CountAlbums(ctx)
		stats.Albums = n
		return wrapStoreErr("count albums", err)
	})
	g.Go(func() error {
		n, err := s.store.CountSongs(ctx)
		stats.Songs = n
		return wrapStoreErr("count songs", err)
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
