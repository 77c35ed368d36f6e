// Package store is the process-local cache of control-plane entities.
//
// The store never owns data: every entry is a possibly-stale copy of
// backend state, tracked with its fetch timestamp. Expired entries are
// served stale-while-revalidate; concurrent fetches for one key collapse
// into a single request; a response issued before the latest Invalidate
// for its key is discarded rather than merged.
package store

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/planedeck/planedeck/pkg/api"
	"github.com/planedeck/planedeck/pkg/sys/intern"
)

// State classifies a cache lookup.
type State int

const (
	Absent State = iota
	Fresh
	Stale
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Update notifies subscribers that a key changed (merge or failed refresh).
type Update struct {
	Kind api.ResourceKind
	Key  string
	Err  error
}

const listPrefix = "list?"

// listKey derives the cache key for a list request. Params encode
// canonically, so equal filters share one entry.
func listKey(p api.Params) string {
	return listPrefix + p.Encode()
}

type cacheKey struct {
	kind uint32
	key  uint32
}

func ckey(kind api.ResourceKind, key string) cacheKey {
	return cacheKey{kind: intern.Get(string(kind)), key: intern.Get(key)}
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// Store caches fetched entities keyed by (kind, id) and list pages keyed
// by (kind, params).
type Store struct {
	client api.Client
	logger *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	entries  map[cacheKey]entry
	issued   map[cacheKey]uint64
	inflight map[string]int

	group singleflight.Group

	subMu sync.Mutex
	subs  map[api.ResourceKind][]chan Update

	ctx    context.Context
	cancel context.CancelFunc

	hits          metric.Int64Counter
	misses        metric.Int64Counter
	revalidations metric.Int64Counter
	joins         metric.Int64Counter
}

// Option adjusts a Store at construction time.
type Option func(*Store)

// WithTTL sets the freshness window for cached entries.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// WithLogger sets the store logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock injects a time source. Tests use this to expire entries
// without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

const DefaultTTL = 30 * time.Second

// New builds a Store over client. Close releases background refreshes.
func New(client api.Client, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		client:   client,
		ttl:      DefaultTTL,
		now:      time.Now,
		entries:  make(map[cacheKey]entry),
		issued:   make(map[cacheKey]uint64),
		inflight: make(map[string]int),
		subs:     make(map[api.ResourceKind][]chan Update),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	meter := otel.Meter("planedeck/store")
	s.hits, _ = meter.Int64Counter("store.cache.hits")
	s.misses, _ = meter.Int64Counter("store.cache.misses")
	s.revalidations, _ = meter.Int64Counter("store.cache.revalidations")
	s.joins, _ = meter.Int64Counter("store.fetch.dedup_joins")
	return s
}

// Lookup reads the cache without fetching.
func (s *Store) Lookup(kind api.ResourceKind, key string) (any, State) {
	s.mu.RLock()
	e, ok := s.entries[ckey(kind, key)]
	s.mu.RUnlock()
	if !ok {
		return nil, Absent
	}
	if s.now().Sub(e.fetchedAt) > s.ttl {
		return e.value, Stale
	}
	return e.value, Fresh
}

// Get returns the entity for (kind, id), fetching on miss. A stale hit is
// served immediately and refreshed in the background.
func (s *Store) Get(ctx context.Context, kind api.ResourceKind, id string) (any, error) {
	return s.getByKey(ctx, kind, id)
}

// List returns the cached page for (kind, params), fetching on miss.
func (s *Store) List(ctx context.Context, kind api.ResourceKind, p api.Params) (any, error) {
	return s.getByKey(ctx, kind, listKey(p))
}

func (s *Store) getByKey(ctx context.Context, kind api.ResourceKind, key string) (any, error) {
	v, state := s.Lookup(kind, key)
	switch state {
	case Fresh:
		s.hits.Add(ctx, 1)
		return v, nil
	case Stale:
		s.hits.Add(ctx, 1)
		s.revalidations.Add(ctx, 1)
		go s.revalidate(kind, key)
		return v, nil
	}
	s.misses.Add(ctx, 1)
	return s.fetch(ctx, kind, key)
}

// Invalidate drops entries. With ids it drops those entities; without, it
// drops every entry of the kind, list pages included. In-flight responses
// issued before the invalidation will be discarded on arrival, and their
// flights forgotten so later callers never attach to them.
func (s *Store) Invalidate(kind api.ResourceKind, ids ...string) {
	kindID := intern.Get(string(kind))

	s.mu.Lock()
	if len(ids) == 0 {
		for ck := range s.entries {
			if ck.kind == kindID {
				delete(s.entries, ck)
				s.issued[ck]++
			}
		}
		// Keys with a fetch in flight may not be in entries yet; their
		// generations bump too, or the landing response would merge.
		prefix := string(kind) + "\x00"
		for fk := range s.inflight {
			if key, ok := strings.CutPrefix(fk, prefix); ok {
				s.issued[ckey(kind, key)]++
				s.group.Forget(fk)
			}
		}
	} else {
		for _, id := range ids {
			ck := cacheKey{kind: kindID, key: intern.Get(id)}
			delete(s.entries, ck)
			s.issued[ck]++
			s.group.Forget(flightKey(kind, id))
		}
	}
	s.mu.Unlock()
}

// Clear wipes the whole cache (sign-out).
func (s *Store) Clear() {
	s.mu.Lock()
	for ck := range s.entries {
		delete(s.entries, ck)
		s.issued[ck]++
	}
	for fk := range s.inflight {
		if kindStr, key, ok := strings.Cut(fk, "\x00"); ok {
			s.issued[ckey(api.ResourceKind(kindStr), key)]++
		}
		s.group.Forget(fk)
	}
	s.mu.Unlock()
}

// Close stops background refreshes and closes subscriber channels.
func (s *Store) Close() {
	s.cancel()
	s.subMu.Lock()
	for kind, chans := range s.subs {
		for _, ch := range chans {
			close(ch)
		}
		delete(s.subs, kind)
	}
	s.subMu.Unlock()
}

// Subscribe returns a channel receiving an Update whenever an entry of
// kind is merged or a refresh for it fails. Slow consumers drop updates
// rather than block the store.
func (s *Store) Subscribe(kind api.ResourceKind) <-chan Update {
	ch := make(chan Update, 16)
	s.subMu.Lock()
	s.subs[kind] = append(s.subs[kind], ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) notify(kind api.ResourceKind, key string, err error) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs[kind] {
		select {
		case ch <- Update{Kind: kind, Key: key, Err: err}:
		default:
		}
	}
}

func flightKey(kind api.ResourceKind, key string) string {
	return string(kind) + "\x00" + key
}

// fetch performs the deduplicated network fetch for one key and merges the
// result unless the key was invalidated while the request was in flight.
// Merge and notify happen inside the flight so they run once per flight,
// against the generation the flight's issuer saw; joiners only share the
// return value.
func (s *Store) fetch(ctx context.Context, kind api.ResourceKind, key string) (any, error) {
	ck := ckey(kind, key)
	fk := flightKey(kind, key)

	s.mu.Lock()
	gen := s.issued[ck]
	s.inflight[fk]++
	s.mu.Unlock()

	v, err, shared := s.group.Do(fk, func() (any, error) {
		v, err := s.fetchRemote(ctx, kind, key)
		if err != nil {
			s.logger.Warn("fetch failed", "kind", kind, "key", key, "error", err)
			s.notify(kind, key, err)
			return nil, err
		}

		s.mu.Lock()
		applied := s.issued[ck] == gen
		if applied {
			s.entries[ck] = entry{value: v, fetchedAt: s.now()}
		}
		s.mu.Unlock()

		if applied {
			s.notify(kind, key, nil)
		} else {
			s.logger.Debug("discarded superseded response", "kind", kind, "key", key)
		}
		return v, nil
	})

	s.mu.Lock()
	if s.inflight[fk]--; s.inflight[fk] == 0 {
		delete(s.inflight, fk)
	}
	s.mu.Unlock()

	if shared {
		s.joins.Add(ctx, 1)
	}
	return v, err
}

// revalidate refreshes one stale key in the background. It runs on the
// store's own context so page navigation cannot cancel it mid-merge.
func (s *Store) revalidate(kind api.ResourceKind, key string) {
	if _, err := s.fetch(s.ctx, kind, key); err != nil {
		s.logger.Warn("background refresh failed", "kind", kind, "key", key, "error", err)
	}
}

// fetchRemote dispatches one key to the typed client call.
func (s *Store) fetchRemote(ctx context.Context, kind api.ResourceKind, key string) (any, error) {
	if p, ok := strings.CutPrefix(key, listPrefix); ok {
		params := api.DecodeParams(p)
		switch kind {
		case api.KindTenant:
			return s.client.ListTenants(ctx, params)
		case api.KindPolicy:
			return s.client.ListPolicies(ctx, params)
		case api.KindWorkflow:
			return s.client.ListWorkflows(ctx, params)
		case api.KindLineageEvent:
			return s.client.ListLineageEvents(ctx, params)
		}
		return nil, api.ErrNotFound
	}

	switch kind {
	case api.KindTenant:
		return s.client.GetTenant(ctx, key)
	case api.KindPolicy:
		return s.client.GetPolicy(ctx, key)
	case api.KindWorkflow:
		return s.client.GetWorkflow(ctx, key)
	}
	// Lineage events are append-only and have no GET-by-id endpoint.
	return nil, api.ErrNotFound
}

// GetAs is the typed form of Store.Get.
func GetAs[T any](ctx context.Context, s *Store, kind api.ResourceKind, id string) (T, error) {
	var zero T
	v, err := s.Get(ctx, kind, id)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, api.ErrNotFound
	}
	return out, nil
}

// ListAs is the typed form of Store.List.
func ListAs[T any](ctx context.Context, s *Store, kind api.ResourceKind, p api.Params) (api.Page[T], error) {
	v, err := s.List(ctx, kind, p)
	if err != nil {
		return api.Page[T]{}, err
	}
	out, ok := v.(api.Page[T])
	if !ok {
		return api.Page[T]{}, api.ErrNotFound
	}
	return out, nil
}
