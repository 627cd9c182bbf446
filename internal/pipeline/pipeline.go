// Package pipeline loads a pilot's logbook for display, serving a cached copy
// while a fresh one is fetched in the background.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"pilot_logbook/internal/cache"
	"pilot_logbook/internal/logbook"
	"pilot_logbook/internal/models"
)

const (
	// DefaultMaxAge is how long a cached logbook is served without a blocking fetch.
	DefaultMaxAge = 30 * time.Minute
	// DefaultRetention bounds how long cached values stay in the store at all.
	DefaultRetention = 7 * 24 * time.Hour
)

const (
	entriesKeyPrefix   = "logbook_entries_"
	processedKeyPrefix = "processed_entries_"
	airportsKeyPrefix  = "airport_data_"
	timestampKeyPrefix = "logbook_cache_timestamp_"
)

var errCorrupt = errors.New("corrupt cache entry")

// Source provides the raw logbook data. Both the API client and the database
// store satisfy it.
type Source interface {
	ListEntries(ctx context.Context, userID uint) ([]models.FlightLogEntry, error)
	AirportsByIDs(ctx context.Context, ids []uint) (map[uint]models.Airport, error)
}

// Logbook is a user's entries with everything needed to display them.
type Logbook struct {
	Entries   []models.FlightLogEntry
	Enriched  []logbook.EnrichedEntry
	Airports  map[uint]models.Airport
	FetchedAt time.Time
	FromCache bool
}

func emptyLogbook() *Logbook {
	return &Logbook{
		Entries:  []models.FlightLogEntry{},
		Enriched: []logbook.EnrichedEntry{},
		Airports: map[uint]models.Airport{},
	}
}

// RefreshFunc observes the outcome of a background refresh.
type RefreshFunc func(userID uint, lb *Logbook, err error)

type Pipeline struct {
	source    Source
	cache     cache.Store
	now       func() time.Time
	retention time.Duration
	onRefresh RefreshFunc
	group     singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

func New(source Source, store cache.Store) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		source:    source,
		cache:     store,
		now:       time.Now,
		retention: DefaultRetention,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

func (p *Pipeline) WithRetention(d time.Duration) *Pipeline {
	p.retention = d
	return p
}

// OnRefresh registers fn to be called after every background refresh.
func (p *Pipeline) OnRefresh(fn RefreshFunc) *Pipeline {
	p.onRefresh = fn
	return p
}

// Wait blocks until background refreshes started so far have finished.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Close cancels background refreshes and waits for them to return. Loads
// that need a fetch fail once the pipeline is closed.
func (p *Pipeline) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
	p.wg.Wait()
}

// Load returns the user's logbook. A cached copy younger than maxAge is
// returned at once and a refresh is started in the background; otherwise the
// logbook is fetched and cached before returning. A non-positive maxAge means
// DefaultMaxAge. On failure the returned logbook is empty, never nil.
func (p *Pipeline) Load(ctx context.Context, userID uint, maxAge time.Duration) (*Logbook, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	log := logrus.WithField("user_id", userID)

	lb, err := p.readCache(ctx, userID, maxAge)
	switch {
	case errors.Is(err, errCorrupt):
		log.WithError(err).Warn("Logbook cache corrupt, discarding")
		if err := p.Invalidate(ctx, userID); err != nil {
			log.WithError(err).Warn("Could not discard corrupt logbook cache")
		}
	case err != nil:
		log.WithError(err).Warn("Logbook cache read failed")
	case lb != nil:
		p.refreshInBackground(userID)
		return lb, nil
	}

	lb, err = p.refresh(ctx, userID)
	if err != nil {
		return emptyLogbook(), err
	}
	return lb, nil
}

// Refresh fetches the logbook, bypassing and then updating the cache.
func (p *Pipeline) Refresh(ctx context.Context, userID uint) (*Logbook, error) {
	lb, err := p.refresh(ctx, userID)
	if err != nil {
		return emptyLogbook(), err
	}
	return lb, nil
}

// Invalidate drops everything cached for the user.
func (p *Pipeline) Invalidate(ctx context.Context, userID uint) error {
	return p.cache.Delete(ctx, keys(userID)...)
}

func (p *Pipeline) refreshInBackground(userID uint) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		lb, err := p.refresh(p.ctx, userID)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("Background logbook refresh failed")
		}
		if p.onRefresh != nil {
			p.onRefresh(userID, lb, err)
		}
	}()
}

// refresh fetches and caches the logbook. Concurrent calls for one user share
// a single fetch, which runs under the pipeline's lifetime so a caller giving
// up does not fail the others.
func (p *Pipeline) refresh(ctx context.Context, userID uint) (*Logbook, error) {
	ch := p.group.DoChan(strconv.FormatUint(uint64(userID), 10), func() (interface{}, error) {
		lb, err := p.fetch(p.ctx, userID)
		if err != nil {
			return nil, err
		}
		p.write(p.ctx, userID, lb)
		return lb, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Logbook), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pipeline) fetch(ctx context.Context, userID uint) (*Logbook, error) {
	entries, err := p.source.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}
	if entries == nil {
		entries = []models.FlightLogEntry{}
	}

	airports := map[uint]models.Airport{}
	if ids := airportIDs(entries); len(ids) > 0 {
		resolved, err := p.source.AirportsByIDs(ctx, ids)
		if err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("Airport lookup failed, routes shown unresolved")
		} else if resolved != nil {
			airports = resolved
		}
	}

	return &Logbook{
		Entries:   entries,
		Enriched:  logbook.EnrichAll(entries, airports),
		Airports:  airports,
		FetchedAt: p.now(),
	}, nil
}

// airportIDs collects the distinct airport ids referenced by entries, ascending.
func airportIDs(entries []models.FlightLogEntry) []uint {
	seen := map[uint]bool{}
	var ids []uint
	for _, e := range entries {
		for _, id := range e.RoutePlan().AirportIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
