package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"pilot_logbook/internal/logbook"
	"pilot_logbook/internal/models"
)

func keys(userID uint) []string {
	id := strconv.FormatUint(uint64(userID), 10)
	return []string{
		entriesKeyPrefix + id,
		processedKeyPrefix + id,
		airportsKeyPrefix + id,
		timestampKeyPrefix + id,
	}
}

// readCache returns the cached logbook when it is younger than maxAge, nil on
// a miss, or an error wrapping errCorrupt when a stored value cannot be decoded.
func (p *Pipeline) readCache(ctx context.Context, userID uint, maxAge time.Duration) (*Logbook, error) {
	k := keys(userID)

	raw, ok, err := p.cache.Get(ctx, k[3])
	if err != nil || !ok {
		return nil, err
	}
	fetchedAt, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp: %v", errCorrupt, err)
	}
	if p.now().Sub(fetchedAt) >= maxAge {
		return nil, nil
	}

	lb := &Logbook{FetchedAt: fetchedAt, FromCache: true}
	targets := []interface{}{&lb.Entries, &lb.Enriched, &lb.Airports}
	for i, target := range targets {
		raw, ok, err := p.cache.Get(ctx, k[i])
		if err != nil || !ok {
			return nil, err
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", errCorrupt, k[i], err)
		}
	}
	if lb.Entries == nil {
		lb.Entries = []models.FlightLogEntry{}
	}
	if lb.Enriched == nil {
		lb.Enriched = []logbook.EnrichedEntry{}
	}
	if lb.Airports == nil {
		lb.Airports = map[uint]models.Airport{}
	}
	return lb, nil
}

// write caches lb. When the store refuses the write, it is cleared and the
// write retried once; a second failure leaves the user uncached.
func (p *Pipeline) write(ctx context.Context, userID uint, lb *Logbook) {
	log := logrus.WithField("user_id", userID)
	if ctx.Err() != nil {
		return
	}

	err := p.writeOnce(ctx, userID, lb)
	if err == nil {
		return
	}
	log.WithError(err).Warn("Logbook cache write failed, clearing cache and retrying")
	if err := p.cache.Clear(ctx); err != nil {
		log.WithError(err).Warn("Could not clear logbook cache")
	}
	if err := p.writeOnce(ctx, userID, lb); err != nil {
		log.WithError(err).Error("Logbook cache write failed again, continuing uncached")
		_ = p.Invalidate(ctx, userID)
	}
}

func (p *Pipeline) writeOnce(ctx context.Context, userID uint, lb *Logbook) error {
	k := keys(userID)
	values := []interface{}{lb.Entries, lb.Enriched, lb.Airports}
	for i, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k[i], err)
		}
		if err := p.cache.Set(ctx, k[i], raw, p.retention); err != nil {
			return err
		}
	}
	// The timestamp goes last so a partial write never looks fresh.
	stamp := []byte(lb.FetchedAt.UTC().Format(time.RFC3339Nano))
	return p.cache.Set(ctx, k[3], stamp, p.retention)
}
