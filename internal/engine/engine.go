// Package engine polls the EVE map API and maintains a rolling history
// of per-system kill, jump and sovereignty observations for the watched
// topology. It is the only writer of that history; the serving layer
// reads it through Update and Latest.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/evemaps/pipecleaner/internal/esi"
	"github.com/evemaps/pipecleaner/internal/history"
	"github.com/evemaps/pipecleaner/internal/merge"
	"github.com/evemaps/pipecleaner/internal/topology"
)

// observations bundles the three tables produced by one successful query,
// each reindexed to exactly the universal system id set.
type observations struct {
	kills map[esi.SystemID]esi.KillStats
	jumps map[esi.SystemID]esi.JumpStats
	sov   map[esi.SystemID]esi.SovStats
}

// Engine owns the observation history and the staleness-gated refresh
// path. All mutable state is guarded by mu; the check-refresh-read
// sequence in Update runs as one atomic unit so concurrent requests
// cannot issue duplicate queries or interleave writes.
type Engine struct {
	logger logrus.FieldLogger
	cfg    Config
	client esi.Client
	topo   *topology.Topology

	mu            sync.Mutex
	now           func() time.Time
	lastQueryTime time.Time
	kills         *history.Store[esi.KillStats]
	jumps         *history.Store[esi.JumpStats]
	sov           *history.Store[esi.SovStats]
}

// New constructs the engine and performs the initial load, retrying the
// query up to cfg.Retry times. If every attempt fails no engine is
// returned; the process cannot proceed without a first snapshot.
func New(
	ctx context.Context,
	logger logrus.FieldLogger,
	cfg Config,
	client esi.Client,
	topo *topology.Topology,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if client == nil {
		return nil, fmt.Errorf("client cannot be nil")
	}

	if topo == nil {
		return nil, fmt.Errorf("topology cannot be nil")
	}

	e := &Engine{
		logger: logger.WithField("component", "engine"),
		cfg:    cfg,
		client: client,
		topo:   topo,
		now:    time.Now,
		kills:  history.NewStore[esi.KillStats](cfg.MaxFrames),
		jumps:  history.NewStore[esi.JumpStats](cfg.MaxFrames),
		sov:    history.NewStore[esi.SovStats](cfg.MaxFrames),
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.Retry; attempt++ {
		ts, obs, err := e.query(ctx)
		if err != nil {
			lastErr = err

			e.logger.WithError(err).WithFields(logrus.Fields{
				"attempt":  attempt,
				"attempts": cfg.Retry,
			}).Warn("Map API query failed during initialization")

			continue
		}

		e.store(ts, obs)

		e.logger.WithFields(logrus.Fields{
			"systems":   len(topo.SystemIDs()),
			"timestamp": ts,
		}).Info("Initial map snapshot loaded")

		return e, nil
	}

	return nil, fmt.Errorf("map API query failed %d times during initialization: %w", cfg.Retry, lastErr)
}

// query requests kills, jumps and sovereignty for the universal system
// id set. It either succeeds as a whole or fails as a whole; a failure
// leaves lastQueryTime untouched. On success every returned table holds
// an entry for every universal system id, zero-valued where the API
// reported nothing.
func (e *Engine) query(ctx context.Context) (time.Time, observations, error) {
	ids := e.topo.SystemIDs()

	rawKills, err := e.client.KillsBySystem(ctx, ids)
	if err != nil {
		mapQueriesTotal.WithLabelValues("error").Inc()

		return time.Time{}, observations{}, fmt.Errorf("query kills: %w", err)
	}

	rawJumps, err := e.client.JumpsBySystem(ctx, ids)
	if err != nil {
		mapQueriesTotal.WithLabelValues("error").Inc()

		return time.Time{}, observations{}, fmt.Errorf("query jumps: %w", err)
	}

	rawSov, err := e.client.SovBySystem(ctx, ids)
	if err != nil {
		mapQueriesTotal.WithLabelValues("error").Inc()

		return time.Time{}, observations{}, fmt.Errorf("query sovereignty: %w", err)
	}

	ts := e.now()
	e.lastQueryTime = ts

	mapQueriesTotal.WithLabelValues("success").Inc()

	return ts, observations{
		kills: reindex(ids, rawKills),
		jumps: reindex(ids, rawJumps),
		sov:   reindex(ids, rawSov),
	}, nil
}

// store appends one snapshot per observation kind. Eviction is applied
// independently per kind by each store.
func (e *Engine) store(ts time.Time, obs observations) {
	e.kills.Put(ts, obs.kills)
	e.jumps.Put(ts, obs.jumps)
	e.sov.Put(ts, obs.sov)

	historyFrames.WithLabelValues("kills").Set(float64(e.kills.Len()))
	historyFrames.WithLabelValues("jumps").Set(float64(e.jumps.Len()))
	historyFrames.WithLabelValues("sov").Set(float64(e.sov.Len()))
}

// Update refreshes the history if the last successful query is older
// than the update interval, then returns the latest merged view. A
// failed refresh is logged and counted but never surfaced: callers get
// the previous (stale) view instead.
func (e *Engine) Update(ctx context.Context) (time.Time, []merge.Row) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.now().Sub(e.lastQueryTime) > e.cfg.UpdateInterval {
		ts, obs, err := e.query(ctx)
		if err != nil {
			refreshFailuresTotal.Inc()

			e.logger.WithError(err).Warn("Refresh query failed, serving stale data")
		} else {
			e.store(ts, obs)

			e.logger.WithField("timestamp", ts).Debug("Map snapshot refreshed")
		}
	}

	return e.latestLocked()
}

// Latest returns the latest merged view without attempting a refresh.
func (e *Engine) Latest() (time.Time, []merge.Row) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.latestLocked()
}

// latestLocked merges the newest kill and jump snapshots onto the
// topology. Callers must hold mu.
func (e *Engine) latestLocked() (time.Time, []merge.Row) {
	ts := e.lastQueryTime

	kills, err := e.kills.Get(ts)
	if err != nil {
		// Timestamp bookkeeping mismatch: an engine defect, not a
		// recoverable condition.
		e.logger.WithError(err).WithField("timestamp", ts).Error("Kills history lookup failed")

		return ts, []merge.Row{}
	}

	jumps, err := e.jumps.Get(ts)
	if err != nil {
		e.logger.WithError(err).WithField("timestamp", ts).Error("Jumps history lookup failed")

		return ts, []merge.Row{}
	}

	return ts, merge.Merge(e.topo.Rows(), kills, jumps)
}

// Sovereignty returns the newest sovereignty snapshot without
// attempting a refresh.
func (e *Engine) Sovereignty() (time.Time, map[esi.SystemID]esi.SovStats) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ts, table, err := e.sov.Latest()
	if err != nil {
		e.logger.WithError(err).Error("Sovereignty history lookup failed")

		return ts, map[esi.SystemID]esi.SovStats{}
	}

	return ts, table
}

// Dump is a persistence hook and currently does nothing.
// TODO: serialize per-kind history snapshots to disk, versioned by timestamp.
func (e *Engine) Dump() error {
	return nil
}

// reindex restricts a raw API result to exactly the given id set,
// filling systems absent from the response with zero values.
func reindex[T any](ids []esi.SystemID, raw map[esi.SystemID]T) map[esi.SystemID]T {
	out := make(map[esi.SystemID]T, len(ids))
	for _, id := range ids {
		out[id] = raw[id]
	}

	return out
}
