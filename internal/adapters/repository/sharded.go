package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/pitchfx/internal/domain/pitchfx"
	"github.com/okian/pitchfx/pkg/metrics"
)

const defaultShardCount = 8

// ShardedStore is an in-memory Store. A game and all of its applications
// live in the shard chosen by hashing the game id, so writes for distinct
// games rarely contend.
type ShardedStore struct {
	shards       []*shard
	shardCount   int
	games        atomic.Int64
	applications atomic.Int64
}

type shard struct {
	mu    sync.RWMutex
	games map[string]*entry
}

// entry indexes one result by pitcher.
type entry struct {
	result    *pitchfx.Result
	byPitcher map[int]int
}

// NewShardedStore creates a new store with configuration options.
func NewShardedStore(opts ...Option) *ShardedStore {
	s := &ShardedStore{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s)
	}
	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{games: make(map[string]*entry)}
	}
	metrics.UpdateRepositoryShardCount(s.shardCount)
	return s
}

func (s *ShardedStore) shardFor(gameID string) *shard {
	return s.shards[xxhash.Sum64String(gameID)%uint64(len(s.shards))]
}

// Put implements Store.
func (s *ShardedStore) Put(_ context.Context, res *pitchfx.Result) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if res == nil {
		metrics.RecordErrorByComponent("repository", "nil_result")
		return ErrNilResult
	}

	e := &entry{result: res, byPitcher: make(map[int]int, len(res.Applications))}
	for i := range res.Applications {
		e.byPitcher[res.Applications[i].PitcherID] = i
	}

	sh := s.shardFor(res.GameID)
	sh.mu.Lock()
	prev, replaced := sh.games[res.GameID]
	sh.games[res.GameID] = e
	sh.mu.Unlock()

	if replaced {
		s.applications.Add(int64(len(e.byPitcher) - len(prev.byPitcher)))
	} else {
		s.games.Add(1)
		s.applications.Add(int64(len(e.byPitcher)))
	}
	metrics.UpdateRepositoryGames(int(s.games.Load()))
	metrics.UpdateRepositoryApplications(int(s.applications.Load()))
	return nil
}

func (s *ShardedStore) lookup(gameID string) (*entry, bool) {
	sh := s.shardFor(gameID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, ok := sh.games[gameID]
	return e, ok
}

func observeQuery(start time.Time) {
	metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
}

// Game implements Store.
func (s *ShardedStore) Game(_ context.Context, gameID string) (*pitchfx.Result, error) {
	defer observeQuery(time.Now())

	e, ok := s.lookup(gameID)
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	return e.result, nil
}

func (s *ShardedStore) index(k Key) (*entry, int, error) {
	e, ok := s.lookup(k.GameID)
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, 0, fmt.Errorf("game %s: %w", k.GameID, ErrNotFound)
	}
	i, ok := e.byPitcher[k.PitcherID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, 0, fmt.Errorf("pitcher %d in game %s: %w", k.PitcherID, k.GameID, ErrNotFound)
	}
	return e, i, nil
}

// Application implements Store.
func (s *ShardedStore) Application(_ context.Context, k Key) (pitchfx.PitchApplication, error) {
	defer observeQuery(time.Now())

	e, i, err := s.index(k)
	if err != nil {
		return pitchfx.PitchApplication{}, err
	}
	return e.result.Applications[i], nil
}

// Log implements Store.
func (s *ShardedStore) Log(_ context.Context, k Key) (pitchfx.PitchFxLog, error) {
	defer observeQuery(time.Now())

	e, i, err := s.index(k)
	if err != nil {
		return pitchfx.PitchFxLog{}, err
	}
	return e.result.Logs[i], nil
}

// GameIDs implements Store.
func (s *ShardedStore) GameIDs(_ context.Context) []string {
	ids := make([]string, 0, s.games.Load())
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id := range sh.games {
			ids = append(ids, id)
		}
		sh.mu.RUnlock()
	}
	slices.Sort(ids)
	return ids
}

// Results returns every stored result ordered by game id.
func (s *ShardedStore) Results(ctx context.Context) []*pitchfx.Result {
	ids := s.GameIDs(ctx)
	out := make([]*pitchfx.Result, 0, len(ids))
	for _, id := range ids {
		if e, ok := s.lookup(id); ok {
			out = append(out, e.result)
		}
	}
	return out
}

// Count implements Store.
func (s *ShardedStore) Count(_ context.Context) int {
	return int(s.games.Load())
}

// ApplicationCount returns the number of stored pitch applications.
func (s *ShardedStore) ApplicationCount() int {
	return int(s.applications.Load())
}
