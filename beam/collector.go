package beam

import (
	"sync"

	"github.com/pbnjay/memory"

	"beamsolve/board"
)

// shardCount is the number of mutex-guarded buckets the collector spreads
// inserts across. 17 is prime and small, chosen purely to spread lock
// contention across a handful of goroutines, not for any hashing property.
const shardCount = 17

// entrySizeEstimate approximates the bytes one collector bucket entry
// occupies (a *Node pointer plus its map-slice overhead), used to turn a
// memory fraction into an initial per-shard map capacity the same way the
// teacher's transposition table turns fractionOfMemory into a table size.
const entrySizeEstimate = 96

type shard struct {
	mu sync.Mutex
	// nodes is keyed by the xxhash of the board's Bricks view; a bucket
	// holds every node seen so far whose hash collided, disambiguated by
	// BricksEqual.
	nodes map[uint64][]*Node
}

// Collector is a lock-sharded deduplication table keyed by board shape
// (the Bricks view, ignoring step/score/collapse counters). Concurrent
// Insert calls from many goroutines are safe; on a duplicate key, the
// entry with the higher score wins, ties broken toward the lower
// CollapseCount (fewer clears reached the same shape implies more
// remaining headroom). That comparison is commutative, so the surviving
// set after a full layer's worth of inserts doesn't depend on insertion
// order.
type Collector struct {
	shards [shardCount]shard
}

// NewCollector returns an empty collector, ready for concurrent inserts,
// with no pre-sized capacity hint for its per-shard maps.
func NewCollector() *Collector {
	c := &Collector{}
	for i := range c.shards {
		c.shards[i].nodes = make(map[uint64][]*Node)
	}
	return c
}

// NewCollectorWithMemoryBudget returns an empty collector whose per-shard
// maps are pre-sized from a fraction of total system memory, the same
// approach the teacher's transposition table uses to size itself from
// memory.TotalMemory() — spending a memory budget up front avoids map
// growth/rehash churn during a layer with a large frontier. A
// non-positive fraction behaves like NewCollector.
func NewCollectorWithMemoryBudget(fractionOfMemory float64) *Collector {
	if fractionOfMemory <= 0 {
		return NewCollector()
	}

	budget := fractionOfMemory * float64(memory.TotalMemory())
	perShard := int(budget / entrySizeEstimate / shardCount)
	if perShard < 0 {
		perShard = 0
	}

	c := &Collector{}
	for i := range c.shards {
		c.shards[i].nodes = make(map[uint64][]*Node, perShard)
	}
	return c
}

func (c *Collector) shardFor(b *board.Situation) *shard {
	idx := b.ShardHash() % shardCount
	return &c.shards[idx]
}

// betterOf reports whether challenger should replace incumbent under the
// best-wins-on-duplicate rule: higher score wins; on a score tie, lower
// CollapseCount wins.
func betterOf(incumbent, challenger *Node) bool {
	if challenger.Board.Score != incumbent.Board.Score {
		return challenger.Board.Score > incumbent.Board.Score
	}
	return challenger.Board.CollapseCount < incumbent.Board.CollapseCount
}

// Insert adds n to the collector, replacing any existing entry with the
// same board shape only if n is better under betterOf.
func (c *Collector) Insert(n *Node) {
	sh := c.shardFor(&n.Board)
	h := n.Board.BricksHash()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	bucket := sh.nodes[h]
	for i, existing := range bucket {
		if existing.Board.BricksEqual(&n.Board) {
			if betterOf(existing, n) {
				bucket[i] = n
			}
			return
		}
	}
	sh.nodes[h] = append(bucket, n)
}

// MoveTo drains every shard into a single slice, leaving the collector
// empty and ready for the next layer.
func (c *Collector) MoveTo() []*Node {
	var out []*Node
	for i := range c.shards {
		sh := &c.shards[i]
		sh.mu.Lock()
		for _, bucket := range sh.nodes {
			out = append(out, bucket...)
		}
		sh.nodes = make(map[uint64][]*Node)
		sh.mu.Unlock()
	}
	return out
}
