package gamestate

import (
	"sync"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/patience/game"
)

const (
	numShards = 256

	// minCapacity keeps the shards from rehashing constantly early in a
	// big search. Large searches store tens of millions of states.
	minCapacity = 4096 * 1024

	// entrySize approximates a map entry: three key words, the count,
	// and bucket overhead.
	entrySize = 40

	// memoryFraction of total system memory bounds the initial reserve.
	memoryFraction = 0.10
)

type shard struct {
	mu sync.Mutex
	m  map[State]uint16
}

// Memory is the closed list: a lock-striped map from position to the
// lowest move count at which the search has reached it. The stored count
// for a key only ever decreases, which is what rules out infinite
// cycles: any revisit with a no-better count is pruned.
type Memory struct {
	shards [numShards]shard
}

// NewMemory reserves a closed list sized to the smaller of the standard
// minimum capacity and a fraction of system memory.
func NewMemory() *Memory {
	capacity := minCapacity
	if byFraction := int(memoryFraction * float64(memory.TotalMemory()) / entrySize); byFraction < capacity && byFraction > 0 {
		capacity = byFraction
	}
	return NewMemorySized(capacity)
}

// NewMemorySized reserves a closed list for about capacity positions.
func NewMemorySized(capacity int) *Memory {
	log.Debug().Int("capacity", capacity).Msg("closed-list-reserve")
	mem := &Memory{}
	for i := range mem.shards {
		mem.shards[i].m = make(map[State]uint16, capacity/numShards)
	}
	return mem
}

// IsShortPath records that g was reached in moveCount moves and reports
// whether that is the best path seen so far: true if the position is new
// or moveCount beats the stored count (which is then overwritten). The
// lookup and conditional update are one critical section on the
// position's shard.
func (mem *Memory) IsShortPath(g *game.Game, moveCount uint) bool {
	state, count := NewState(g, moveCount)
	sh := &mem.shards[state.hash()&(numShards-1)]
	sh.mu.Lock()
	defer sh.mu.Unlock()
	old, ok := sh.m[state]
	if ok && old <= count {
		return false
	}
	sh.m[state] = count
	return true
}

// Size is the number of positions stored. It is only exact while no
// other goroutine is inserting.
func (mem *Memory) Size() int {
	total := 0
	for i := range mem.shards {
		sh := &mem.shards[i]
		sh.mu.Lock()
		total += len(sh.m)
		sh.mu.Unlock()
	}
	return total
}
