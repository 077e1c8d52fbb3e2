package solver

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/domino14/patience/game"
	"github.com/domino14/patience/move"
)

const (
	chunkPower = 16
	chunkSize  = 1 << chunkPower
	chunkMask  = chunkSize - 1

	// directorySlack leaves room for the appends that land after the
	// size limit trips but before every worker notices.
	directorySlack = 64

	// maxBranches bounds the children saved from one expansion.
	maxBranches = 32
)

// SharedMoveStorage holds the move tree and the fringe that all workers
// work from. The move tree is an append-only arena of MoveNodes in
// fixed-size chunks: existing entries never move and never change, so
// walking parent links needs no lock. Appends happen in small bursts
// under one mutex.
type SharedMoveStorage struct {
	limit           int
	initialMinMoves uint
	firstTime       atomic.Bool

	mu     sync.Mutex // guards appends to the move tree
	chunks [][]MoveNode
	size   atomic.Int64

	fringe fringe
}

// Start primes the storage for a search whose root position needs at
// least minMoves more moves. The chunk directory is sized up front from
// the tree limit so it never relocates under concurrent readers.
func (s *SharedMoveStorage) Start(moveTreeLimit int, minMoves uint) {
	s.limit = moveTreeLimit
	s.initialMinMoves = minMoves
	s.chunks = make([][]MoveNode, moveTreeLimit>>chunkPower+directorySlack)
	s.size.Store(0)
	s.firstTime.Store(true)
}

// OverLimit reports that the soft move-tree size limit has tripped.
func (s *SharedMoveStorage) OverLimit() bool {
	return s.size.Load() > int64(s.limit)
}

func (s *SharedMoveStorage) MoveTreeSize() int { return int(s.size.Load()) }
func (s *SharedMoveStorage) FringeSize() int   { return s.fringe.size() }

func (s *SharedMoveStorage) node(i int32) MoveNode {
	return s.chunks[i>>chunkPower][i&chunkMask]
}

// appendNode adds a node and returns its index. Callers hold s.mu.
func (s *SharedMoveStorage) appendNode(n MoveNode) int32 {
	idx := s.size.Load()
	chunk := idx >> chunkPower
	if s.chunks[chunk] == nil {
		s.chunks[chunk] = make([]MoveNode, chunkSize)
	}
	s.chunks[chunk][idx&chunkMask] = n
	s.size.Store(idx + 1)
	return int32(idx)
}

type branch struct {
	mv     move.MoveSpec
	offset uint32
}

// MoveStorage is one worker's view of the shared storage plus the move
// sequence it is currently working on.
type MoveStorage struct {
	shared *SharedMoveStorage

	seq       *move.Sequence
	leaf      MoveNode
	startSize int // prefix of seq that came from the move tree

	branches []branch
	scratch  []move.MoveSpec
}

func NewMoveStorage(shared *SharedMoveStorage) *MoveStorage {
	return &MoveStorage{
		shared:   shared,
		seq:      move.NewSequence(),
		leaf:     MoveNode{Prev: nullNode},
		branches: make([]branch, 0, maxBranches),
		scratch:  make([]move.MoveSpec, 0, move.MaxSequenceLen),
	}
}

// Sequence is the current move sequence, oldest move first.
func (ms *MoveStorage) Sequence() *move.Sequence { return ms.seq }

// PushStem adds a no-choice move to the back of the current stem.
func (ms *MoveStorage) PushStem(mv move.MoveSpec) {
	ms.seq.PushBack(mv)
}

// PushBranch records the first move of a new branch off the current
// stem along with its minimum total move count.
func (ms *MoveStorage) PushBranch(mv move.MoveSpec, minMoves uint) {
	ms.branches = append(ms.branches, branch{mv, uint32(minMoves - ms.shared.initialMinMoves)})
}

// ShareMoves publishes the stem moves made this expansion and the
// branches off them. A dead end (no branches) publishes nothing: stem
// nodes that lead nowhere are never referenced, so they are never
// written.
func (ms *MoveStorage) ShareMoves() {
	if len(ms.branches) == 0 {
		return
	}
	stemEnd := ms.updateMoveTree()
	ms.updateFringe(stemEnd)
	ms.branches = ms.branches[:0]
}

// updateMoveTree copies the new stem suffix into the move tree under
// one lock acquisition and returns the index of the last stem node.
func (ms *MoveStorage) updateMoveTree() int32 {
	stemEnd := ms.leaf.Prev
	ms.shared.mu.Lock()
	for _, m := range ms.seq.Slice()[ms.startSize:] {
		stemEnd = ms.shared.appendNode(MoveNode{Move: m, Prev: stemEnd})
	}
	ms.shared.mu.Unlock()
	return stemEnd
}

func (ms *MoveStorage) updateFringe(stemEnd int32) {
	// Highest offsets first, so the lowest lands on top of its stack.
	sort.Slice(ms.branches, func(i, j int) bool {
		return ms.branches[i].offset > ms.branches[j].offset
	})
	for _, br := range ms.branches {
		ms.shared.fringe.emplace(br.offset, MoveNode{Move: br.mv, Prev: stemEnd})
	}
}

// PopNextMoveSequence picks an open leaf with the lowest available
// minimum move count, makes it current, and returns that count. The
// very first call returns the root instead. A zero return means the
// fringe has drained for this worker.
func (ms *MoveStorage) PopNextMoveSequence() uint {
	if ms.shared.firstTime.CompareAndSwap(true, false) {
		return ms.shared.initialMinMoves
	}
	offset, node, ok := ms.shared.fringe.pop()
	if !ok {
		return 0
	}
	ms.leaf = node
	return uint(offset) + ms.shared.initialMinMoves
}

// LoadMoveSequence rebuilds the current sequence by walking the parent
// links back from the current leaf.
func (ms *MoveStorage) LoadMoveSequence() {
	ms.scratch = ms.scratch[:0]
	for n := ms.leaf.Prev; n != nullNode; n = ms.shared.node(n).Prev {
		ms.scratch = append(ms.scratch, ms.shared.node(n).Move)
	}
	ms.seq.Clear()
	for i := len(ms.scratch) - 1; i >= 0; i-- {
		ms.seq.PushBack(ms.scratch[i])
	}
	ms.startSize = ms.seq.Len()
	if !ms.leaf.Move.IsDefault() {
		ms.seq.PushBack(ms.leaf.Move)
	}
}

// MakeSequenceMoves replays the current sequence on g.
func (ms *MoveStorage) MakeSequenceMoves(g *game.Game) {
	for _, mv := range ms.seq.Slice() {
		g.MakeMove(mv)
	}
}
