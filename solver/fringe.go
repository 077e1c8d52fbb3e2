package solver

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/domino14/patience/move"
)

// MoveNode is one entry in the shared move tree: a move and the index of
// the node before it. The root sentinel index is -1.
type MoveNode struct {
	Move move.MoveSpec
	Prev int32
}

const nullNode = int32(-1)

// maxOffsets bounds the spread between a leaf's f-value and the root's.
// Klondike f-values live within a few dozen of the root's.
const maxOffsets = 512

// popRetries bounds the passes Pop makes over the stacks before
// concluding the fringe is drained.
const popRetries = 5

type fringeStack struct {
	mu    sync.Mutex
	n     atomic.Int32
	nodes []MoveNode
}

// fringe is an indexed priority queue of open leaves keyed by small
// f-value offsets: a fixed array of stacks, one mutex each. Pairs
// sharing an offset come back in LIFO order, which leans the search
// toward finishing branches and keeps the tree smaller.
//
// Pop is not linearisable: a stack can gain or lose its last node while
// a popper is scanning past it, so which non-empty stack is first
// depends on who looks when. The retry loop tolerates that; the closed
// list and the best-solution bound make the rare early "drained" verdict
// safe.
type fringe struct {
	mu      sync.Mutex // guards growth of nStacks
	nStacks atomic.Int32
	stacks  [maxOffsets]fringeStack
}

func (f *fringe) upsizeTo(n int32) {
	if f.nStacks.Load() >= n {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nStacks.Load() < n {
		f.nStacks.Store(n)
	}
}

func (f *fringe) emplace(offset uint32, node MoveNode) {
	f.upsizeTo(int32(offset) + 1)
	st := &f.stacks[offset]
	st.mu.Lock()
	st.nodes = append(st.nodes, node)
	st.n.Store(int32(len(st.nodes)))
	st.mu.Unlock()
}

func (f *fringe) pop() (uint32, MoveNode, bool) {
	for tries := 0; tries < popRetries; tries++ {
		size := f.nStacks.Load()
		for i := int32(0); i < size; i++ {
			st := &f.stacks[i]
			if st.n.Load() == 0 {
				continue
			}
			st.mu.Lock()
			if len(st.nodes) > 0 {
				node := st.nodes[len(st.nodes)-1]
				st.nodes = st.nodes[:len(st.nodes)-1]
				st.n.Store(int32(len(st.nodes)))
				st.mu.Unlock()
				return uint32(i), node, true
			}
			st.mu.Unlock()
		}
		runtime.Gosched()
	}
	return 0, MoveNode{}, false
}

// size is the total number of queued leaves. Not exact while other
// goroutines are pushing and popping.
func (f *fringe) size() int {
	total := int32(0)
	n := f.nStacks.Load()
	for i := int32(0); i < n; i++ {
		total += f.stacks[i].n.Load()
	}
	return int(total)
}
