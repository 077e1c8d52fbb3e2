// Package solver finds minimum-move Klondike Solitaire solutions with a
// parallel A* search. Workers share a move tree, a priority fringe of
// open leaves, and a closed list of visited positions; each keeps a
// private game it replays move sequences on.
package solver

import (
	"context"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/patience/game"
	"github.com/domino14/patience/gamestate"
	"github.com/domino14/patience/move"
)

// DefaultMoveTreeLimit is the soft cap on move-tree nodes before the
// search gives up and returns the best it found.
const DefaultMoveTreeLimit = 12_000_000

const noCount = ^uint(0)

// Code classifies a search outcome.
type Code uint8

const (
	// SolvedMinimal: the search ran to exhaustion under the limit; the
	// solution is provably minimal.
	SolvedMinimal Code = iota
	// Solved: a solution was found but the search was cut off; it may
	// not be minimal.
	Solved
	// Impossible: the search ran to exhaustion without a solution; the
	// deal cannot be won.
	Impossible
	// GaveUp: the search was cut off before finding any solution.
	GaveUp
)

func (c Code) String() string {
	switch c {
	case SolvedMinimal:
		return "SolvedMinimal"
	case Solved:
		return "Solved"
	case Impossible:
		return "Impossible"
	case GaveUp:
		return "GaveUp"
	}
	return "Unknown"
}

// Result is what a search returns.
type Result struct {
	Code            Code
	Solution        []move.MoveSpec
	ClosedCount     int
	MoveTreeSize    int
	FinalFringeSize int
}

// candidateSolution is the best winning sequence seen so far, shared by
// every worker.
type candidateSolution struct {
	mu    sync.Mutex
	moves []move.MoveSpec
	count atomic.Uint64
}

func newCandidateSolution() *candidateSolution {
	cs := &candidateSolution{}
	cs.count.Store(math.MaxUint64)
	return cs
}

func (cs *candidateSolution) moveCount() uint {
	c := cs.count.Load()
	if c > uint64(noCount) {
		return noCount
	}
	return uint(c)
}

func (cs *candidateSolution) isEmpty() bool {
	return cs.count.Load() == math.MaxUint64
}

// replaceIfShorter installs seq as the best solution if it beats the
// current one. Checked once cheaply, then again under the lock.
func (cs *candidateSolution) replaceIfShorter(seq *move.Sequence, count uint) {
	if uint64(count) >= cs.count.Load() {
		return
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if uint64(count) >= cs.count.Load() {
		return
	}
	cs.moves = append(cs.moves[:0], seq.Slice()...)
	cs.count.Store(uint64(count))
}

func (cs *candidateSolution) solution() []move.MoveSpec {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]move.MoveSpec, len(cs.moves))
	copy(out, cs.moves)
	return out
}

// Solver runs the search over one game.
type Solver struct {
	game          *game.Game
	moveTreeLimit int
	threads       int
	strictChecks  bool

	nodes atomic.Uint64
}

// New makes a solver for g with the default limit and one worker per
// hardware thread.
func New(g *game.Game) *Solver {
	return &Solver{
		game:          g,
		moveTreeLimit: DefaultMoveTreeLimit,
		threads:       runtime.NumCPU(),
	}
}

// SetThreads sets the worker count; zero or negative means one per
// hardware thread.
func (s *Solver) SetThreads(threads int) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	s.threads = threads
}

// SetMoveTreeLimit caps the shared move tree; the search aborts with
// the best solution found once the tree outgrows it.
func (s *Solver) SetMoveTreeLimit(limit int) {
	s.moveTreeLimit = limit
}

// SetStrictChecks makes a worker panic on an illegal child move or a
// heuristic consistency violation instead of searching on. Meant for
// tests and debugging.
func (s *Solver) SetStrictChecks(b bool) {
	s.strictChecks = b
}

// Solve searches the game for a minimum-move win. Cancel the context to
// abort early; an aborted search classifies like one over the limit.
func (s *Solver) Solve(ctx context.Context) *Result {
	tstart := time.Now()

	shared := &SharedMoveStorage{}
	closed := gamestate.NewMemory()
	best := newCandidateSolution()

	startMoves := MinMovesLeft(s.game)
	shared.Start(s.moveTreeLimit, startMoves)
	s.nodes.Store(0)

	log.Debug().
		Uint64("deal", s.game.Fingerprint()).
		Uint("draw", s.game.DrawSetting()).
		Uint("initial-min-moves", startMoves).
		Int("move-tree-limit", s.moveTreeLimit).
		Int("threads", s.threads).
		Msg("astar-solve-config")

	eg := errgroup.Group{}
	done := make(chan bool)
	eg.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().
					Uint64("nps", nodes-lastNodes).
					Int("move-tree-size", shared.MoveTreeSize()).
					Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	workers := errgroup.Group{}
	for t := 1; t < s.threads; t++ {
		workers.Go(func() error {
			s.worker(ctx, shared, closed, best)
			return nil
		})
		if t == 1 {
			// Give the first worker a head start so the move tree has
			// entries before the rest pile in.
			time.Sleep(3 * time.Millisecond)
		}
	}
	s.worker(ctx, shared, closed, best)
	workers.Wait()
	done <- true
	eg.Wait()

	aborted := shared.OverLimit() || ctx.Err() != nil
	var code Code
	if !best.isEmpty() {
		if aborted {
			code = Solved
		} else {
			code = SolvedMinimal
		}
	} else {
		if aborted {
			code = GaveUp
		} else {
			code = Impossible
		}
	}
	result := &Result{
		Code:            code,
		Solution:        best.solution(),
		ClosedCount:     closed.Size(),
		MoveTreeSize:    shared.MoveTreeSize(),
		FinalFringeSize: shared.FringeSize(),
	}
	log.Info().
		Stringer("code", code).
		Int("solution-moves", int(move.Count(result.Solution))).
		Int("closed-count", result.ClosedCount).
		Int("move-tree-size", result.MoveTreeSize).
		Int("fringe-size", result.FinalFringeSize).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	return result
}

// makeAutoMoves plays moves as long as exactly one is available, either
// a dominant move or a forced single, growing the stem. It returns the
// first real choice of moves, or nothing at a dead end or a win.
func makeAutoMoves(g *game.Game, storage *MoveStorage) []move.MoveSpec {
	for {
		avail := g.AvailableMoves(storage.Sequence())
		if len(avail) != 1 {
			return avail
		}
		storage.PushStem(avail[0])
		g.MakeMove(avail[0])
	}
}

func (s *Solver) worker(ctx context.Context, shared *SharedMoveStorage,
	closed *gamestate.Memory, best *candidateSolution) {

	g := *s.game // private copy to replay sequences on
	storage := NewMoveStorage(shared)

	for {
		if ctx.Err() != nil || shared.OverLimit() {
			return
		}
		minMoves0 := storage.PopNextMoveSequence()
		if minMoves0 == 0 || minMoves0 >= best.moveCount() {
			return
		}

		// Restore the game to the state this sequence was queued at.
		g.Deal()
		storage.LoadMoveSequence()
		storage.MakeSequenceMoves(&g)

		avail := makeAutoMoves(&g, storage)
		movesMade := storage.Sequence().MoveCount()

		if len(avail) == 0 {
			// A dead end or a win.
			if g.GameOver() {
				best.replaceIfShorter(storage.Sequence(), movesMade)
			}
			continue
		}
		for _, mv := range avail {
			if s.strictChecks && !g.IsValid(mv) {
				log.Panic().
					Str("move", mv.String()).
					Msg("illegal-engine-move")
			}
			g.MakeMove(mv)
			s.nodes.Add(1)
			made := movesMade + mv.NMoves()
			// Both MinMovesLeft and the closed-list upsert cost real
			// time, the upsert more. With a solution to test against,
			// the heuristic alone can reject a child before paying for
			// the upsert; without one, the upsert goes first so it can
			// spare us the heuristic.
			minRemaining := noCount
			pass := true
			if !best.isEmpty() {
				minRemaining = MinMovesLeft(&g)
				pass = made+minRemaining < best.moveCount()
			}
			if pass && closed.IsShortPath(&g, made) {
				if minRemaining == noCount {
					minRemaining = MinMovesLeft(&g)
				}
				minMoves := made + minRemaining
				if minMoves < minMoves0 && s.strictChecks {
					log.Panic().
						Uint("parent-f", minMoves0).
						Uint("child-f", minMoves).
						Str("move", mv.String()).
						Msg("heuristic-inconsistency")
				}
				storage.PushBranch(mv, minMoves)
			}
			g.UnMakeMove(mv)
		}
		storage.ShareMoves()
	}
}

// Solve runs a search over g with the given limit and thread count in
// one call. Zero threads means one per hardware thread.
func Solve(ctx context.Context, g *game.Game, moveTreeLimit int, threads int) *Result {
	s := New(g)
	if moveTreeLimit > 0 {
		s.SetMoveTreeLimit(moveTreeLimit)
	}
	s.SetThreads(threads)
	return s.Solve(ctx)
}
