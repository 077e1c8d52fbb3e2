// Package gamestate packs a Klondike position into a 176-bit perfect
// hash and remembers the best known move count for every position the
// search has reached.
package gamestate

import (
	"sort"

	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/game"
	"github.com/domino14/patience/move"
)

// State is a compact representation of a game position. Two positions
// that differ only in the order of their tableau piles play identically,
// so they map to the same State: the per-pile encodings are sorted
// before packing. For a fixed deal, the tableau runs, foundation sizes
// and stock size pin down everything else; the talon holds exactly the
// cards that are nowhere else, in an order the draw rules force.
type State struct {
	part0, part1, part2 uint64
}

// deflateTableau compresses one tableau pile to 21 bits. The rules for
// moving cards onto tableau piles guarantee the face-up run can be
// reconstructed from the bottom face-up card plus one bit per card above
// it saying whether it is from a major suit (spades or hearts). The
// face-up cards never number more than 12, since an ace is never moved
// onto a tableau pile.
func deflateTableau(p *game.Pile) uint32 {
	upCount := p.UpCount()
	if upCount == 0 {
		return 0
	}
	isMajor := uint32(0)
	n := p.Len()
	for i := n - int(upCount) + 1; i < n; i++ {
		isMajor <<= 1
		if p.At(i).IsMajor() {
			isMajor |= 1
		}
	}
	top := p.Top()
	return ((uint32(top.Suit())<<4|uint32(top.Rank()))<<11|isMajor)<<4 | uint32(upCount)
}

// NewState packs g and the move count used to reach it.
func NewState(g *game.Game, moveCount uint) (State, uint16) {
	var ts [move.TableauSize]uint32
	for i := 0; i < move.TableauSize; i++ {
		ts[i] = deflateTableau(g.TableauPile(i))
	}
	// Tableaus identical except for pile order are the same position.
	sort.Slice(ts[:], func(i, j int) bool { return ts[i] < ts[j] })

	var s State
	s.part0 = (uint64(ts[0])<<21|uint64(ts[1]))<<21 | uint64(ts[2])
	s.part1 = (uint64(ts[3])<<21|uint64(ts[4]))<<21 | uint64(ts[5])
	s.part2 = uint64(ts[6])<<5 | uint64(g.StockPile().Len())
	for s4 := cards.Suit(0); s4 < cards.Suits; s4++ {
		s.part2 = s.part2<<4 | uint64(g.FoundationPile(s4).Len())
	}
	return s, uint16(moveCount)
}

// hash folds the three key words together; the shards of Memory key off
// the low bits.
func (s State) hash() uint64 {
	return s.part0 ^ s.part1 ^ s.part2
}
