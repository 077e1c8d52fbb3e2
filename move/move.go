// Package move has the packed move representation for the solver, the
// redundant-move filter, and the expansion of solver moves into
// elementary moves for display.
//
// A MoveSpec from the stock pile stands for an arbitrary number of draws
// (possibly a recycle of the waste pile) followed by the move of the
// exposed waste card to the destination pile. The number of actual moves
// it implies is NMoves.
//
// A "ladder move" is a move from one tableau pile to another made to
// expose a card that can go to its foundation; the MoveSpec makes that
// move and then moves the exposed card to the foundation. It is named
// for the tactic of climbing a pile card by card near the end of a game.
// For a ladder move, FlipsTopCard refers to the foundation step, not the
// tableau step.
package move

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/domino14/patience/cards"
)

// MoveSpec is one solver move packed into 32 bits. The unmaking of a
// move from a tableau pile cannot infer that pile's prior face-up count,
// so the count rides along in the spec.
//
// Layout:
//
//	bits  0-3   from pile code (Stock marks a stock move)
//	bits  4-7   to pile code
//	bits  8-12  nMoves
//	bit   13    flips top card
//	bit   14    recycle
//	bits 15-16  ladder suit
//	bits 17-24  payload: stock moves store a signed draw count;
//	            others store cardsToMove (low nibble) and
//	            fromUpCount (high nibble)
type MoveSpec uint32

const (
	fromShift    = 0
	toShift      = 4
	nMovesShift  = 8
	flipBit      = 1 << 13
	recycleBit   = 1 << 14
	ladderShift  = 15
	payloadShift = 17

	nibbleMask = 0xf
	nMovesMask = 0x1f
)

// StockMove builds a move that draws draw cards (negative to undo draws
// back into the stock) and then moves the exposed waste card to the to
// pile. nMoves counts the draws plus the final play.
func StockMove(to PileCode, nMoves uint, draw int, recycle bool) MoveSpec {
	m := MoveSpec(Stock)<<fromShift |
		MoveSpec(to)<<toShift |
		MoveSpec(nMoves&nMovesMask)<<nMovesShift |
		MoveSpec(uint8(int8(draw)))<<payloadShift
	if recycle {
		m |= recycleBit
	}
	return m
}

// NonStockMove builds a move of n cards between non-stock piles.
// fromUpCount is the from pile's face-up count before the move.
func NonStockMove(from, to PileCode, n, fromUpCount uint) MoveSpec {
	return MoveSpec(from)<<fromShift |
		MoveSpec(to)<<toShift |
		MoveSpec(1)<<nMovesShift |
		MoveSpec(n&nibbleMask|(fromUpCount&nibbleMask)<<4)<<payloadShift
}

// LadderMove builds a tableau-to-tableau move of n cards that then
// plays the uncovered ladderCard to its foundation. It counts as two
// moves.
func LadderMove(from, to PileCode, n, fromUpCount uint, ladderCard cards.Card) MoveSpec {
	m := NonStockMove(from, to, n, fromUpCount)
	m &^= MoveSpec(nMovesMask) << nMovesShift
	m |= MoveSpec(2) << nMovesShift
	m |= MoveSpec(ladderCard.Suit()) << ladderShift
	return m
}

func (m MoveSpec) From() PileCode { return PileCode(m >> fromShift & nibbleMask) }
func (m MoveSpec) To() PileCode   { return PileCode(m >> toShift & nibbleMask) }

// NMoves is the number of actual moves this spec implies.
func (m MoveSpec) NMoves() uint { return uint(m >> nMovesShift & nMovesMask) }

func (m MoveSpec) IsStockMove() bool { return m.From() == Stock }

// IsLadderMove reports a tableau move with the implied foundation play.
func (m MoveSpec) IsLadderMove() bool { return m.From().IsTableau() && m.NMoves() == 2 }

// IsDefault reports the zero MoveSpec, used as the root sentinel's move.
func (m MoveSpec) IsDefault() bool { return m.From() == m.To() }

// NCards is the number of cards the move transfers between piles.
func (m MoveSpec) NCards() uint {
	if m.IsStockMove() {
		return 1
	}
	return uint(m >> payloadShift & nibbleMask)
}

// FromUpCount is the from pile's face-up count before the move. Only
// meaningful for non-stock moves.
func (m MoveSpec) FromUpCount() uint { return uint(m >> payloadShift >> 4 & nibbleMask) }

// DrawCount is the net number of cards a stock move draws; negative
// means cards are pushed back from the waste to the stock.
func (m MoveSpec) DrawCount() int { return int(int8(m >> payloadShift)) }

func (m MoveSpec) Recycle() bool      { return m&recycleBit != 0 }
func (m MoveSpec) FlipsTopCard() bool { return m&flipBit != 0 }

func (m MoveSpec) LadderSuit() cards.Suit {
	return cards.Suit(m >> ladderShift & 3)
}

// LadderPile is the foundation pile a ladder move plays to.
func (m MoveSpec) LadderPile() PileCode { return FoundationFor(m.LadderSuit()) }

// WithFlip returns m with the flips-top-card flag set or cleared.
func (m MoveSpec) WithFlip(f bool) MoveSpec {
	if f {
		return m | flipBit
	}
	return m &^ flipBit
}

// String renders a move compactly for debugging, like "t3>spu2" or
// "+2d1>cb".
func (m MoveSpec) String() string {
	if m.IsStockMove() {
		s := fmt.Sprintf("+%dd%d", m.NMoves(), m.DrawCount())
		if m.Recycle() {
			s += "c"
		}
		return s + ">" + m.To().String()
	}
	s := m.From().String() + ">" + m.To().String()
	if n := m.NCards(); n != 1 {
		s += fmt.Sprintf("x%d", n)
	}
	if up := m.FromUpCount(); up != 0 {
		s += fmt.Sprintf("u%d", up)
	}
	return s
}

// Count is the number of actual moves implied by a sequence of specs.
func Count(moves []MoveSpec) uint {
	return lo.SumBy(moves, MoveSpec.NMoves)
}

// Recycles is the number of stock recycles implied by a sequence.
func Recycles(moves []MoveSpec) int {
	return lo.CountBy(moves, MoveSpec.Recycle)
}
