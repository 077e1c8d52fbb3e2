package solver

import (
	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/game"
)

func quotientRoundedUp(numerator, denominator uint) uint {
	return (numerator + denominator - 1) / denominator
}

// misorderCount counts the cards that sit above a lower card of their
// own suit (the stack tops are at the back). Each such inversion costs
// at least one extra move to untangle.
func misorderCount(cs []cards.Card) uint {
	minRanks := [cards.Suits]cards.Rank{14, 14, 14, 14}
	result := uint(0)
	for _, c := range cs {
		if c.Rank() < minRanks[c.Suit()] {
			minRanks[c.Suit()] = c.Rank()
		} else {
			result++
		}
	}
	return result
}

// MinMovesLeft returns a lower bound on the number of moves needed to
// finish the game. The bound is consistent (monotone): for any legal
// move m, MinMovesLeft before the move never exceeds m.NMoves() plus
// MinMovesLeft after it. The search depends on that: a worker stops once
// the lowest f-value it pops is no less than the best solution's length,
// and the best solution is then minimal.
func MinMovesLeft(g *game.Game) uint {
	draw := g.DrawSetting()
	stockSize := uint(g.StockPile().Len())
	talonCount := uint(g.WastePile().Len()) + stockSize

	result := talonCount + quotientRoundedUp(stockSize, draw)

	if draw == 1 {
		// This term can fail the consistency test for draw settings
		// above 1, so it is only safe here.
		result += misorderCount(g.WastePile().Cards())
	}

	for i := 0; i < 7; i++ {
		tPile := g.TableauPile(i)
		if tPile.Len() > 0 {
			downCount := tPile.Len() - int(tPile.UpCount())
			result += uint(tPile.Len()) + misorderCount(tPile.Cards()[:downCount+1])
		}
	}
	return result
}
