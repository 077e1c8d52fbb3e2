package move

// XMove is one elementary move for display: a single transfer of cards
// between two piles. Moves are numbered from 1; the numbers are not
// consecutive because consecutive draws from the stock pile collapse
// into one XMove. Flips of tableau cards are not moves, but they are
// flagged on the move that causes them.
type XMove struct {
	MoveNum uint
	From    PileCode
	To      PileCode
	NCards  uint
	Flip    bool
}

func quotientRoundedUp(numerator, denominator uint) uint {
	return (numerator + denominator - 1) / denominator
}

// Expand enumerates the elementary moves in a MoveSpec solution for a
// game with the given draw setting.
func Expand(solution []MoveSpec, draw uint) []XMove {
	stockSize := uint(24)
	wasteSize := uint(0)
	mvnum := uint(0)
	var result []XMove

	for _, mv := range solution {
		from := mv.From()
		to := mv.To()

		if !mv.IsStockMove() {
			n := mv.NCards()
			flip := mv.FlipsTopCard() && !mv.IsLadderMove()
			mvnum++
			result = append(result, XMove{mvnum, from, to, n, flip})
			if from == Waste {
				wasteSize--
			}
			if mv.IsLadderMove() {
				// Generate the extra move to the foundation.
				mvnum++
				result = append(result, XMove{mvnum, from, mv.LadderPile(), 1, mv.FlipsTopCard()})
			}
			continue
		}

		nTalonMoves := mv.NMoves() - 1
		stockMovesLeft := quotientRoundedUp(stockSize, draw)
		if nTalonMoves > stockMovesLeft && stockSize > 0 {
			// Draw all remaining cards from the stock.
			mvnum++
			result = append(result, XMove{mvnum, Stock, Waste, stockSize, false})
			mvnum += stockMovesLeft - 1
			wasteSize += stockSize
			stockSize = 0
			nTalonMoves -= stockMovesLeft
		}
		if nTalonMoves > 0 {
			mvnum++
			if stockSize == 0 {
				// Recycle the waste pile.
				result = append(result, XMove{mvnum, Waste, Stock, wasteSize, false})
				stockSize = wasteSize
				wasteSize = 0
			}
			nMoved := min(stockSize, nTalonMoves*draw)
			result = append(result, XMove{mvnum, Stock, Waste, nMoved, false})
			stockSize -= nMoved
			wasteSize += nMoved
			mvnum += nTalonMoves - 1
		}
		mvnum++
		result = append(result, XMove{mvnum, Waste, to, 1, false})
		wasteSize--
	}
	return result
}
