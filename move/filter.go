package move

// A move is provably non-minimal if, combined with an earlier move, its
// effect could have been achieved by one direct move at the earlier
// time: the pair does in two moves what other lines do in one.
//
// Consider a move at time T0 from X to Y and the next move from Y, which
// goes from Y to Z at time Tn. The move at Tn can be skipped if the same
// cards could have been moved directly from X to Z at T0. That holds if
// no intervening move changed pile Y (the two moves then move the same
// cards) and pile Z has not changed since T0, where X==Z with a flip at
// T0 counts as changing Z. Nothing says X cannot equal Z, so the test
// also catches moves that exactly reverse earlier moves.

type xyzVerdict uint8

const (
	xyzRedundant xyzVerdict = iota
	xyzClean
	xyzKeepLooking
)

func xyzTest(prev, trial MoveSpec) xyzVerdict {
	y := trial.From()
	z := trial.To()
	if prev.To() == y {
		// candidate T0 move
		if prev.From() == z && prev.FlipsTopCard() {
			// the X to Y move turned a card face up on Z
			return xyzClean
		}
		if prev.NCards() == trial.NCards() {
			return xyzRedundant
		}
		return xyzClean
	}
	if prev.To() == z || prev.From() == z {
		return xyzClean // trial move's to pile has changed
	}
	if prev.From() == y {
		return xyzClean // trial move's from pile has changed
	}
	return xyzKeepLooking
}

// Redundant reports whether trial cannot be part of a minimum solution
// given the moves already made. Talon moves are never filtered.
func Redundant(trial MoveSpec, made *Sequence) bool {
	y := trial.From()
	if y == Stock || y == Waste {
		return false
	}
	for i := made.Len() - 1; i >= 0; i-- {
		prev := made.At(i)
		if prev.IsLadderMove() {
			// Test the foundation play implied by the ladder move first.
			fndMove := NonStockMove(prev.From(), prev.LadderPile(), 1,
				prev.FromUpCount()-prev.NCards()).WithFlip(prev.FlipsTopCard())
			switch xyzTest(fndMove, trial) {
			case xyzRedundant:
				return true
			case xyzClean:
				return false
			}
			// Then the tableau-to-tableau part, which did not flip.
			prev = prev.WithFlip(false)
		}
		switch xyzTest(prev, trial) {
		case xyzRedundant:
			return true
		case xyzClean:
			return false
		}
	}
	return false
}

// FilterRedundant removes provably non-minimal moves in place and
// returns the shortened slice.
func FilterRedundant(moves []MoveSpec, made *Sequence) []MoveSpec {
	kept := moves[:0]
	for _, m := range moves {
		if !Redundant(m, made) {
			kept = append(kept, m)
		}
	}
	return kept
}
