package game

import (
	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/move"
)

// AvailableMoves returns the children of the current position that pass
// the redundant-move filter, given the sequence of moves made so far.
// Dominant moves are returned one at a time; others all at once. The
// returned slice is backed by per-game scratch storage and is only good
// until the next call.
//
// A dominant move plays a card from the waste, a tableau top, or (draw-1
// only) the stock top onto a foundation pile than which no foundation
// pile is more than one card shorter. If the game can be won from this
// position, no line that does not start with such a move can beat the
// shortest lines that do, so when one exists the caller should take it
// and ignore everything else.
func (g *Game) AvailableMoves(made *move.Sequence) []move.MoveSpec {
	avail := g.avail[:0]
	minFnd := g.MinFoundationPileSize()
	if minFnd == cards.PerSuit {
		return avail // game won
	}

	if g.domCacheLen == 0 {
		dom := g.dominantMoves(g.domCache[:0], minFnd)
		dom = move.FilterRedundant(dom, made)
		g.domCacheLen = uint8(len(dom))
	}
	if g.domCacheLen > 0 {
		g.domCacheLen--
		return append(avail, g.domCache[g.domCacheLen])
	}

	avail = g.movesFromTableau(avail)
	avail = g.movesFromTalon(avail, minFnd)
	avail = g.movesFromFoundation(avail, minFnd)
	return move.FilterRedundant(avail, made)
}

// dominantMoves appends every available dominant move: plays to a short
// foundation pile from the waste, the tableau tops, and in draw-1 mode
// the top of the stock.
func (g *Game) dominantMoves(dst []move.MoveSpec, minFnd uint) []move.MoveSpec {
	for code := move.Waste; code <= move.Tableau7; code++ {
		pile := &g.piles[code]
		if pile.Empty() {
			continue
		}
		card := pile.Back()
		if uint(card.Rank()) <= minFnd+1 && g.CanMoveToFoundation(card) {
			up := uint(0)
			if code != move.Waste {
				up = pile.UpCount()
			}
			mv := move.NonStockMove(code, move.FoundationFor(card.Suit()), 1, up)
			mv = mv.WithFlip(pile.IsTableau() && up == 1 && pile.Len() > 1)
			dst = append(dst, mv)
		}
	}
	if g.drawSetting == 1 && !g.stock().Empty() {
		card := g.stock().Back()
		if uint(card.Rank()) <= minFnd+1 && g.CanMoveToFoundation(card) {
			// Draw one card and move it straight to its foundation.
			dst = append(dst, move.StockMove(move.FoundationFor(card.Suit()), 2, 1, false))
		}
	}
	return dst
}

// movesFromTableau appends the available moves off tableau piles.
// Moves between tableau piles happen only to (a) move a whole face-up
// run to flip a face-down card or clear a useful column, or (b) uncover
// a card that can go to its foundation, which becomes a ladder move.
func (g *Game) movesFromTableau(dst []move.MoveSpec) []move.MoveSpec {
	for fi := 0; fi < move.TableauSize; fi++ {
		fromPile := g.tableau(fi)
		if fromPile.Empty() {
			continue
		}
		fromTip := fromPile.Back()
		fromBase := fromPile.Top()
		upCount := fromPile.UpCount()

		if g.CanMoveToFoundation(fromTip) {
			mv := move.NonStockMove(fromPile.Code(), move.FoundationFor(fromTip.Suit()), 1, upCount)
			mv = mv.WithFlip(upCount == 1 && fromPile.Len() > 1)
			dst = append(dst, mv)
		}

		kingMoved := false // a king goes to one empty pile, not each
		for ti := 0; ti < move.TableauSize; ti++ {
			if ti == fi {
				continue
			}
			toPile := g.tableau(ti)
			if toPile.Empty() {
				if !kingMoved && fromBase.Rank() == cards.King && fromPile.Len() > int(upCount) {
					// A king sits at the base of the face-up run and is
					// covering at least one face-down card.
					mv := move.NonStockMove(fromPile.Code(), toPile.Code(), upCount, upCount)
					dst = append(dst, mv.WithFlip(true))
					kingMoved = true
				}
				continue
			}
			cardToCover := toPile.Back()
			toRank := uint(cardToCover.Rank())
			if uint(fromTip.Rank()) < toRank && toRank <= uint(fromBase.Rank())+1 &&
				fromTip.OddRed() == cardToCover.OddRed() {
				// Some face-up card in the from pile covers the to
				// pile's top card.
				moveCount := toRank - uint(fromTip.Rank())
				if moveCount == upCount && (int(upCount) < fromPile.Len() || g.needKingSpace()) {
					// Whole run: flips a face-down card or clears a
					// column that is needed for a king.
					mv := move.NonStockMove(fromPile.Code(), toPile.Code(), upCount, upCount)
					dst = append(dst, mv.WithFlip(int(upCount) < fromPile.Len()))
				} else if moveCount < upCount || int(upCount) < fromPile.Len() {
					uncovered := fromPile.At(fromPile.Len() - int(moveCount) - 1)
					if g.CanMoveToFoundation(uncovered) {
						mv := move.LadderMove(fromPile.Code(), toPile.Code(), moveCount, upCount, uncovered)
						dst = append(dst, mv.WithFlip(upCount == moveCount+1))
					}
				}
			}
		}
	}
	return dst
}

// talonFuture is one playable card reachable in the talon, with the
// draws (and possibly a recycle) needed to expose it.
type talonFuture struct {
	card    cards.Card
	nMoves  uint
	draw    int
	recycle bool
}

// talonSim walks the talon without touching the real piles.
type talonSim struct {
	waste *Pile
	stock *Pile
	wSize int
	sSize int
}

func newTalonSim(g *Game) talonSim {
	return talonSim{
		waste: g.waste(),
		stock: g.stock(),
		wSize: g.waste().Len(),
		sSize: g.stock().Len(),
	}
}

func (t *talonSim) cycle() {
	t.sSize += t.wSize
	t.wSize = 0
}

func (t *talonSim) drawN(n int) {
	n = min(n, t.sSize)
	t.wSize += n
	t.sSize -= n
}

func (t *talonSim) topCard() cards.Card {
	if t.wSize <= t.waste.Len() {
		return t.waste.At(t.wSize - 1)
	}
	return t.stock.At(t.stock.Len() - (t.wSize - t.waste.Len()))
}

// talonCards lists the distinct playable top cards reachable by drawing
// (and at most one recycle beyond those already spent, within the
// recycle limit), with the move count and draw count to reach each.
func (g *Game) talonCards(dst []talonFuture) []talonFuture {
	if g.waste().Len()+g.stock().Len() == 0 {
		return dst
	}
	talon := newTalonSim(g)
	originalWasteSize := talon.wSize
	drawSetting := int(g.drawSetting)
	nMoves := uint(0)
	nRecycles := uint(0)
	maxRecycles := min(uint(1), uint(g.recycleLimit)-uint(g.recycleCount))

	for {
		if talon.wSize > 0 {
			dst = append(dst, talonFuture{
				card:    talon.topCard(),
				nMoves:  nMoves,
				draw:    talon.wSize - originalWasteSize,
				recycle: nRecycles > 0,
			})
		}
		if talon.sSize > 0 {
			nMoves++
			talon.drawN(drawSetting)
		} else {
			nRecycles++
			talon.cycle()
		}
		if talon.wSize == originalWasteSize || nRecycles > maxRecycles {
			return dst
		}
	}
}

// movesFromTalon appends moves of reachable talon cards to foundations
// and tableau piles. In draw-1 mode the scan stops at the first card
// that would feed a short foundation pile; nothing deeper can do better.
func (g *Game) movesFromTalon(dst []move.MoveSpec, minFnd uint) []move.MoveSpec {
	var buf [MaxPileLen]talonFuture
	for _, tf := range g.talonCards(buf[:0]) {
		if g.CanMoveToFoundation(tf.card) {
			to := move.FoundationFor(tf.card.Suit())
			dst = append(dst, move.StockMove(to, tf.nMoves+1, tf.draw, tf.recycle))
			if uint(tf.card.Rank()) <= minFnd+1 {
				if g.drawSetting == 1 {
					break // best next move among the remaining talon cards
				}
				continue // best move for this card; a deeper one may beat it
			}
		}
		for ti := 0; ti < move.TableauSize; ti++ {
			tPile := g.tableau(ti)
			if !tPile.Empty() {
				if tf.card.Covers(tPile.Back()) {
					dst = append(dst, move.StockMove(tPile.Code(), tf.nMoves+1, tf.draw, tf.recycle))
				}
			} else if tf.card.Rank() == cards.King {
				dst = append(dst, move.StockMove(tPile.Code(), tf.nMoves+1, tf.draw, tf.recycle))
				break // move that king to just one empty pile
			}
		}
	}
	return dst
}

// movesFromFoundation appends moves back out of foundation piles deep
// enough that reversing the move cannot be dominant, which would
// oscillate.
func (g *Game) movesFromFoundation(dst []move.MoveSpec, minFnd uint) []move.MoveSpec {
	for s := cards.Suit(0); s < cards.Suits; s++ {
		fPile := g.foundation(s)
		if uint(fPile.Len()) <= minFnd+2 {
			continue
		}
		top := fPile.Back()
		for ti := 0; ti < move.TableauSize; ti++ {
			tPile := g.tableau(ti)
			if !tPile.Empty() {
				if top.Covers(tPile.Back()) {
					dst = append(dst, move.NonStockMove(fPile.Code(), tPile.Code(), 1, 0))
				}
			} else if top.Rank() == cards.King {
				dst = append(dst, move.NonStockMove(fPile.Code(), tPile.Code(), 1, 0))
				break // one empty pile is as good as another
			}
		}
	}
	return dst
}
