// Package game is the Klondike Solitaire engine: the piles, the deal,
// making and unmaking moves, and the enumeration of available moves
// with the dominant-move fast path the solver relies on.
package game

import (
	"errors"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/move"
)

var (
	ErrBadDeck = errors.New("game: deck must hold each of the 52 cards exactly once")
)

// UnlimitedRecycles is the recycle limit meaning "never stop recycling".
const UnlimitedRecycles = 255

const stockLen = cards.PerDeck - 28

// Game is one Klondike position plus the deal it came from. The piles
// sit in move.PileCode order so the state key packing is stable. A Game
// is a plain value: copying the struct copies the position.
type Game struct {
	piles [move.PileCount]Pile

	drawSetting  uint8
	recycleLimit uint8
	recycleCount uint8
	// kingSpaces counts tableau piles that are empty or have a king at
	// the bottom. Once it reaches 4 there is no point clearing columns.
	kingSpaces uint8

	deck cards.Deck

	domCache    [9]move.MoveSpec
	domCacheLen uint8

	avail [43]move.MoveSpec
}

// New deals a game from deck. draw is the number of cards per draw from
// the stock (1 and 3 are the usual settings); recycleLimit caps waste
// recycles (UnlimitedRecycles for no cap).
func New(deck cards.Deck, draw, recycleLimit uint) (*Game, error) {
	var seen [cards.PerDeck]bool
	for _, c := range deck {
		if int(c) >= cards.PerDeck || seen[c] {
			return nil, ErrBadDeck
		}
		seen[c] = true
	}
	if draw == 0 {
		return nil, errors.New("game: draw setting must be positive")
	}
	g := &Game{
		drawSetting:  uint8(min(draw, 24)),
		recycleLimit: uint8(min(recycleLimit, UnlimitedRecycles)),
		deck:         deck,
	}
	for code := move.PileCode(0); code < move.PileCount; code++ {
		g.piles[code] = makePile(code)
	}
	g.Deal()
	return g, nil
}

// Deal resets the game to its dealt position: 28 cards staggered across
// the seven tableau piles with one card turned up on each, and the last
// 24 cards in the stock with the next draw at the back.
func (g *Game) Deal() {
	g.kingSpaces = 0
	g.recycleCount = 0
	g.domCacheLen = 0
	for i := range g.piles {
		g.piles[i].Clear()
	}
	iDeck := 0
	for iPile := 0; iPile < move.TableauSize; iPile++ {
		for icd := iPile; icd < move.TableauSize; icd++ {
			g.tableau(icd).Push(g.deck[iDeck])
			iDeck++
		}
		t := g.tableau(iPile)
		t.SetUpCount(1)
		if t.At(0).Rank() == cards.King {
			g.kingSpaces++
		}
	}
	stock := g.stock()
	for i := cards.PerDeck - 1; i >= cards.PerDeck-stockLen; i-- {
		stock.Push(g.deck[i])
	}
}

func (g *Game) waste() *Pile      { return &g.piles[move.Waste] }
func (g *Game) stock() *Pile      { return &g.piles[move.Stock] }
func (g *Game) tableau(i int) *Pile {
	return &g.piles[int(move.TableauBase)+i]
}
func (g *Game) foundation(s cards.Suit) *Pile {
	return &g.piles[move.FoundationFor(s)]
}

// PileAt returns the pile with the given code.
func (g *Game) PileAt(code move.PileCode) *Pile { return &g.piles[code] }

func (g *Game) WastePile() *Pile                  { return g.waste() }
func (g *Game) StockPile() *Pile                  { return g.stock() }
func (g *Game) TableauPile(i int) *Pile           { return g.tableau(i) }
func (g *Game) FoundationPile(s cards.Suit) *Pile { return g.foundation(s) }

func (g *Game) DrawSetting() uint  { return uint(g.drawSetting) }
func (g *Game) RecycleLimit() uint { return uint(g.recycleLimit) }
func (g *Game) RecycleCount() uint { return uint(g.recycleCount) }
func (g *Game) KingSpaces() uint   { return uint(g.kingSpaces) }

// Deck returns the deal this game replays from.
func (g *Game) Deck() cards.Deck { return g.deck }

// Fingerprint is a 64-bit identity for the deal, for logging.
func (g *Game) Fingerprint() uint64 {
	var buf [cards.PerDeck]byte
	for i, c := range g.deck {
		buf[i] = byte(c)
	}
	return xxhash.Sum64(buf[:])
}

func (g *Game) CanMoveToFoundation(c cards.Card) bool {
	return int(c.Rank()) == g.foundation(c.Suit()).Len()
}

// GameOver is true when all four foundations are complete.
func (g *Game) GameOver() bool {
	for s := cards.Suit(0); s < cards.Suits; s++ {
		if g.foundation(s).Len() != cards.PerSuit {
			return false
		}
	}
	return true
}

// MinFoundationPileSize is the height of the shortest foundation pile.
func (g *Game) MinFoundationPileSize() uint {
	m := g.foundation(0).Len()
	for s := cards.Suit(1); s < cards.Suits; s++ {
		if n := g.foundation(s).Len(); n < m {
			m = n
		}
	}
	return uint(m)
}

func (g *Game) needKingSpace() bool { return g.kingSpaces < 4 }

// emptiedTableau adjusts kingSpaces after fromPile (a tableau pile)
// lost its bottom card base. A pile whose bottom card was a king was
// already counted, so emptying it leaves the count alone.
func (g *Game) emptiedTableau(base cards.Card) {
	if base.Rank() != cards.King {
		g.kingSpaces++
	}
}

func (g *Game) refilledTableau(base cards.Card) {
	if base.Rank() != cards.King {
		g.kingSpaces--
	}
}

// MakeMove applies mv. It must only be given legal moves; use IsValid
// first when the move comes from outside the engine.
func (g *Game) MakeMove(mv move.MoveSpec) {
	toPile := &g.piles[mv.To()]
	if mv.IsStockMove() {
		g.waste().Draw(g.stock(), mv.DrawCount())
		toPile.Push(g.waste().Pop())
		toPile.IncrUpCount(1)
		if mv.Recycle() {
			g.recycleCount++
		}
		return
	}
	n := mv.NCards()
	fromPile := &g.piles[mv.From()]
	isLadder := mv.IsLadderMove()
	toPile.Take(fromPile, n)
	var ladderCard cards.Card
	if isLadder {
		ladderCard = fromPile.Back()
		g.foundation(mv.LadderSuit()).Draw(fromPile, 1)
	}
	toPile.IncrUpCount(int(n))
	if !fromPile.Empty() {
		if fromPile.IsTableau() {
			delta := -int(n)
			if isLadder {
				delta--
			}
			if mv.FlipsTopCard() {
				delta++
			}
			fromPile.IncrUpCount(delta)
		}
	} else {
		if fromPile.IsTableau() {
			if isLadder {
				g.emptiedTableau(ladderCard)
			} else {
				g.emptiedTableau(toPile.At(toPile.Len() - int(n)))
			}
		}
		fromPile.SetUpCount(0)
	}
}

// UnMakeMove reverses mv. For every legal move, UnMakeMove(MakeMove(mv))
// restores the game exactly, face-up counts included.
func (g *Game) UnMakeMove(mv move.MoveSpec) {
	toPile := &g.piles[mv.To()]
	if mv.IsStockMove() {
		g.waste().Push(toPile.Pop())
		toPile.IncrUpCount(-1)
		g.stock().Draw(g.waste(), mv.DrawCount())
		if mv.Recycle() {
			g.recycleCount--
		}
		return
	}
	n := mv.NCards()
	fromPile := &g.piles[mv.From()]
	if mv.IsLadderMove() {
		fnd := g.foundation(mv.LadderSuit())
		if fromPile.Empty() {
			g.refilledTableau(fnd.Back())
		}
		fromPile.Draw(fnd, 1)
	}
	if fromPile.IsTableau() {
		if fromPile.Empty() {
			g.refilledTableau(toPile.At(toPile.Len() - int(n)))
		}
		fromPile.SetUpCount(mv.FromUpCount())
	}
	fromPile.Take(toPile, n)
	toPile.IncrUpCount(-int(n))
}

func (g *Game) validTransfer(from, to move.PileCode, nCards uint) bool {
	if from >= move.PileCount || to >= move.PileCount {
		return false
	}
	if nCards == 0 || nCards > MaxPileLen {
		return false
	}
	fromPile := &g.piles[from]
	toPile := &g.piles[to]
	if int(nCards) > fromPile.Len() {
		return false
	}
	coverCard := fromPile.At(fromPile.Len() - int(nCards))
	if toPile.IsTableau() {
		if toPile.Empty() {
			return coverCard.Rank() == cards.King
		}
		return coverCard.Covers(toPile.Back())
	}
	if toPile.IsFoundation() {
		return coverCard.Suit() == cards.Suit(to-move.FoundationBase) &&
			int(coverCard.Rank()) == toPile.Len()
	}
	return true
}

// IsValid checks a move's preconditions against the current position.
func (g *Game) IsValid(mv move.MoveSpec) bool {
	if mv.IsStockMove() {
		draw := mv.DrawCount()
		if draw > 0 {
			return g.validTransfer(move.Stock, mv.To(), uint(draw))
		}
		return g.validTransfer(move.Waste, mv.To(), uint(-draw+1))
	}
	return g.validTransfer(mv.From(), mv.To(), mv.NCards())
}

// IsValidX checks an expanded elementary move.
func (g *Game) IsValidX(xm move.XMove) bool {
	return g.validTransfer(xm.From, xm.To, xm.NCards)
}

// ReplaySolution deals a fresh game and applies each move after
// validating it. It reports whether every move was legal and the game
// ended won.
func (g *Game) ReplaySolution(solution []move.MoveSpec) bool {
	g.Deal()
	for _, mv := range solution {
		if !g.IsValid(mv) {
			return false
		}
		g.MakeMove(mv)
	}
	return g.GameOver()
}

// String renders the whole position for debugging, one pile per line.
func (g *Game) String() string {
	var sb strings.Builder
	for i := range g.piles {
		sb.WriteString(g.piles[i].String())
		sb.WriteString("\n")
	}
	return sb.String()
}
