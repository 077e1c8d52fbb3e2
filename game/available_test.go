package game

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"

	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/move"
)

// synthGame builds an empty game to hand-load positions into. Tests
// that use it must keep kingSpaces in line with what they load.
func synthGame(draw uint) *Game {
	g := &Game{drawSetting: uint8(draw), recycleLimit: UnlimitedRecycles}
	for code := move.PileCode(0); code < move.PileCount; code++ {
		g.piles[code] = makePile(code)
	}
	return g
}

func loadPile(p *Pile, up uint, strs ...string) {
	for _, s := range strs {
		p.Push(cards.MustParse(s))
	}
	p.SetUpCount(up)
}

func recountKingSpaces(g *Game) {
	g.kingSpaces = 0
	for i := 0; i < move.TableauSize; i++ {
		p := g.tableau(i)
		if p.Empty() || p.At(0).Rank() == cards.King {
			g.kingSpaces++
		}
	}
}

func TestDominantMovesOneAtATime(t *testing.T) {
	is := is.New(t)
	// Three aces dealt face up: AvailableMoves serves them singly and
	// ignores everything else.
	deck := deckFromLayout(t, [7][]cards.Card{
		cardList("s6"),
		cardList("s5", "s4"),
		cardList("s3", "s2", "sa"),
		cardList("d9", "d8", "d7", "d6"),
		cardList("d5", "d4", "d3", "d2", "da"),
		cardList("c6", "c5", "c4", "c3", "c2", "ca"),
		cardList("ck", "cq", "cj", "ct", "c9", "c8", "c7"),
	}, cardList(
		"dt", "dj", "dq", "dk", "s7", "s8", "s9", "st", "sj", "sq", "sk",
		"ha", "h2", "h3", "h4", "h5", "h6", "h7", "h8", "h9", "ht", "hj", "hq", "hk",
	))
	g, err := New(deck, 1, UnlimitedRecycles)
	is.NoErr(err)

	seq := move.NewSequence()
	for i := 0; i < 3; i++ {
		avail := g.AvailableMoves(seq)
		is.Equal(len(avail), 1)
		mv := avail[0]
		is.True(mv.To().IsFoundation())
		is.Equal(mv.NCards(), uint(1))
		g.MakeMove(mv)
		seq.PushBack(mv)
	}
	is.Equal(g.MinFoundationPileSize(), uint(0)) // hearts still empty
}

func TestDominantStockDrawOne(t *testing.T) {
	is := is.New(t)
	g := synthGame(1)
	loadPile(g.stock(), 0, "h9", "h7", "da") // da on top of the stock
	recountKingSpaces(g)
	avail := g.AvailableMoves(move.NewSequence())
	is.Equal(len(avail), 1)
	mv := avail[0]
	is.True(mv.IsStockMove())
	is.Equal(mv.To(), move.FoundationD)
	is.Equal(mv.NMoves(), uint(2))
	is.Equal(mv.DrawCount(), 1)
}

func TestKingToEmptyRules(t *testing.T) {
	is := is.New(t)
	g := synthGame(1)
	loadPile(g.tableau(0), 1, "d5", "sk") // king covering a face-down card
	loadPile(g.tableau(4), 1, "ck")       // bare king covers nothing
	// tableau piles 1, 2, 3, 5, 6 stay empty
	recountKingSpaces(g)
	avail := g.AvailableMoves(move.NewSequence())

	kingMoves := 0
	for _, mv := range avail {
		if mv.From() == move.Tableau1 && mv.To().IsTableau() {
			kingMoves++
			is.Equal(mv.NCards(), uint(1))
			is.True(mv.FlipsTopCard())
		}
		is.True(mv.From() != move.Tableau5) // the bare king stays put
	}
	// one empty pile gets the king, not one move per empty pile
	is.Equal(kingMoves, 1)
}

func TestWholeRunMoveFlips(t *testing.T) {
	is := is.New(t)
	g := synthGame(1)
	loadPile(g.tableau(0), 2, "d9", "s8", "h7")
	loadPile(g.tableau(1), 1, "c2", "h9")
	recountKingSpaces(g)
	avail := g.AvailableMoves(move.NewSequence())
	require.Len(t, avail, 1)
	mv := avail[0]
	is.Equal(mv.From(), move.Tableau1)
	is.Equal(mv.To(), move.Tableau2)
	is.Equal(mv.NCards(), uint(2))
	is.Equal(mv.NMoves(), uint(1))
	is.True(mv.FlipsTopCard())

	snap := *g
	g.MakeMove(mv)
	is.Equal(g.tableau(0).Len(), 1)
	is.Equal(g.tableau(0).UpCount(), uint(1)) // d9 flipped
	is.Equal(g.tableau(1).UpCount(), uint(3))
	g.UnMakeMove(mv)
	require.Equal(t, snap, *g)
}

func TestLadderMoveEmission(t *testing.T) {
	is := is.New(t)
	g := synthGame(1)
	loadPile(g.foundation(cards.Hearts), 0, "ha", "h2", "h3", "h4")
	loadPile(g.foundation(cards.Clubs), 0, "ca", "c2", "c3", "c4", "c5", "c6", "c7")
	loadPile(g.tableau(0), 2, "c9", "h5", "s4")
	loadPile(g.tableau(1), 1, "c8", "d5")
	recountKingSpaces(g)
	avail := g.AvailableMoves(move.NewSequence())

	var ladder move.MoveSpec
	found := false
	for _, mv := range avail {
		if mv.IsLadderMove() {
			require.False(t, found, "expected a single ladder move")
			ladder = mv
			found = true
		}
	}
	require.True(t, found)
	is.Equal(ladder.From(), move.Tableau1)
	is.Equal(ladder.To(), move.Tableau2)
	is.Equal(ladder.NCards(), uint(1))
	is.Equal(ladder.NMoves(), uint(2))
	is.Equal(ladder.LadderSuit(), cards.Hearts)
	is.True(ladder.FlipsTopCard())

	snap := *g
	g.MakeMove(ladder)
	is.Equal(g.foundation(cards.Hearts).Len(), 5)
	is.Equal(g.foundation(cards.Hearts).Back(), cards.MustParse("h5"))
	is.Equal(g.tableau(0).Len(), 1)
	is.Equal(g.tableau(0).UpCount(), uint(1)) // c9 flipped
	is.Equal(g.tableau(1).Back(), cards.MustParse("s4"))
	g.UnMakeMove(ladder)
	require.Equal(t, snap, *g)
}

func TestTalonScanDrawOneStopsAtShortFoundation(t *testing.T) {
	is := is.New(t)
	g := synthGame(1)
	loadPile(g.foundation(cards.Clubs), 0, "ca")
	loadPile(g.foundation(cards.Diamonds), 0, "da")
	loadPile(g.foundation(cards.Spades), 0, "sa")
	loadPile(g.foundation(cards.Hearts), 0, "ha")
	loadPile(g.stock(), 0, "h2", "d2", "sj") // sj drawn first, then d2
	recountKingSpaces(g)
	avail := g.AvailableMoves(move.NewSequence())
	require.Len(t, avail, 1)
	mv := avail[0]
	is.True(mv.IsStockMove())
	is.Equal(mv.To(), move.FoundationD)
	is.Equal(mv.NMoves(), uint(3)) // two draws plus the play
	is.Equal(mv.DrawCount(), 2)
	// h2 is also playable but sits beyond the cutoff; it was not offered.
}

func TestTalonScanDrawThreeKeepsScanning(t *testing.T) {
	is := is.New(t)
	g := synthGame(3)
	loadPile(g.foundation(cards.Clubs), 0, "ca")
	loadPile(g.foundation(cards.Diamonds), 0, "da")
	loadPile(g.foundation(cards.Spades), 0, "sa")
	loadPile(g.foundation(cards.Hearts), 0, "ha")
	loadPile(g.stock(), 0, "h2", "c5", "c6", "d2", "c7", "c8")
	recountKingSpaces(g)
	avail := g.AvailableMoves(move.NewSequence())
	require.Len(t, avail, 2)
	// the first draw of three exposes d2, which would end a draw-1 scan
	mv := avail[0]
	is.True(mv.IsStockMove())
	is.Equal(mv.To(), move.FoundationD)
	is.Equal(mv.NMoves(), uint(2))
	is.Equal(mv.DrawCount(), 3)
	// the scan goes on: a second draw exposes h2, the bottom of the stock
	mv = avail[1]
	is.True(mv.IsStockMove())
	is.Equal(mv.To(), move.FoundationH)
	is.Equal(mv.NMoves(), uint(3))
	is.Equal(mv.DrawCount(), 6)
}

func TestFoundationToTableauDepthGuard(t *testing.T) {
	is := is.New(t)
	g := synthGame(1)
	loadPile(g.foundation(cards.Clubs), 0, "ca", "c2", "c3", "c4", "c5")
	loadPile(g.foundation(cards.Diamonds), 0, "da")
	loadPile(g.foundation(cards.Spades), 0, "sa")
	loadPile(g.foundation(cards.Hearts), 0, "ha")
	loadPile(g.tableau(0), 1, "h6")
	recountKingSpaces(g)
	avail := g.AvailableMoves(move.NewSequence())
	found := false
	for _, mv := range avail {
		if mv.From() == move.FoundationC && mv.To() == move.Tableau1 {
			found = true
		}
	}
	is.True(found) // clubs is 4 deeper than the shortest pile

	// With a shallower pile the reverse move would be dominant bait.
	g2 := synthGame(1)
	loadPile(g2.foundation(cards.Clubs), 0, "ca", "c2", "c3")
	loadPile(g2.foundation(cards.Diamonds), 0, "da")
	loadPile(g2.foundation(cards.Spades), 0, "sa")
	loadPile(g2.foundation(cards.Hearts), 0, "ha")
	loadPile(g2.tableau(0), 1, "h4")
	recountKingSpaces(g2)
	for _, mv := range g2.AvailableMoves(move.NewSequence()) {
		is.True(mv.From() != move.FoundationC)
	}
}

func TestIsValid(t *testing.T) {
	is := is.New(t)
	g, err := New(cards.NumberedDeal(3), 1, UnlimitedRecycles)
	is.NoErr(err)
	seq := move.NewSequence()
	for _, mv := range g.AvailableMoves(seq) {
		is.True(g.IsValid(mv))
	}
	// a move of more cards than the from pile holds
	is.True(!g.IsValid(move.NonStockMove(move.Tableau1, move.Tableau2, 9, 1)))
	// waste is empty at the deal
	is.True(!g.IsValid(move.NonStockMove(move.Waste, move.FoundationC, 1, 0)))
}
