package solver

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"

	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/game"
	"github.com/domino14/patience/move"
)

func TestMisorderCount(t *testing.T) {
	is := is.New(t)
	cs := func(strs ...string) []cards.Card {
		out := make([]cards.Card, len(strs))
		for i, s := range strs {
			out[i] = cards.MustParse(s)
		}
		return out
	}
	is.Equal(misorderCount(nil), uint(0))
	// descending same-suit run: every card is a new minimum
	is.Equal(misorderCount(cs("c9", "c7", "c4", "ca")), uint(0))
	// ascending same-suit run: everything after the first is above a
	// lower card of its suit
	is.Equal(misorderCount(cs("ca", "c4", "c7", "c9")), uint(3))
	// suits are tracked independently
	is.Equal(misorderCount(cs("c4", "d2", "c2", "d4")), uint(1))
}

func TestMinMovesLeftAtDeal(t *testing.T) {
	is := is.New(t)
	g, err := game.New(cards.NumberedDeal(17), 1, game.UnlimitedRecycles)
	is.NoErr(err)
	h := MinMovesLeft(g)
	// At the deal: 24 talon cards + 24 draws + 28 tableau cards, plus
	// whatever misorder the deal has buried.
	is.True(h >= 76)

	g3, err := game.New(cards.NumberedDeal(17), 3, game.UnlimitedRecycles)
	is.NoErr(err)
	h3 := MinMovesLeft(g3)
	// Fewer draws needed at draw 3, and no waste misorder term.
	is.True(h3 >= 24+8+28)
	is.True(h3 <= h)
}

// TestConsistency is the law the whole search leans on: along any edge,
// f never decreases.
func TestConsistency(t *testing.T) {
	for _, draw := range []uint{1, 3} {
		for seed := uint32(1); seed <= 10; seed++ {
			g, err := game.New(cards.NumberedDeal(seed), draw, game.UnlimitedRecycles)
			require.NoError(t, err)
			rng := frand.NewCustom(make([]byte, 32), 1024, 12)
			seq := move.NewSequence()
			for step := 0; step < 120; step++ {
				avail := g.AvailableMoves(seq)
				if len(avail) == 0 {
					break
				}
				h0 := MinMovesLeft(g)
				for _, mv := range avail {
					g.MakeMove(mv)
					h1 := MinMovesLeft(g)
					require.LessOrEqual(t, h0, mv.NMoves()+h1,
						"inconsistent across %v (draw %d seed %d)", mv, draw, seed)
					g.UnMakeMove(mv)
				}
				mv := avail[rng.Intn(len(avail))]
				g.MakeMove(mv)
				seq.PushBack(mv)
			}
		}
	}
}

func TestAdmissibleOnTrivialDeal(t *testing.T) {
	is := is.New(t)
	g, err := game.New(trivialWinDeck(t), 1, game.UnlimitedRecycles)
	is.NoErr(err)
	// 24 talon cards + 24 draws + 28 tableau cards, no misorders.
	is.Equal(MinMovesLeft(g), uint(76))
}
