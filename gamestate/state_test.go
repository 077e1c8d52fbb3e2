package gamestate

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/game"
)

func mustGame(t *testing.T, deck cards.Deck) *game.Game {
	t.Helper()
	g, err := game.New(deck, 1, game.UnlimitedRecycles)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestTableauOrderSymmetry(t *testing.T) {
	is := is.New(t)
	deckA := cards.NumberedDeal(42)
	// Swap the face-up cards of tableau piles 1 and 2 (deck positions 0
	// and 7). The two games differ only in which pile shows which run,
	// so they are the same position.
	deckB := deckA
	deckB[0], deckB[7] = deckB[7], deckB[0]

	sA, _ := NewState(mustGame(t, deckA), 0)
	sB, _ := NewState(mustGame(t, deckB), 0)
	is.Equal(sA, sB)

	// A genuinely different face-up card is a different position.
	deckC := deckA
	deckC[0], deckC[30] = deckC[30], deckC[0] // swap with a stock card
	sC, _ := NewState(mustGame(t, deckC), 0)
	is.True(sA != sC)
}

func TestStateKeyIgnoresMoveCount(t *testing.T) {
	is := is.New(t)
	g := mustGame(t, cards.NumberedDeal(1000))
	s0, count := NewState(g, 7)
	is.Equal(count, uint16(7))

	// Play nothing: same key.
	s1, _ := NewState(g, 99)
	is.Equal(s0, s1)
}

func pileOf(up uint, strs ...string) *game.Pile {
	var p game.Pile
	for _, s := range strs {
		p.Push(cards.MustParse(s))
	}
	p.SetUpCount(up)
	return &p
}

func TestDeflateTableau(t *testing.T) {
	is := is.New(t)
	is.Equal(deflateTableau(pileOf(0)), uint32(0))
	is.Equal(deflateTableau(pileOf(0, "c5", "d8")), uint32(0))

	// One face-up card: suit and rank of the run base, no major bits,
	// up count one.
	v := deflateTableau(pileOf(1, "s9"))
	is.Equal(v&0xf, uint32(1))                    // up count
	is.Equal(v>>4&0x7ff, uint32(0))               // no cards above the base
	is.Equal(v>>15, uint32(cards.Spades)<<4|8)    // s9 is rank index 8

	// The major bits identify each successor exactly: given the base
	// card, the cover rules pin down rank and color, and major-or-not
	// picks the suit within the color.
	a := deflateTableau(pileOf(3, "c2", "s9", "h8", "c7"))
	b := deflateTableau(pileOf(3, "c2", "s9", "d8", "c7"))
	c := deflateTableau(pileOf(3, "c2", "s9", "h8", "s7"))
	is.True(a != b) // h8 vs d8
	is.True(a != c) // c7 vs s7

	// The same run over different face-down cards is the same value.
	d := deflateTableau(pileOf(3, "dj", "s9", "h8", "c7"))
	is.Equal(a, d)

	// The same cards with a different up count are different.
	e := deflateTableau(pileOf(2, "c2", "s9", "h8", "c7"))
	is.True(a != e)
}

func TestDeflateDecode(t *testing.T) {
	is := is.New(t)
	p := pileOf(4, "c3", "sq", "hj", "ct", "d9")
	v := deflateTableau(p)

	up := v & 0xf
	majors := v >> 4 & 0x7ff
	base := v >> 15
	is.Equal(up, uint32(4))
	is.Equal(base, uint32(cards.Spades)<<4|11) // queen of spades
	// The bits accumulate base to top, earlier cards shifting left: hj
	// (major) lands highest, then ct and d9 (both minor).
	is.Equal(majors, uint32(0b100))
}
