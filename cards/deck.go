package cards

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// Deck is a full 52-card deck in deal order.
type Deck [PerDeck]Card

// SortedDeck returns the deck in suit-major order (clubs A..K, then
// diamonds, spades, hearts).
func SortedDeck() Deck {
	var d Deck
	for i := range d {
		d[i] = Card(i)
	}
	return d
}

// Shuffle reorders deck reproducibly for a given seed. The generator is
// self-contained so deals are stable across platforms and Go releases.
func Shuffle(deck []Card, seed uint32) {
	n := len(deck)
	if n < 2 {
		return
	}
	var key [32]byte
	binary.LittleEndian.PutUint32(key[:], seed)
	rng := frand.NewCustom(key[:], 1024, 12)
	for i := 0; i < n-2; i++ {
		j := i + rng.Intn(n-i)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// NumberedDeal generates deal number seed.
func NumberedDeal(seed uint32) Deck {
	d := SortedDeck()
	Shuffle(d[:], seed)
	return d
}
