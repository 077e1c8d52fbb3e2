package cards

import (
	"testing"

	"github.com/matryer/is"
)

func TestSortedDeck(t *testing.T) {
	is := is.New(t)
	d := SortedDeck()
	is.Equal(d[0], New(Clubs, Ace))
	is.Equal(d[51], New(Hearts, King))
}

func TestNumberedDealComplete(t *testing.T) {
	is := is.New(t)
	for _, seed := range []uint32{0, 1, 17, 100000} {
		d := NumberedDeal(seed)
		var seen [PerDeck]bool
		for _, c := range d {
			is.True(!seen[c])
			seen[c] = true
		}
	}
}

func TestNumberedDealDeterministic(t *testing.T) {
	is := is.New(t)
	a := NumberedDeal(12345)
	b := NumberedDeal(12345)
	is.Equal(a, b)
	c := NumberedDeal(12346)
	is.True(a != c)
}
