package move

import "github.com/domino14/patience/cards"

// PileCode identifies a pile's role in the game. The order is load
// bearing: the game stores its piles in this order and the state key
// packing depends on it.
type PileCode uint8

const (
	Waste PileCode = iota
	Tableau1
	Tableau2
	Tableau3
	Tableau4
	Tableau5
	Tableau6
	Tableau7
	Stock
	FoundationC
	FoundationD
	FoundationS
	FoundationH
	PileCount
)

const (
	TableauBase    = Tableau1
	TableauSize    = 7
	FoundationBase = FoundationC
)

var pileNames = [PileCount]string{
	"wa", "t1", "t2", "t3", "t4", "t5", "t6", "t7", "st", "cb", "di", "sp", "ht",
}

func (p PileCode) String() string {
	if p < PileCount {
		return pileNames[p]
	}
	return "??"
}

func (p PileCode) IsTableau() bool {
	return TableauBase <= p && p < TableauBase+TableauSize
}

func (p PileCode) IsFoundation() bool {
	return FoundationBase <= p && p < FoundationBase+cards.Suits
}

// FoundationFor returns the foundation pile code for a suit.
func FoundationFor(s cards.Suit) PileCode {
	return FoundationBase + PileCode(s)
}
