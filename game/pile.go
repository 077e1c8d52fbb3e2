package game

import (
	"strings"

	"github.com/domino14/patience/cards"
	"github.com/domino14/patience/move"
)

// MaxPileLen is the most cards any single pile can hold after the deal.
const MaxPileLen = 24

// Pile is a bounded ordered pile of cards plus a face-up count. The top
// of the pile is at the back. UpCount is meaningful only for tableau
// piles, where it counts the face-up cards stacked at the top. Pile is a
// plain value; copying a Game copies its piles. Slots past the last card
// are kept zero, so piles holding the same cards compare equal.
type Pile struct {
	cards        [MaxPileLen]cards.Card
	n            uint8
	up           uint8
	code         move.PileCode
	isTableau    bool
	isFoundation bool
}

func makePile(code move.PileCode) Pile {
	return Pile{
		code:         code,
		isTableau:    code.IsTableau(),
		isFoundation: code.IsFoundation(),
	}
}

func (p *Pile) Code() move.PileCode { return p.code }
func (p *Pile) IsTableau() bool     { return p.isTableau }
func (p *Pile) IsFoundation() bool  { return p.isFoundation }

func (p *Pile) Len() int    { return int(p.n) }
func (p *Pile) Empty() bool { return p.n == 0 }

// Cards is a read-only view of the pile, bottom first.
func (p *Pile) Cards() []cards.Card { return p.cards[:p.n] }

func (p *Pile) At(i int) cards.Card { return p.cards[i] }

// Back is the top card of the pile.
func (p *Pile) Back() cards.Card { return p.cards[p.n-1] }

// Top is the bottom face-up card, the base of the tableau run.
func (p *Pile) Top() cards.Card { return p.cards[p.n-p.up] }

func (p *Pile) UpCount() uint         { return uint(p.up) }
func (p *Pile) SetUpCount(u uint)     { p.up = uint8(u) }
func (p *Pile) IncrUpCount(delta int) { p.up = uint8(int(p.up) + delta) }

func (p *Pile) Push(c cards.Card) {
	p.cards[p.n] = c
	p.n++
}

func (p *Pile) Pop() cards.Card {
	p.n--
	c := p.cards[p.n]
	p.cards[p.n] = 0
	return c
}

func (p *Pile) Clear() {
	p.cards = [MaxPileLen]cards.Card{}
	p.n = 0
	p.up = 0
}

// Take moves the last n cards from donor to p, preserving order.
func (p *Pile) Take(donor *Pile, n uint) {
	start := uint(donor.n) - n
	copy(p.cards[p.n:], donor.cards[start:donor.n])
	clear(donor.cards[start:donor.n])
	p.n += uint8(n)
	donor.n = uint8(start)
}

// Draw moves the last n cards of other to the back of p one at a time,
// reversing their order. A negative n does the reverse.
func (p *Pile) Draw(other *Pile, n int) {
	for ; n > 0; n-- {
		p.Push(other.Pop())
	}
	for ; n < 0; n++ {
		other.Push(p.Pop())
	}
}

// String renders the pile for debugging, marking where the face-down
// cards end on a tableau pile, like "t4: s7 d2|ha ck".
func (p *Pile) String() string {
	var sb strings.Builder
	sb.WriteString(p.code.String())
	sb.WriteString(":")
	for i := 0; i < int(p.n); i++ {
		sep := " "
		if p.isTableau && i == int(p.n-p.up) {
			sep = "|"
		}
		sb.WriteString(sep)
		sb.WriteString(p.cards[i].String())
	}
	return sb.String()
}
