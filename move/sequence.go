package move

// MaxSequenceLen bounds a worker's current move sequence. Overrunning it
// means the redundant-move filter let an unbounded shuffle through.
const MaxSequenceLen = 500

// Sequence is an ordered run of MoveSpecs with a running count of the
// actual moves they imply. Workers keep their current line of play in
// one of these.
type Sequence struct {
	moves  []MoveSpec
	nMoves uint
}

func NewSequence() *Sequence {
	return &Sequence{moves: make([]MoveSpec, 0, MaxSequenceLen)}
}

func (s *Sequence) Clear() {
	s.moves = s.moves[:0]
	s.nMoves = 0
}

func (s *Sequence) PushBack(m MoveSpec) {
	if len(s.moves) >= MaxSequenceLen {
		panic("move: sequence over capacity; redundant-move filter missed a cycle")
	}
	s.moves = append(s.moves, m)
	s.nMoves += m.NMoves()
}

func (s *Sequence) PopBack() {
	last := len(s.moves) - 1
	s.nMoves -= s.moves[last].NMoves()
	s.moves = s.moves[:last]
}

func (s *Sequence) Len() int          { return len(s.moves) }
func (s *Sequence) At(i int) MoveSpec { return s.moves[i] }

// MoveCount is the total number of actual moves in the sequence.
func (s *Sequence) MoveCount() uint { return s.nMoves }

// Slice exposes the underlying specs, oldest first. Callers must not
// hold the slice across a mutation.
func (s *Sequence) Slice() []MoveSpec { return s.moves }
