package pairings

// Pair is an unordered pair of participant names. NewPair normalizes member
// order so equal pairs compare equal and can be used as map keys.
type Pair struct {
	A string
	B string
}

// NewPair creates a normalized pair.
func NewPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Contains reports whether name is a member of the pair.
func (p Pair) Contains(name string) bool {
	return p.A == name || p.B == name
}

func (p Pair) String() string {
	return p.A + " & " + p.B
}

// Solution is one structural way to partition a set of people into pairs.
// LeftOut holds the unpaired people; the enumerator only ever produces zero
// or one leftover, but the slice shape leaves room for a future k-leftover
// generalization.
type Solution struct {
	Pairs   []Pair
	LeftOut []string
}

// ParticipantStats holds the per-person counters used by fairness scoring.
type ParticipantStats struct {
	Active                 bool
	TimesLeftOut           int
	TotalWeeksParticipated int
}
