package pairings

import "sort"

// HistoryRecord is one week's persisted pairings. Earlier data files recorded
// pairs under separate manual_pairs and auto_pairs fields; all three fields
// are treated as equivalent sources of "pairs that happened this week".
type HistoryRecord struct {
	Pairs       []Pair
	ManualPairs []Pair
	AutoPairs   []Pair
	LeftOut     []string
}

// AllPairs merges the legacy pair fields into a single list.
func (r HistoryRecord) AllPairs() []Pair {
	merged := make([]Pair, 0, len(r.Pairs)+len(r.ManualPairs)+len(r.AutoPairs))
	merged = append(merged, r.Pairs...)
	merged = append(merged, r.ManualPairs...)
	merged = append(merged, r.AutoPairs...)
	return merged
}

// HistoryIndex maps an unordered pair to the weeks its members were paired,
// in ascending week order.
type HistoryIndex map[Pair][]Week

// BuildHistoryIndex derives a pair-to-weeks lookup from the full pairing
// history. Degenerate entries (empty names, self-pairs) are skipped.
// Pure: deterministic for the same history, no side effects.
func BuildHistoryIndex(history map[Week]HistoryRecord) HistoryIndex {
	index := make(HistoryIndex)

	for week, record := range history {
		for _, pair := range record.AllPairs() {
			if pair.A == "" || pair.B == "" || pair.A == pair.B {
				continue
			}
			key := NewPair(pair.A, pair.B)
			index[key] = append(index[key], week)
		}
	}

	for pair, weeks := range index {
		sort.Slice(weeks, func(i, j int) bool {
			return weeks[i].Epoch < weeks[j].Epoch
		})
		index[pair] = weeks
	}

	return index
}

// LastMet returns the most recent week the pair was matched, if any.
func (idx HistoryIndex) LastMet(p Pair) (Week, bool) {
	weeks := idx[NewPair(p.A, p.B)]
	if len(weeks) == 0 {
		return Week{}, false
	}
	return weeks[len(weeks)-1], true
}
