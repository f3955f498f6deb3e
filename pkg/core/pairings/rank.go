package pairings

import "sort"

// DefaultTopN is the number of ranked solutions returned when the request
// does not specify one.
const DefaultTopN = 3

// RankRequest carries the inputs for ranking candidate solutions.
type RankRequest struct {
	// ActivePeople is the pool eligible for this week's pairings.
	ActivePeople []string

	// Roster holds counters for every registered participant, active or not.
	Roster map[string]ParticipantStats

	// History is the pair-to-weeks index built from past pairings.
	History HistoryIndex

	// TargetWeek is the week being generated.
	TargetWeek Week

	// ManualPairs are fixed by the caller and removed from the auto pool.
	ManualPairs []Pair

	Weights Weights

	// TopN limits the returned solutions; DefaultTopN when <= 0.
	TopN int
}

// RankedSolution is a scored candidate: manual pairs first, then the
// automatically generated pairs.
type RankedSolution struct {
	Score     float64
	Pairs     []Pair
	LeftOut   []string
	Breakdown Breakdown
}

// Rank enumerates every pairing of the people not covered by manual pairs,
// scores each candidate with the manual pairs merged in, and returns the
// TopN highest-scoring solutions, best first.
//
// Ties keep enumeration order, so the result is deterministic for a given
// input order.
func Rank(req RankRequest) []RankedSolution {
	topN := req.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	manuallyPaired := make(map[string]bool)
	for _, pair := range req.ManualPairs {
		manuallyPaired[pair.A] = true
		manuallyPaired[pair.B] = true
	}

	available := make([]string, 0, len(req.ActivePeople))
	for _, name := range req.ActivePeople {
		if !manuallyPaired[name] {
			available = append(available, name)
		}
	}

	// Degenerate cases: one person stranded by the manual pairs, or
	// everyone manually paired.
	if len(available) == 1 {
		return []RankedSolution{{
			Pairs:   append([]Pair(nil), req.ManualPairs...),
			LeftOut: available,
			Breakdown: Breakdown{
				TotalPairs: len(req.ManualPairs),
				Note:       "only 1 person available for auto-pairing",
			},
		}}
	}
	if len(available) == 0 {
		return []RankedSolution{{
			Pairs:   append([]Pair(nil), req.ManualPairs...),
			LeftOut: []string{},
			Breakdown: Breakdown{
				TotalPairs: len(req.ManualPairs),
				Note:       "all pairs are manual",
			},
		}}
	}

	candidates := EnumerateSolutions(available)

	ranked := make([]RankedSolution, 0, len(candidates))
	for _, candidate := range candidates {
		pairs := make([]Pair, 0, len(req.ManualPairs)+len(candidate.Pairs))
		pairs = append(pairs, req.ManualPairs...)
		pairs = append(pairs, candidate.Pairs...)

		score, breakdown := ScoreSolution(pairs, candidate.LeftOut, req.Roster, req.History, req.TargetWeek, req.Weights)
		ranked = append(ranked, RankedSolution{
			Score:     score,
			Pairs:     pairs,
			LeftOut:   candidate.LeftOut,
			Breakdown: breakdown,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
