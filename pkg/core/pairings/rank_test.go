package pairings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank_ReturnsTopNSortedByScore(t *testing.T) {
	roster := map[string]ParticipantStats{
		"Mary": {}, "Peter": {}, "Sarah": {}, "John": {},
	}

	// Mary+Peter met last week; solutions avoiding that repeat should win.
	index := BuildHistoryIndex(map[Week]HistoryRecord{
		mustWeek(t, "2025-30"): {Pairs: []Pair{NewPair("Mary", "Peter")}},
	})

	solutions := Rank(RankRequest{
		ActivePeople: []string{"Mary", "Peter", "Sarah", "John"},
		Roster:       roster,
		History:      index,
		TargetWeek:   mustWeek(t, "2025-31"),
		Weights:      DefaultWeights(),
	})

	// 4 people -> 3 matchings, all returned under the default top 3.
	require.Len(t, solutions, 3)

	for i := 1; i < len(solutions); i++ {
		assert.GreaterOrEqual(t, solutions[i-1].Score, solutions[i].Score)
	}

	// Two first-time solutions at +20 beat the repeat at +10-5.
	assert.Equal(t, 20.0, solutions[0].Score)
	assert.Equal(t, 20.0, solutions[1].Score)
	assert.Equal(t, 5.0, solutions[2].Score)
	assert.True(t, containsPair(solutions[2].Pairs, NewPair("Mary", "Peter")))
}

func TestRank_TopNLimit(t *testing.T) {
	solutions := Rank(RankRequest{
		ActivePeople: people(6),
		Roster:       map[string]ParticipantStats{},
		History:      HistoryIndex{},
		TargetWeek:   mustWeek(t, "2025-31"),
		Weights:      DefaultWeights(),
		TopN:         5,
	})

	// 6 people -> 15 matchings, truncated to 5.
	assert.Len(t, solutions, 5)
}

func TestRank_ManualPairIncludedInEverySolution(t *testing.T) {
	manual := NewPair("Mary", "Peter")

	solutions := Rank(RankRequest{
		ActivePeople: []string{"Mary", "Peter", "Sarah", "John", "Lisa"},
		Roster:       map[string]ParticipantStats{},
		History:      HistoryIndex{},
		TargetWeek:   mustWeek(t, "2025-31"),
		ManualPairs:  []Pair{manual},
		Weights:      DefaultWeights(),
		TopN:         10,
	})

	// 3 people remain for auto-pairing: 3 odd-leftover solutions.
	require.Len(t, solutions, 3)

	leftOutCounts := make(map[string]int)
	for _, solution := range solutions {
		assert.True(t, containsPair(solution.Pairs, manual), "manual pair missing from solution")
		require.Len(t, solution.Pairs, 2)
		require.Len(t, solution.LeftOut, 1)
		leftOutCounts[solution.LeftOut[0]]++
	}
	assert.Equal(t, map[string]int{"Sarah": 1, "John": 1, "Lisa": 1}, leftOutCounts)
}

func TestRank_SinglePersonLeftForAutoPairing(t *testing.T) {
	manual := NewPair("Mary", "Peter")

	solutions := Rank(RankRequest{
		ActivePeople: []string{"Mary", "Peter", "Sarah"},
		Roster:       map[string]ParticipantStats{},
		History:      HistoryIndex{},
		TargetWeek:   mustWeek(t, "2025-31"),
		ManualPairs:  []Pair{manual},
		Weights:      DefaultWeights(),
	})

	require.Len(t, solutions, 1)
	assert.Equal(t, 0.0, solutions[0].Score)
	assert.Equal(t, []Pair{manual}, solutions[0].Pairs)
	assert.Equal(t, []string{"Sarah"}, solutions[0].LeftOut)
	assert.Equal(t, "only 1 person available for auto-pairing", solutions[0].Breakdown.Note)
}

func TestRank_AllManual(t *testing.T) {
	manual := []Pair{NewPair("Mary", "Peter"), NewPair("Sarah", "John")}

	solutions := Rank(RankRequest{
		ActivePeople: []string{"Mary", "Peter", "Sarah", "John"},
		Roster:       map[string]ParticipantStats{},
		History:      HistoryIndex{},
		TargetWeek:   mustWeek(t, "2025-31"),
		ManualPairs:  manual,
		Weights:      DefaultWeights(),
	})

	require.Len(t, solutions, 1)
	assert.Equal(t, 0.0, solutions[0].Score)
	assert.Equal(t, manual, solutions[0].Pairs)
	assert.Empty(t, solutions[0].LeftOut)
	assert.Equal(t, "all pairs are manual", solutions[0].Breakdown.Note)
}

func TestRank_Deterministic(t *testing.T) {
	req := RankRequest{
		ActivePeople: []string{"Mary", "Peter", "Sarah", "John", "Lisa"},
		Roster: map[string]ParticipantStats{
			"Mary": {TimesLeftOut: 1}, "Peter": {}, "Sarah": {TimesLeftOut: 2}, "John": {}, "Lisa": {TimesLeftOut: 1},
		},
		History: BuildHistoryIndex(map[Week]HistoryRecord{
			mustWeek(t, "2025-29"): {Pairs: []Pair{NewPair("Mary", "Peter"), NewPair("Sarah", "John")}},
			mustWeek(t, "2025-30"): {Pairs: []Pair{NewPair("Mary", "Sarah"), NewPair("Peter", "Lisa")}},
		}),
		TargetWeek: mustWeek(t, "2025-31"),
		Weights:    DefaultWeights(),
	}

	assert.Equal(t, Rank(req), Rank(req))
}

func containsPair(pairs []Pair, want Pair) bool {
	for _, pair := range pairs {
		if pair == want {
			return true
		}
	}
	return false
}
