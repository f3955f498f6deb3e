package pairings

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreSolution_FirstTimeMeeting(t *testing.T) {
	target := mustWeek(t, "2025-31")

	score, breakdown := ScoreSolution(
		[]Pair{NewPair("Mary", "Peter")},
		nil,
		nil,
		HistoryIndex{},
		target,
		DefaultWeights(),
	)

	assert.Equal(t, 10.0, score)
	assert.Equal(t, 1, breakdown.FirstTimeMeetings)
	assert.Equal(t, 1, breakdown.TotalPairs)
}

func TestScoreSolution_RepeatWindows(t *testing.T) {
	tests := []struct {
		weeksAgo   int
		wantScore  float64
		wantRecent int
		wantOld    int
	}{
		{weeksAgo: 1, wantScore: -5, wantRecent: 1},
		{weeksAgo: 2, wantScore: -5, wantRecent: 1},
		{weeksAgo: 3, wantScore: -1, wantOld: 1},
		{weeksAgo: 4, wantScore: -1, wantOld: 1},
		{weeksAgo: 5, wantScore: 0},
		{weeksAgo: 6, wantScore: 0},
	}

	target := mustWeek(t, "2025-31")
	pair := NewPair("Mary", "Peter")

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d_weeks_ago", tc.weeksAgo), func(t *testing.T) {
			lastMet := mustWeek(t, fmt.Sprintf("2025-%02d", 31-tc.weeksAgo))
			index := BuildHistoryIndex(map[Week]HistoryRecord{
				lastMet: {Pairs: []Pair{pair}},
			})

			score, breakdown := ScoreSolution([]Pair{pair}, nil, nil, index, target, DefaultWeights())

			assert.Equal(t, tc.wantScore, score)
			assert.Equal(t, tc.wantRecent, breakdown.RecentPairings)
			assert.Equal(t, tc.wantOld, breakdown.OldPairings)
			assert.Equal(t, 0, breakdown.FirstTimeMeetings)
		})
	}
}

func TestScoreSolution_OnlyMostRecentMeetingCounts(t *testing.T) {
	target := mustWeek(t, "2025-31")
	pair := NewPair("Mary", "Peter")

	// Met long ago and again last week; the recent meeting drives the penalty.
	index := BuildHistoryIndex(map[Week]HistoryRecord{
		mustWeek(t, "2025-10"): {Pairs: []Pair{pair}},
		mustWeek(t, "2025-30"): {Pairs: []Pair{pair}},
	})

	score, breakdown := ScoreSolution([]Pair{pair}, nil, nil, index, target, DefaultWeights())

	assert.Equal(t, -5.0, score)
	assert.Equal(t, 1, breakdown.RecentPairings)
}

func TestScoreSolution_RepeatAcrossYearRollover(t *testing.T) {
	pair := NewPair("Mary", "Peter")
	index := BuildHistoryIndex(map[Week]HistoryRecord{
		mustWeek(t, "2025-52"): {Pairs: []Pair{pair}},
	})

	// Two weeks later in real time, despite the ordinal dropping to 02.
	score, breakdown := ScoreSolution([]Pair{pair}, nil, nil, index, mustWeek(t, "2026-02"), DefaultWeights())

	assert.Equal(t, -5.0, score)
	assert.Equal(t, 1, breakdown.RecentPairings)
}

func TestScoreSolution_FairnessContribution(t *testing.T) {
	// Five people with average TimesLeftOut of 0.8.
	roster := map[string]ParticipantStats{
		"Mary":  {TimesLeftOut: 1},
		"Peter": {TimesLeftOut: 0},
		"Sarah": {TimesLeftOut: 2},
		"John":  {TimesLeftOut: 0},
		"Lisa":  {TimesLeftOut: 1},
	}

	// Leaving out Sarah (2 exclusions, above average) costs (0.8-2)*3 = -3.6.
	score, breakdown := ScoreSolution(nil, []string{"Sarah"}, roster, HistoryIndex{}, mustWeek(t, "2025-31"), DefaultWeights())

	assert.InDelta(t, -3.6, score, 1e-9)
	assert.InDelta(t, -3.6, breakdown.FairnessScore, 1e-9)

	// Leaving out Peter (0 exclusions, below average) earns (0.8-0)*3 = 2.4.
	score, breakdown = ScoreSolution(nil, []string{"Peter"}, roster, HistoryIndex{}, mustWeek(t, "2025-31"), DefaultWeights())

	assert.InDelta(t, 2.4, score, 1e-9)
	assert.InDelta(t, 2.4, breakdown.FairnessScore, 1e-9)
}

func TestScoreSolution_EmptyRosterAveragesToZero(t *testing.T) {
	score, breakdown := ScoreSolution(nil, []string{"Mary"}, nil, HistoryIndex{}, mustWeek(t, "2025-31"), DefaultWeights())

	// avg 0 - count 0 = 0 contribution; no division-by-zero.
	assert.Equal(t, 0.0, score)
	assert.Equal(t, 0.0, breakdown.FairnessScore)
}

func TestScoreSolution_CustomWeights(t *testing.T) {
	weights := DefaultWeights()
	weights.FirstTimeMeeting = 100

	score, _ := ScoreSolution([]Pair{NewPair("Mary", "Peter")}, nil, nil, HistoryIndex{}, mustWeek(t, "2025-31"), weights)

	assert.Equal(t, 100.0, score)
}

func TestScoreSolution_Pure(t *testing.T) {
	pair := NewPair("Mary", "Peter")
	roster := map[string]ParticipantStats{"Mary": {TimesLeftOut: 1}, "Peter": {}, "Lisa": {TimesLeftOut: 3}}
	index := BuildHistoryIndex(map[Week]HistoryRecord{
		mustWeek(t, "2025-28"): {Pairs: []Pair{pair}},
	})
	target := mustWeek(t, "2025-31")

	score1, breakdown1 := ScoreSolution([]Pair{pair}, []string{"Lisa"}, roster, index, target, DefaultWeights())
	score2, breakdown2 := ScoreSolution([]Pair{pair}, []string{"Lisa"}, roster, index, target, DefaultWeights())

	require.Equal(t, score1, score2)
	require.Equal(t, breakdown1, breakdown2)
}
