package pairings

// Repeat-penalty windows, in weeks before the target week.
const (
	recentRepeatWindow = 2
	oldRepeatWindow    = 4
)

// Weights configures the scoring heuristic. Construct custom values from
// DefaultWeights rather than the zero value.
type Weights struct {
	// FirstTimeMeeting is the reward for a pair that has never met.
	FirstTimeMeeting float64

	// RecentPairingPenalty applies when a pair last met within the last
	// 2 weeks of the target week.
	RecentPairingPenalty float64

	// OldPairingPenalty applies when a pair last met 3-4 weeks before the
	// target week. Older pairings score zero.
	OldPairingPenalty float64

	// FairnessBonus is applied per unit difference between a left-out
	// person's exclusion count and the roster average.
	FairnessBonus float64
}

// DefaultWeights returns the standard scoring weights.
func DefaultWeights() Weights {
	return Weights{
		FirstTimeMeeting:     10,
		RecentPairingPenalty: -5,
		OldPairingPenalty:    -1,
		FairnessBonus:        3,
	}
}

// Breakdown itemizes the contributions to a solution's score.
type Breakdown struct {
	FirstTimeMeetings int
	RecentPairings    int
	OldPairings       int
	FairnessScore     float64
	TotalPairs        int

	// Note flags degenerate ranking cases (everyone manually paired, or a
	// single person left over with no one to pair with).
	Note string
}

// ScoreSolution scores a candidate set of pairs plus leftovers against
// pairing history and exclusion fairness.
//
// Each never-met pair earns the first-time reward. A previously met pair is
// penalized by how recently it last met, measured in week-epoch distance
// from targetWeek. Each left-out person contributes
// (rosterAverageLeftOut - theirLeftOutCount) * FairnessBonus, so excluding
// someone who has been left out more than average costs score.
//
// Pure: identical inputs always yield identical outputs.
func ScoreSolution(pairs []Pair, leftOut []string, roster map[string]ParticipantStats, history HistoryIndex, targetWeek Week, weights Weights) (float64, Breakdown) {
	score := 0.0
	breakdown := Breakdown{TotalPairs: len(pairs)}

	for _, pair := range pairs {
		lastMet, met := history.LastMet(pair)
		if !met {
			score += weights.FirstTimeMeeting
			breakdown.FirstTimeMeetings++
			continue
		}

		weeksAgo := targetWeek.WeeksSince(lastMet)
		switch {
		case weeksAgo <= recentRepeatWindow:
			score += weights.RecentPairingPenalty
			breakdown.RecentPairings++
		case weeksAgo <= oldRepeatWindow:
			score += weights.OldPairingPenalty
			breakdown.OldPairings++
		}
	}

	if len(leftOut) > 0 {
		avg := averageLeftOut(roster)
		for _, name := range leftOut {
			contribution := (avg - float64(roster[name].TimesLeftOut)) * weights.FairnessBonus
			score += contribution
			breakdown.FairnessScore += contribution
		}
	}

	return score, breakdown
}

// averageLeftOut averages TimesLeftOut across the whole roster, active and
// inactive alike. An empty roster averages to zero.
func averageLeftOut(roster map[string]ParticipantStats) float64 {
	if len(roster) == 0 {
		return 0
	}

	total := 0
	for _, stats := range roster {
		total += stats.TimesLeftOut
	}
	return float64(total) / float64(len(roster))
}
