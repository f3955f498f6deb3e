package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/pkg/core/pairings"
	"github.com/ingwaneorg/coffee/pkg/db"
)

// activeNames returns the names of active participants, in store order.
func activeNames(participants []db.Participant) []string {
	names := make([]string, 0, len(participants))
	for _, participant := range participants {
		if participant.Active {
			names = append(names, participant.Name)
		}
	}
	return names
}

// rosterStats converts participant records into the stats map the scorer
// uses. All participants are included, active or not.
func rosterStats(participants []db.Participant) map[string]pairings.ParticipantStats {
	stats := make(map[string]pairings.ParticipantStats, len(participants))
	for _, participant := range participants {
		stats[participant.Name] = pairings.ParticipantStats{
			Active:                 participant.Active,
			TimesLeftOut:           participant.TimesLeftOut,
			TotalWeeksParticipated: participant.TotalWeeksParticipated,
		}
	}
	return stats
}

// buildHistory parses persisted pairing weeks into the core history
// structure. Weeks with unparseable tokens are skipped.
func buildHistory(weeks []db.PairingWeek, logger *zap.Logger) map[pairings.Week]pairings.HistoryRecord {
	history := make(map[pairings.Week]pairings.HistoryRecord, len(weeks))
	for _, record := range weeks {
		week, err := pairings.ParseWeek(record.Week)
		if err != nil {
			logger.Warn("Skipping history entry with invalid week token",
				zap.String("week", record.Week),
				zap.Error(err))
			continue
		}

		history[week] = pairings.HistoryRecord{
			Pairs:       toPairs(record.Pairs),
			ManualPairs: toPairs(record.ManualPairs),
			AutoPairs:   toPairs(record.AutoPairs),
			LeftOut:     record.LeftOut,
		}
	}
	return history
}

func toPairs(tuples [][2]string) []pairings.Pair {
	pairs := make([]pairings.Pair, 0, len(tuples))
	for _, tuple := range tuples {
		pairs = append(pairs, pairings.NewPair(tuple[0], tuple[1]))
	}
	return pairs
}

func toTuples(pairs []pairings.Pair) [][2]string {
	tuples := make([][2]string, 0, len(pairs))
	for _, pair := range pairs {
		tuples = append(tuples, [2]string{pair.A, pair.B})
	}
	return tuples
}

// nextTargetWeek derives the upcoming pairing week from the cadence rrule.
func nextTargetWeek(cadence string, now time.Time) (pairings.Week, error) {
	rule, err := rrule.StrToRRule(cadence)
	if err != nil {
		return pairings.Week{}, fmt.Errorf("invalid cadence rrule: %w", err)
	}
	rule.DTStart(now)

	next := rule.After(now, true)
	if next.IsZero() {
		return pairings.Week{}, fmt.Errorf("cadence rrule has no upcoming occurrence")
	}

	return pairings.WeekOf(next), nil
}

// findPairingWeek returns the record matching the week token, or nil.
func findPairingWeek(weeks []db.PairingWeek, token string) *db.PairingWeek {
	for i := range weeks {
		if weeks[i].Week == token {
			return &weeks[i]
		}
	}
	return nil
}
