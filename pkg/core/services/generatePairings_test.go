package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/internal/config"
	"github.com/ingwaneorg/coffee/pkg/core/pairings"
	"github.com/ingwaneorg/coffee/pkg/db"
)

func testConfig() *config.Config {
	return &config.Config{
		Storage:      config.StorageJSON,
		DataFile:     "coffee.json",
		CadenceRRule: "FREQ=WEEKLY;BYDAY=MO",
		TopN:         3,
	}
}

func activeRoster(names ...string) []db.Participant {
	participants := make([]db.Participant, len(names))
	for i, name := range names {
		participants[i] = db.Participant{Name: name, Active: true}
	}
	return participants
}

func TestGeneratePairings_RanksSolutions(t *testing.T) {
	store := &mockStore{
		participants: activeRoster("Mary", "Peter", "Sarah", "John"),
		weeks: []db.PairingWeek{
			{Week: "2025-30", Pairs: [][2]string{{"Mary", "Peter"}, {"Sarah", "John"}}},
		},
	}

	result, err := GeneratePairings(context.Background(), store, testConfig(), zap.NewNop(), GenerateRequest{
		Week: "2025-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-31", result.TargetWeek.String())
	assert.Equal(t, 4, result.ActiveCount)
	require.Len(t, result.Solutions, 3)

	// The matching that repeats both of last week's pairs ranks last.
	best := result.Solutions[0]
	assert.Equal(t, 20.0, best.Score)
	assert.Equal(t, 2, best.Breakdown.FirstTimeMeetings)
	assert.Equal(t, -10.0, result.Solutions[2].Score)

	// Nothing persisted without Save.
	assert.False(t, result.Saved)
	assert.Len(t, store.weeks, 1)
}

func TestGeneratePairings_InactiveExcluded(t *testing.T) {
	participants := activeRoster("Mary", "Peter", "Sarah")
	participants = append(participants, db.Participant{Name: "John", Active: false})
	store := &mockStore{participants: participants}

	result, err := GeneratePairings(context.Background(), store, testConfig(), zap.NewNop(), GenerateRequest{
		Week: "2025-31",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.ActiveCount)
	for _, solution := range result.Solutions {
		for _, pair := range solution.Pairs {
			assert.False(t, pair.Contains("John"), "inactive participant should not be paired")
		}
	}
}

func TestGeneratePairings_TooFewActive(t *testing.T) {
	store := &mockStore{participants: activeRoster("Mary")}

	_, err := GeneratePairings(context.Background(), store, testConfig(), zap.NewNop(), GenerateRequest{
		Week: "2025-31",
	})
	assert.ErrorContains(t, err, "need at least 2 active people")
}

func TestGeneratePairings_ManualPairInEverySolution(t *testing.T) {
	store := &mockStore{participants: activeRoster("Mary", "Peter", "Sarah", "John", "Lisa")}

	result, err := GeneratePairings(context.Background(), store, testConfig(), zap.NewNop(), GenerateRequest{
		Week:        "2025-31",
		ManualPairs: [][2]string{{"Mary", "Peter"}},
		TopN:        10,
	})
	require.NoError(t, err)

	// 3 people remain: one odd-leftover solution per person.
	require.Len(t, result.Solutions, 3)
	manual := pairings.NewPair("Mary", "Peter")
	for _, solution := range result.Solutions {
		require.NotEmpty(t, solution.Pairs)
		assert.Equal(t, manual, solution.Pairs[0])
	}
}

func TestGeneratePairings_ManualPairValidation(t *testing.T) {
	participants := activeRoster("Mary", "Peter", "Sarah", "John")
	participants = append(participants, db.Participant{Name: "Lisa", Active: false})
	store := &mockStore{participants: participants}
	cfg := testConfig()
	logger := zap.NewNop()
	ctx := context.Background()

	_, err := GeneratePairings(ctx, store, cfg, logger, GenerateRequest{
		Week:        "2025-31",
		ManualPairs: [][2]string{{"Mary", "Nobody"}},
	})
	assert.ErrorContains(t, err, "unknown participant")

	_, err = GeneratePairings(ctx, store, cfg, logger, GenerateRequest{
		Week:        "2025-31",
		ManualPairs: [][2]string{{"Mary", "Lisa"}},
	})
	assert.ErrorContains(t, err, "inactive participant")

	_, err = GeneratePairings(ctx, store, cfg, logger, GenerateRequest{
		Week:        "2025-31",
		ManualPairs: [][2]string{{"Mary", "Mary"}},
	})
	assert.ErrorContains(t, err, "must be distinct")

	_, err = GeneratePairings(ctx, store, cfg, logger, GenerateRequest{
		Week:        "2025-31",
		ManualPairs: [][2]string{{"Mary", "Peter"}, {"Mary", "Sarah"}},
	})
	assert.ErrorContains(t, err, "more than one manual pair")
}

func TestGeneratePairings_SavePersistsBestAndUpdatesCounters(t *testing.T) {
	store := &mockStore{participants: activeRoster("Mary", "Peter", "Sarah", "John", "Lisa")}

	result, err := GeneratePairings(context.Background(), store, testConfig(), zap.NewNop(), GenerateRequest{
		Week: "2025-31",
		Save: true,
	})
	require.NoError(t, err)

	assert.True(t, result.Saved)
	assert.NotEmpty(t, result.WeekID)

	require.Len(t, store.weeks, 1)
	saved := store.weeks[0]
	assert.Equal(t, "2025-31", saved.Week)
	assert.Empty(t, saved.ManualPairs)
	assert.Len(t, saved.AutoPairs, 2)
	require.Len(t, saved.LeftOut, 1)

	// Counters: 4 paired, 1 left out.
	totalParticipated, totalLeftOut := 0, 0
	for _, participant := range store.participants {
		totalParticipated += participant.TotalWeeksParticipated
		totalLeftOut += participant.TimesLeftOut
	}
	assert.Equal(t, 4, totalParticipated)
	assert.Equal(t, 1, totalLeftOut)
	assert.Equal(t, 1, store.participant(saved.LeftOut[0]).TimesLeftOut)
}

func TestGeneratePairings_SaveRefusesExistingWeek(t *testing.T) {
	store := &mockStore{
		participants: activeRoster("Mary", "Peter"),
		weeks:        []db.PairingWeek{{Week: "2025-31", Pairs: [][2]string{{"Mary", "Peter"}}}},
	}

	_, err := GeneratePairings(context.Background(), store, testConfig(), zap.NewNop(), GenerateRequest{
		Week: "2025-31",
		Save: true,
	})
	assert.ErrorContains(t, err, "already has pairings")
}

func TestGeneratePairings_OverwriteRollsBackCounters(t *testing.T) {
	store := &mockStore{participants: activeRoster("Mary", "Peter", "Sarah", "John", "Lisa")}
	cfg := testConfig()
	logger := zap.NewNop()
	ctx := context.Background()

	_, err := GeneratePairings(ctx, store, cfg, logger, GenerateRequest{Week: "2025-31", Save: true})
	require.NoError(t, err)

	_, err = GeneratePairings(ctx, store, cfg, logger, GenerateRequest{Week: "2025-31", Save: true, Overwrite: true})
	require.NoError(t, err)

	// Still exactly one week saved, and the counter totals reflect a single
	// week's contribution.
	require.Len(t, store.weeks, 1)
	totalParticipated, totalLeftOut := 0, 0
	for _, participant := range store.participants {
		totalParticipated += participant.TotalWeeksParticipated
		totalLeftOut += participant.TimesLeftOut
	}
	assert.Equal(t, 4, totalParticipated)
	assert.Equal(t, 1, totalLeftOut)
}
