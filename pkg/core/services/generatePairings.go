package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/internal/config"
	"github.com/ingwaneorg/coffee/pkg/core/pairings"
	"github.com/ingwaneorg/coffee/pkg/db"
)

// enumerationCeiling is the active-roster size above which exhaustive
// matching enumeration starts taking noticeable time; generation still runs,
// but logs a warning.
const enumerationCeiling = 14

// GenerateRequest carries the parameters for generating a week's pairings.
type GenerateRequest struct {
	// Week is the target week token; empty derives the next week from the
	// configured cadence rrule.
	Week string

	// ManualPairs are fixed before automatic pairing runs.
	ManualPairs [][2]string

	// TopN overrides the configured number of solutions to return.
	TopN int

	// Save persists the best solution and updates participant counters.
	Save bool

	// Overwrite allows replacing an already-saved week.
	Overwrite bool
}

// GenerateResult holds the ranked solutions for the target week.
type GenerateResult struct {
	TargetWeek  pairings.Week
	ActiveCount int
	Solutions   []pairings.RankedSolution
	Saved       bool
	WeekID      string
}

// GeneratePairings loads the roster and pairing history, ranks every
// candidate pairing for the target week, and optionally persists the best
// solution.
func GeneratePairings(ctx context.Context, store db.Store, cfg *config.Config, logger *zap.Logger, req GenerateRequest) (*GenerateResult, error) {
	participants, err := store.GetParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}

	active := activeNames(participants)
	if len(active) < 2 {
		return nil, fmt.Errorf("need at least 2 active people for pairings, currently have %d", len(active))
	}
	if len(active) > enumerationCeiling {
		logger.Warn("Large active roster; exhaustive enumeration may be slow",
			zap.Int("active", len(active)),
			zap.Int("ceiling", enumerationCeiling))
	}

	manualPairs, err := validateManualPairs(req.ManualPairs, participants)
	if err != nil {
		return nil, err
	}

	targetWeek, err := resolveTargetWeek(req.Week, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Generating pairings",
		zap.String("week", targetWeek.String()),
		zap.Int("active", len(active)),
		zap.Int("manual_pairs", len(manualPairs)))

	weeks, err := store.GetPairingWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pairing history: %w", err)
	}

	existing := findPairingWeek(weeks, targetWeek.String())
	if req.Save && existing != nil && !req.Overwrite {
		return nil, fmt.Errorf("week %s already has pairings, use overwrite to replace", targetWeek)
	}

	index := pairings.BuildHistoryIndex(buildHistory(weeks, logger))

	topN := req.TopN
	if topN <= 0 {
		topN = cfg.TopN
	}

	solutions := pairings.Rank(pairings.RankRequest{
		ActivePeople: active,
		Roster:       rosterStats(participants),
		History:      index,
		TargetWeek:   targetWeek,
		ManualPairs:  manualPairs,
		Weights:      cfg.ScoringWeights(),
		TopN:         topN,
	})

	logger.Info("Pairings ranked",
		zap.Int("solutions", len(solutions)),
		zap.Float64("best_score", solutions[0].Score))

	result := &GenerateResult{
		TargetWeek:  targetWeek,
		ActiveCount: len(active),
		Solutions:   solutions,
	}

	if !req.Save {
		return result, nil
	}

	record := buildWeekRecord(targetWeek, manualPairs, solutions[0])
	if err := saveWeek(ctx, store, logger, record, existing); err != nil {
		return nil, err
	}

	result.Saved = true
	result.WeekID = record.ID
	return result, nil
}

// validateManualPairs checks that manual pairs reference distinct, active,
// registered participants and that nobody is manually paired twice.
func validateManualPairs(tuples [][2]string, participants []db.Participant) ([]pairings.Pair, error) {
	byName := make(map[string]db.Participant, len(participants))
	for _, participant := range participants {
		byName[participant.Name] = participant
	}

	seen := make(map[string]bool)
	pairs := make([]pairings.Pair, 0, len(tuples))
	for _, tuple := range tuples {
		if tuple[0] == tuple[1] {
			return nil, fmt.Errorf("manual pair members must be distinct, got %q twice", tuple[0])
		}
		for _, name := range tuple {
			participant, registered := byName[name]
			if !registered {
				return nil, fmt.Errorf("manual pair references unknown participant %q", name)
			}
			if !participant.Active {
				return nil, fmt.Errorf("manual pair references inactive participant %q", name)
			}
			if seen[name] {
				return nil, fmt.Errorf("%q appears in more than one manual pair", name)
			}
			seen[name] = true
		}
		pairs = append(pairs, pairings.NewPair(tuple[0], tuple[1]))
	}
	return pairs, nil
}

func resolveTargetWeek(token string, cfg *config.Config) (pairings.Week, error) {
	if token != "" {
		week, err := pairings.ParseWeek(token)
		if err != nil {
			return pairings.Week{}, fmt.Errorf("invalid target week: %w", err)
		}
		return week, nil
	}
	return nextTargetWeek(cfg.CadenceRRule, time.Now())
}

// buildWeekRecord turns the best ranked solution into a persistable record.
// Rank places manual pairs first, so the tail of the pair list is the
// automatically generated portion.
func buildWeekRecord(week pairings.Week, manualPairs []pairings.Pair, best pairings.RankedSolution) *db.PairingWeek {
	return &db.PairingWeek{
		ID:          uuid.New().String(),
		Week:        week.String(),
		ManualPairs: toTuples(best.Pairs[:len(manualPairs)]),
		AutoPairs:   toTuples(best.Pairs[len(manualPairs):]),
		LeftOut:     best.LeftOut,
	}
}

// saveWeek persists the record and applies counter updates. Overwriting an
// existing week first rolls back that week's counter contribution.
func saveWeek(ctx context.Context, store db.Store, logger *zap.Logger, record *db.PairingWeek, existing *db.PairingWeek) error {
	if existing != nil {
		logger.Info("Overwriting existing pairings", zap.String("week", existing.Week))
		if err := applyCounters(ctx, store, existing, -1); err != nil {
			return fmt.Errorf("failed to roll back counters for week %s: %w", existing.Week, err)
		}
		if err := store.DeletePairingWeek(ctx, existing.Week); err != nil {
			return err
		}
	}

	if err := store.InsertPairingWeek(ctx, record); err != nil {
		return err
	}
	if err := applyCounters(ctx, store, record, 1); err != nil {
		return fmt.Errorf("failed to update counters for week %s: %w", record.Week, err)
	}

	logger.Info("Pairings saved",
		zap.String("week", record.Week),
		zap.String("week_id", record.ID))
	return nil
}

// applyCounters adjusts participation counters by the given delta:
// paired people's TotalWeeksParticipated, leftovers' TimesLeftOut.
// Unregistered names in the record are skipped.
func applyCounters(ctx context.Context, store db.Store, record *db.PairingWeek, delta int) error {
	participants, err := store.GetParticipants(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch participants: %w", err)
	}
	byName := make(map[string]db.Participant, len(participants))
	for _, participant := range participants {
		byName[participant.Name] = participant
	}

	update := func(name string, leftOut bool) error {
		participant, registered := byName[name]
		if !registered {
			return nil
		}
		if leftOut {
			participant.TimesLeftOut = max(0, participant.TimesLeftOut+delta)
		} else {
			participant.TotalWeeksParticipated = max(0, participant.TotalWeeksParticipated+delta)
		}
		byName[name] = participant
		return store.UpdateParticipant(ctx, &participant)
	}

	for _, pair := range record.AllPairs() {
		if err := update(pair[0], false); err != nil {
			return err
		}
		if err := update(pair[1], false); err != nil {
			return err
		}
	}
	for _, name := range record.LeftOut {
		if err := update(name, true); err != nil {
			return err
		}
	}
	return nil
}
