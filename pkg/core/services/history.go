package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/pkg/core/pairings"
	"github.com/ingwaneorg/coffee/pkg/db"
)

// WeekSummary is one week of pairing history, with the legacy pair fields
// merged for display.
type WeekSummary struct {
	Week    string
	Pairs   [][2]string
	LeftOut []string
}

// RecentHistory returns summaries of the most recent saved weeks, newest
// first. lastN <= 0 returns everything.
func RecentHistory(ctx context.Context, store db.PairingStore, logger *zap.Logger, lastN int) ([]WeekSummary, error) {
	weeks, err := store.GetPairingWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pairing history: %w", err)
	}

	summaries := make([]WeekSummary, 0, len(weeks))
	for _, record := range weeks {
		summaries = append(summaries, WeekSummary{
			Week:    record.Week,
			Pairs:   record.AllPairs(),
			LeftOut: record.LeftOut,
		})
	}

	// Newest first. Week tokens parse to epochs; unparseable tokens sort
	// last by raw string.
	sort.SliceStable(summaries, func(i, j int) bool {
		wi, erri := pairings.ParseWeek(summaries[i].Week)
		wj, errj := pairings.ParseWeek(summaries[j].Week)
		if erri != nil || errj != nil {
			return summaries[i].Week > summaries[j].Week
		}
		return wj.Before(wi)
	})

	if lastN > 0 && len(summaries) > lastN {
		summaries = summaries[:lastN]
	}

	logger.Debug("Fetched pairing history", zap.Int("weeks", len(summaries)))

	return summaries, nil
}
