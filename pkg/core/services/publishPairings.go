package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/pkg/core/pairings"
	"github.com/ingwaneorg/coffee/pkg/db"
)

// Mailer sends pairing announcements.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// PublishResult reports what was announced and to whom.
type PublishResult struct {
	Week    string
	Message string
	SentTo  []string
	// Skipped lists participants without an email address.
	Skipped []string
}

// PublishPairings formats the announcement for a saved week and emails it to
// every participant of that week who has an address on file. A nil mailer
// skips sending and just returns the rendered message (dry run).
// An empty week token selects the most recent saved week.
func PublishPairings(ctx context.Context, store db.Store, mailer Mailer, logger *zap.Logger, weekToken string) (*PublishResult, error) {
	weeks, err := store.GetPairingWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pairing history: %w", err)
	}

	record, err := selectWeek(weeks, weekToken)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{
		Week:    record.Week,
		Message: FormatAnnouncement(record),
		SentTo:  []string{},
		Skipped: []string{},
	}

	if mailer == nil {
		logger.Info("Dry run, not sending announcement", zap.String("week", record.Week))
		return result, nil
	}

	participants, err := store.GetParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}
	emailByName := make(map[string]string, len(participants))
	for _, participant := range participants {
		emailByName[participant.Name] = participant.Email
	}

	subject := fmt.Sprintf("Coffee roulette pairings for week %s", record.Week)
	for _, name := range record.Participants() {
		email := emailByName[name]
		if email == "" {
			result.Skipped = append(result.Skipped, name)
			continue
		}

		if err := mailer.SendEmail(email, subject, result.Message); err != nil {
			return nil, fmt.Errorf("failed to send announcement to %s: %w", name, err)
		}
		result.SentTo = append(result.SentTo, name)
	}

	logger.Info("Announcement sent",
		zap.String("week", record.Week),
		zap.Int("sent", len(result.SentTo)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func selectWeek(weeks []db.PairingWeek, token string) (*db.PairingWeek, error) {
	if token != "" {
		record := findPairingWeek(weeks, token)
		if record == nil {
			return nil, fmt.Errorf("no pairings found for week %s, generate pairings first", token)
		}
		return record, nil
	}

	if len(weeks) == 0 {
		return nil, fmt.Errorf("no pairing history found")
	}

	latest := &weeks[0]
	latestWeek, latestErr := pairings.ParseWeek(latest.Week)
	for i := 1; i < len(weeks); i++ {
		week, err := pairings.ParseWeek(weeks[i].Week)
		if err != nil {
			continue
		}
		if latestErr != nil || latestWeek.Before(week) {
			latest = &weeks[i]
			latestWeek, latestErr = week, nil
		}
	}
	return latest, nil
}

// FormatAnnouncement renders the weekly pairings message.
func FormatAnnouncement(record *db.PairingWeek) string {
	var b strings.Builder

	fmt.Fprintf(&b, "☕ Coffee roulette pairings for week %s\n\n", record.Week)
	for _, pair := range record.AllPairs() {
		fmt.Fprintf(&b, "  • %s ↔ %s\n", pair[0], pair[1])
	}
	if len(record.LeftOut) > 0 {
		fmt.Fprintf(&b, "\nSitting out this week: %s\n", strings.Join(record.LeftOut, ", "))
	}
	b.WriteString("\nFind a time that works for both of you and enjoy!\n")

	return b.String()
}
