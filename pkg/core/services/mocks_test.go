package services

import (
	"context"
	"fmt"

	"github.com/ingwaneorg/coffee/pkg/db"
)

// mockStore is an in-memory db.Store test double.
type mockStore struct {
	participants []db.Participant
	weeks        []db.PairingWeek

	getParticipantsErr error
	getWeeksErr        error
}

func (m *mockStore) GetParticipants(ctx context.Context) ([]db.Participant, error) {
	if m.getParticipantsErr != nil {
		return nil, m.getParticipantsErr
	}
	return append([]db.Participant(nil), m.participants...), nil
}

func (m *mockStore) InsertParticipant(ctx context.Context, participant *db.Participant) error {
	for _, existing := range m.participants {
		if existing.Name == participant.Name {
			return fmt.Errorf("participant %q already exists", participant.Name)
		}
	}
	m.participants = append(m.participants, *participant)
	return nil
}

func (m *mockStore) UpdateParticipant(ctx context.Context, participant *db.Participant) error {
	for i := range m.participants {
		if m.participants[i].Name == participant.Name {
			m.participants[i] = *participant
			return nil
		}
	}
	return fmt.Errorf("participant %q not found", participant.Name)
}

func (m *mockStore) GetPairingWeeks(ctx context.Context) ([]db.PairingWeek, error) {
	if m.getWeeksErr != nil {
		return nil, m.getWeeksErr
	}
	return append([]db.PairingWeek(nil), m.weeks...), nil
}

func (m *mockStore) InsertPairingWeek(ctx context.Context, week *db.PairingWeek) error {
	for _, existing := range m.weeks {
		if existing.Week == week.Week {
			return fmt.Errorf("week %s already has pairings", week.Week)
		}
	}
	m.weeks = append(m.weeks, *week)
	return nil
}

func (m *mockStore) DeletePairingWeek(ctx context.Context, week string) error {
	for i := range m.weeks {
		if m.weeks[i].Week == week {
			m.weeks = append(m.weeks[:i], m.weeks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("no pairings found for week %s", week)
}

func (m *mockStore) participant(name string) db.Participant {
	for _, participant := range m.participants {
		if participant.Name == name {
			return participant
		}
	}
	return db.Participant{}
}

// mockMailer records sent announcements.
type mockMailer struct {
	sent    []sentEmail
	sendErr error
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func (m *mockMailer) SendEmail(to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}
