package db

import "context"

// ParticipantStore defines roster persistence operations.
type ParticipantStore interface {
	GetParticipants(ctx context.Context) ([]Participant, error)
	InsertParticipant(ctx context.Context, participant *Participant) error
	// UpdateParticipant updates the record matching participant.Name.
	UpdateParticipant(ctx context.Context, participant *Participant) error
}

// PairingStore defines pairing history persistence operations.
type PairingStore interface {
	GetPairingWeeks(ctx context.Context) ([]PairingWeek, error)
	InsertPairingWeek(ctx context.Context, week *PairingWeek) error
	// DeletePairingWeek removes the record for the given week token.
	DeletePairingWeek(ctx context.Context, week string) error
}

// Store is the full persistence surface the services depend on.
type Store interface {
	ParticipantStore
	PairingStore
}
