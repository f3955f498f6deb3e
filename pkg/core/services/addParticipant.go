package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/pkg/db"
)

// AddParticipant registers a new person in the roster. New participants
// start active with zeroed counters.
func AddParticipant(ctx context.Context, store db.ParticipantStore, logger *zap.Logger, name, email string) (*db.Participant, error) {
	if name == "" {
		return nil, fmt.Errorf("participant name must not be empty")
	}

	logger.Info("Adding participant", zap.String("name", name))

	participants, err := store.GetParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}

	for _, existing := range participants {
		if existing.Name == name {
			return nil, fmt.Errorf("%q is already in the system", name)
		}
	}

	participant := &db.Participant{
		Name:   name,
		Email:  email,
		Active: true,
	}

	if err := store.InsertParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to insert participant: %w", err)
	}

	logger.Info("Participant added", zap.String("name", name))

	return participant, nil
}
