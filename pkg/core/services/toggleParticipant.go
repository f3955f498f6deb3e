package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/pkg/db"
)

// ToggleParticipant flips a person's active status. Participants are never
// deleted; deactivation keeps their counters for fairness scoring.
func ToggleParticipant(ctx context.Context, store db.ParticipantStore, logger *zap.Logger, name string) (*db.Participant, error) {
	participants, err := store.GetParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}

	for _, participant := range participants {
		if participant.Name != name {
			continue
		}

		participant.Active = !participant.Active
		if err := store.UpdateParticipant(ctx, &participant); err != nil {
			return nil, fmt.Errorf("failed to update participant: %w", err)
		}

		logger.Info("Participant status toggled",
			zap.String("name", name),
			zap.Bool("active", participant.Active))

		return &participant, nil
	}

	return nil, fmt.Errorf("%q not found. Use addPerson first", name)
}
