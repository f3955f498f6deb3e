package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ingwaneorg/coffee/pkg/db"
)

// ParticipantList splits the roster into active and inactive participants.
type ParticipantList struct {
	Active   []db.Participant
	Inactive []db.Participant
}

// ListParticipants returns the full roster grouped by status.
func ListParticipants(ctx context.Context, store db.ParticipantStore, logger *zap.Logger) (*ParticipantList, error) {
	participants, err := store.GetParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}

	list := &ParticipantList{
		Active:   []db.Participant{},
		Inactive: []db.Participant{},
	}
	for _, participant := range participants {
		if participant.Active {
			list.Active = append(list.Active, participant)
		} else {
			list.Inactive = append(list.Inactive, participant)
		}
	}

	logger.Debug("Listed participants",
		zap.Int("active", len(list.Active)),
		zap.Int("inactive", len(list.Inactive)))

	return list, nil
}
