package postgres

import (
	"context"
	"fmt"

	"github.com/ingwaneorg/coffee/pkg/db"
)

// GetParticipants retrieves all participant records, sorted by name.
func (d *DB) GetParticipants(ctx context.Context) ([]db.Participant, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT name, email, active, times_left_out, total_weeks_participated
		FROM participant
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []db.Participant
	for rows.Next() {
		var p db.Participant
		if err := rows.Scan(&p.Name, &p.Email, &p.Active, &p.TimesLeftOut, &p.TotalWeeksParticipated); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}

	return participants, nil
}

// InsertParticipant inserts a new participant record.
func (d *DB) InsertParticipant(ctx context.Context, participant *db.Participant) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO participant (name, email, active, times_left_out, total_weeks_participated)
		VALUES ($1, $2, $3, $4, $5)
	`, participant.Name, participant.Email, participant.Active, participant.TimesLeftOut, participant.TotalWeeksParticipated)
	if err != nil {
		return fmt.Errorf("failed to insert participant %q: %w", participant.Name, err)
	}
	return nil
}

// UpdateParticipant updates the record matching participant.Name.
func (d *DB) UpdateParticipant(ctx context.Context, participant *db.Participant) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE participant
		SET email = $2, active = $3, times_left_out = $4, total_weeks_participated = $5
		WHERE name = $1
	`, participant.Name, participant.Email, participant.Active, participant.TimesLeftOut, participant.TotalWeeksParticipated)
	if err != nil {
		return fmt.Errorf("failed to update participant %q: %w", participant.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("participant %q not found", participant.Name)
	}
	return nil
}
