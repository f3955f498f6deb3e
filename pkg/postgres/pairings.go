package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ingwaneorg/coffee/pkg/db"
)

// Pair sources stored in the pairing table.
const (
	sourcePair   = "pair"
	sourceManual = "manual"
	sourceAuto   = "auto"
)

// GetPairingWeeks retrieves all pairing week records with their pairs,
// sorted by week token.
func (d *DB) GetPairingWeeks(ctx context.Context) ([]db.PairingWeek, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, week, left_out
		FROM pairing_week
		ORDER BY week
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pairing weeks: %w", err)
	}

	var weeks []db.PairingWeek
	indexByID := make(map[string]int)
	for rows.Next() {
		var week db.PairingWeek
		if err := rows.Scan(&week.ID, &week.Week, &week.LeftOut); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan pairing week: %w", err)
		}
		indexByID[week.ID] = len(weeks)
		weeks = append(weeks, week)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pairing weeks: %w", err)
	}

	pairRows, err := d.pool.Query(ctx, `
		SELECT week_id, person_a, person_b, source
		FROM pairing
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pairings: %w", err)
	}
	defer pairRows.Close()

	for pairRows.Next() {
		var weekID, personA, personB, source string
		if err := pairRows.Scan(&weekID, &personA, &personB, &source); err != nil {
			return nil, fmt.Errorf("failed to scan pairing: %w", err)
		}

		idx, ok := indexByID[weekID]
		if !ok {
			continue
		}

		pair := [2]string{personA, personB}
		switch source {
		case sourceManual:
			weeks[idx].ManualPairs = append(weeks[idx].ManualPairs, pair)
		case sourceAuto:
			weeks[idx].AutoPairs = append(weeks[idx].AutoPairs, pair)
		default:
			weeks[idx].Pairs = append(weeks[idx].Pairs, pair)
		}
	}
	if err := pairRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pairings: %w", err)
	}

	return weeks, nil
}

// InsertPairingWeek inserts a pairing week record and its pairs in a single
// transaction. A missing ID is generated.
func (d *DB) InsertPairingWeek(ctx context.Context, week *db.PairingWeek) error {
	if week.ID == "" {
		week.ID = uuid.New().String()
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	leftOut := week.LeftOut
	if leftOut == nil {
		leftOut = []string{}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO pairing_week (id, week, left_out)
		VALUES ($1, $2, $3)
	`, week.ID, week.Week, leftOut)
	if err != nil {
		return fmt.Errorf("failed to insert pairing week %s: %w", week.Week, err)
	}

	insertPairs := func(pairs [][2]string, source string) error {
		for _, pair := range pairs {
			_, err := tx.Exec(ctx, `
				INSERT INTO pairing (id, week_id, person_a, person_b, source)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New().String(), week.ID, pair[0], pair[1], source)
			if err != nil {
				return fmt.Errorf("failed to insert pairing %s/%s: %w", pair[0], pair[1], err)
			}
		}
		return nil
	}

	if err := insertPairs(week.Pairs, sourcePair); err != nil {
		return err
	}
	if err := insertPairs(week.ManualPairs, sourceManual); err != nil {
		return err
	}
	if err := insertPairs(week.AutoPairs, sourceAuto); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit pairing week %s: %w", week.Week, err)
	}
	return nil
}

// DeletePairingWeek removes the record for the given week token. Pairs are
// removed via the foreign key cascade.
func (d *DB) DeletePairingWeek(ctx context.Context, week string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM pairing_week WHERE week = $1`, week)
	if err != nil {
		return fmt.Errorf("failed to delete pairing week %s: %w", week, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no pairings found for week %s", week)
	}
	return nil
}
