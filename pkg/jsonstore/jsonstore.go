// Package jsonstore persists the roster and pairing history in the
// coffee.json format the original tool used, so existing data files keep
// working unchanged.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ingwaneorg/coffee/pkg/db"
)

// Store is a file-backed db.Store. Every operation reads the file fresh and
// writes it back whole; the file is small and the CLI is single-process.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path. The file does not
// need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

type fileData struct {
	People   map[string]personRecord `json:"people"`
	Pairings map[string]weekRecord   `json:"pairings"`
	Metadata metadata                `json:"metadata"`
}

type personRecord struct {
	Email                  string `json:"email,omitempty"`
	Active                 bool   `json:"active"`
	TimesLeftOut           int    `json:"times_left_out"`
	TotalWeeksParticipated int    `json:"total_weeks_participated"`
}

// weekRecord keeps the legacy pair field names. Older files used
// manual_pairs/auto_pairs; newer ones a single pairs list.
type weekRecord struct {
	ID          string     `json:"id,omitempty"`
	Pairs       [][]string `json:"pairs,omitempty"`
	ManualPairs [][]string `json:"manual_pairs,omitempty"`
	AutoPairs   [][]string `json:"auto_pairs,omitempty"`
	LeftOut     []string   `json:"left_out,omitempty"`
}

type metadata struct {
	LastGenerated string `json:"last_generated"`
	TotalWeeks    int    `json:"total_weeks"`
}

func (s *Store) load() (*fileData, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &fileData{
			People:   make(map[string]personRecord),
			Pairings: make(map[string]weekRecord),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", s.path, err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", s.path, err)
	}
	if data.People == nil {
		data.People = make(map[string]personRecord)
	}
	if data.Pairings == nil {
		data.Pairings = make(map[string]weekRecord)
	}
	return &data, nil
}

func (s *Store) save(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write data file %s: %w", s.path, err)
	}
	return nil
}

// GetParticipants returns all registered participants, sorted by name.
func (s *Store) GetParticipants(ctx context.Context) ([]db.Participant, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}

	participants := make([]db.Participant, 0, len(data.People))
	for name, record := range data.People {
		participants = append(participants, db.Participant{
			Name:                   name,
			Email:                  record.Email,
			Active:                 record.Active,
			TimesLeftOut:           record.TimesLeftOut,
			TotalWeeksParticipated: record.TotalWeeksParticipated,
		})
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Name < participants[j].Name
	})
	return participants, nil
}

func (s *Store) InsertParticipant(ctx context.Context, participant *db.Participant) error {
	data, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := data.People[participant.Name]; exists {
		return fmt.Errorf("participant %q already exists", participant.Name)
	}

	data.People[participant.Name] = personRecord{
		Email:                  participant.Email,
		Active:                 participant.Active,
		TimesLeftOut:           participant.TimesLeftOut,
		TotalWeeksParticipated: participant.TotalWeeksParticipated,
	}
	return s.save(data)
}

func (s *Store) UpdateParticipant(ctx context.Context, participant *db.Participant) error {
	data, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := data.People[participant.Name]; !exists {
		return fmt.Errorf("participant %q not found", participant.Name)
	}

	data.People[participant.Name] = personRecord{
		Email:                  participant.Email,
		Active:                 participant.Active,
		TimesLeftOut:           participant.TimesLeftOut,
		TotalWeeksParticipated: participant.TotalWeeksParticipated,
	}
	return s.save(data)
}

// GetPairingWeeks returns all pairing records, sorted by week token.
// Pair entries that are not 2-element lists are skipped.
func (s *Store) GetPairingWeeks(ctx context.Context) ([]db.PairingWeek, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}

	weeks := make([]db.PairingWeek, 0, len(data.Pairings))
	for week, record := range data.Pairings {
		weeks = append(weeks, db.PairingWeek{
			ID:          record.ID,
			Week:        week,
			Pairs:       toPairTuples(record.Pairs),
			ManualPairs: toPairTuples(record.ManualPairs),
			AutoPairs:   toPairTuples(record.AutoPairs),
			LeftOut:     record.LeftOut,
		})
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].Week < weeks[j].Week
	})
	return weeks, nil
}

func (s *Store) InsertPairingWeek(ctx context.Context, week *db.PairingWeek) error {
	data, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := data.Pairings[week.Week]; exists {
		return fmt.Errorf("week %s already has pairings", week.Week)
	}

	data.Pairings[week.Week] = weekRecord{
		ID:          week.ID,
		Pairs:       toPairLists(week.Pairs),
		ManualPairs: toPairLists(week.ManualPairs),
		AutoPairs:   toPairLists(week.AutoPairs),
		LeftOut:     week.LeftOut,
	}
	data.Metadata.LastGenerated = time.Now().UTC().Format(time.RFC3339)
	data.Metadata.TotalWeeks = len(data.Pairings)
	return s.save(data)
}

func (s *Store) DeletePairingWeek(ctx context.Context, week string) error {
	data, err := s.load()
	if err != nil {
		return err
	}

	if _, exists := data.Pairings[week]; !exists {
		return fmt.Errorf("no pairings found for week %s", week)
	}

	delete(data.Pairings, week)
	data.Metadata.TotalWeeks = len(data.Pairings)
	return s.save(data)
}

func toPairTuples(pairs [][]string) [][2]string {
	tuples := make([][2]string, 0, len(pairs))
	for _, pair := range pairs {
		if len(pair) != 2 {
			continue
		}
		tuples = append(tuples, [2]string{pair[0], pair[1]})
	}
	return tuples
}

func toPairLists(pairs [][2]string) [][]string {
	lists := make([][]string, 0, len(pairs))
	for _, pair := range pairs {
		lists = append(lists, []string{pair[0], pair[1]})
	}
	return lists
}
