package db

// Participant is a registered person. Participants are never deleted, only
// deactivated, so their counters survive for fairness scoring.
type Participant struct {
	Name                   string
	Email                  string // optional, used for pairing announcements
	Active                 bool
	TimesLeftOut           int
	TotalWeeksParticipated int
}

// PairingWeek is one week's persisted pairings. The three pair fields mirror
// the field names older data files used; readers must merge all of them.
type PairingWeek struct {
	ID          string
	Week        string
	Pairs       [][2]string
	ManualPairs [][2]string
	AutoPairs   [][2]string
	LeftOut     []string
}

// AllPairs merges the legacy pair fields into a single list.
func (w PairingWeek) AllPairs() [][2]string {
	merged := make([][2]string, 0, len(w.Pairs)+len(w.ManualPairs)+len(w.AutoPairs))
	merged = append(merged, w.Pairs...)
	merged = append(merged, w.ManualPairs...)
	merged = append(merged, w.AutoPairs...)
	return merged
}

// Participants returns every person named by the week's pairs and leftovers.
func (w PairingWeek) Participants() []string {
	var names []string
	for _, pair := range w.AllPairs() {
		names = append(names, pair[0], pair[1])
	}
	names = append(names, w.LeftOut...)
	return names
}
