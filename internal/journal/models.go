package journal

import "time"

// Outcome classifies a take.
type Outcome string

const (
	OutcomeAccepted        Outcome = "accepted"
	OutcomeSkipped         Outcome = "skipped"
	OutcomeRedo            Outcome = "redo"
	OutcomeRejectedSilence Outcome = "rejected_silence"
	OutcomeRejectedQuiet   Outcome = "rejected_quiet"
	OutcomeRejectedShort   Outcome = "rejected_short"
)

// Outcomes lists every outcome in display order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeAccepted,
		OutcomeSkipped,
		OutcomeRedo,
		OutcomeRejectedSilence,
		OutcomeRejectedQuiet,
		OutcomeRejectedShort,
	}
}

// Take is one journal row.
type Take struct {
	ID            int64
	SessionID     string
	SentenceIndex int
	Outcome       Outcome
	ChunkCount    int
	KeptChunks    int
	AvgRMS        float64
	CreatedAt     time.Time
}

// Summary aggregates takes per outcome.
type Summary struct {
	Sessions int
	Counts   map[Outcome]int
}

// Total returns the number of takes across all outcomes.
func (s Summary) Total() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}
