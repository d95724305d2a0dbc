package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/user/gosec-posture/pkg/engine"
)

const DefaultSnapshotPath = ".gosec-posture-snapshot.json"

// Snapshot is a saved assessment used as the baseline for later diffs
type Snapshot struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	Variant   engine.Variant     `json:"variant,omitempty"`
	Source    engine.ScoreSource `json:"source"`
	Score     int                `json:"score"`
	RedFlag   bool               `json:"red_flag"`
	Totals    engine.RiskTotals  `json:"totals"`
	Findings  []engine.Finding   `json:"findings"`
	Narrative string             `json:"narrative,omitempty"`
}

// NewSnapshot captures a scored summary
func NewSnapshot(s engine.Summary, source engine.ScoreSource) *Snapshot {
	findings := s.Findings
	if findings == nil {
		findings = []engine.Finding{}
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Variant:   s.Variant,
		Source:    source,
		Score:     s.Score,
		RedFlag:   s.RedFlag,
		Totals:    s.Totals,
		Findings:  findings,
	}
}

// Summary converts the snapshot back into an engine summary
func (s *Snapshot) Summary() engine.Summary {
	return engine.Summary{
		Variant:  s.Variant,
		Findings: s.Findings,
		Totals:   s.Totals,
		Score:    s.Score,
		RedFlag:  s.RedFlag,
	}
}

func (s *Snapshot) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if s.ID == "" {
		return nil, fmt.Errorf("snapshot %s has no id", path)
	}
	return &s, nil
}
