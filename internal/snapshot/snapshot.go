// Package snapshot serializes the registry's entity collections. Records are written
// verbatim so ids survive a round trip. BSON keeps times to the millisecond; the registry
// stores times at that precision so both formats round-trip exactly.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.mongodb.org/mongo-driver/bson"

	"alcyxob/coach-dashboard/internal/domain"
)

// CurrentVersion is written into every snapshot produced by this package.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned when decoding a snapshot from a newer or unknown format.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot holds the four entity collections at one point in time.
type Snapshot struct {
	Version       int                        `bson:"version" json:"version"`
	Athletes      []domain.Athlete           `bson:"athletes" json:"athletes"`
	Insights      []domain.Insight           `bson:"insights" json:"insights"`
	TrainingPlans []domain.TrainingPlan      `bson:"trainingPlans" json:"trainingPlans"`
	Sessions      []domain.SessionCompletion `bson:"sessions" json:"sessions"`
}

// EncodeJSON writes s as indented JSON.
func EncodeJSON(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.normalized()); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// DecodeJSON reads a JSON snapshot. Insight ids must be well-formed keys even though a
// restore derives insights afresh.
func DecodeJSON(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return s.checked()
}

// EncodeBSON returns s as a BSON document.
func EncodeBSON(s Snapshot) ([]byte, error) {
	data, err := bson.Marshal(s.normalized())
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeBSON parses a BSON snapshot document.
func DecodeBSON(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := bson.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return s.checked()
}

// ReadFile loads a JSON snapshot from disk.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()
	return DecodeJSON(f)
}

func (s Snapshot) checked() (Snapshot, error) {
	if s.Version != CurrentVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}
	return s.normalized(), nil
}

// normalized stamps the version and swaps nil collections for empty ones so that
// encoders write [] rather than null.
func (s Snapshot) normalized() Snapshot {
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	if s.Athletes == nil {
		s.Athletes = []domain.Athlete{}
	}
	if s.Insights == nil {
		s.Insights = []domain.Insight{}
	}
	if s.TrainingPlans == nil {
		s.TrainingPlans = []domain.TrainingPlan{}
	}
	if s.Sessions == nil {
		s.Sessions = []domain.SessionCompletion{}
	}
	return s
}
