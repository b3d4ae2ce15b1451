package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity tags how an insight should be presented.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// InsightKind names the condition that produced an insight.
type InsightKind string

const (
	InsightNoSessions      InsightKind = "no-sessions"
	InsightRedStatus       InsightKind = "red-status"
	InsightRaceApproaching InsightKind = "race-approaching"
)

// ValidInsightKinds is the set of kinds the engine can emit.
var ValidInsightKinds = []InsightKind{
	InsightNoSessions,
	InsightRedStatus,
	InsightRaceApproaching,
}

// IsValid returns true if the kind is recognized.
func (k InsightKind) IsValid() bool {
	for _, v := range ValidInsightKinds {
		if k == v {
			return true
		}
	}
	return false
}

// InsightKey identifies an insight. There is at most one active insight per key.
type InsightKey struct {
	AthleteID string      `bson:"athleteId" json:"athleteId"`
	Kind      InsightKind `bson:"kind" json:"kind"`
}

const insightKeySep = ":"

// String renders the key as "<athleteId>:<kind>".
func (k InsightKey) String() string {
	return k.AthleteID + insightKeySep + string(k.Kind)
}

// MarshalText lets the key travel as a plain string in JSON.
func (k InsightKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the form produced by MarshalText.
func (k *InsightKey) UnmarshalText(text []byte) error {
	parsed, err := ParseInsightKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseInsightKey parses "<athleteId>:<kind>". The kind never contains the separator,
// so the last separator splits the two halves.
func ParseInsightKey(s string) (InsightKey, error) {
	i := strings.LastIndex(s, insightKeySep)
	if i <= 0 || i == len(s)-1 {
		return InsightKey{}, fmt.Errorf("malformed insight id %q", s)
	}
	key := InsightKey{AthleteID: s[:i], Kind: InsightKind(s[i+1:])}
	if !key.Kind.IsValid() {
		return InsightKey{}, fmt.Errorf("unknown insight kind %q", key.Kind)
	}
	return key, nil
}

// Insight is an advisory message derived from an athlete's current state.
type Insight struct {
	ID           InsightKey `bson:"_id" json:"id" yaml:"id"`
	AthleteID    string     `bson:"athleteId" json:"athleteId" yaml:"athleteId"`
	Severity     Severity   `bson:"type" json:"type" yaml:"type"`
	Message      string     `bson:"message" json:"message" yaml:"message"`
	Acknowledged bool       `bson:"acknowledged" json:"acknowledged" yaml:"acknowledged"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt" yaml:"createdAt"`
}
