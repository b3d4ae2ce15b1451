package domain

import (
	"time"
)

// Gender of an athlete as captured on the add-athlete form.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ValidGenders is the set of accepted genders.
var ValidGenders = []Gender{GenderMale, GenderFemale, GenderOther}

// IsValid returns true if the gender is recognized.
func (g Gender) IsValid() bool {
	for _, v := range ValidGenders {
		if g == v {
			return true
		}
	}
	return false
}

// RAGStatus is the red/amber/green performance indicator.
type RAGStatus string

const (
	RAGRed   RAGStatus = "red"
	RAGAmber RAGStatus = "amber"
	RAGGreen RAGStatus = "green"
)

// ValidRAGStatuses is the set of accepted RAG values.
var ValidRAGStatuses = []RAGStatus{RAGRed, RAGAmber, RAGGreen}

// IsValid returns true if the status is one of red, amber or green.
func (s RAGStatus) IsValid() bool {
	for _, v := range ValidRAGStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TargetRace is the race distance an athlete is preparing for.
type TargetRace string

const (
	Race800m         TargetRace = "800m"
	Race1500m        TargetRace = "1500m"
	Race3k           TargetRace = "3k"
	Race5k           TargetRace = "5k"
	Race10k          TargetRace = "10k"
	RaceHalfMarathon TargetRace = "Half Marathon"
	RaceMarathon     TargetRace = "Marathon"
)

// ValidTargetRaces lists the race categories in ascending distance.
var ValidTargetRaces = []TargetRace{
	Race800m,
	Race1500m,
	Race3k,
	Race5k,
	Race10k,
	RaceHalfMarathon,
	RaceMarathon,
}

// IsValid returns true if the race category is recognized.
func (r TargetRace) IsValid() bool {
	for _, v := range ValidTargetRaces {
		if r == v {
			return true
		}
	}
	return false
}

// DefaultSport is assigned when the form does not name a sport.
const DefaultSport = "Running"

// RunningMetrics are the physiological markers recorded for an athlete.
type RunningMetrics struct {
	VO2MaxVelocity float64 `bson:"vo2MaxVelocity" json:"vo2MaxVelocity"` // m/s
	LT2Velocity    float64 `bson:"lt2Velocity" json:"lt2Velocity"`       // m/s
	LTMax          float64 `bson:"ltMax" json:"ltMax"`                   // mmol/L
	LT1Velocity    float64 `bson:"lt1Velocity" json:"lt1Velocity"`       // m/s
	MaxSprintSpeed float64 `bson:"maxSprintSpeed" json:"maxSprintSpeed"` // m/s
	MaxLactate     float64 `bson:"maxLactate" json:"maxLactate"`         // mmol/L
}

// Athlete is one tracked individual. Only the session fields change after creation.
type Athlete struct {
	ID              string         `bson:"_id" json:"id"`
	Name            string         `bson:"name" json:"name"`
	Age             int            `bson:"age" json:"age"`
	Gender          Gender         `bson:"gender" json:"gender"`
	Sport           string         `bson:"sport" json:"sport"`
	RAGStatus       RAGStatus      `bson:"ragStatus" json:"ragStatus"`
	RecentSessions  int            `bson:"recentSessions" json:"recentSessions"`
	LastSessionDate *time.Time     `bson:"lastSessionDate,omitempty" json:"lastSessionDate,omitempty"`
	RunningMetrics  RunningMetrics `bson:"runningMetrics" json:"runningMetrics"`
	TargetRace      TargetRace     `bson:"targetRace" json:"targetRace"`
	TargetRaceDate  *time.Time     `bson:"targetRaceDate,omitempty" json:"targetRaceDate,omitempty"`
	TargetTime      string         `bson:"targetTime" json:"targetTime"`
}

// ApplySession records a completed session against the athlete.
func (a *Athlete) ApplySession(s SessionCompletion) {
	completedAt := s.CompletedAt
	a.RAGStatus = s.RAGStatus
	a.RecentSessions++
	a.LastSessionDate = &completedAt
}

// Clone returns a copy that shares no pointers with a.
func (a Athlete) Clone() Athlete {
	if a.LastSessionDate != nil {
		t := *a.LastSessionDate
		a.LastSessionDate = &t
	}
	if a.TargetRaceDate != nil {
		t := *a.TargetRaceDate
		a.TargetRaceDate = &t
	}
	return a
}
