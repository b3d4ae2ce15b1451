package domain

import (
	"time"
)

// SessionCompletion is an immutable record of one finished training session.
// Appending one is the only way an athlete's status changes.
type SessionCompletion struct {
	ID          string    `bson:"_id" json:"id"`
	AthleteID   string    `bson:"athleteId" json:"athleteId"`
	CompletedAt time.Time `bson:"completedAt" json:"completedAt"`
	RAGStatus   RAGStatus `bson:"ragStatus" json:"ragStatus"` // Coach's rating of the session
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
}
