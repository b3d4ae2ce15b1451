// internal/domain/training_plan.go
package domain

import (
	"time"
)

// TrainingPlan is a named date range prepared for one athlete. Plans are never edited.
type TrainingPlan struct {
	ID          string    `bson:"_id" json:"id"`
	AthleteID   string    `bson:"athleteId" json:"athleteId"` // Owning athlete
	Name        string    `bson:"name" json:"name"`           // e.g., "Base block"
	StartDate   time.Time `bson:"startDate" json:"startDate"`
	EndDate     time.Time `bson:"endDate" json:"endDate"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
}
