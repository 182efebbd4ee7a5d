package history

import (
	"time"

	"github.com/2beens/liftlog/internal/workout"
)

// SetRecord is one logged set joined with its session exercise and workout.
type SetRecord struct {
	WorkoutID  string    `json:"workoutId"`
	ExerciseID string    `json:"exerciseId"`
	SetNumber  int       `json:"setNumber"`
	WeightKg   float64   `json:"weightKg"`
	Reps       int       `json:"reps"`
	RPE        int       `json:"rpe"`
	Timestamp  time.Time `json:"timestamp"`
}

type SetParams struct {
	UserID     string
	ExerciseID string
	From       *time.Time
	To         *time.Time
}

// SessionSummary is a finished workout as listed in the history.
type SessionSummary struct {
	workout.Session
	CompletedAt time.Time `json:"completedAt"`
}

type Page struct {
	Sessions []SessionSummary `json:"sessions"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
}

// DayStats aggregates the sets of one exercise logged on one (UTC) day.
type DayStats struct {
	Day         time.Time `json:"day"`
	Sets        int       `json:"sets"`
	AvgWeightKg float64   `json:"avgWeightKg"`
	MaxWeightKg float64   `json:"maxWeightKg"`
	AvgReps     float64   `json:"avgReps"`
	AvgRPE      float64   `json:"avgRpe"`
	VolumeKg    float64   `json:"volumeKg"`
}

type ExerciseHistory struct {
	ExerciseID string     `json:"exerciseId"`
	Stats      []DayStats `json:"stats"`
}
