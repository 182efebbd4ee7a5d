package workout

import "time"

// Completion tells whether a session is still being logged or was finished.
// The zero value is an in-progress session.
type Completion struct {
	completed bool
	at        time.Time
}

func InProgress() Completion {
	return Completion{}
}

func CompletedAt(at time.Time) Completion {
	return Completion{completed: true, at: at}
}

func (c Completion) IsCompleted() bool {
	return c.completed
}

// At returns the completion time, and false for in-progress sessions.
func (c Completion) At() (time.Time, bool) {
	return c.at, c.completed
}

// CompletedAtPtr maps the completion to the nullable column representation.
func (c Completion) CompletedAtPtr() *time.Time {
	if !c.completed {
		return nil
	}
	at := c.at
	return &at
}

// CompletionFromPtr is the inverse of CompletedAtPtr.
func CompletionFromPtr(at *time.Time) Completion {
	if at == nil {
		return InProgress()
	}
	return CompletedAt(*at)
}

type Totals struct {
	Sets     int     `json:"totalSets"`
	Reps     int     `json:"totalReps"`
	VolumeKg float64 `json:"totalVolumeKg"`
}

// Session is one workout attempt (a row in the workouts collection).
type Session struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	TemplateID  *string    `json:"templateId,omitempty"`
	WorkoutName string     `json:"workoutName"`
	StartedAt   time.Time  `json:"startedAt"`
	Completion  Completion `json:"-"`
	Totals
}

// SessionExercise binds one planned exercise to a session.
type SessionExercise struct {
	ID         string `json:"id"`
	SessionID  string `json:"workoutId"`
	ExerciseID string `json:"exerciseId"`
	OrderIndex int    `json:"orderIndex"`
	TargetSets int    `json:"targetSets"`
}

type LoggedSet struct {
	ID                string    `json:"id"`
	SessionExerciseID string    `json:"workoutExerciseId"`
	SetNumber         int       `json:"setNumber"`
	WeightKg          float64   `json:"weightKg"`
	Reps              int       `json:"reps"`
	RPE               int       `json:"rpe"`
	Completed         bool      `json:"completed"`
	Timestamp         time.Time `json:"timestamp"`
}

// ExercisePlan is one planned exercise of a template.
type ExercisePlan struct {
	ExerciseID  string `json:"exerciseId" yaml:"exercise_id"`
	TargetSets  int    `json:"targetSets" yaml:"target_sets"`
	RepsRange   string `json:"repsRange" yaml:"reps_range"`
	RestSeconds int    `json:"restSeconds" yaml:"rest_seconds"`
	Notes       string `json:"notes,omitempty" yaml:"notes"`
	OrderIndex  int    `json:"orderIndex" yaml:"order_index"`
}

type Template struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Exercises []ExercisePlan `json:"exercises" yaml:"exercises"`
}

// ExerciseInfo is the catalog entry used to display an exercise.
type ExerciseInfo struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	MuscleGroup string `json:"muscleGroup" yaml:"muscle_group"`
	FormCues    string `json:"formCues,omitempty" yaml:"form_cues"`
}

// SetInput is what the user submits for one set.
type SetInput struct {
	WeightKg float64 `json:"weightKg"`
	Reps     int     `json:"reps"`
	RPE      int     `json:"rpe"`
}

// RestSignal asks the presentation layer to start a rest countdown.
type RestSignal struct {
	ExerciseID string `json:"exerciseId"`
	Seconds    int    `json:"seconds"`
}
