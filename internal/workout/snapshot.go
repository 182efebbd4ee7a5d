package workout

import "time"

type ExerciseProgress struct {
	ExercisePlan
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	FormCues    string `json:"formCues,omitempty"`
	LoggedSets  int    `json:"loggedSets"`
	Done        bool   `json:"done"`
}

// Snapshot is a read-only view of the controller state for presentation.
type Snapshot struct {
	Phase          Phase              `json:"phase"`
	Input          InputState         `json:"input"`
	TemplateID     string             `json:"templateId"`
	WorkoutName    string             `json:"workoutName"`
	SessionID      string             `json:"sessionId,omitempty"`
	StartedAt      *time.Time         `json:"startedAt,omitempty"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty"`
	CurrentIndex   int                `json:"currentIndex"`
	Current        *ExerciseProgress  `json:"current,omitempty"`
	IsLastExercise bool               `json:"isLastExercise"`
	Exercises      []ExerciseProgress `json:"exercises"`
	CurrentSets    []LoggedSet        `json:"currentSets"`
	Totals         Totals             `json:"totals"`
	Rest           *RestSignal        `json:"rest,omitempty"`
	Error          string             `json:"error,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Phase:        c.phase,
		Input:        c.input,
		TemplateID:   c.templateID,
		WorkoutName:  c.workoutName,
		CurrentIndex: c.current,
		Exercises:    make([]ExerciseProgress, 0, len(c.plans)),
		CurrentSets:  []LoggedSet{},
		Totals:       ComputeTotals(c.sets),
	}
	if c.session != nil {
		snap.SessionID = c.session.ID
		startedAt := c.session.StartedAt
		snap.StartedAt = &startedAt
		snap.CompletedAt = c.session.Completion.CompletedAtPtr()
	}
	if c.rest != nil {
		rest := *c.rest
		snap.Rest = &rest
	}
	if c.lastErr != nil {
		snap.Error = c.lastErr.Error()
	}

	for i, p := range c.plans {
		info := c.info[p.ExerciseID]
		name := info.Name
		if name == "" {
			name = p.ExerciseID
		}
		snap.Exercises = append(snap.Exercises, ExerciseProgress{
			ExercisePlan: p,
			Name:         name,
			MuscleGroup:  info.MuscleGroup,
			FormCues:     info.FormCues,
			LoggedSets:   len(c.sets[i]),
			Done:         len(c.sets[i]) >= p.TargetSets,
		})
	}

	if c.ready && c.current < len(snap.Exercises) {
		current := snap.Exercises[c.current]
		snap.Current = &current
		snap.IsLastExercise = c.current == len(c.plans)-1
		snap.CurrentSets = append(snap.CurrentSets, c.sets[c.current]...)
	}

	return snap
}
