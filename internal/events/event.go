package events

import (
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/liftlog/internal/workout"
)

// Event is the stored form of a training event. Data carries event specific
// fields as strings, the same way for every event type.
type Event struct {
	ID        int64             `json:"id"`
	UserID    string            `json:"userId"`
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

// EventType can be one of:
//   - training_started
//   - training_finished
type EventType string

const (
	EventTypeTrainingStarted  EventType = "training_started"
	EventTypeTrainingFinished EventType = "training_finished"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeTrainingStarted, EventTypeTrainingFinished:
		return true
	default:
		return false
	}
}

func sessionData(session workout.Session) map[string]string {
	data := map[string]string{
		"workout_id":   session.ID,
		"workout_name": session.WorkoutName,
	}
	if session.TemplateID != nil {
		data["template_id"] = *session.TemplateID
	}
	return data
}

func NewTrainingStartEvent(session workout.Session) Event {
	return Event{
		UserID:    session.UserID,
		Type:      EventTypeTrainingStarted,
		Timestamp: session.StartedAt,
		Data:      sessionData(session),
	}
}

// NewTrainingFinishEvent is stamped with the completion time; an in-progress
// session falls back to now.
func NewTrainingFinishEvent(session workout.Session) Event {
	data := sessionData(session)
	data["total_sets"] = strconv.Itoa(session.Totals.Sets)
	data["total_reps"] = strconv.Itoa(session.Totals.Reps)
	data["total_volume_kg"] = fmt.Sprintf("%.1f", session.Totals.VolumeKg)

	ts, ok := session.Completion.At()
	if !ok {
		ts = time.Now().UTC()
	}
	data["duration_seconds"] = strconv.Itoa(int(ts.Sub(session.StartedAt).Seconds()))

	return Event{
		UserID:    session.UserID,
		Type:      EventTypeTrainingFinished,
		Timestamp: ts,
		Data:      data,
	}
}
