package test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/2beens/liftlog/internal/events"
	"github.com/2beens/liftlog/internal/history"
	"github.com/2beens/liftlog/internal/sessions"
	"github.com/2beens/liftlog/internal/workout"
)

func (s *IntegrationTestSuite) decodeSnapshot(body []byte) workout.Snapshot {
	var snap workout.Snapshot
	s.Require().NoError(json.Unmarshal(body, &snap))
	return snap
}

func (s *IntegrationTestSuite) TestWorkout_FullSession() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, token := s.registerAndLogin(ctx)

	resp, body := s.do(ctx, http.MethodPost, "/workouts/push/session", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	snap := s.decodeSnapshot(body)
	s.Equal(workout.PhaseFresh, snap.Phase)
	s.Require().NotNil(snap.Current)
	s.Equal("bench", snap.Current.ExerciseID)

	var firstSet workout.LoggedSet
	for _, in := range []workout.SetInput{
		{WeightKg: 80, Reps: 8, RPE: 7},
		{WeightKg: 85, Reps: 6, RPE: 8},
		{WeightKg: 85, Reps: 5, RPE: 9},
	} {
		resp, body = s.do(ctx, http.MethodPost, "/workouts/push/sets", token, in)
		s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))
		var submitted sessions.SubmitSetResponse
		s.Require().NoError(json.Unmarshal(body, &submitted))
		if firstSet.ID == "" {
			firstSet = submitted.Set
		}
	}

	// the last set was a mistake, remove the first one and renumber
	resp, body = s.do(ctx, http.MethodDelete, "/workouts/push/sets/"+firstSet.ID+"?confirm=true", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	snap = s.decodeSnapshot(body)
	s.Require().Len(snap.CurrentSets, 2)
	s.Equal(1, snap.CurrentSets[0].SetNumber)
	s.Equal(2, snap.CurrentSets[1].SetNumber)
	s.Equal(2, snap.Totals.Sets)

	// a reload resumes the stored workout
	resp, body = s.do(ctx, http.MethodPost, "/workouts/push/session", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resumed := s.decodeSnapshot(body)
	s.Equal(snap.SessionID, resumed.SessionID)
	s.Equal(2, resumed.Totals.Sets)

	resp, body = s.do(ctx, http.MethodPost, "/workouts/push/advance", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.Equal("ohp", s.decodeSnapshot(body).Current.ExerciseID)

	resp, body = s.do(ctx, http.MethodPost, "/workouts/push/sets", token, workout.SetInput{WeightKg: 50, Reps: 10, RPE: 8})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.do(ctx, http.MethodPost, "/workouts/push/finish", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	finished := s.decodeSnapshot(body)
	s.Equal(workout.PhaseFinished, finished.Phase)
	s.Equal(3, finished.Totals.Sets)
	s.InDelta(85*6+85*5+50*10, finished.Totals.VolumeKg, 0.001)

	var storedSets int
	var completedAt sql.NullTime
	s.Require().NoError(s.db.QueryRowContext(ctx,
		`SELECT total_sets, completed_at FROM workouts WHERE id = $1`, finished.SessionID,
	).Scan(&storedSets, &completedAt))
	s.Equal(3, storedSets)
	s.True(completedAt.Valid)

	resp, body = s.do(ctx, http.MethodGet, "/history/page/1/size/10", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var page history.Page
	s.Require().NoError(json.Unmarshal(body, &page))
	s.Equal(1, page.Total)
	s.Require().Len(page.Sessions, 1)
	s.Equal(finished.SessionID, page.Sessions[0].ID)

	resp, body = s.do(ctx, http.MethodGet, "/history/exercise/bench", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var benchHistory history.ExerciseHistory
	s.Require().NoError(json.Unmarshal(body, &benchHistory))
	s.Require().Len(benchHistory.Stats, 1)
	s.Equal(2, benchHistory.Stats[0].Sets)
	s.Equal(85.0, benchHistory.Stats[0].MaxWeightKg)

	resp, body = s.do(ctx, http.MethodGet, "/events/page/1/size/10", token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var eventsResp events.ListResponse
	s.Require().NoError(json.Unmarshal(body, &eventsResp))
	s.Equal(2, eventsResp.Total)
	s.Require().Len(eventsResp.Events, 2)
	s.Equal(events.EventTypeTrainingFinished, eventsResp.Events[0].Type)
	s.Equal(events.EventTypeTrainingStarted, eventsResp.Events[1].Type)
}

func (s *IntegrationTestSuite) TestWorkout_Isolation() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, tokenA := s.registerAndLogin(ctx)
	_, tokenB := s.registerAndLogin(ctx)

	resp, _ := s.do(ctx, http.MethodPost, "/workouts/push/session", tokenA, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp, _ = s.do(ctx, http.MethodPost, "/workouts/push/sets", tokenA, workout.SetInput{WeightKg: 60, Reps: 10, RPE: 6})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	// another user neither sees the open workout nor its stored sets
	resp, _ = s.do(ctx, http.MethodGet, "/workouts/push/session", tokenB, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body := s.do(ctx, http.MethodPost, "/workouts/push/session", tokenB, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	snap := s.decodeSnapshot(body)
	s.Equal(workout.PhaseFresh, snap.Phase)
	s.Equal(0, snap.Totals.Sets)

	resp, _ = s.do(ctx, http.MethodPost, "/workouts/push/discard?confirm=true", tokenA, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, body = s.do(ctx, http.MethodGet, fmt.Sprintf("/history/page/%d/size/%d", 1, 10), tokenA, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var page history.Page
	s.Require().NoError(json.Unmarshal(body, &page))
	s.Equal(0, page.Total)
}
