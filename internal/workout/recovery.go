package workout

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
)

type recoveredState struct {
	joinIDs map[string]string // exercise id -> session exercise id
	sets    [][]LoggedSet     // parallel to the plan list
	current int
	// highest order index among the stored session exercises
	lastOrderIndex int
	// noJoinRows is set when the session exists without session exercise rows,
	// e.g. after a failed batch create. The controller then behaves as fresh.
	noJoinRows bool
}

// recoverSession rebuilds the in-memory state of an in-progress session from
// its persisted session exercise and set rows.
func recoverSession(ctx context.Context, records RecordStore, sessionID string, plans []ExercisePlan) (*recoveredState, error) {
	state := &recoveredState{
		joinIDs: make(map[string]string),
		sets:    make([][]LoggedSet, len(plans)),
	}

	rows, err := records.ListSessionExercises(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session exercises: %w", err)
	}
	if len(rows) == 0 {
		log.Warnf("recover session [%s]: no session exercises stored, continuing as fresh", sessionID)
		state.noJoinRows = true
		return state, nil
	}

	exerciseByJoinID := make(map[string]string, len(rows))
	joinIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		state.joinIDs[row.ExerciseID] = row.ID
		exerciseByJoinID[row.ID] = row.ExerciseID
		joinIDs = append(joinIDs, row.ID)
		state.lastOrderIndex = max(state.lastOrderIndex, row.OrderIndex)
	}

	sets, err := records.ListSets(ctx, joinIDs)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	planIndex := make(map[string]int, len(plans))
	for i, p := range plans {
		planIndex[p.ExerciseID] = i
	}

	for _, s := range sets {
		idx, ok := planIndex[exerciseByJoinID[s.SessionExerciseID]]
		if !ok {
			log.Warnf("recover session [%s]: set [%s] belongs to no planned exercise, skipping", sessionID, s.ID)
			continue
		}
		state.sets[idx] = append(state.sets[idx], s)
	}
	for i := range state.sets {
		sortBySetNumber(state.sets[i])
	}

	state.current = ResumeIndex(plans, state.sets)
	return state, nil
}

// ResumeIndex picks the first exercise, in plan order, with fewer logged sets
// than its target. When every target is met the last exercise is returned.
func ResumeIndex(plans []ExercisePlan, sets [][]LoggedSet) int {
	for i, p := range plans {
		logged := 0
		if i < len(sets) {
			logged = len(sets[i])
		}
		if logged < p.TargetSets {
			return i
		}
	}
	return len(plans) - 1
}

func sortBySetNumber(sets []LoggedSet) {
	sort.SliceStable(sets, func(i, j int) bool {
		return sets[i].SetNumber < sets[j].SetNumber
	})
}
