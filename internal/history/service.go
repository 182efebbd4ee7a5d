package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=history_test

const MaxPageSize = 100

var ErrInvalidPage = errors.New("invalid page")

type historyRepo interface {
	ListCompletedSessions(ctx context.Context, userID string, limit, offset int) ([]workout.Session, error)
	CountCompletedSessions(ctx context.Context, userID string) (int, error)
	ListExerciseSets(ctx context.Context, params SetParams) ([]SetRecord, error)
}

type Service struct {
	repo historyRepo
}

func NewService(repo historyRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// ListSessions returns one page (1-based) of the user's completed workouts,
// newest first.
func (s *Service) ListSessions(ctx context.Context, userID string, page, size int) (_ *Page, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.history.listSessions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", page), attribute.Int("size", size))

	if page < 1 || size < 1 || size > MaxPageSize {
		return nil, fmt.Errorf("%w: page %d, size %d", ErrInvalidPage, page, size)
	}

	total, err := s.repo.CountCompletedSessions(ctx, userID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.ListCompletedSessions(ctx, userID, size, (page-1)*size)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		completedAt, _ := session.Completion.At()
		summaries = append(summaries, SessionSummary{
			Session:     session,
			CompletedAt: completedAt,
		})
	}

	return &Page{
		Sessions: summaries,
		Total:    total,
		Page:     page,
		Size:     size,
	}, nil
}

// ExerciseHistory groups the logged sets of one exercise per day and returns
// the daily stats, oldest day first.
func (s *Service) ExerciseHistory(ctx context.Context, params SetParams) (_ *ExerciseHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.history.exerciseHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", params.ExerciseID))

	records, err := s.repo.ListExerciseSets(ctx, params)
	if err != nil {
		return nil, err
	}

	return &ExerciseHistory{
		ExerciseID: params.ExerciseID,
		Stats:      DailyStats(records),
	}, nil
}

// DailyStats aggregates set records per UTC day.
func DailyStats(records []SetRecord) []DayStats {
	day2records := make(map[time.Time][]SetRecord)
	for _, r := range records {
		day := r.Timestamp.UTC().Truncate(24 * time.Hour)
		day2records[day] = append(day2records[day], r)
	}

	stats := make([]DayStats, 0, len(day2records))
	for day, dayRecords := range day2records {
		ds := DayStats{
			Day:  day,
			Sets: len(dayRecords),
		}
		var weight, reps, rpe float64
		for _, r := range dayRecords {
			weight += r.WeightKg
			reps += float64(r.Reps)
			rpe += float64(r.RPE)
			ds.MaxWeightKg = math.Max(ds.MaxWeightKg, r.WeightKg)
			ds.VolumeKg += r.WeightKg * float64(r.Reps)
		}
		n := float64(len(dayRecords))
		ds.AvgWeightKg = round2(weight / n)
		ds.AvgReps = round2(reps / n)
		ds.AvgRPE = round2(rpe / n)
		stats = append(stats, ds)
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Day.Before(stats[j].Day)
	})
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
