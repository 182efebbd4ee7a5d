package events

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=events_test

const publishTimeout = 5 * time.Second

type eventsRepo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	List(ctx context.Context, params ListParams) ([]*Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

var _ workout.EventSink = (*Service)(nil)

// Service stores training events and, when a publisher is set, forwards them.
// As a workout.EventSink it never fails the workout: errors are logged.
type Service struct {
	repo      eventsRepo
	publisher eventPublisher
}

func NewService(repo eventsRepo, publisher eventPublisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *Service) SessionStarted(ctx context.Context, session workout.Session) {
	if _, err := s.Add(ctx, NewTrainingStartEvent(session)); err != nil {
		log.Errorf("training started event for workout [%s]: %s", session.ID, err)
	}
}

func (s *Service) SessionFinished(ctx context.Context, session workout.Session) {
	if _, err := s.Add(ctx, NewTrainingFinishEvent(session)); err != nil {
		log.Errorf("training finished event for workout [%s]: %s", session.ID, err)
	}
}

// Add stores the event and publishes it. A publish failure is logged; the
// stored event is still returned.
func (s *Service) Add(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !event.Type.IsValid() {
		return nil, fmt.Errorf("invalid event type: %s", event.Type)
	}

	stored, err := s.repo.Add(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("add %s event: %w", event.Type, err)
	}

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(pubCtx, *stored); err != nil {
			log.Errorf("publish %s event %d: %s", stored.Type, stored.ID, err)
		}
	}

	return stored, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []*Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Service) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
