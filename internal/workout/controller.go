package workout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseFresh
	PhaseResuming
	PhaseActive
	PhaseFinishing
	PhaseFinished
	PhaseError
)

var phaseNames = [...]string{
	"uninitialized", "loading", "fresh", "resuming", "active", "finishing", "finished", "error",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// InputState is the sub-state of the set entry form while a session is active.
type InputState int

const (
	InputAwaiting InputState = iota
	InputSubmitting
)

func (s InputState) String() string {
	if s == InputSubmitting {
		return "submitting"
	}
	return "awaiting_input"
}

func (s InputState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *InputState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "awaiting_input":
		*s = InputAwaiting
	case "submitting":
		*s = InputSubmitting
	default:
		return fmt.Errorf("unknown input state %q", text)
	}
	return nil
}

type Option func(*Controller)

func WithEventSink(sink EventSink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.events = sink
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithRestListener registers a callback invoked after each stored set that
// should be followed by a rest countdown.
func WithRestListener(fn func(RestSignal)) Option {
	return func(c *Controller) {
		c.onRest = fn
	}
}

// Controller drives one active workout of one user for one template.
//
// At most one mutating operation runs at a time; a second one fails with
// ErrOperationInProgress. State fields are only written under mu, so the
// operation holding the busy slot may read them without locking.
type Controller struct {
	templates TemplateStore
	records   RecordStore
	events    EventSink
	now       func() time.Time
	onRest    func(RestSignal)

	mu    sync.Mutex
	busy  bool
	ready bool
	phase Phase
	input InputState

	userID        string
	templateID    string
	workoutName   string
	templatePlans []ExercisePlan // template order
	plans         []ExercisePlan // presentation order, changed by defer
	sets          [][]LoggedSet  // parallel to plans
	info          map[string]ExerciseInfo
	current       int

	session *Session
	joinIDs map[string]string // exercise id -> session exercise id
	// highest order index among stored session exercises
	lastOrderIndex int
	rest           *RestSignal
	lastErr        error
}

func NewController(templates TemplateStore, records RecordStore, opts ...Option) *Controller {
	c := &Controller{
		templates: templates,
		records:   records,
		events:    noopSink{},
		now:       time.Now,
		phase:     PhaseUninitialized,
		joinIDs:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize loads the template and either prepares a fresh workout or
// recovers the latest in-progress session of the user for that template.
func (c *Controller) Initialize(ctx context.Context, templateID, userID string) (err error) {
	const op = "initialize"
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.controller.initialize")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return newError(ErrOperationInProgress, op, nil)
	}
	c.busy = true
	c.phase = PhaseLoading
	c.mu.Unlock()
	defer c.end()

	if userID == "" {
		return c.failLoad(newError(ErrAuthRequired, op, nil))
	}

	tmpl, err := c.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return c.failLoad(storeError(op, fmt.Errorf("get template %s: %w", templateID, err)))
	}
	if len(tmpl.Exercises) == 0 {
		return c.failLoad(newError(ErrNotFound, op, fmt.Errorf("template %s has no exercises", templateID)))
	}

	plans := make([]ExercisePlan, len(tmpl.Exercises))
	copy(plans, tmpl.Exercises)
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].OrderIndex < plans[j].OrderIndex
	})

	exerciseIDs := make([]string, 0, len(plans))
	for _, p := range plans {
		exerciseIDs = append(exerciseIDs, p.ExerciseID)
	}
	info, infoErr := c.templates.ExerciseInfo(ctx, exerciseIDs)
	if infoErr != nil {
		log.Warnf("initialize [%s]: exercise catalog lookup failed: %s", templateID, infoErr)
		info = map[string]ExerciseInfo{}
	}

	existing, err := c.records.FindInProgressSession(ctx, userID, templateID)
	if err != nil {
		return c.failLoad(storeError(op, fmt.Errorf("find in-progress session: %w", err)))
	}

	phase := PhaseFresh
	state := &recoveredState{
		joinIDs: make(map[string]string),
		sets:    make([][]LoggedSet, len(plans)),
	}
	if existing != nil {
		c.setPhase(PhaseResuming)
		state, err = recoverSession(ctx, c.records, existing.ID, plans)
		if err != nil {
			return c.failLoad(storeError(op, fmt.Errorf("recover session %s: %w", existing.ID, err)))
		}
		if !state.noJoinRows {
			phase = PhaseActive
		}
		log.Debugf("initialize: resuming session [%s] of user [%s] at exercise %d", existing.ID, userID, state.current)
	}

	c.mu.Lock()
	c.userID = userID
	c.templateID = tmpl.ID
	c.workoutName = tmpl.Name
	c.templatePlans = plans
	c.plans = append([]ExercisePlan(nil), plans...)
	c.sets = state.sets
	c.info = info
	c.current = state.current
	c.session = existing
	c.joinIDs = state.joinIDs
	c.lastOrderIndex = state.lastOrderIndex
	c.rest = nil
	c.lastErr = nil
	c.phase = phase
	c.input = InputAwaiting
	c.ready = true
	c.mu.Unlock()

	return nil
}

// SubmitSet validates and stores one set for the current exercise, creating
// the session and its exercise rows first when they do not exist yet.
func (c *Controller) SubmitSet(ctx context.Context, in SetInput) (_ *LoggedSet, err error) {
	const op = "submit set"
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.controller.submitSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if verr := validateSet(op, in); verr != nil {
		return nil, verr
	}
	if berr := c.begin(op); berr != nil {
		return nil, berr
	}
	defer c.end()

	c.mu.Lock()
	c.input = InputSubmitting
	c.mu.Unlock()

	idx := c.current
	plan := c.plans[idx]

	if serr := c.ensureSession(ctx); serr != nil {
		c.failSubmit(serr)
		return nil, serr
	}

	joinID, ok := c.joinIDs[plan.ExerciseID]
	if !ok {
		serr := newError(ErrStoreFailure, op, fmt.Errorf("no session exercise for %s", plan.ExerciseID))
		c.failSubmit(serr)
		return nil, serr
	}

	inserted, ierr := c.records.InsertSet(ctx, LoggedSet{
		SessionExerciseID: joinID,
		SetNumber:         len(c.sets[idx]) + 1,
		WeightKg:          in.WeightKg,
		Reps:              in.Reps,
		RPE:               in.RPE,
		Completed:         true,
		Timestamp:         c.now(),
	})
	if ierr != nil {
		serr := storeError(op, ierr)
		c.failSubmit(serr)
		return nil, serr
	}

	var rest *RestSignal
	logged := len(c.sets[idx]) + 1
	if idx != len(c.plans)-1 || logged < plan.TargetSets {
		rest = &RestSignal{ExerciseID: plan.ExerciseID, Seconds: plan.RestSeconds}
	}

	c.mu.Lock()
	c.sets[idx] = append(c.sets[idx], *inserted)
	c.phase = PhaseActive
	c.input = InputAwaiting
	c.rest = rest
	c.lastErr = nil
	c.mu.Unlock()

	c.persistTotals(ctx)

	if rest != nil && c.onRest != nil {
		c.onRest(*rest)
	}

	stored := *inserted
	return &stored, nil
}

// DeleteSet removes a logged set and renumbers the remaining sets of its
// exercise to 1..M. The caller is expected to have confirmed the deletion.
func (c *Controller) DeleteSet(ctx context.Context, setID string) (err error) {
	const op = "delete set"
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.controller.deleteSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if berr := c.begin(op); berr != nil {
		return berr
	}
	defer c.end()

	idx, pos := c.findSet(setID)
	if idx < 0 {
		return newError(ErrNotFound, op, fmt.Errorf("set %s", setID))
	}

	if derr := c.records.DeleteSet(ctx, setID); derr != nil {
		serr := storeError(op, derr)
		c.recordErr(serr)
		return serr
	}

	remaining := make([]LoggedSet, 0, len(c.sets[idx])-1)
	remaining = append(remaining, c.sets[idx][:pos]...)
	remaining = append(remaining, c.sets[idx][pos+1:]...)

	var renumberErr error
	for i := range remaining {
		want := i + 1
		if remaining[i].SetNumber == want {
			continue
		}
		if uerr := c.records.UpdateSetNumber(ctx, remaining[i].ID, want); uerr != nil {
			renumberErr = fmt.Errorf("renumber set %s to %d: %w", remaining[i].ID, want, uerr)
			break
		}
		remaining[i].SetNumber = want
	}

	if renumberErr == nil {
		c.mu.Lock()
		c.sets[idx] = remaining
		c.clearErrLocked()
		c.mu.Unlock()
		c.persistTotals(ctx)
		return nil
	}

	// The store now holds a mix of old and new numbers. Prefer its view;
	// fall back to the renumbers known to have succeeded.
	joinID := remaining[0].SessionExerciseID
	fresh, readErr := c.records.ListSets(ctx, []string{joinID})
	if readErr == nil {
		sortBySetNumber(fresh)
		remaining = fresh
	} else {
		readErr = fmt.Errorf("re-read sets: %w", readErr)
	}

	perr := newError(ErrPartialWrite, op, multierr.Combine(renumberErr, readErr))
	log.Errorf("delete set [%s]: %s", setID, perr)

	c.mu.Lock()
	c.sets[idx] = remaining
	c.lastErr = perr
	c.mu.Unlock()
	c.persistTotals(ctx)

	return perr
}

// AdvanceExercise moves to the next exercise. It does nothing while the
// current exercise has no logged sets, and finishes the workout when the
// current exercise is the last one.
func (c *Controller) AdvanceExercise(ctx context.Context) error {
	const op = "advance exercise"
	if err := c.begin(op); err != nil {
		return err
	}
	defer c.end()

	if len(c.sets[c.current]) == 0 {
		return nil
	}
	if c.current == len(c.plans)-1 {
		return c.finish(ctx)
	}

	c.mu.Lock()
	c.current++
	c.clearErrLocked()
	c.input = InputAwaiting
	c.rest = nil
	c.mu.Unlock()
	return nil
}

// DeferExercise moves the current exercise, with any sets logged so far, to
// the end of the list. Deferring the last exercise does nothing.
func (c *Controller) DeferExercise() error {
	const op = "defer exercise"
	if err := c.begin(op); err != nil {
		return err
	}
	defer c.end()

	last := len(c.plans) - 1
	if c.current >= last {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	plan, sets := c.plans[c.current], c.sets[c.current]
	c.plans = append(append(c.plans[:c.current:c.current], c.plans[c.current+1:]...), plan)
	c.sets = append(append(c.sets[:c.current:c.current], c.sets[c.current+1:]...), sets)
	c.clearErrLocked()
	c.input = InputAwaiting
	c.rest = nil
	return nil
}

// SaveProgress writes the current totals to the session row. Without a
// session there is nothing to save.
func (c *Controller) SaveProgress(ctx context.Context) (err error) {
	const op = "save progress"
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.controller.saveProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if berr := c.begin(op); berr != nil {
		return berr
	}
	defer c.end()

	if c.session == nil {
		return nil
	}

	totals := ComputeTotals(c.sets)
	if uerr := c.records.UpdateSessionTotals(ctx, c.session.ID, totals); uerr != nil {
		serr := storeError(op, uerr)
		c.recordErr(serr)
		return serr
	}

	c.mu.Lock()
	c.session.Totals = totals
	c.clearErrLocked()
	c.mu.Unlock()
	return nil
}

// FinishWorkout stamps the completion time and final totals on the session.
// On failure the workout stays active.
func (c *Controller) FinishWorkout(ctx context.Context) error {
	const op = "finish workout"
	if err := c.begin(op); err != nil {
		return err
	}
	defer c.end()
	return c.finish(ctx)
}

func (c *Controller) finish(ctx context.Context) (err error) {
	const op = "finish workout"
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.controller.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	c.setPhase(PhaseFinishing)

	totals := ComputeTotals(c.sets)
	completedAt := c.now()

	if c.session != nil {
		if cerr := c.records.CompleteSession(ctx, c.session.ID, totals, completedAt); cerr != nil {
			serr := storeError(op, cerr)
			c.mu.Lock()
			c.phase = PhaseActive
			c.lastErr = serr
			c.mu.Unlock()
			return serr
		}
	}

	c.mu.Lock()
	c.phase = PhaseFinished
	c.input = InputAwaiting
	c.rest = nil
	c.lastErr = nil
	var finished *Session
	if c.session != nil {
		c.session.Totals = totals
		c.session.Completion = CompletedAt(completedAt)
		s := *c.session
		finished = &s
	}
	c.mu.Unlock()

	if finished != nil {
		c.events.SessionFinished(ctx, *finished)
		log.Debugf("workout [%s] finished: %d sets, %d reps, %.1f kg", finished.ID, totals.Sets, totals.Reps, totals.VolumeKg)
	}
	return nil
}

// Discard deletes the in-progress session, if any, and resets the workout to
// a fresh one in template order.
func (c *Controller) Discard(ctx context.Context) (err error) {
	const op = "discard workout"
	ctx, span := tracing.GlobalTracer.Start(ctx, "workout.controller.discard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if berr := c.begin(op); berr != nil {
		return berr
	}
	defer c.end()

	if c.session != nil {
		if derr := c.records.DeleteSession(ctx, c.session.ID); derr != nil {
			serr := storeError(op, derr)
			c.recordErr(serr)
			return serr
		}
		log.Debugf("workout [%s] discarded", c.session.ID)
	}

	c.mu.Lock()
	c.session = nil
	c.joinIDs = make(map[string]string)
	c.lastOrderIndex = 0
	c.plans = append([]ExercisePlan(nil), c.templatePlans...)
	c.sets = make([][]LoggedSet, len(c.plans))
	c.current = 0
	c.phase = PhaseFresh
	c.input = InputAwaiting
	c.rest = nil
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

// ensureSession lazily creates the session row and any missing session
// exercise rows. The session id is kept as soon as the row exists, so a
// failed exercise batch is retried on the next submit.
func (c *Controller) ensureSession(ctx context.Context) error {
	const op = "create session"

	if c.session == nil {
		tid := c.templateID
		created, err := c.records.CreateSession(ctx, Session{
			UserID:      c.userID,
			TemplateID:  &tid,
			WorkoutName: c.workoutName,
			StartedAt:   c.now(),
			Completion:  InProgress(),
		})
		if err != nil {
			return storeError(op, err)
		}
		c.mu.Lock()
		c.session = created
		c.mu.Unlock()
		c.events.SessionStarted(ctx, *created)
		log.Debugf("workout [%s] started by user [%s]", created.ID, c.userID)
	}

	// Rows added to a resumed session go after the stored ones, so order
	// indexes stay unique even when the template changed in between.
	var missing []SessionExercise
	nextOrder := c.lastOrderIndex
	for _, p := range c.templatePlans {
		if _, ok := c.joinIDs[p.ExerciseID]; ok {
			continue
		}
		nextOrder++
		missing = append(missing, SessionExercise{
			SessionID:  c.session.ID,
			ExerciseID: p.ExerciseID,
			OrderIndex: nextOrder,
			TargetSets: p.TargetSets,
		})
	}
	if len(missing) == 0 {
		return nil
	}

	rows, err := c.records.CreateSessionExercises(ctx, missing)
	if err != nil {
		return storeError("create session exercises", err)
	}

	c.mu.Lock()
	for _, row := range rows {
		c.joinIDs[row.ExerciseID] = row.ID
		c.lastOrderIndex = max(c.lastOrderIndex, row.OrderIndex)
	}
	c.mu.Unlock()
	return nil
}

// persistTotals is best effort: a failure is logged and the next write
// carries the totals again.
func (c *Controller) persistTotals(ctx context.Context) {
	if c.session == nil {
		return
	}
	totals := ComputeTotals(c.sets)
	if err := c.records.UpdateSessionTotals(ctx, c.session.ID, totals); err != nil {
		log.Warnf("update totals of workout [%s]: %s", c.session.ID, err)
		return
	}
	c.mu.Lock()
	c.session.Totals = totals
	c.mu.Unlock()
}

func (c *Controller) findSet(setID string) (int, int) {
	for i, sets := range c.sets {
		for j, s := range sets {
			if s.ID == setID {
				return i, j
			}
		}
	}
	return -1, -1
}

func (c *Controller) begin(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return newError(ErrOperationInProgress, op, nil)
	}
	if !c.ready || c.phase == PhaseFinishing || c.phase == PhaseFinished {
		return newError(ErrNotActive, op, nil)
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

func (c *Controller) failLoad(err error) error {
	c.mu.Lock()
	c.phase = PhaseError
	c.lastErr = err
	c.ready = false
	c.mu.Unlock()
	return err
}

func (c *Controller) failSubmit(err error) {
	c.mu.Lock()
	c.phase = PhaseError
	c.input = InputAwaiting
	c.lastErr = err
	c.mu.Unlock()
}

// clearErrLocked drops the last error after a successful intent and leaves
// the error phase for the phase the workout was in. Callers hold mu.
func (c *Controller) clearErrLocked() {
	c.lastErr = nil
	if c.phase != PhaseError {
		return
	}
	if c.session != nil {
		c.phase = PhaseActive
	} else {
		c.phase = PhaseFresh
	}
}

func (c *Controller) recordErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func validateSet(op string, in SetInput) error {
	if math.IsNaN(in.WeightKg) || math.IsInf(in.WeightKg, 0) || in.WeightKg <= 0 {
		return validationError(op, "weight must be a positive number")
	}
	if in.Reps <= 0 {
		return validationError(op, "reps must be a positive number")
	}
	if in.RPE < 1 || in.RPE > 10 {
		return validationError(op, "rpe must be between 1 and 10")
	}
	return nil
}

// IsFinished reports whether the workout was completed.
func (c *Controller) IsFinished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == PhaseFinished
}

// LoggedSets returns a copy of the sets logged for the exercise.
func (c *Controller) LoggedSets(exerciseID string) []LoggedSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, p := range c.plans {
		if p.ExerciseID == exerciseID {
			return append([]LoggedSet(nil), c.sets[i]...)
		}
	}
	return nil
}

// IsKind reports whether err is a controller error of the given kind.
func IsKind(err, kind error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
