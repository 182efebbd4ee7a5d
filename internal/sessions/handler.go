package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	registry *Registry
	metrics  *metrics.Manager
}

func NewHandler(registry *Registry, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		registry: registry,
		metrics:  metricsManager,
	}
}

type SubmitSetResponse struct {
	Set      workout.LoggedSet `json:"set"`
	Snapshot workout.Snapshot  `json:"snapshot"`
}

type RestResponse struct {
	Running   bool `json:"running"`
	Remaining int  `json:"remaining"`
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/{templateId}/session", handler.HandleOpen).Methods("POST", "OPTIONS")
	router.HandleFunc("/{templateId}/session", handler.HandleSnapshot).Methods("GET")
	router.HandleFunc("/{templateId}/session", handler.HandleClose).Methods("DELETE")
	router.HandleFunc("/{templateId}/sets", handler.HandleSubmitSet).Methods("POST", "OPTIONS")
	router.HandleFunc("/{templateId}/sets/{setId}", handler.HandleDeleteSet).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/{templateId}/advance", handler.HandleAdvance).Methods("POST", "OPTIONS")
	router.HandleFunc("/{templateId}/defer", handler.HandleDefer).Methods("POST", "OPTIONS")
	router.HandleFunc("/{templateId}/save", handler.HandleSave).Methods("POST", "OPTIONS")
	router.HandleFunc("/{templateId}/finish", handler.HandleFinish).Methods("POST", "OPTIONS")
	router.HandleFunc("/{templateId}/discard", handler.HandleDiscard).Methods("POST", "OPTIONS")
	router.HandleFunc("/{templateId}/rest", handler.HandleRest).Methods("GET", "OPTIONS")
	router.HandleFunc("/{templateId}/rest/skip", handler.HandleSkipRest).Methods("POST", "OPTIONS")
	router.HandleFunc("/{templateId}/events", handler.HandleEvents).Methods("GET")
}

func (handler *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.open")
	defer span.End()

	entry, err := handler.registry.Open(ctx, auth.UserIDFrom(ctx), mux.Vars(r)["templateId"])
	if err != nil {
		writeError(w, "open workout", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, entry.Controller.Snapshot())
}

func (handler *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	pkg.WriteJSON(w, http.StatusOK, entry.Controller.Snapshot())
}

// HandleClose drops the in-memory workout; stored sets and the session row stay.
func (handler *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if !handler.registry.Close(userID, mux.Vars(r)["templateId"]) {
		http.Error(w, "no open workout", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleSubmitSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.submitSet")
	defer span.End()

	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}

	var in workout.SetInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Debugf("submit set: decode body: %s", err)
		http.Error(w, "invalid set payload", http.StatusBadRequest)
		return
	}

	set, err := entry.Controller.SubmitSet(ctx, in)
	if err != nil {
		entry.Notify()
		writeError(w, "submit set", err)
		return
	}
	if handler.metrics != nil {
		handler.metrics.CounterSetsLogged.Inc()
	}

	snapshot := entry.Controller.Snapshot()
	entry.Notify()
	pkg.WriteJSON(w, http.StatusCreated, SubmitSetResponse{
		Set:      *set,
		Snapshot: snapshot,
	})
}

// HandleDeleteSet requires confirm=true; the controller itself never asks.
func (handler *Handler) HandleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.deleteSet")
	defer span.End()

	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	if !confirmed(r) {
		writeError(w, "delete set", ErrConfirmationRequired)
		return
	}

	handler.mutate(w, entry, "delete set", func() error {
		return entry.Controller.DeleteSet(ctx, mux.Vars(r)["setId"])
	})
}

func (handler *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.advance")
	defer span.End()

	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	handler.mutate(w, entry, "advance exercise", func() error {
		return entry.Controller.AdvanceExercise(ctx)
	})
}

func (handler *Handler) HandleDefer(w http.ResponseWriter, r *http.Request) {
	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	handler.mutate(w, entry, "defer exercise", entry.Controller.DeferExercise)
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.save")
	defer span.End()

	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	handler.mutate(w, entry, "save progress", func() error {
		return entry.Controller.SaveProgress(ctx)
	})
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.finish")
	defer span.End()

	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	handler.mutate(w, entry, "finish workout", func() error {
		return entry.Controller.FinishWorkout(ctx)
	})
}

// HandleDiscard requires confirm=true.
func (handler *Handler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.discard")
	defer span.End()

	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	if !confirmed(r) {
		writeError(w, "discard workout", ErrConfirmationRequired)
		return
	}
	handler.mutate(w, entry, "discard workout", func() error {
		if err := entry.Controller.Discard(ctx); err != nil {
			return err
		}
		entry.timer.Stop()
		return nil
	})
}

func (handler *Handler) HandleRest(w http.ResponseWriter, r *http.Request) {
	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	remaining := entry.RestRemaining()
	pkg.WriteJSON(w, http.StatusOK, RestResponse{Running: remaining > 0, Remaining: remaining})
}

func (handler *Handler) HandleSkipRest(w http.ResponseWriter, r *http.Request) {
	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}
	entry.SkipRest()
	pkg.WriteJSON(w, http.StatusOK, RestResponse{})
}

// HandleEvents streams snapshots and rest countdown ticks as server-sent events.
func (handler *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	entry, ok := handler.lookup(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, unsubscribe := entry.Subscribe()
	defer unsubscribe()

	writeEvent(w, Event{Type: EventSnapshot, Snapshot: snapshotPtr(entry.Controller.Snapshot())})
	flusher.Flush()

	streamEvents(r.Context(), w, flusher, events)
}

func streamEvents(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, events <-chan Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, ev)
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Errorf("marshal session event: %s", err)
		return
	}
	_, _ = w.Write([]byte("data: "))
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n\n"))
}

func (handler *Handler) lookup(w http.ResponseWriter, r *http.Request) (*Entry, bool) {
	entry, err := handler.registry.Lookup(auth.UserIDFrom(r.Context()), mux.Vars(r)["templateId"])
	if err != nil {
		writeError(w, "lookup workout", err)
		return nil, false
	}
	return entry, true
}

// mutate runs op and answers with the resulting snapshot. A finished
// workout, also reachable by advancing past the last exercise, has no rest
// to count down.
func (handler *Handler) mutate(w http.ResponseWriter, entry *Entry, opName string, op func() error) {
	err := op()
	if entry.Controller.IsFinished() {
		entry.timer.Stop()
	}
	entry.Notify()
	if err != nil {
		writeError(w, opName, err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, entry.Controller.Snapshot())
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}
