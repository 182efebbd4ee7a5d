package templates

import (
	"errors"
	"net/http"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ExerciseView struct {
	workout.ExercisePlan
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	FormCues    string `json:"formCues,omitempty"`
}

type TemplateView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Exercises []ExerciseView `json:"exercises"`
}

type Handler struct {
	store workout.TemplateStore
}

func NewHandler(store workout.TemplateStore) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/{templateId}", handler.HandleGet).Methods("GET", "OPTIONS")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.get")
	defer span.End()

	templateID := mux.Vars(r)["templateId"]
	tmpl, err := handler.store.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, workout.ErrNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		log.Errorf("get template %s: %s", templateID, err)
		http.Error(w, "failed to get template", http.StatusInternalServerError)
		return
	}

	ids := make([]string, 0, len(tmpl.Exercises))
	for _, e := range tmpl.Exercises {
		ids = append(ids, e.ExerciseID)
	}
	info, err := handler.store.ExerciseInfo(ctx, ids)
	if err != nil {
		// names fall back to exercise ids
		log.Warnf("exercise info for template %s: %s", templateID, err)
		info = map[string]workout.ExerciseInfo{}
	}

	view := TemplateView{
		ID:        tmpl.ID,
		Name:      tmpl.Name,
		Exercises: make([]ExerciseView, 0, len(tmpl.Exercises)),
	}
	for _, e := range tmpl.Exercises {
		name := info[e.ExerciseID].Name
		if name == "" {
			name = e.ExerciseID
		}
		view.Exercises = append(view.Exercises, ExerciseView{
			ExercisePlan: e,
			Name:         name,
			MuscleGroup:  info[e.ExerciseID].MuscleGroup,
			FormCues:     info[e.ExerciseID].FormCues,
		})
	}

	pkg.WriteJSON(w, http.StatusOK, view)
}
