package history

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/page/{page}/size/{size}", handler.HandleListSessions).Methods("GET", "OPTIONS")
	router.HandleFunc("/exercise/{exerciseId}", handler.HandleExerciseHistory).Methods("GET", "OPTIONS")
}

func (handler *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.listSessions")
	defer span.End()

	userID := auth.UserIDFrom(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "invalid size", http.StatusBadRequest)
		return
	}

	sessionsPage, err := handler.service.ListSessions(ctx, userID, page, size)
	if err != nil {
		if errors.Is(err, ErrInvalidPage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("list sessions of user %s: %s", userID, err)
		http.Error(w, "failed to get workout history", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, sessionsPage)
}

// HandleExerciseHistory accepts optional date_from and date_to query params
// (YYYY-MM-DD, inclusive).
func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.history.exerciseHistory")
	defer span.End()

	userID := auth.UserIDFrom(ctx)
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	params := SetParams{
		UserID:     userID,
		ExerciseID: mux.Vars(r)["exerciseId"],
	}

	if dateFromStr := r.URL.Query().Get("date_from"); dateFromStr != "" {
		dateFrom, err := time.Parse("2006-01-02", dateFromStr)
		if err != nil {
			http.Error(w, "invalid date_from format (expected YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		params.From = &dateFrom
	}
	if dateToStr := r.URL.Query().Get("date_to"); dateToStr != "" {
		dateTo, err := time.Parse("2006-01-02", dateToStr)
		if err != nil {
			http.Error(w, "invalid date_to format (expected YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		// end of the selected day
		dateTo = dateTo.Add(24*time.Hour - time.Nanosecond)
		params.To = &dateTo
	}

	exerciseHistory, err := handler.service.ExerciseHistory(ctx, params)
	if err != nil {
		log.Errorf("exercise history %s of user %s: %s", params.ExerciseID, userID, err)
		http.Error(w, "failed to get exercise history", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, exerciseHistory)
}
