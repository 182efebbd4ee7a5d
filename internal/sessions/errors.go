package sessions

import (
	"errors"
	"net/http"

	"github.com/2beens/liftlog/internal/workout"

	log "github.com/sirupsen/logrus"
)

var ErrConfirmationRequired = errors.New("confirmation required")

// StatusFor maps workout error kinds to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, workout.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, workout.ErrNotFound), errors.Is(err, workout.ErrNotActive):
		return http.StatusNotFound
	case errors.Is(err, workout.ErrValidationFailed), errors.Is(err, ErrConfirmationRequired):
		return http.StatusBadRequest
	case errors.Is(err, workout.ErrPartialWrite):
		return http.StatusConflict
	case errors.Is(err, workout.ErrOperationInProgress):
		return http.StatusTooManyRequests
	case errors.Is(err, workout.ErrStoreFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
	} else {
		log.Debugf("%s: %s", op, err)
	}
	http.Error(w, err.Error(), status)
}
