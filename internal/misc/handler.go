package misc

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=misc_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/middleware"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const loginRateLimitPerMin = 15

type authService interface {
	Register(ctx context.Context, credentials auth.Credentials) (*auth.User, error)
	Login(ctx context.Context, credentials auth.Credentials, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) error
}

type Handler struct {
	versionInfo string
	authService authService
}

func NewHandler(versionInfo string, authService authService) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		authService: authService,
	}
}

type TokenResponse struct {
	Token string `json:"token"`
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/register", handler.handleRegister).
		Methods("POST", "OPTIONS").Name("register")
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "POST", "OPTIONS").Name("logout")

	// rate limit the auth endpoints to prevent password guessing
	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginRateLimitPerMin, metricsManager))
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

// readCredentials accepts both a JSON body and a classic form post.
func readCredentials(r *http.Request) (auth.Credentials, error) {
	var credentials auth.Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			return credentials, err
		}
		return credentials, nil
	}

	if err := r.ParseForm(); err != nil {
		return credentials, err
	}
	credentials.Username = r.Form.Get("username")
	credentials.Password = r.Form.Get("password")
	return credentials, nil
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.register")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	credentials, err := readCredentials(r)
	if err != nil {
		log.Debugf("register, read credentials: %s", err)
		http.Error(w, "invalid register request", http.StatusBadRequest)
		return
	}

	user, err := handler.authService.Register(ctx, credentials)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		span.SetStatus(codes.Error, "invalid-credentials")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, auth.ErrUserExists):
		span.SetStatus(codes.Error, "user-exists")
		http.Error(w, "username taken", http.StatusConflict)
		return
	case err != nil:
		span.RecordError(err)
		log.Errorf("register user [%s]: %s", credentials.Username, err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	log.Debugf("new user registered: %s", user.Username)
	pkg.WriteJSON(w, http.StatusCreated, user)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	credentials, err := readCredentials(r)
	if err != nil {
		log.Debugf("login, read credentials: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if credentials.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if credentials.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, credentials, time.Now())
	if errors.Is(err, auth.ErrWrongPassword) {
		log.Tracef("failed login attempt for user: %s", credentials.Username)
		span.SetStatus(codes.Error, "wrong-credentials")
		http.Error(w, "error, wrong credentials", http.StatusBadRequest)
		return
	}
	if err != nil {
		span.RecordError(err)
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := middleware.TokenFromRequest(r)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.authService.Logout(ctx, authToken); err != nil {
		if !errors.Is(err, auth.ErrSessionNotFound) {
			log.Errorf("logout: %s", err)
		}
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	log.Tracef("logout for user [%s] success", auth.UserIDFrom(ctx))
	pkg.WriteTextResponseOK(w, "logged-out")
}
