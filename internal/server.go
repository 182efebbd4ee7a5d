package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/liftlog/internal/auth"
	"github.com/2beens/liftlog/internal/config"
	"github.com/2beens/liftlog/internal/events"
	"github.com/2beens/liftlog/internal/history"
	"github.com/2beens/liftlog/internal/mcp"
	"github.com/2beens/liftlog/internal/middleware"
	"github.com/2beens/liftlog/internal/misc"
	"github.com/2beens/liftlog/internal/sessions"
	"github.com/2beens/liftlog/internal/storage"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/templates"
	"github.com/2beens/liftlog/internal/workout"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	sessionCleanupInterval = 10 * time.Minute
	sessionMaxIdle         = 12 * time.Hour
	authCleanupInterval    = 8 * time.Hour
	maxRequestBodyBytes    = 1 << 20
)

type loginChecker interface {
	IsLogged(ctx context.Context, token string) (string, bool, error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config     *config.Config
	store      storage.Store
	closeStore func()
	dbPool     *pgxpool.Pool

	redisClient  *redis.Client
	rateLimiter  middleware.RequestRateLimiter
	loginChecker loginChecker
	authService  *auth.Service

	templateStore  *templates.CachedStore
	registry       *sessions.Registry
	historyService *history.Service
	eventsService  *events.Service // nil on sqlite
	kafkaPublisher *events.KafkaPublisher
	mcpServer      *mcpserver.MCPServer

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (_ *Server, err error) {
	cfg := params.Config

	s := &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
	}

	opened, err := storage.Open(ctx, storage.OpenParams{
		Config:           cfg,
		PostgresPassword: params.PostgresPassword,
		TracingEnabled:   params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, err
	}
	s.store = opened.Store
	s.dbPool = opened.Pool
	s.closeStore = opened.Close
	defer func() {
		if err != nil {
			opened.Close()
		}
	}()

	var pgxpoolCollector prometheus.Collector
	if s.dbPool != nil {
		pgxpoolCollector = pgxpoolprometheus.NewCollector(
			s.dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		)
	}

	s.promRegistry = metrics.SetupPrometheus(pgxpoolCollector)
	s.metricsManager = metrics.NewManager("liftlog", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	s.redisClient = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	rdbStatus := s.redisClient.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "liftlog-backend", s.redisClient)
	if err != nil {
		return nil, err
	}
	s.otelShutdown = otelShutdown

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
	s.authService = auth.NewAuthService(s.store, sessionTTL, s.redisClient)
	s.loginChecker = auth.NewLoginChecker(sessionTTL, s.redisClient)
	s.rateLimiter = redis_rate.NewLimiter(s.redisClient)

	if cfg.TemplatesSeedPath != "" {
		if _, err := s.applySeed(ctx); err != nil {
			return nil, err
		}
	}

	var sink workout.EventSink
	if s.dbPool != nil {
		if len(cfg.KafkaBrokers) > 0 {
			s.kafkaPublisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
			s.eventsService = events.NewService(events.NewRepo(s.dbPool), s.kafkaPublisher)
		} else {
			s.eventsService = events.NewService(events.NewRepo(s.dbPool), nil)
		}
		sink = s.eventsService
	} else if len(cfg.KafkaBrokers) > 0 {
		log.Warnln("kafka brokers set, but training events are only stored with the postgres driver")
	}

	s.wireDomain(sink)
	return s, nil
}

// wireDomain builds the workout side of the server on top of the store.
func (s *Server) wireDomain(sink workout.EventSink) {
	s.templateStore = templates.NewCachedStore(
		s.store,
		s.config.TemplateCacheSizeMB*1024*1024,
		s.config.TemplateCacheTTLSeconds,
	)

	var opts []sessions.RegistryOption
	if sink != nil {
		opts = append(opts, sessions.WithEventSink(sink))
	}
	s.registry = sessions.NewRegistry(s.templateStore, s.store, s.metricsManager, opts...)
	s.historyService = history.NewService(s.store)
	s.mcpServer = mcp.NewServer(s.historyService, s.versionInfo)
}

func (s *Server) applySeed(ctx context.Context) (*templates.Seed, error) {
	seed, err := templates.LoadSeed(s.config.TemplatesSeedPath)
	if err != nil {
		return nil, fmt.Errorf("load templates seed: %w", err)
	}
	if err := seed.Apply(ctx, s.store); err != nil {
		return nil, fmt.Errorf("apply templates seed: %w", err)
	}
	log.Debugf("templates seeded from: %s", s.config.TemplatesSeedPath)
	return seed, nil
}

// ReloadTemplates applies the seed file again and drops the cached templates
// it touched. Workouts already open keep the plan they started with.
func (s *Server) ReloadTemplates(ctx context.Context) error {
	if s.config.TemplatesSeedPath == "" {
		return errors.New("no templates seed path configured")
	}
	seed, err := s.applySeed(ctx)
	if err != nil {
		return err
	}
	s.templateStore.Refresh(seed)
	log.Infof("templates reloaded: %d templates, %d exercises", len(seed.Templates), len(seed.Exercises))
	return nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("liftlog-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, s.rateLimiter, s.metricsManager)

	templatesHandler := templates.NewHandler(s.templateStore)
	templatesHandler.SetupRoutes(r.PathPrefix("/templates").Subrouter())

	workoutsRouter := r.PathPrefix("/workouts").Subrouter()
	sessions.NewHandler(s.registry, s.metricsManager).SetupRoutes(workoutsRouter)
	workoutsRouter.Use(middleware.RateLimit(s.rateLimiter, "workouts", s.config.RateLimitPerMinute, s.metricsManager))

	historyHandler := history.NewHandler(s.historyService)
	historyHandler.SetupRoutes(r.PathPrefix("/history").Subrouter())

	if s.eventsService != nil {
		eventsHandler := events.NewHandler(s.eventsService)
		eventsHandler.SetupRoutes(r.PathPrefix("/events").Subrouter())
	}

	r.PathPrefix("/mcp").Handler(otelhttp.NewHandler(mcp.NewHTTPHandler(s.mcpServer), "mcp")).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(maxRequestBodyBytes))

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:     router,
		Addr:        ipAndPort,
		ReadTimeout: time.Minute,
		// no write timeout: workout event streams stay open
		ConnState: s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	go s.registry.RunCleanup(ctx, sessionCleanupInterval, sessionMaxIdle)
	go s.runAuthCleanup(ctx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) runAuthCleanup(ctx context.Context) {
	ticker := time.NewTicker(authCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.authService.ScanAndClean(ctx)
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// closing the open workouts ends their event streams, so the
	// http server below does not wait on them
	s.registry.Shutdown()
	log.Trace("open workouts closed ...")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.kafkaPublisher != nil {
		if err := s.kafkaPublisher.Close(); err != nil {
			log.Errorf("failed to close kafka publisher: %s", err)
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.closeStore != nil {
		s.closeStore()
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
