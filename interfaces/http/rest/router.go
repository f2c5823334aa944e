package rest

import (
	"context"
	"net/http"
	"time"

	"statesapi/application/services"
	"statesapi/domain/reference"
	"statesapi/interfaces/http/rest/handlers"
	"statesapi/interfaces/http/rest/middleware"
	"statesapi/interfaces/http/rest/static"
	"statesapi/pkg/common"
	"statesapi/pkg/errors"
	"statesapi/pkg/observability"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether the fact store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options toggles optional router features
type Options struct {
	EnableCORS    bool
	CORSOrigins   []string
	EnableMetrics bool
}

// Router creates and configures the HTTP router
type Router struct {
	service *services.StateService
	dataset *reference.Dataset
	pinger  Pinger
	metrics *observability.Collector
	tracer  *observability.Tracer
	options Options
	logger  *zap.Logger
}

// NewRouter creates a new router instance. metrics, tracer and pinger may be nil.
func NewRouter(
	service *services.StateService,
	dataset *reference.Dataset,
	pinger Pinger,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		service: service,
		dataset: dataset,
		pinger:  pinger,
		metrics: metrics,
		tracer:  tracer,
		options: options,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()
	errorHandler := errors.NewErrorHandler(rt.logger)
	notFound := handlers.NotFound()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	if rt.options.EnableMetrics && rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	if rt.tracer.Enabled() {
		namer := xray.NewFixedSegmentNamer(rt.tracer.SegmentName())
		router.Use(func(next http.Handler) http.Handler {
			return xray.Handler(namer, next)
		})
	}
	// Recovery sits inside the logger and metrics so a panic is still
	// logged and counted as a 500
	router.Use(errorHandler.Middleware)
	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.options.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Set before Route so subrouters inherit them
	router.NotFound(notFound)
	router.MethodNotAllowed(notFound)

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.options.EnableMetrics && rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	stateHandler := handlers.NewStateHandler(rt.service, errorHandler, rt.logger)

	router.Get("/states", stateHandler.ListStates)
	router.Route("/states/{state}", func(r chi.Router) {
		r.Use(middleware.VerifyState(rt.dataset, errorHandler))

		r.Get("/", stateHandler.GetState)
		r.Get("/capital", stateHandler.GetCapital)
		r.Get("/nickname", stateHandler.GetNickname)
		r.Get("/population", stateHandler.GetPopulation)
		r.Get("/admission", stateHandler.GetAdmission)

		r.Get("/funfact", stateHandler.GetRandomFunFact)
		r.Post("/funfact", stateHandler.CreateFunFacts)
		r.Patch("/funfact", stateHandler.UpdateFunFact)
		r.Delete("/funfact", stateHandler.DeleteFunFact)
	})

	// Public site; unknown paths fall through to the negotiated 404
	site := static.Handler(notFound)
	router.Get("/", site.ServeHTTP)
	router.Get("/*", site.ServeHTTP)

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	_ = common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck pings the fact store
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if rt.pinger != nil {
		ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
		defer cancel()

		if err := rt.pinger.Ping(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			_ = common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	_ = common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
