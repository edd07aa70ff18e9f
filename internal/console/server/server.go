package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/m0rozov/phishsight/internal/console/handler"
	"github.com/m0rozov/phishsight/internal/infra"
	"github.com/m0rozov/phishsight/internal/infra/auth"
	"github.com/m0rozov/phishsight/internal/metrics"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Проверка RS256 токенов для защищенного периметра
	authValidator auth.TokenValidator

	metrics *metrics.Metrics
	promReg prometheus.Gatherer

	// Обработчики бизнес-доменов
	authHandler      *handler.AuthHandler      // /auth/*
	detectHandler    *handler.DetectHandler    // /api/v1/detect
	historyHandler   *handler.HistoryHandler   // /api/v1/history
	analyticsHandler *handler.AnalyticsHandler // /api/v1/analytics
	feedbackHandler  *handler.FeedbackHandler  // /api/v1/feedback, /contact
	reportHandler    *handler.ReportHandler    // /api/v1/report
}

// NewConsoleServer инициализирует сервер консоли со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	validator auth.TokenValidator,
	m *metrics.Metrics,
	promReg prometheus.Gatherer,
	authH *handler.AuthHandler,
	detectH *handler.DetectHandler,
	historyH *handler.HistoryHandler,
	analyticsH *handler.AnalyticsHandler,
	feedbackH *handler.FeedbackHandler,
	reportH *handler.ReportHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:           chi.NewRouter(),
		logger:           logger.Named("console-api"),
		cfg:              cfg,
		authValidator:    validator,
		metrics:          m,
		promReg:          promReg,
		authHandler:      authH,
		detectHandler:    detectH,
		historyHandler:   historyH,
		analyticsHandler: analyticsH,
		feedbackHandler:  feedbackH,
		reportHandler:    reportH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.metricsMiddleware)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ (открыты без токена) ---
	r.Group(func(r chi.Router) {
		r.Post("/auth/token", s.authHandler.Login)
		r.Post("/auth/signup", s.authHandler.Signup)

		// Форма обратной связи доступна анонимно
		r.Post("/contact", s.feedbackHandler.Contact)

		// Healthcheck для мониторинга
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		if s.promReg != nil {
			r.Method(http.MethodGet, "/metrics",
				promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
		}
	})

	// --- 3. ЗАЩИЩЕННЫЙ ПЕРИМЕТР (требует RS256 токен) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.NewMiddleware(s.authValidator, s.logger))

		r.Route("/api/v1", func(r chi.Router) {
			// Детекция и история
			r.Post("/detect", s.detectHandler.Detect)
			r.Get("/detections/{id}", s.detectHandler.Get)
			r.Get("/history", s.historyHandler.List)

			// Аналитика и выгрузки
			r.Get("/analytics", s.analyticsHandler.Dashboard)
			r.Get("/report", s.reportHandler.Download)

			// Обратная связь по вердиктам
			r.Post("/feedback", s.feedbackHandler.Submit)

			// Админский контур
			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireScope(auth.ScopeAdmin))

				r.Get("/history", s.historyHandler.ListAll)
				r.Get("/analytics", s.analyticsHandler.AdminDashboard)
				r.Get("/report", s.reportHandler.DownloadAll)
				r.Get("/contacts", s.feedbackHandler.ListContacts)
				r.Post("/contacts/{id}/status", s.feedbackHandler.SetContactStatus)
			})
		})
	})
}

// metricsMiddleware снимает latency и traffic по шаблону роута, а не по
// сырому пути, чтобы не раздувать кардинальность меток.
func (s *ConsoleServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		s.metrics.TotalRequests.WithLabelValues(route, r.Method).Inc()
		s.metrics.RequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
