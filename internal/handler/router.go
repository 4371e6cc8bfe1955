package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hitoshi/beautyparlour/internal/metrics"
	"github.com/hitoshi/beautyparlour/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// welcomeMessage はGET /の応答本文。
const welcomeMessage = "Welcome to the Beauty Parlour API"

// HealthChecker はヘルスチェックで疎通確認する依存先。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// ヘルスチェック
	Health HealthChecker

	// 予約
	AppointmentService AppointmentServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → Recovery → Logging → SecurityHeaders → CORS → RateLimit(General)
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	// ログとレート制限がクライアントIPを参照するため最初に解決する
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger, deps.Metrics))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	apptHandler := NewAppointmentHandler(deps.AppointmentService)

	// --- レート制限なしのルート ---
	r.Get("/health", healthHandler(deps.Health))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	// --- レート制限ありのルート ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Get("/", welcome)

		r.Route("/appointments", func(r chi.Router) {
			// POST /appointments - 予約作成（予約専用レート制限を追加）
			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.BookingMiddleware()).Post("/", apptHandler.CreateAppointment)
			} else {
				r.Post("/", apptHandler.CreateAppointment)
			}

			r.Route("/{phone}", func(r chi.Router) {
				r.Get("/", apptHandler.GetAppointment)
				r.Put("/", apptHandler.UpdateAppointment)
				r.Delete("/", apptHandler.DeleteAppointment)
			})
		})
	})

	return r
}

// welcome は稼働確認用の固定テキストを返す。
func welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, welcomeMessage)
}

// healthHandler はデータベースへの疎通を確認するハンドラーを返す。
// GET /health
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := checker.PingContext(ctx); err != nil {
				slog.Warn("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
