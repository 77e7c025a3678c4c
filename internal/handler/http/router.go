package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trongtuan99/review-company/internal/service"
	"github.com/trongtuan99/review-company/pkg/health"
	"github.com/trongtuan99/review-company/pkg/middleware"
)

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(
	reviewService *service.ReviewService,
	engagementService *service.EngagementService,
	replyService *service.ReplyService,
	companyService *service.CompanyService,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("review"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	reviewHandler := NewReviewHandler(reviewService, engagementService, logger)
	replyHandler := NewReplyHandler(replyService, logger)
	companyHandler := NewCompanyHandler(companyService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/companies", func(r chi.Router) {
			r.Post("/", companyHandler.CreateCompany)
			r.Get("/{companyId}", companyHandler.GetCompany)
			r.Delete("/{companyId}", companyHandler.DeleteCompany)

			r.Post("/{companyId}/reviews", reviewHandler.CreateReview)
			r.Get("/{companyId}/reviews", reviewHandler.ListCompanyReviews)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/{reviewId}", reviewHandler.GetReview)
			r.Delete("/{reviewId}", reviewHandler.DeleteReview)

			// Reaction endpoints
			r.Post("/{reviewId}/like", reviewHandler.Like)
			r.Post("/{reviewId}/dislike", reviewHandler.Dislike)

			r.Post("/{reviewId}/replies", replyHandler.CreateReply)
			r.Get("/{reviewId}/replies", replyHandler.ListReplies)
		})

		r.Route("/replies", func(r chi.Router) {
			r.Put("/{replyId}", replyHandler.EditReply)
			r.Delete("/{replyId}", replyHandler.DeleteReply)
		})
	})

	return r
}
