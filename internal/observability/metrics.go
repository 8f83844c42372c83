package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamefit_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamefit_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	ExercisesLogged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamefit_exercises_logged_total",
		Help: "Exercise entries logged by type.",
	}, []string{"type"})

	PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamefit_points_awarded_total",
		Help: "Exercise points awarded across all users.",
	})

	AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamefit_achievements_unlocked_total",
		Help: "Achievements unlocked across all users.",
	})

	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamefit_users_registered_total",
		Help: "Accounts created.",
	})
)

// Middleware records a counter and latency sample per request, labelled by
// the route template rather than the raw path to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequests.WithLabelValues(
			ctx.Request.Method,
			route,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()
		HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
