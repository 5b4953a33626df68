// Package metrics provides Prometheus exporters for application metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the TerraQuest engine.
var (
	// Counters.
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terraquest_scans_total",
			Help: "Total number of product scans processed",
		},
		[]string{"resolution", "status"},
	)

	PointsAwardedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "terraquest_points_awarded_total",
			Help: "Total eco points awarded across all scans",
		},
	)

	BadgesUnlockedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terraquest_badges_unlocked_total",
			Help: "Total number of badges unlocked",
		},
		[]string{"badge_id"},
	)

	ChallengesCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terraquest_challenges_completed_total",
			Help: "Total number of challenges completed",
		},
		[]string{"challenge_id"},
	)

	LevelUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terraquest_level_ups_total",
			Help: "Total number of level transitions",
		},
		[]string{"level"},
	)

	RewardsRedeemedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terraquest_rewards_redeemed_total",
			Help: "Total number of reward redemptions",
		},
		[]string{"reward_id", "status"},
	)

	PointsSpentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "terraquest_points_spent_total",
			Help: "Total eco points spent on redemptions",
		},
	)

	// Gauges.
	LeaderboardSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "terraquest_leaderboard_size",
			Help: "Current number of leaderboard entries",
		},
	)

	// Histograms.
	ScanScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "terraquest_scan_score",
			Help:    "Sustainability score of scanned products",
			Buckets: prometheus.LinearBuckets(0, 10, 11), // 0 to 100
		},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terraquest_notifications_sent_total",
			Help: "Total community notifications sent",
		},
		[]string{"kind", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "terraquest_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "terraquest_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Scan resolution and status label values.
const (
	ResolutionBarcode = "barcode"
	ResolutionName    = "name"

	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
	StatusRejected = "rejected"
)

// RecordScan records a processed scan attempt.
func RecordScan(resolution, status string) {
	ScansTotal.WithLabelValues(resolution, status).Inc()
}

// RecordPointsAwarded records points granted by a scan.
func RecordPointsAwarded(points int) {
	PointsAwardedTotal.Add(float64(points))
}

// RecordBadgeUnlocked records a badge unlock event.
func RecordBadgeUnlocked(badgeID string) {
	BadgesUnlockedTotal.WithLabelValues(badgeID).Inc()
}

// RecordChallengeCompleted records a challenge completion.
func RecordChallengeCompleted(challengeID string) {
	ChallengesCompletedTotal.WithLabelValues(challengeID).Inc()
}

// RecordLevelUp records a level transition into the named level.
func RecordLevelUp(level string) {
	LevelUpsTotal.WithLabelValues(level).Inc()
}

// RecordRedemption records a redemption attempt.
func RecordRedemption(rewardID, status string) {
	RewardsRedeemedTotal.WithLabelValues(rewardID, status).Inc()
}

// RecordPointsSpent records points debited by a redemption.
func RecordPointsSpent(points int) {
	PointsSpentTotal.Add(float64(points))
}

// SetLeaderboardSize sets the current leaderboard row count.
func SetLeaderboardSize(count int64) {
	LeaderboardSize.Set(float64(count))
}

// ObserveScanScore observes the sustainability score of a scanned product.
func ObserveScanScore(score int) {
	ScanScore.Observe(float64(score))
}

// RecordNotificationSent records a community notification attempt.
func RecordNotificationSent(kind, status string) {
	NotificationsSentTotal.WithLabelValues(kind, status).Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, route, code string, seconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}
