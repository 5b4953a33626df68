package engine

import "github.com/terraquest/terraquest-backend/internal/models"

// Points awarded per scan by sustainability score bucket.
const (
	PointsExcellent = 50 // score >= 80
	PointsGood      = 35 // score >= 60
	PointsModerate  = 20 // score >= 40
	PointsLow       = 10 // everything below
)

// PointsForScan maps a product's sustainability score to points awarded for
// scanning it. Step function with inclusive lower bounds, highest first.
func PointsForScan(sustainabilityScore int) int {
	switch {
	case sustainabilityScore >= 80:
		return PointsExcellent
	case sustainabilityScore >= 60:
		return PointsGood
	case sustainabilityScore >= 40:
		return PointsModerate
	default:
		return PointsLow
	}
}

// Feedback suffixes by score bucket, appended to the product summary.
const (
	feedbackExcellent = " 🌟 This is an excellent sustainable choice! Keep up the great work!"
	feedbackGood      = " 👍 Good choice! There are even better alternatives available."
	feedbackCaution   = " ⚠️ Consider exploring greener alternatives for your next purchase."
	feedbackWarning   = " 🚨 This product has significant environmental impact. Strongly consider alternatives."
)

// Feedback builds the advisory text for a scanned product: the product's
// static summary plus a tone suffix chosen by the same thresholds as scoring.
func Feedback(product *models.Product) string {
	switch {
	case product.SustainabilityScore >= 80:
		return product.Summary + feedbackExcellent
	case product.SustainabilityScore >= 60:
		return product.Summary + feedbackGood
	case product.SustainabilityScore >= 40:
		return product.Summary + feedbackCaution
	default:
		return product.Summary + feedbackWarning
	}
}
