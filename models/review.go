package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Review is a homeowner's rating of a cleaner for one appointment (UserReviews).
type Review struct {
	ID            string    `bson:"id" json:"id"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	ReviewerID    string    `bson:"reviewerId" json:"reviewerId"`
	CleanerID     string    `bson:"cleanerId" json:"cleanerId"`
	Rating        int       `bson:"rating" json:"rating"`
	Comment       string    `bson:"comment" json:"comment"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// ReviewRequest is the payload of POST /reviews.
type ReviewRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	CleanerID     string `json:"cleanerId" binding:"required"`
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment"`
}

// RunningAverage folds one more rating into an average over count ratings,
// rounded to two decimals.
func RunningAverage(avg float64, count, rating int) float64 {
	total := decimal.NewFromFloat(avg).Mul(decimal.NewFromInt(int64(count))).Add(decimal.NewFromInt(int64(rating)))
	out, _ := total.Div(decimal.NewFromInt(int64(count + 1))).Round(2).Float64()
	return out
}
