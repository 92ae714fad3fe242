package models

import "time"

// Payout statuses.
const (
	PayoutPending    = "pending"
	PayoutProcessing = "processing"
	PayoutPaid       = "paid"
	PayoutFailed     = "failed"
)

// Payout is a cleaner's earnings for one completed appointment.
type Payout struct {
	ID               string     `bson:"id" json:"id"`
	CleanerID        string     `bson:"cleanerId" json:"cleanerId"`
	AppointmentID    string     `bson:"appointmentId" json:"appointmentId"`
	Amount           int64      `bson:"amount" json:"amount"`
	PlatformFee      int64      `bson:"platformFee" json:"platformFee"`
	Bonus            int64      `bson:"bonus" json:"bonus"`
	Status           string     `bson:"status" json:"status"`
	StripeTransferID string     `bson:"stripeTransferId,omitempty" json:"stripeTransferId,omitempty"`
	AvailableAt      time.Time  `bson:"availableAt" json:"availableAt"`
	PaidAt           *time.Time `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	FailureReason    string     `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	CreatedAt        time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// PayoutSummary is a cleaner's payout history with totals.
type PayoutSummary struct {
	Payouts      []Payout `json:"payouts"`
	PendingTotal int64    `json:"pendingTotal"`
	PaidTotal    int64    `json:"paidTotal"`
	FailedTotal  int64    `json:"failedTotal"`
}

// PayoutTotals aggregates payouts across all cleaners.
type PayoutTotals struct {
	PlatformFees  int64 `bson:"platformFees" json:"platformFees"`
	PendingAmount int64 `bson:"pendingAmount" json:"pendingAmount"`
	PaidAmount    int64 `bson:"paidAmount" json:"paidAmount"`
}

// Platform withdrawal statuses mirror Stripe payout statuses.
const (
	WithdrawalPending   = "pending"
	WithdrawalInTransit = "in_transit"
	WithdrawalPaid      = "paid"
	WithdrawalFailed    = "failed"
	WithdrawalCanceled  = "canceled"
)

// PlatformWithdrawal is an owner-initiated Stripe payout of platform earnings.
type PlatformWithdrawal struct {
	ID             string    `bson:"id" json:"id"`
	Amount         int64     `bson:"amount" json:"amount"`
	Currency       string    `bson:"currency" json:"currency"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	Status         string    `bson:"status" json:"status"`
	StripePayoutID string    `bson:"stripePayoutId,omitempty" json:"stripePayoutId,omitempty"`
	RequestedBy    string    `bson:"requestedBy" json:"requestedBy"`
	FailureReason  string    `bson:"failureReason,omitempty" json:"failureReason,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// WithdrawalRequest is the payload of POST /owner-dashboard/withdrawals.
type WithdrawalRequest struct {
	Amount      int64  `json:"amount" binding:"required"`
	Description string `json:"description"`
}
