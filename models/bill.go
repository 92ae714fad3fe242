package models

import "time"

// Bill is the homeowner's running balance (UserBills).
// TotalDue always equals AppointmentDue + CancellationFee.
type Bill struct {
	ID              string    `bson:"id" json:"id"`
	UserID          string    `bson:"userId" json:"userId"`
	AppointmentDue  int64     `bson:"appointmentDue" json:"appointmentDue"`
	CancellationFee int64     `bson:"cancellationFee" json:"cancellationFee"`
	TotalDue        int64     `bson:"totalDue" json:"totalDue"`
	TotalPaid       int64     `bson:"totalPaid" json:"totalPaid"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BillDelta is an increment applied to a bill in one atomic write.
type BillDelta struct {
	AppointmentDue  int64
	CancellationFee int64
	TotalPaid       int64
}

// IsZero reports whether applying the delta would change nothing.
func (d BillDelta) IsZero() bool {
	return d.AppointmentDue == 0 && d.CancellationFee == 0 && d.TotalPaid == 0
}

// Apply adds the delta to the bill in memory.
func (b *Bill) Apply(d BillDelta) {
	b.AppointmentDue += d.AppointmentDue
	b.CancellationFee += d.CancellationFee
	b.TotalDue += d.AppointmentDue + d.CancellationFee
	b.TotalPaid += d.TotalPaid
}
