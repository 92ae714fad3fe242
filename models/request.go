package models

import "time"

// Pending request statuses.
const (
	RequestPending   = "pending"
	RequestApproved  = "approved"
	RequestDenied    = "denied"
	RequestCancelled = "cancelled"
	RequestExpired   = "expired"
)

// PendingRequest is a cleaner's ask to work an appointment (UserPendingRequests).
type PendingRequest struct {
	ID              string     `bson:"id" json:"id"`
	AppointmentID   string     `bson:"appointmentId" json:"appointmentId"`
	AppointmentDate string     `bson:"appointmentDate" json:"appointmentDate"`
	HomeID          string     `bson:"homeId" json:"homeId"`
	HomeownerID     string     `bson:"homeownerId" json:"homeownerId"`
	CleanerID       string     `bson:"cleanerId" json:"cleanerId"`
	Status          string     `bson:"status" json:"status"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	DecidedAt       *time.Time `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}

// PendingRequestView is what a homeowner sees when reviewing requests.
type PendingRequestView struct {
	PendingRequest
	Cleaner CleanerProfile `json:"cleaner"`
}
