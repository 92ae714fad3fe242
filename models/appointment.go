package models

import "time"

// Time windows a homeowner can ask the job to be done in.
const (
	TimeAnytime = "anytime"
	Time10To3   = "10-3"
	Time11To4   = "11-4"
	Time12To2   = "12-2"
)

// DateLayout is the storage format of appointment dates.
const DateLayout = "2006-01-02"

// Appointment is a scheduled cleaning billed to the homeowner (UserAppointments).
// EmployeesAssigned holds the cleaner assignments (UserCleanerAppointments).
type Appointment struct {
	ID                string     `bson:"id" json:"id"`
	UserID            string     `bson:"userId" json:"userId"`
	HomeID            string     `bson:"homeId" json:"homeId"`
	Date              string     `bson:"date" json:"date"`
	Price             int64      `bson:"price" json:"price"`
	BringSheets       bool       `bson:"bringSheets" json:"bringSheets"`
	BringTowels       bool       `bson:"bringTowels" json:"bringTowels"`
	TimeToBeCompleted string     `bson:"timeToBeCompleted" json:"timeToBeCompleted"`
	Paid              bool       `bson:"paid" json:"paid"`
	PaymentIntentID   string     `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	Completed         bool       `bson:"completed" json:"completed"`
	CompletedAt       *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	HasBeenAssigned   bool       `bson:"hasBeenAssigned" json:"hasBeenAssigned"`
	EmployeesNeeded   int        `bson:"employeesNeeded" json:"employeesNeeded"`
	EmployeesAssigned []string   `bson:"employeesAssigned" json:"employeesAssigned"`
	ReminderTaskID    string     `bson:"reminderTaskId,omitempty" json:"-"`
	CreatedAt         time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// IsAssigned reports whether the cleaner works this appointment.
func (a Appointment) IsAssigned(cleanerID string) bool {
	for _, id := range a.EmployeesAssigned {
		if id == cleanerID {
			return true
		}
	}
	return false
}

// OpenSlots is the number of cleaners still needed.
func (a Appointment) OpenSlots() int {
	open := a.EmployeesNeeded - len(a.EmployeesAssigned)
	if open < 0 {
		return 0
	}
	return open
}

// ParsedDate parses Date as a UTC day.
func (a Appointment) ParsedDate() (time.Time, error) {
	return ParseDate(a.Date)
}

// AppointmentChange is one price-affecting edit of an unpaid appointment.
// It only applies while the edited field still holds the value it was read
// with: BringSheets and BringTowels flip, and the time window must still be
// FromWindow.
type AppointmentChange struct {
	BringSheets *bool
	BringTowels *bool
	FromWindow  string
	ToWindow    string
	Delta       int64
}

// CreateAppointmentRequest is the payload of POST /appointments.
type CreateAppointmentRequest struct {
	HomeID            string `json:"homeId" binding:"required"`
	Date              string `json:"date" binding:"required"`
	BringSheets       bool   `json:"bringSheets"`
	BringTowels       bool   `json:"bringTowels"`
	TimeToBeCompleted string `json:"timeToBeCompleted"`
}

// PaymentIntentResponse hands the client what it needs to confirm a card payment.
type PaymentIntentResponse struct {
	AppointmentID   string `json:"appointmentId"`
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// AppointmentStats aggregates appointment counters for the owner dashboard.
type AppointmentStats struct {
	Upcoming           int64 `bson:"upcoming" json:"upcoming"`
	UnassignedUpcoming int64 `bson:"unassignedUpcoming" json:"unassignedUpcoming"`
	Completed          int64 `bson:"completed" json:"completed"`
	BookedVolume       int64 `bson:"bookedVolume" json:"bookedVolume"`
	CollectedVolume    int64 `bson:"collectedVolume" json:"collectedVolume"`
}

// AppointmentWithHome joins an appointment with the home it is for.
type AppointmentWithHome struct {
	Appointment
	Home *Home `json:"home,omitempty"`
}

// DateOf formats t as a UTC appointment date.
func DateOf(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD appointment date as a UTC day.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}
