package models

// HomeownerDashboard backs GET /user-info.
type HomeownerDashboard struct {
	User         User          `json:"user"`
	Homes        []Home        `json:"homes"`
	Appointments []Appointment `json:"appointments"`
	Bill         *Bill         `json:"bill"`
}

// CleanerDashboard backs GET /employee-info.
type CleanerDashboard struct {
	User         User                  `json:"user"`
	Appointments []AppointmentWithHome `json:"appointments"`
	Tier         *TierProgress         `json:"tier"`
	Payouts      *PayoutSummary        `json:"payouts"`
}

// CleanerSummary is a row of the owner's cleaner management list.
type CleanerSummary struct {
	CleanerProfile
	Email               string `json:"email"`
	AccountFrozen       bool   `json:"accountFrozen"`
	AccountFrozenReason string `json:"accountFrozenReason,omitempty"`
	WarningCount        int    `json:"warningCount"`
	HasStripeAccount    bool   `json:"hasStripeAccount"`
}

// OwnerStats backs GET /owner-dashboard/stats.
type OwnerStats struct {
	Homeowners     int64            `json:"homeowners"`
	ActiveCleaners int64            `json:"activeCleaners"`
	FrozenCleaners int64            `json:"frozenCleaners"`
	Appointments   AppointmentStats `json:"appointments"`
	Payouts        PayoutTotals     `json:"payouts"`
}

// ModerationRequest carries the reason for a freeze or warning.
type ModerationRequest struct {
	Reason string `json:"reason"`
}
