package models

import "time"

// Service area modes.
const (
	ServiceAreaList   = "list"
	ServiceAreaRadius = "radius"
)

// ServiceAreaCenter is a circle of coverage for radius mode.
type ServiceAreaCenter struct {
	Name        string  `bson:"name" json:"name"`
	Latitude    float64 `bson:"latitude" json:"latitude"`
	Longitude   float64 `bson:"longitude" json:"longitude"`
	RadiusMiles float64 `bson:"radiusMiles" json:"radiusMiles"`
}

// ServiceAreaConfig decides which addresses may book appointments.
type ServiceAreaConfig struct {
	Enabled            bool                `bson:"enabled" json:"enabled"`
	Mode               string              `bson:"mode" json:"mode"`
	Cities             []string            `bson:"cities" json:"cities"`
	States             []string            `bson:"states" json:"states"`
	Zipcodes           []string            `bson:"zipcodes" json:"zipcodes"`
	Centers            []ServiceAreaCenter `bson:"centers" json:"centers"`
	OutsideAreaMessage string              `bson:"outsideAreaMessage" json:"outsideAreaMessage"`
	UpdatedBy          string              `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// AreaCheckResult is the outcome of a service-area check.
type AreaCheckResult struct {
	Eligible  bool    `json:"eligible"`
	Message   string  `json:"message,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Tier is one level of the cleaner perks ladder.
type Tier struct {
	Name             string   `bson:"name" json:"name"`
	MinCompletedJobs int      `bson:"minCompletedJobs" json:"minCompletedJobs"`
	BonusPercent     string   `bson:"bonusPercent" json:"bonusPercent"`
	PayoutDelayDays  int      `bson:"payoutDelayDays" json:"payoutDelayDays"`
	Perks            []string `bson:"perks" json:"perks"`
}

// TierConfig is the ordered tier ladder.
type TierConfig struct {
	Tiers     []Tier    `bson:"tiers" json:"tiers"`
	UpdatedBy string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TierProgress is a cleaner's place on the ladder.
type TierProgress struct {
	CompletedJobs int   `json:"completedJobs"`
	Current       Tier  `json:"current"`
	Next          *Tier `json:"next,omitempty"`
	JobsToNext    int   `json:"jobsToNext"`
}
