package models

import "time"

// Home is a property a homeowner books cleanings for (UserHomes).
type Home struct {
	ID                  string    `bson:"id" json:"id"`
	UserID              string    `bson:"userId" json:"userId"`
	NickName            string    `bson:"nickName" json:"nickName"`
	Address             string    `bson:"address" json:"address"`
	City                string    `bson:"city" json:"city"`
	State               string    `bson:"state" json:"state"`
	Zipcode             string    `bson:"zipcode" json:"zipcode"`
	NumBeds             int       `bson:"numBeds" json:"numBeds"`
	NumBaths            string    `bson:"numBaths" json:"numBaths"`
	SheetsProvided      bool      `bson:"sheetsProvided" json:"sheetsProvided"`
	TowelsProvided      bool      `bson:"towelsProvided" json:"towelsProvided"`
	KeyPadCode          string    `bson:"keyPadCode,omitempty" json:"keyPadCode,omitempty"`
	KeyLocation         string    `bson:"keyLocation,omitempty" json:"keyLocation,omitempty"`
	TrashLocation       string    `bson:"trashLocation,omitempty" json:"trashLocation,omitempty"`
	RecyclingLocation   string    `bson:"recyclingLocation,omitempty" json:"recyclingLocation,omitempty"`
	CompostLocation     string    `bson:"compostLocation,omitempty" json:"compostLocation,omitempty"`
	Contact             string    `bson:"contact,omitempty" json:"contact,omitempty"`
	SpecialNotes        string    `bson:"specialNotes,omitempty" json:"specialNotes,omitempty"`
	TimeToBeCompleted   string    `bson:"timeToBeCompleted" json:"timeToBeCompleted"`
	CleanersNeeded      int       `bson:"cleanersNeeded" json:"cleanersNeeded"`
	Latitude            float64   `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude           float64   `bson:"longitude,omitempty" json:"longitude,omitempty"`
	OutsideServiceArea  bool      `bson:"outsideServiceArea" json:"outsideServiceArea"`
	PhotoIDs            []string  `bson:"photoIds,omitempty" json:"photoIds,omitempty"`
	PreferredCleanerIDs []string  `bson:"preferredCleanerIds,omitempty" json:"preferredCleanerIds,omitempty"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AddressOf returns the postal address of the home.
func (h Home) AddressOf() Address {
	return Address{Address: h.Address, City: h.City, State: h.State, Zipcode: h.Zipcode}
}

// IsPreferred reports whether the cleaner is on the home's preferred list.
func (h Home) IsPreferred(cleanerID string) bool {
	for _, id := range h.PreferredCleanerIDs {
		if id == cleanerID {
			return true
		}
	}
	return false
}

// Address is a postal address used for service-area checks and geocoding.
type Address struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zipcode string `json:"zipcode"`
}

// HomeRequest is the payload for creating a home. Pointer fields are optional
// on update.
type HomeRequest struct {
	NickName          string `json:"nickName"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	Zipcode           string `json:"zipcode"`
	NumBeds           int    `json:"numBeds"`
	NumBaths          string `json:"numBaths"`
	SheetsProvided    bool   `json:"sheetsProvided"`
	TowelsProvided    bool   `json:"towelsProvided"`
	KeyPadCode        string `json:"keyPadCode"`
	KeyLocation       string `json:"keyLocation"`
	TrashLocation     string `json:"trashLocation"`
	RecyclingLocation string `json:"recyclingLocation"`
	CompostLocation   string `json:"compostLocation"`
	Contact           string `json:"contact"`
	SpecialNotes      string `json:"specialNotes"`
	TimeToBeCompleted string `json:"timeToBeCompleted"`
	CleanersNeeded    int    `json:"cleanersNeeded"`
}

// HomeUpdateRequest is a partial update of a home.
type HomeUpdateRequest struct {
	NickName          *string `json:"nickName"`
	Address           *string `json:"address"`
	City              *string `json:"city"`
	State             *string `json:"state"`
	Zipcode           *string `json:"zipcode"`
	NumBeds           *int    `json:"numBeds"`
	NumBaths          *string `json:"numBaths"`
	SheetsProvided    *bool   `json:"sheetsProvided"`
	TowelsProvided    *bool   `json:"towelsProvided"`
	KeyPadCode        *string `json:"keyPadCode"`
	KeyLocation       *string `json:"keyLocation"`
	TrashLocation     *string `json:"trashLocation"`
	RecyclingLocation *string `json:"recyclingLocation"`
	CompostLocation   *string `json:"compostLocation"`
	Contact           *string `json:"contact"`
	SpecialNotes      *string `json:"specialNotes"`
	TimeToBeCompleted *string `json:"timeToBeCompleted"`
	CleanersNeeded    *int    `json:"cleanersNeeded"`
}
