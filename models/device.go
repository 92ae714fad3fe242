package models

import "time"

// Device is a signed-in client of a user. Each device holds the hash of its
// current bearer token so sessions can be revoked individually.
type Device struct {
	DeviceID   string    `bson:"deviceId" json:"deviceId"`
	DeviceName string    `bson:"deviceName" json:"deviceName,omitempty"`
	IP         string    `bson:"ip" json:"ip,omitempty"`
	LastLogin  time.Time `bson:"lastLogin" json:"lastLogin"`
	TokenHash  string    `bson:"tokenHash" json:"-"`
}
