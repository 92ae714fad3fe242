package models

import "time"

// Terms is one published version of the terms of service for a user type.
type Terms struct {
	ID        string    `bson:"id" json:"id"`
	Type      string    `bson:"type" json:"type"`
	Version   int       `bson:"version" json:"version"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	CreatedBy string    `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// TermsAcceptance records that a user agreed to a terms version.
type TermsAcceptance struct {
	ID         string    `bson:"id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	TermsID    string    `bson:"termsId" json:"termsId"`
	Version    int       `bson:"version" json:"version"`
	IPAddress  string    `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	AcceptedAt time.Time `bson:"acceptedAt" json:"acceptedAt"`
}

// TermsStatus tells a client whether the user must accept new terms.
type TermsStatus struct {
	CurrentVersion     int    `json:"currentVersion"`
	CurrentTermsID     string `json:"currentTermsId,omitempty"`
	AcceptedVersion    int    `json:"acceptedVersion"`
	RequiresAcceptance bool   `json:"requiresAcceptance"`
}

// PublishTermsRequest is the payload of POST /terms.
type PublishTermsRequest struct {
	Type    string `json:"type" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}
