package models

import "time"

// User types.
const (
	UserTypeHomeowner = "homeowner"
	UserTypeCleaner   = "cleaner"
	UserTypeOwner     = "owner"
)

// Warning is a moderation note issued to a cleaner by an owner.
type Warning struct {
	ID        string    `bson:"id" json:"id"`
	Reason    string    `bson:"reason" json:"reason"`
	IssuedBy  string    `bson:"issuedBy" json:"issuedBy"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// User represents any account on the platform: homeowners, cleaners and owners.
type User struct {
	ID                   string     `bson:"id" json:"id"`
	Username             string     `bson:"username" json:"username"`
	Email                string     `bson:"email" json:"email"`
	PasswordHash         string     `bson:"passwordHash" json:"-"`
	Type                 string     `bson:"type" json:"type"`
	FirstName            string     `bson:"firstName" json:"firstName"`
	LastName             string     `bson:"lastName" json:"lastName"`
	PhoneNumber          string     `bson:"phoneNumber" json:"phoneNumber,omitempty"`
	ProfileImage         string     `bson:"profileImage" json:"profileImage,omitempty"`
	FCMToken             string     `bson:"fcmToken" json:"-"`
	Devices              []Device   `bson:"devices,omitempty" json:"-"`
	AccountFrozen        bool       `bson:"accountFrozen" json:"accountFrozen"`
	AccountFrozenAt      *time.Time `bson:"accountFrozenAt,omitempty" json:"accountFrozenAt,omitempty"`
	AccountFrozenReason  string     `bson:"accountFrozenReason,omitempty" json:"accountFrozenReason,omitempty"`
	WarningCount         int        `bson:"warningCount" json:"warningCount"`
	Warnings             []Warning  `bson:"warnings,omitempty" json:"warnings,omitempty"`
	TermsAcceptedVersion int        `bson:"termsAcceptedVersion" json:"termsAcceptedVersion"`
	StripeAccountID      string     `bson:"stripeAccountId,omitempty" json:"stripeAccountId,omitempty"`
	CompletedJobs        int        `bson:"completedJobs" json:"completedJobs"`
	Rating               float64    `bson:"rating" json:"rating"`
	ReviewCount          int        `bson:"reviewCount" json:"reviewCount"`
	CreatedAt            time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RegisterRequest is the payload of POST /auth/register.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Type      string `json:"type" binding:"required"`
	TermsID   string `json:"termsId"`
}

// LoginRequest accepts either an email or a username as the identifier.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after registration and login.
type AuthResponse struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserProfile is the view returned by GET /auth/me.
type UserProfile struct {
	User
	RequiresTermsAcceptance bool `json:"requiresTermsAcceptance"`
	CurrentTermsVersion     int  `json:"currentTermsVersion"`
}

// CleanerProfile is the public view of a cleaner shown to homeowners.
type CleanerProfile struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	ProfileImage  string  `json:"profileImage,omitempty"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"reviewCount"`
	CompletedJobs int     `json:"completedJobs"`
}

// ToCleanerProfile strips a user down to its public cleaner fields.
func (u User) ToCleanerProfile() CleanerProfile {
	return CleanerProfile{
		ID:            u.ID,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		ProfileImage:  u.ProfileImage,
		Rating:        u.Rating,
		ReviewCount:   u.ReviewCount,
		CompletedJobs: u.CompletedJobs,
	}
}
