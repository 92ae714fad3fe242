package repository

import (
	"cleanly/database"
	appointmentRepo "cleanly/database/repository/appointment"
	billRepo "cleanly/database/repository/bill"
	homeRepo "cleanly/database/repository/home"
	messageRepo "cleanly/database/repository/message"
	payoutRepo "cleanly/database/repository/payout"
	requestRepo "cleanly/database/repository/request"
	reviewRepo "cleanly/database/repository/review"
	settingsRepo "cleanly/database/repository/settings"
	termsRepo "cleanly/database/repository/terms"
	userRepo "cleanly/database/repository/user"
)

// ErrNotFound is returned when no document matches a lookup.
var ErrNotFound = database.ErrNotFound

// ErrDuplicate is returned when a create collides with a unique index.
var ErrDuplicate = database.ErrDuplicate

// Re-export the repository interfaces and constructors.
type (
	UserRepository         = userRepo.UserRepository
	HomeRepository         = homeRepo.HomeRepository
	AppointmentRepository  = appointmentRepo.AppointmentRepository
	BillRepository         = billRepo.BillRepository
	RequestRepository      = requestRepo.RequestRepository
	ReviewRepository       = reviewRepo.ReviewRepository
	PayoutRepository       = payoutRepo.PayoutRepository
	WithdrawalRepository   = payoutRepo.WithdrawalRepository
	ConversationRepository = messageRepo.ConversationRepository
	MessageRepository      = messageRepo.MessageRepository
	TermsRepository        = termsRepo.TermsRepository
	SettingsRepository     = settingsRepo.SettingsRepository
)

var (
	NewMongoUserRepo         = userRepo.NewMongoUserRepo
	NewMongoHomeRepo         = homeRepo.NewMongoHomeRepo
	NewMongoAppointmentRepo  = appointmentRepo.NewMongoAppointmentRepo
	NewMongoBillRepo         = billRepo.NewMongoBillRepo
	NewMongoRequestRepo      = requestRepo.NewMongoRequestRepo
	NewMongoReviewRepo       = reviewRepo.NewMongoReviewRepo
	NewMongoPayoutRepo       = payoutRepo.NewMongoPayoutRepo
	NewMongoWithdrawalRepo   = payoutRepo.NewMongoWithdrawalRepo
	NewMongoConversationRepo = messageRepo.NewMongoConversationRepo
	NewMongoMessageRepo      = messageRepo.NewMongoMessageRepo
	NewMongoTermsRepo        = termsRepo.NewMongoTermsRepo
	NewMongoSettingsRepo     = settingsRepo.NewMongoSettingsRepo
)

// Repos bundles every repository the services need.
type Repos struct {
	Users         UserRepository
	Homes         HomeRepository
	Appointments  AppointmentRepository
	Bills         BillRepository
	Requests      RequestRepository
	Reviews       ReviewRepository
	Payouts       PayoutRepository
	Withdrawals   WithdrawalRepository
	Conversations ConversationRepository
	Messages      MessageRepository
	Terms         TermsRepository
	Settings      SettingsRepository
}

// NewMongoRepos builds all repositories on the global Mongo client.
func NewMongoRepos() *Repos {
	return &Repos{
		Users:         NewMongoUserRepo(),
		Homes:         NewMongoHomeRepo(),
		Appointments:  NewMongoAppointmentRepo(),
		Bills:         NewMongoBillRepo(),
		Requests:      NewMongoRequestRepo(),
		Reviews:       NewMongoReviewRepo(),
		Payouts:       NewMongoPayoutRepo(),
		Withdrawals:   NewMongoWithdrawalRepo(),
		Conversations: NewMongoConversationRepo(),
		Messages:      NewMongoMessageRepo(),
		Terms:         NewMongoTermsRepo(),
		Settings:      NewMongoSettingsRepo(),
	}
}
