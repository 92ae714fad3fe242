package handlers

import (
	"cleanly/middleware"
)

// HandlerBundle groups every endpoint handler for route registration.
type HandlerBundle struct {
	Secret   []byte
	Sessions middleware.SessionValidator

	Auth             *AuthHandler
	Homes            *HomeHandler
	Appointments     *AppointmentHandler
	Cleaners         *CleanerHandler
	PendingRequests  *PendingRequestHandler
	PreferredCleaner *PreferredCleanerHandler
	Reviews          *ReviewHandler
	Messages         *MessageHandler
	Owner            *OwnerHandler
	Terms            *TermsHandler
	ServiceAreas     *ServiceAreaHandler
	Perks            *PerksHandler
}
