package terms

import (
	"context"
	"fmt"

	"cleanly/models"
	"cleanly/utils"

	"go.uber.org/zap"
)

// SeedDefaults publishes version 1 for every type that has no terms yet.
func (s *DefaultTermsService) SeedDefaults(ctx context.Context) error {
	for _, t := range []string{models.UserTypeHomeowner, models.UserTypeCleaner} {
		latest, err := s.latestVersion(ctx, t)
		if err != nil {
			return fmt.Errorf("seed terms: %w", err)
		}
		if latest > 0 {
			continue
		}
		req := models.PublishTermsRequest{Type: t, Title: "Terms of Service", Content: defaultContent(t)}
		if _, err := s.Publish(ctx, "system", req); err != nil {
			return fmt.Errorf("seed %s terms: %w", t, err)
		}
		utils.GetLogger().Info("Seeded default terms", zap.String("type", t))
	}
	return nil
}

func defaultContent(termsType string) string {
	if termsType == models.UserTypeCleaner {
		return `By working through Cleanly you agree to the following:

1. Eligibility: You must be 18+ and legally allowed to work where you clean.
2. Independence: You are an independent contractor, not an employee of Cleanly.
3. Conduct: Be respectful and professional, and respect the privacy of every home.
4. Payouts: Earnings are paid to your connected Stripe account after each job, less the platform fee.
5. Moderation: Warnings or a frozen account may follow reported violations.`
	}
	return `Welcome to Cleanly. By booking cleanings you agree to the following:

1. Eligibility: You must be 18+ to use Cleanly.
2. Platform Use: Cleanly connects homeowners with independent cleaners.
3. Payments: Appointments are paid securely through Stripe.
4. Cancellations: Cancelling within a week of the appointment adds a cancellation fee to your bill.
5. Access: Provide accurate access details (key location, codes) for each home.`
}
