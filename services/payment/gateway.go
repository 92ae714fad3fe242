package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/balance"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/payout"
	"github.com/stripe/stripe-go/v76/transfer"
)

// ErrNotConfigured is returned when no Stripe key is set.
var ErrNotConfigured = errors.New("payments are not configured")

// Intent is the subset of a PaymentIntent the app needs.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

// StatusSucceeded is the PaymentIntent status of a captured payment.
const StatusSucceeded = string(stripe.PaymentIntentStatusSucceeded)

// Gateway moves money through the payment processor.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, metadata map[string]string) (*Intent, error)
	GetPaymentIntent(ctx context.Context, id string) (*Intent, error)
	// Transfer sends amount to a connected account and returns the transfer id.
	Transfer(ctx context.Context, amount int64, destination, idempotencyKey string, metadata map[string]string) (string, error)
	// AvailableBalance is the platform balance available for payouts.
	AvailableBalance(ctx context.Context) (int64, error)
	// Payout moves platform funds to the owner's bank and returns id and status.
	Payout(ctx context.Context, amount int64, description string) (string, string, error)
	Currency() string
}

// StripeGateway implements Gateway with stripe-go. stripe.Key must be set.
type StripeGateway struct {
	currency string
}

// NewStripeGateway sets the API key and returns a gateway for currency.
func NewStripeGateway(secretKey, currency string) *StripeGateway {
	stripe.Key = secretKey
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &StripeGateway{currency: currency}
}

func (g *StripeGateway) Currency() string { return g.currency }

func (g *StripeGateway) ready() error {
	if stripe.Key == "" {
		return ErrNotConfigured
	}
	return nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, metadata map[string]string) (*Intent, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) GetPaymentIntent(ctx context.Context, id string) (*Intent, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("get payment intent %s: %w", id, err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) Transfer(ctx context.Context, amount int64, destination, idempotencyKey string, metadata map[string]string) (string, error) {
	if err := g.ready(); err != nil {
		return "", err
	}
	params := &stripe.TransferParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(g.currency),
		Destination: stripe.String(destination),
	}
	params.Context = ctx
	if idempotencyKey != "" {
		params.SetIdempotencyKey(idempotencyKey)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	t, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("create transfer: %w", err)
	}
	return t.ID, nil
}

func (g *StripeGateway) AvailableBalance(ctx context.Context) (int64, error) {
	if err := g.ready(); err != nil {
		return 0, err
	}
	params := &stripe.BalanceParams{}
	params.Context = ctx
	b, err := balance.Get(params)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	var total int64
	for _, a := range b.Available {
		if string(a.Currency) == g.currency {
			total += a.Amount
		}
	}
	return total, nil
}

func (g *StripeGateway) Payout(ctx context.Context, amount int64, description string) (string, string, error) {
	if err := g.ready(); err != nil {
		return "", "", err
	}
	params := &stripe.PayoutParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.currency),
	}
	if description != "" {
		params.Description = stripe.String(description)
	}
	params.Context = ctx
	p, err := payout.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create payout: %w", err)
	}
	return p.ID, string(p.Status), nil
}
