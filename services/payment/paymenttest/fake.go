// Package paymenttest provides an in-memory payment gateway.
package paymenttest

import (
	"context"
	"fmt"
	"sync"

	"cleanly/services/payment"
)

// Transfer records one call to Gateway.Transfer.
type Transfer struct {
	Amount      int64
	Destination string
	Key         string
}

// Gateway is a scriptable payment.Gateway.
type Gateway struct {
	mu sync.Mutex

	Intents     map[string]*payment.Intent
	Transfers   []Transfer
	Payouts     []int64
	Balance     int64
	TransferErr error
	PayoutErr   error
	next        int
}

func New() *Gateway {
	return &Gateway{Intents: map[string]*payment.Intent{}}
}

func (g *Gateway) Currency() string { return "usd" }

func (g *Gateway) CreatePaymentIntent(_ context.Context, amount int64, _ map[string]string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	id := fmt.Sprintf("pi_%d", g.next)
	intent := &payment.Intent{ID: id, ClientSecret: id + "_secret", Amount: amount, Currency: "usd", Status: "requires_payment_method"}
	g.Intents[id] = intent
	copied := *intent
	return &copied, nil
}

func (g *Gateway) GetPaymentIntent(_ context.Context, id string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.Intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent %s", id)
	}
	copied := *intent
	return &copied, nil
}

// Succeed marks an intent as paid.
func (g *Gateway) Succeed(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if intent, ok := g.Intents[id]; ok {
		intent.Status = payment.StatusSucceeded
	}
}

func (g *Gateway) Transfer(_ context.Context, amount int64, destination, key string, _ map[string]string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.TransferErr != nil {
		return "", g.TransferErr
	}
	g.Transfers = append(g.Transfers, Transfer{Amount: amount, Destination: destination, Key: key})
	return fmt.Sprintf("tr_%d", len(g.Transfers)), nil
}

func (g *Gateway) AvailableBalance(context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Balance, nil
}

func (g *Gateway) Payout(_ context.Context, amount int64, _ string) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.PayoutErr != nil {
		return "", "", g.PayoutErr
	}
	g.Payouts = append(g.Payouts, amount)
	g.Balance -= amount
	return fmt.Sprintf("po_%d", len(g.Payouts)), "pending", nil
}

var _ payment.Gateway = (*Gateway)(nil)
