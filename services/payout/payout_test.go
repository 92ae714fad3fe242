package payout

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleanly/database/repository/memrepo"
	"cleanly/models"
	"cleanly/services/payment/paymenttest"
	"cleanly/services/perks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	svc     *DefaultPayoutService
	users   *memrepo.Users
	payouts *memrepo.Payouts
	gateway *paymenttest.Gateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := memrepo.NewUsers()
	payouts := memrepo.NewPayouts()
	gateway := paymenttest.New()
	return &fixture{
		svc: &DefaultPayoutService{
			Payouts:    payouts,
			Users:      users,
			Perks:      &perks.DefaultPerksService{Settings: memrepo.NewSettings(), Users: users},
			Gateway:    gateway,
			FeePercent: decimal.NewFromInt(10),
			Now:        func() time.Time { return now },
		},
		users:   users,
		payouts: payouts,
		gateway: gateway,
	}
}

func (f *fixture) cleaner(t *testing.T, id string, jobs int, stripe string, frozen bool) {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), &models.User{
		ID: id, Username: id, Email: id + "@x.io", Type: models.UserTypeCleaner,
		CompletedJobs: jobs, StripeAccountID: stripe, AccountFrozen: frozen,
	}))
}

func TestCompute(t *testing.T) {
	ten := decimal.NewFromInt(10)
	tests := []struct {
		name                   string
		share                  int64
		bonus                  string
		wantAmount, wantFee, b int64
	}{
		{"no bonus", 10000, "0", 9000, 1000, 0},
		{"gold bonus", 10000, "4", 9400, 1000, 400},
		{"bonus capped at fee", 10000, "25", 10000, 1000, 1000},
		{"rounds to cents", 11251, "0", 10126, 1125, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, fee, bonus := Compute(tt.share, ten, models.Tier{BonusPercent: tt.bonus})
			assert.Equal(t, tt.wantAmount, amount)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.b, bonus)
		})
	}
}

func TestCreateForAppointment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.cleaner(t, "c1", 0, "", false)
	f.cleaner(t, "c2", 30, "acct_2", false)

	appt := models.Appointment{ID: "a1", Price: 22501, EmployeesAssigned: []string{"c1", "c2"}}
	created, err := f.svc.CreateForAppointment(ctx, appt)
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, int64(10126), created[0].Amount, "first cleaner gets the remainder cent")
	assert.Equal(t, now.AddDate(0, 0, 7), created[0].AvailableAt)

	assert.Equal(t, int64(450), created[1].Bonus)
	assert.Equal(t, int64(10575), created[1].Amount)
	assert.Equal(t, now.AddDate(0, 0, 3), created[1].AvailableAt)

	again, err := f.svc.CreateForAppointment(ctx, appt)
	require.NoError(t, err)
	assert.Empty(t, again, "payouts are created once per cleaner")
}

func TestProcessDue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.cleaner(t, "nostripe", 0, "", false)
	f.cleaner(t, "ready", 0, "acct_ready", false)
	f.cleaner(t, "frozen", 0, "acct_frozen", true)

	past := now.Add(-time.Hour)
	for _, p := range []models.Payout{
		{ID: "p1", CleanerID: "nostripe", AppointmentID: "a1", Amount: 100, Status: models.PayoutPending, AvailableAt: past},
		{ID: "p2", CleanerID: "ready", AppointmentID: "a1", Amount: 200, Status: models.PayoutPending, AvailableAt: past},
		{ID: "p3", CleanerID: "frozen", AppointmentID: "a1", Amount: 300, Status: models.PayoutPending, AvailableAt: past},
		{ID: "p4", CleanerID: "ready", AppointmentID: "a2", Amount: 400, Status: models.PayoutPending, AvailableAt: now.Add(time.Hour)},
	} {
		p := p
		require.NoError(t, f.payouts.Create(ctx, &p))
	}

	res, err := f.svc.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, ProcessResult{Paid: 1, Skipped: 2}, res)
	require.Len(t, f.gateway.Transfers, 1)
	assert.Equal(t, "acct_ready", f.gateway.Transfers[0].Destination)
	assert.Equal(t, "payout-p2", f.gateway.Transfers[0].Key)

	summary, err := f.svc.Summary(ctx, "ready")
	require.NoError(t, err)
	assert.Equal(t, int64(200), summary.PaidTotal)
	assert.Equal(t, int64(400), summary.PendingTotal)

	summary, err = f.svc.Summary(ctx, "nostripe")
	require.NoError(t, err)
	assert.Equal(t, int64(100), summary.PendingTotal)
}

func TestProcessDueRecordsFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.cleaner(t, "ready", 0, "acct_ready", false)
	require.NoError(t, f.payouts.Create(ctx, &models.Payout{
		ID: "p1", CleanerID: "ready", AppointmentID: "a1", Amount: 200, Status: models.PayoutPending, AvailableAt: now,
	}))
	f.gateway.TransferErr = errors.New("insufficient funds")

	res, err := f.svc.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)

	summary, err := f.svc.Summary(ctx, "ready")
	require.NoError(t, err)
	require.Len(t, summary.Payouts, 1)
	assert.Equal(t, models.PayoutFailed, summary.Payouts[0].Status)
	assert.Equal(t, "insufficient funds", summary.Payouts[0].FailureReason)
	assert.Equal(t, int64(200), summary.FailedTotal)
}
