package cleaner

import (
	"context"
	"testing"
	"time"

	"cleanly/database/repository/memrepo"
	"cleanly/models"
	"cleanly/services/notification/notificationtest"
	"cleanly/services/payment/paymenttest"
	"cleanly/services/payout"
	"cleanly/services/perks"
	"cleanly/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *DefaultCleanerService
	users    *memrepo.Users
	homes    *memrepo.Homes
	appts    *memrepo.Appointments
	requests *memrepo.Requests
	payouts  *memrepo.Payouts
	notifier *notificationtest.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		users:    memrepo.NewUsers(),
		homes:    memrepo.NewHomes(),
		appts:    memrepo.NewAppointments(),
		requests: memrepo.NewRequests(),
		payouts:  memrepo.NewPayouts(),
		notifier: &notificationtest.Recorder{},
	}
	now := func() time.Time { return fixedNow }
	tiers := &perks.DefaultPerksService{Settings: memrepo.NewSettings(), Users: f.users}
	f.svc = &DefaultCleanerService{
		Users:        f.users,
		Homes:        f.homes,
		Appointments: f.appts,
		Requests:     f.requests,
		Perks:        tiers,
		Payouts: &payout.DefaultPayoutService{
			Payouts:    f.payouts,
			Users:      f.users,
			Perks:      tiers,
			Gateway:    paymenttest.New(),
			FeePercent: decimal.NewFromInt(10),
			Now:        now,
		},
		Notifier: f.notifier,
		Now:      now,
	}

	for _, u := range []models.User{
		{ID: "owner1", Username: "owner1", Email: "o@x.io", Type: models.UserTypeHomeowner, FirstName: "Olive"},
		{ID: "c1", Username: "cleaner1", Email: "c1@x.io", Type: models.UserTypeCleaner, FirstName: "Cara", Rating: 4.5},
		{ID: "c2", Username: "cleaner2", Email: "c2@x.io", Type: models.UserTypeCleaner, FirstName: "Cole"},
		{ID: "frozen", Username: "frozen1", Email: "f@x.io", Type: models.UserTypeCleaner, AccountFrozen: true},
	} {
		u := u
		require.NoError(t, f.users.Create(ctx, &u))
	}
	require.NoError(t, f.homes.Create(ctx, &models.Home{ID: "h1", UserID: "owner1", Address: "1 Main St", NumBeds: 1, NumBaths: "1"}))
	require.NoError(t, f.homes.Create(ctx, &models.Home{ID: "far", UserID: "owner1", Address: "9 Far Rd", NumBeds: 1, NumBaths: "1", OutsideServiceArea: true}))
	return f
}

func (f *fixture) appointment(t *testing.T, id, homeID, date string, needed int, assigned ...string) {
	t.Helper()
	require.NoError(t, f.appts.Create(context.Background(), &models.Appointment{
		ID: id, UserID: "owner1", HomeID: homeID, Date: date, Price: 15000,
		EmployeesNeeded: needed, EmployeesAssigned: assigned, HasBeenAssigned: len(assigned) >= needed,
	}))
}

func TestRequestAndApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "a1", "h1", "2026-05-10", 1)

	r1, err := f.svc.RequestJob(ctx, "c1", "a1")
	require.NoError(t, err)
	assert.False(t, r1.AutoApproved)
	assert.Equal(t, models.RequestPending, r1.Request.Status)
	require.Len(t, f.notifier.To("owner1"), 1)

	r2, err := f.svc.RequestJob(ctx, "c2", "a1")
	require.NoError(t, err)

	_, err = f.svc.RequestJob(ctx, "c1", "a1")
	assert.True(t, utils.IsCode(err, utils.CodeConflict), "second request from the same cleaner")

	pending, err := f.svc.ListPending(ctx, "owner1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, p := range pending {
		if p.CleanerID == "c1" {
			assert.Equal(t, "cleaner1", p.Cleaner.Username)
			assert.Equal(t, 4.5, p.Cleaner.Rating)
		}
	}

	appt, err := f.svc.Approve(ctx, "owner1", r1.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, appt.EmployeesAssigned)
	assert.True(t, appt.HasBeenAssigned)
	assert.Len(t, f.notifier.To("c1"), 1)

	denied, err := f.requests.GetByID(ctx, r2.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestDenied, denied.Status, "a full appointment denies the rest")

	err = f.svc.Deny(ctx, "owner1", r2.Request.ID)
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}

func TestApproveChecksOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "a1", "h1", "2026-05-10", 1)
	r, err := f.svc.RequestJob(ctx, "c1", "a1")
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, "someone-else", r.Request.ID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestRequestJobRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "open", "h1", "2026-05-10", 1)
	f.appointment(t, "full", "h1", "2026-05-11", 1, "c2")
	f.appointment(t, "today", "h1", "2026-05-01", 1)
	f.appointment(t, "far", "far", "2026-05-10", 1)

	tests := []struct {
		name     string
		cleaner  string
		appt     string
		wantCode string
	}{
		{"frozen cleaner", "frozen", "open", utils.CodeForbidden},
		{"full appointment", "c1", "full", utils.CodeConflict},
		{"already assigned", "c2", "full", utils.CodeConflict},
		{"same day", "c1", "today", utils.CodeValidation},
		{"outside service area", "c1", "far", utils.CodeValidation},
		{"unknown appointment", "c1", "nope", utils.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RequestJob(ctx, tt.cleaner, tt.appt)
			require.Error(t, err)
			assert.True(t, utils.IsCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestPreferredCleanerIsAutoApproved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.homes.AddPreferredCleaner(ctx, "h1", "c1")
	require.NoError(t, err)
	f.appointment(t, "a1", "h1", "2026-05-10", 2)

	res, err := f.svc.RequestJob(ctx, "c1", "a1")
	require.NoError(t, err)
	assert.True(t, res.AutoApproved)
	assert.Equal(t, models.RequestApproved, res.Request.Status)
	assert.Equal(t, []string{"c1"}, res.Appointment.EmployeesAssigned)
	assert.False(t, res.Appointment.HasBeenAssigned, "one slot is still open")
}

func TestAvailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "open", "h1", "2026-05-10", 1)
	f.appointment(t, "requested", "h1", "2026-05-12", 1)
	f.appointment(t, "full", "h1", "2026-05-11", 1, "c2")
	f.appointment(t, "past", "h1", "2026-04-20", 1)
	f.appointment(t, "far", "far", "2026-05-10", 1)
	_, err := f.svc.RequestJob(ctx, "c1", "requested")
	require.NoError(t, err)

	rows, err := f.svc.Available(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "open", rows[0].ID)
	require.NotNil(t, rows[0].Home)
	assert.Equal(t, "1 Main St", rows[0].Home.Address)
}

func TestCancelRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "a1", "h1", "2026-05-10", 1)
	r, err := f.svc.RequestJob(ctx, "c1", "a1")
	require.NoError(t, err)

	assert.True(t, utils.IsCode(f.svc.CancelRequest(ctx, "c2", r.Request.ID), utils.CodeNotFound))
	require.NoError(t, f.svc.CancelRequest(ctx, "c1", r.Request.ID))
	assert.True(t, utils.IsCode(f.svc.CancelRequest(ctx, "c1", r.Request.ID), utils.CodeValidation))
}

func TestLeave(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "soon", "h1", "2026-05-03", 1, "c1")
	f.appointment(t, "today", "h1", "2026-05-01", 1, "c1")

	_, err := f.svc.Leave(ctx, "c1", "today")
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = f.svc.Leave(ctx, "c2", "soon")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))

	appt, err := f.svc.Leave(ctx, "c1", "soon")
	require.NoError(t, err)
	assert.Empty(t, appt.EmployeesAssigned)
	assert.False(t, appt.HasBeenAssigned)
	assert.Len(t, f.notifier.To("owner1"), 1)
}

func TestComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "future", "h1", "2026-05-03", 1, "c1")
	f.appointment(t, "done", "h1", "2026-04-30", 2, "c1", "c2")

	_, err := f.svc.Complete(ctx, "c1", "future")
	assert.True(t, utils.IsCode(err, utils.CodeValidation), "cannot complete before the date")

	res, err := f.svc.Complete(ctx, "c1", "done")
	require.NoError(t, err)
	assert.True(t, res.Appointment.Completed)
	require.NotNil(t, res.Appointment.CompletedAt)
	require.Len(t, res.Payouts, 2)
	assert.Equal(t, int64(6750), res.Payouts[0].Amount)

	for _, id := range []string{"c1", "c2"} {
		u, err := f.users.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, u.CompletedJobs)
	}

	_, err = f.svc.Complete(ctx, "c2", "done")
	assert.True(t, utils.IsCode(err, utils.CodeValidation), "already completed")

	summary, err := f.svc.PayoutSummary(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, int64(6750), summary.PendingTotal)
}

func TestExpireStale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.requests.Create(ctx, &models.PendingRequest{ID: "old", AppointmentDate: "2026-04-30", CleanerID: "c1", Status: models.RequestPending}))
	require.NoError(t, f.requests.Create(ctx, &models.PendingRequest{ID: "new", AppointmentDate: "2026-05-01", CleanerID: "c1", Status: models.RequestPending}))

	n, err := f.svc.ExpireStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, err := f.requests.GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, models.RequestExpired, old.Status)
}

func TestSetStripeAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, bad := range []string{"", "acct_", "ba_123"} {
		_, err := f.svc.SetStripeAccount(ctx, "c1", bad)
		assert.True(t, utils.IsCode(err, utils.CodeValidation), bad)
	}
	u, err := f.svc.SetStripeAccount(ctx, "c1", "  acct_123 ")
	require.NoError(t, err)
	assert.Equal(t, "acct_123", u.StripeAccountID)

	_, err = f.svc.SetStripeAccount(ctx, "owner1", "acct_123")
	assert.True(t, utils.IsCode(err, utils.CodeForbidden))
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "a1", "h1", "2026-05-03", 1, "c1")

	d, err := f.svc.Dashboard(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, d.Appointments, 1)
	assert.NotNil(t, d.Appointments[0].Home)
	assert.Equal(t, "Bronze", d.Tier.Current.Name)
	assert.NotNil(t, d.Payouts)
}

// interleavedAppointments runs between once, after the next GetByID.
type interleavedAppointments struct {
	*memrepo.Appointments
	between func()
}

func (r *interleavedAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := r.Appointments.GetByID(ctx, id)
	if fn := r.between; fn != nil {
		r.between = nil
		fn()
	}
	return appt, err
}

func TestConcurrentCompleteCountsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "done", "h1", "2026-04-30", 2, "c1", "c2")
	f.svc.Appointments = &interleavedAppointments{Appointments: f.appts, between: func() {
		_, err := f.svc.Complete(ctx, "c2", "done")
		require.NoError(t, err)
	}}

	_, err := f.svc.Complete(ctx, "c1", "done")
	assert.True(t, utils.IsCode(err, utils.CodeValidation), "got %v", err)

	for _, id := range []string{"c1", "c2"} {
		u, err := f.users.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, u.CompletedJobs, id)
	}
	list, err := f.payouts.GetByCleaner(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPreferredRequestIntoFullAppointmentIsDenied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.homes.AddPreferredCleaner(ctx, "h1", "c1")
	require.NoError(t, err)
	f.appointment(t, "a1", "h1", "2026-05-10", 1)
	// Someone takes the last slot after RequestJob saw it open.
	f.svc.Appointments = &interleavedAppointments{Appointments: f.appts, between: func() {
		ok, err := f.appts.AssignCleaner(ctx, "a1", "c2")
		require.NoError(t, err)
		require.True(t, ok)
	}}

	_, err = f.svc.RequestJob(ctx, "c1", "a1")
	assert.True(t, utils.IsCode(err, utils.CodeConflict), "got %v", err)

	pending, err := f.svc.ListPending(ctx, "owner1")
	require.NoError(t, err)
	assert.Empty(t, pending)
	reqs, err := f.requests.GetByCleaner(ctx, "c1", models.RequestDenied)
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}

func TestApproveAfterCancelUndoesAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.appointment(t, "a1", "h1", "2026-05-10", 1)
	r, err := f.svc.RequestJob(ctx, "c1", "a1")
	require.NoError(t, err)

	// The cleaner withdraws while the homeowner is approving.
	f.svc.Appointments = &interleavedAppointments{Appointments: f.appts, between: func() {
		require.NoError(t, f.svc.CancelRequest(ctx, "c1", r.Request.ID))
	}}
	_, err = f.svc.Approve(ctx, "owner1", r.Request.ID)
	assert.True(t, utils.IsCode(err, utils.CodeConflict), "got %v", err)

	appt, err := f.appts.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, appt.EmployeesAssigned)
	assert.False(t, appt.HasBeenAssigned)

	req, err := f.requests.GetByID(ctx, r.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCancelled, req.Status)
}
