package owner

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleanly/database/repository/memrepo"
	"cleanly/models"
	"cleanly/services/notification/notificationtest"
	"cleanly/services/payment/paymenttest"
	"cleanly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revoker struct{ revoked []string }

func (r *revoker) RevokeAllSessions(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

type fixture struct {
	svc      *DefaultOwnerService
	users    *memrepo.Users
	appts    *memrepo.Appointments
	requests *memrepo.Requests
	gateway  *paymenttest.Gateway
	sessions *revoker
	notifier *notificationtest.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		users:    memrepo.NewUsers(),
		appts:    memrepo.NewAppointments(),
		requests: memrepo.NewRequests(),
		gateway:  paymenttest.New(),
		sessions: &revoker{},
		notifier: &notificationtest.Recorder{},
	}
	f.svc = &DefaultOwnerService{
		Users:          f.users,
		Appointments:   f.appts,
		Requests:       f.requests,
		Payouts:        memrepo.NewPayouts(),
		WithdrawalRepo: memrepo.NewWithdrawals(),
		Sessions:       f.sessions,
		Gateway:        f.gateway,
		Notifier:       f.notifier,
		Now:            func() time.Time { return time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC) },
	}
	for _, u := range []models.User{
		{ID: "boss", Username: "boss", Email: "boss@x.io", Type: models.UserTypeOwner},
		{ID: "ho", Username: "homer", Email: "ho@x.io", Type: models.UserTypeHomeowner},
		{ID: "c1", Username: "cleaner1", Email: "c1@x.io", Type: models.UserTypeCleaner, StripeAccountID: "acct_1"},
		{ID: "c2", Username: "cleaner2", Email: "c2@x.io", Type: models.UserTypeCleaner},
	} {
		u := u
		require.NoError(t, f.users.Create(ctx, &u))
	}
	return f
}

func TestFreeze(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.appts.Create(ctx, &models.Appointment{ID: "next", UserID: "ho", HomeID: "h1", Date: "2026-05-05", EmployeesNeeded: 1, EmployeesAssigned: []string{"c1"}, HasBeenAssigned: true}))
	require.NoError(t, f.appts.Create(ctx, &models.Appointment{ID: "past", UserID: "ho", HomeID: "h1", Date: "2026-04-05", Completed: true, EmployeesNeeded: 1, EmployeesAssigned: []string{"c1"}}))
	require.NoError(t, f.requests.Create(ctx, &models.PendingRequest{ID: "r1", CleanerID: "c1", AppointmentDate: "2026-05-09", Status: models.RequestPending}))

	_, err := f.svc.Freeze(ctx, "boss", "c1", "  too short ")
	assert.True(t, utils.IsCode(err, utils.CodeValidation), "trimmed reason under ten characters")

	u, err := f.svc.Freeze(ctx, "boss", "c1", "No-show on three jobs")
	require.NoError(t, err)
	assert.True(t, u.AccountFrozen)
	require.NotNil(t, u.AccountFrozenAt)
	assert.Equal(t, "No-show on three jobs", u.AccountFrozenReason)
	assert.Equal(t, []string{"c1"}, f.sessions.revoked)

	req, err := f.requests.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestCancelled, req.Status)

	next, err := f.appts.GetByID(ctx, "next")
	require.NoError(t, err)
	assert.Empty(t, next.EmployeesAssigned)
	assert.False(t, next.HasBeenAssigned)
	past, err := f.appts.GetByID(ctx, "past")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, past.EmployeesAssigned, "completed jobs keep their cleaner")

	assert.Len(t, f.notifier.To("c1"), 1)
	assert.Len(t, f.notifier.To("ho"), 1)

	_, err = f.svc.Freeze(ctx, "boss", "c1", "No-show on three jobs")
	assert.True(t, utils.IsCode(err, utils.CodeValidation), "already frozen")
	_, err = f.svc.Freeze(ctx, "boss", "ho", "Not a cleaner at all")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	u, err = f.svc.Unfreeze(ctx, "boss", "c1")
	require.NoError(t, err)
	assert.False(t, u.AccountFrozen)
	assert.Nil(t, u.AccountFrozenAt)
	assert.Empty(t, u.AccountFrozenReason)

	_, err = f.svc.Unfreeze(ctx, "boss", "c1")
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}

func TestWarn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Warn(ctx, "boss", "c2", "late")
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	w, err := f.svc.Warn(ctx, "boss", "c2", "Arrived two hours late")
	require.NoError(t, err)
	assert.Equal(t, "boss", w.IssuedBy)

	warnings, err := f.svc.Warnings(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "Arrived two hours late", warnings[0].Reason)

	c, err := f.users.GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, 1, c.WarningCount)
	assert.Len(t, f.notifier.To("c2"), 1)

	empty, err := f.svc.Warnings(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStatsAndCleaners(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Freeze(ctx, "boss", "c2", "Repeated complaints")
	require.NoError(t, err)
	require.NoError(t, f.appts.Create(ctx, &models.Appointment{ID: "a1", UserID: "ho", HomeID: "h1", Date: "2026-05-05", Price: 15000, EmployeesNeeded: 1}))

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Homeowners)
	assert.Equal(t, int64(1), stats.ActiveCleaners)
	assert.Equal(t, int64(1), stats.FrozenCleaners)
	assert.Equal(t, int64(1), stats.Appointments.UnassignedUpcoming)
	assert.Equal(t, int64(15000), stats.Appointments.BookedVolume)

	cleaners, err := f.svc.Cleaners(ctx)
	require.NoError(t, err)
	require.Len(t, cleaners, 2)
	for _, c := range cleaners {
		switch c.ID {
		case "c1":
			assert.True(t, c.HasStripeAccount)
			assert.False(t, c.AccountFrozen)
		case "c2":
			assert.True(t, c.AccountFrozen)
			assert.Equal(t, "Repeated complaints", c.AccountFrozenReason)
		}
	}
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.gateway.Balance = 50000

	bal, err := f.svc.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Balance{Available: 50000, Currency: "usd"}, bal)

	_, err = f.svc.Withdraw(ctx, "boss", models.WithdrawalRequest{Amount: 0})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
	_, err = f.svc.Withdraw(ctx, "boss", models.WithdrawalRequest{Amount: 50001})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	w, err := f.svc.Withdraw(ctx, "boss", models.WithdrawalRequest{Amount: 20000, Description: " May "})
	require.NoError(t, err)
	assert.Equal(t, "pending", w.Status)
	assert.Equal(t, "po_1", w.StripePayoutID)
	assert.Equal(t, "May", w.Description)

	f.gateway.PayoutErr = errors.New("bank account closed")
	failed, err := f.svc.Withdraw(ctx, "boss", models.WithdrawalRequest{Amount: 100})
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalFailed, failed.Status)

	list, err := f.svc.Withdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, failed.ID, list[0].ID, "newest first")
}

// interleavedUsers runs between once, after the next GetByID.
type interleavedUsers struct {
	*memrepo.Users
	between func()
}

func (r *interleavedUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := r.Users.GetByID(ctx, id)
	if fn := r.between; fn != nil {
		r.between = nil
		fn()
	}
	return u, err
}

func TestFreezeKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("warnings and job counts survive", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Users = &interleavedUsers{Users: f.users, between: func() {
			require.NoError(t, f.users.AddWarning(ctx, "c1", models.Warning{ID: "w1", Reason: "Arrived an hour late"}))
			require.NoError(t, f.users.IncrementCompletedJobs(ctx, "c1"))
		}}

		_, err := f.svc.Freeze(ctx, "boss", "c1", "No-show on three jobs")
		require.NoError(t, err)

		u, err := f.users.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, u.AccountFrozen)
		assert.Equal(t, 1, u.WarningCount)
		assert.Len(t, u.Warnings, 1)
		assert.Equal(t, 1, u.CompletedJobs)
	})

	t.Run("two freezes apply once", func(t *testing.T) {
		f := newFixture(t)
		f.svc.Users = &interleavedUsers{Users: f.users, between: func() {
			_, err := f.svc.Freeze(ctx, "boss", "c1", "Damaged a client's floor")
			require.NoError(t, err)
		}}

		_, err := f.svc.Freeze(ctx, "boss", "c1", "No-show on three jobs")
		assert.True(t, utils.IsCode(err, utils.CodeValidation), "got %v", err)

		u, err := f.users.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "Damaged a client's floor", u.AccountFrozenReason)
		assert.Equal(t, []string{"c1"}, f.sessions.revoked)
	})
}
