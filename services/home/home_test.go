package home

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cleanly/database/repository/memrepo"
	"cleanly/models"
	"cleanly/services/geo"
	"cleanly/services/storage/storagetest"
	"cleanly/services/tasks/taskstest"
	"cleanly/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zipChecker struct{ allowed string }

func (c zipChecker) Check(_ context.Context, addr models.Address) (models.AreaCheckResult, error) {
	if addr.Zipcode == c.allowed {
		return models.AreaCheckResult{Eligible: true}, nil
	}
	return models.AreaCheckResult{Message: "outside"}, nil
}

type fixedGeocoder struct{ err error }

func (g fixedGeocoder) Geocode(context.Context, models.Address) (geo.Coordinates, error) {
	if g.err != nil {
		return geo.Coordinates{}, g.err
	}
	return geo.Coordinates{Latitude: 30.27, Longitude: -97.74}, nil
}

type fixture struct {
	svc       *DefaultHomeService
	users     *memrepo.Users
	homes     *memrepo.Homes
	appts     *memrepo.Appointments
	bills     *memrepo.Bills
	reqs      *memrepo.Requests
	store     *storagetest.Store
	reminders *taskstest.Scheduler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: storagetest.New(), reminders: taskstest.New()}
	f.users = memrepo.NewUsers()
	f.homes = memrepo.NewHomes()
	f.appts = memrepo.NewAppointments()
	f.bills = memrepo.NewBills()
	f.reqs = memrepo.NewRequests()
	f.svc = &DefaultHomeService{
		Users:        f.users,
		Homes:        f.homes,
		Appointments: f.appts,
		Bills:        f.bills,
		Requests:     f.reqs,
		Area:         zipChecker{allowed: "78701"},
		Geocoder:     fixedGeocoder{},
		Storage:      f.store,
		Reminders:    f.reminders,
		Now:          func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) },
	}
	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &models.User{ID: "u1", Username: "owner1", Email: "o@x.io", Type: models.UserTypeHomeowner}))
	require.NoError(t, f.users.Create(ctx, &models.User{ID: "c1", Username: "clean1", Email: "c@x.io", Type: models.UserTypeCleaner, FirstName: "Cora"}))
	return f
}

func validRequest() models.HomeRequest {
	return models.HomeRequest{
		NickName: "Lake house", Address: "1 Main St", City: "Austin", State: "TX", Zipcode: "78701",
		NumBeds: 3, NumBaths: "2.5", CleanersNeeded: 1,
	}
}

func TestCreateHome(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	h, err := f.svc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)
	assert.False(t, h.OutsideServiceArea)
	assert.Equal(t, 30.27, h.Latitude)
	assert.Equal(t, models.TimeAnytime, h.TimeToBeCompleted)

	req := validRequest()
	req.Zipcode = "10001"
	far, err := f.svc.Create(ctx, "u1", req)
	require.NoError(t, err)
	assert.True(t, far.OutsideServiceArea)

	f.svc.Geocoder = fixedGeocoder{err: errors.New("quota")}
	noGeo, err := f.svc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)
	assert.Zero(t, noGeo.Latitude)
}

func TestCreateHomeValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name   string
		mutate func(*models.HomeRequest)
	}{
		{"missing city", func(r *models.HomeRequest) { r.City = " " }},
		{"zero beds", func(r *models.HomeRequest) { r.NumBeds = 0 }},
		{"too many beds", func(r *models.HomeRequest) { r.NumBeds = 21 }},
		{"quarter bath", func(r *models.HomeRequest) { r.NumBaths = "1.25" }},
		{"no baths", func(r *models.HomeRequest) { r.NumBaths = "0" }},
		{"no cleaners", func(r *models.HomeRequest) { r.CleanersNeeded = 0 }},
		{"bad window", func(r *models.HomeRequest) { r.TimeToBeCompleted = "evening" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := f.svc.Create(context.Background(), "u1", req)
			assert.True(t, utils.IsCode(err, utils.CodeValidation), "got %v", err)
		})
	}
}

func TestUpdateHomeRechecksArea(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, err := f.svc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)

	zip := "99999"
	nick := "Cabin"
	updated, err := f.svc.Update(ctx, "u1", h.ID, models.HomeUpdateRequest{Zipcode: &zip, NickName: &nick})
	require.NoError(t, err)
	assert.True(t, updated.OutsideServiceArea)
	assert.Equal(t, "Cabin", updated.NickName)

	beds := 0
	_, err = f.svc.Update(ctx, "u1", h.ID, models.HomeUpdateRequest{NumBeds: &beds})
	assert.True(t, utils.IsCode(err, utils.CodeValidation))

	_, err = f.svc.Update(ctx, "someone", h.ID, models.HomeUpdateRequest{NickName: &nick})
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestDeleteHomeRemovesUnpaidUpcoming(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, err := f.svc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)

	for _, a := range []models.Appointment{
		{ID: "past", UserID: "u1", HomeID: h.ID, Date: "2026-04-01", Price: 10000},
		{ID: "done", UserID: "u1", HomeID: h.ID, Date: "2026-05-03", Price: 10000, Completed: true},
		{ID: "soon", UserID: "u1", HomeID: h.ID, Date: "2026-05-10", Price: 15000, ReminderTaskID: "reminder:soon"},
		{ID: "later", UserID: "u1", HomeID: h.ID, Date: "2026-06-10", Price: 20000},
	} {
		a := a
		require.NoError(t, f.appts.Create(ctx, &a))
	}
	_, err = f.bills.Adjust(ctx, "u1", models.BillDelta{AppointmentDue: 55000})
	require.NoError(t, err)

	res, err := f.svc.Delete(ctx, "u1", h.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.RemovedAppointments)
	assert.Equal(t, int64(20000), res.Bill.AppointmentDue)
	assert.Contains(t, f.reminders.Cancelled, "reminder:soon")

	_, err = f.homes.GetByID(ctx, h.ID)
	assert.Error(t, err)
	_, err = f.appts.GetByID(ctx, "past")
	assert.NoError(t, err)
}

func TestDeleteHomeWithPaidUpcomingIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, err := f.svc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)
	require.NoError(t, f.appts.Create(ctx, &models.Appointment{ID: "a", UserID: "u1", HomeID: h.ID, Date: "2026-05-10", Paid: true}))

	_, err = f.svc.Delete(ctx, "u1", h.ID)
	assert.True(t, utils.IsCode(err, utils.CodeValidation))
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, err := f.svc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)

	got, err := f.svc.UploadPhoto(ctx, "u1", h.ID, strings.NewReader("jpeg"), "kitchen.jpg")
	require.NoError(t, err)
	require.Len(t, got.PhotoIDs, 1)
	assert.Equal(t, "homes/"+h.ID+"/kitchen", got.PhotoIDs[0])
	assert.Equal(t, []byte("jpeg"), f.store.Objects[got.PhotoIDs[0]])
}

func TestPreferredCleaners(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h, err := f.svc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)

	_, err = f.svc.AddPreferredCleaner(ctx, "u1", h.ID, "c1")
	assert.True(t, utils.IsCode(err, utils.CodeValidation), "no completed job yet")

	_, err = f.svc.AddPreferredCleaner(ctx, "u1", h.ID, "u1")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound), "not a cleaner")

	require.NoError(t, f.appts.Create(ctx, &models.Appointment{
		ID: "a", UserID: "u1", HomeID: h.ID, Date: "2026-04-20", Completed: true, EmployeesAssigned: []string{"c1"},
	}))
	list, err := f.svc.AddPreferredCleaner(ctx, "u1", h.ID, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cora", list[0].FirstName)

	list, err = f.svc.AddPreferredCleaner(ctx, "u1", h.ID, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1, "adding twice is idempotent")

	list, err = f.svc.RemovePreferredCleaner(ctx, "u1", h.ID, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.RemovePreferredCleaner(ctx, "u1", h.ID, "c1")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Create(ctx, "u1", validRequest())
	require.NoError(t, err)

	d, err := f.svc.Dashboard(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "owner1", d.User.Username)
	assert.Len(t, d.Homes, 1)
	require.NotNil(t, d.Bill)
	assert.Zero(t, d.Bill.TotalDue)
}
