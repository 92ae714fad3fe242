// Package memrepo holds in-memory repositories for tests and local runs
// without MongoDB.
package memrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"cleanly/database"
	"cleanly/database/repository"
	"cleanly/models"

	"github.com/google/uuid"
)

// New returns a Repos bundle backed entirely by memory.
func New() *repository.Repos {
	return &repository.Repos{
		Users:         NewUsers(),
		Homes:         NewHomes(),
		Appointments:  NewAppointments(),
		Bills:         NewBills(),
		Requests:      NewRequests(),
		Reviews:       NewReviews(),
		Payouts:       NewPayouts(),
		Withdrawals:   NewWithdrawals(),
		Conversations: NewConversations(),
		Messages:      NewMessages(),
		Terms:         NewTerms(),
		Settings:      NewSettings(),
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, database.ErrNotFound)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// Users

type Users struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func NewUsers() *Users { return &Users{byID: map[string]models.User{}} }

func cloneUser(u models.User) models.User {
	u.Devices = append([]models.Device(nil), u.Devices...)
	u.Warnings = append([]models.Warning(nil), u.Warnings...)
	return u
}

func (r *Users) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return fmt.Errorf("failed to create user: %w", database.ErrDuplicate)
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.byID[u.ID] = cloneUser(*u)
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, notFound("user", id)
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *Users) GetByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *Users) findBy(match func(models.User) bool) (*models.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if match(u) {
			u = cloneUser(u)
			return &u, true
		}
	}
	return nil, false
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := r.findBy(func(u models.User) bool { return u.Email == email }); ok {
		return u, nil
	}
	return nil, notFound("user", email)
}

func (r *Users) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := r.findBy(func(u models.User) bool { return u.Username == username }); ok {
		return u, nil
	}
	return nil, notFound("user", username)
}

func (r *Users) GetByType(_ context.Context, userType string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, u := range r.byID {
		if u.Type == userType {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Users) CountByType(_ context.Context, userType string, frozen *bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.byID {
		if u.Type == userType && (frozen == nil || u.AccountFrozen == *frozen) {
			n++
		}
	}
	return n, nil
}

// Put stores u as is. Tests use it to seed state.
func (r *Users) Put(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = cloneUser(u)
}

func (r *Users) modify(id string, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return notFound("user", id)
	}
	u = cloneUser(u)
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return nil
}

func (r *Users) SetDevices(_ context.Context, id string, devices []models.Device) error {
	return r.modify(id, func(u *models.User) { u.Devices = append([]models.Device(nil), devices...) })
}

func (r *Users) ClearDeviceToken(_ context.Context, id, deviceID string) error {
	err := r.modify(id, func(u *models.User) {
		for i := range u.Devices {
			if u.Devices[i].DeviceID == deviceID {
				u.Devices[i].TokenHash = ""
			}
		}
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	return err
}

func (r *Users) ClearAllDeviceTokens(_ context.Context, id string) error {
	err := r.modify(id, func(u *models.User) {
		for i := range u.Devices {
			u.Devices[i].TokenHash = ""
		}
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	return err
}

func (r *Users) SetFCMToken(_ context.Context, id, token string) error {
	return r.modify(id, func(u *models.User) { u.FCMToken = token })
}

func (r *Users) SetStripeAccount(_ context.Context, id, accountID string) error {
	return r.modify(id, func(u *models.User) { u.StripeAccountID = accountID })
}

func (r *Users) SetTermsAcceptedVersion(_ context.Context, id string, version int) error {
	return r.modify(id, func(u *models.User) {
		if version > u.TermsAcceptedVersion {
			u.TermsAcceptedVersion = version
		}
	})
}

func (r *Users) SetFrozen(_ context.Context, id string, frozen bool, at time.Time, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.AccountFrozen == frozen {
		return false, nil
	}
	u.AccountFrozen = frozen
	if frozen {
		u.AccountFrozenAt = &at
		u.AccountFrozenReason = reason
	} else {
		u.AccountFrozenAt = nil
		u.AccountFrozenReason = ""
	}
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return true, nil
}

func (r *Users) AddRating(_ context.Context, id string, rating int) (*models.User, error) {
	var out models.User
	err := r.modify(id, func(u *models.User) {
		u.Rating = models.RunningAverage(u.Rating, u.ReviewCount, rating)
		u.ReviewCount++
		out = cloneUser(*u)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Users) IncrementCompletedJobs(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return notFound("user", id)
	}
	u.CompletedJobs++
	r.byID[id] = u
	return nil
}

func (r *Users) AddWarning(_ context.Context, id string, w models.Warning) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return notFound("user", id)
	}
	u.Warnings = append(append([]models.Warning(nil), u.Warnings...), w)
	u.WarningCount++
	r.byID[id] = u
	return nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return notFound("user", id)
	}
	delete(r.byID, id)
	return nil
}

// Homes

type Homes struct {
	mu   sync.Mutex
	byID map[string]models.Home
}

func NewHomes() *Homes { return &Homes{byID: map[string]models.Home{}} }

func cloneHome(h models.Home) models.Home {
	h.PhotoIDs = cloneStrings(h.PhotoIDs)
	h.PreferredCleanerIDs = cloneStrings(h.PreferredCleanerIDs)
	return h
}

func (r *Homes) Create(_ context.Context, h *models.Home) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now
	r.byID[h.ID] = cloneHome(*h)
	return nil
}

func (r *Homes) GetByID(_ context.Context, id string) (*models.Home, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[id]
	if !ok {
		return nil, notFound("home", id)
	}
	h = cloneHome(h)
	return &h, nil
}

func (r *Homes) filter(match func(models.Home) bool) []models.Home {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Home{}
	for _, h := range r.byID {
		if match(h) {
			out = append(out, cloneHome(h))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Homes) GetByUserID(_ context.Context, userID string) ([]models.Home, error) {
	return r.filter(func(h models.Home) bool { return h.UserID == userID }), nil
}

func (r *Homes) GetByIDs(_ context.Context, ids []string) ([]models.Home, error) {
	return r.filter(func(h models.Home) bool { return contains(ids, h.ID) }), nil
}

func (r *Homes) GetAll(_ context.Context) ([]models.Home, error) {
	return r.filter(func(models.Home) bool { return true }), nil
}

// Put stores h as is. Tests use it to seed state.
func (r *Homes) Put(h models.Home) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[h.ID] = cloneHome(h)
}

func (r *Homes) Update(_ context.Context, h *models.Home) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[h.ID]
	if !ok {
		return notFound("home", h.ID)
	}
	h.UpdatedAt = time.Now().UTC()
	next := cloneHome(*h)
	next.UserID = stored.UserID
	next.CreatedAt = stored.CreatedAt
	next.PhotoIDs = cloneStrings(stored.PhotoIDs)
	next.PreferredCleanerIDs = cloneStrings(stored.PreferredCleanerIDs)
	r.byID[h.ID] = next
	return nil
}

func (r *Homes) modify(id string, fn func(h *models.Home)) (*models.Home, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[id]
	if !ok {
		return nil, notFound("home", id)
	}
	h = cloneHome(h)
	fn(&h)
	h.UpdatedAt = time.Now().UTC()
	r.byID[id] = h
	out := cloneHome(h)
	return &out, nil
}

func (r *Homes) AddPhoto(_ context.Context, id, publicID string) (*models.Home, error) {
	return r.modify(id, func(h *models.Home) { h.PhotoIDs = append(h.PhotoIDs, publicID) })
}

func (r *Homes) AddPreferredCleaner(_ context.Context, id, cleanerID string) (*models.Home, error) {
	return r.modify(id, func(h *models.Home) {
		if !contains(h.PreferredCleanerIDs, cleanerID) {
			h.PreferredCleanerIDs = append(h.PreferredCleanerIDs, cleanerID)
		}
	})
}

func (r *Homes) RemovePreferredCleaner(_ context.Context, id, cleanerID string) (*models.Home, error) {
	return r.modify(id, func(h *models.Home) {
		kept := []string{}
		for _, c := range h.PreferredCleanerIDs {
			if c != cleanerID {
				kept = append(kept, c)
			}
		}
		h.PreferredCleanerIDs = kept
	})
}

func (r *Homes) SetOutsideServiceArea(_ context.Context, id string, outside bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.byID[id]
	if !ok {
		return nil
	}
	h.OutsideServiceArea = outside
	r.byID[id] = h
	return nil
}

func (r *Homes) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return notFound("home", id)
	}
	delete(r.byID, id)
	return nil
}

// Appointments

type Appointments struct {
	mu   sync.Mutex
	byID map[string]models.Appointment
}

func NewAppointments() *Appointments {
	return &Appointments{byID: map[string]models.Appointment{}}
}

func cloneAppt(a models.Appointment) models.Appointment {
	a.EmployeesAssigned = append([]string{}, a.EmployeesAssigned...)
	return a
}

func (r *Appointments) Create(_ context.Context, a *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.HomeID == a.HomeID && existing.Date == a.Date {
			return fmt.Errorf("failed to create appointment: %w", database.ErrDuplicate)
		}
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.EmployeesAssigned == nil {
		a.EmployeesAssigned = []string{}
	}
	r.byID[a.ID] = cloneAppt(*a)
	return nil
}

func (r *Appointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, notFound("appointment", id)
	}
	a = cloneAppt(a)
	return &a, nil
}

func (r *Appointments) filter(match func(models.Appointment) bool) []models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range r.byID {
		if match(a) {
			out = append(out, cloneAppt(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Appointments) GetByHomeID(_ context.Context, homeID string) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool { return a.HomeID == homeID }), nil
}

func (r *Appointments) GetByUserID(_ context.Context, userID string) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool { return a.UserID == userID }), nil
}

func (r *Appointments) GetByHomeAndDate(_ context.Context, homeID, date string) (*models.Appointment, error) {
	found := r.filter(func(a models.Appointment) bool { return a.HomeID == homeID && a.Date == date })
	if len(found) == 0 {
		return nil, notFound("appointment", homeID+"@"+date)
	}
	return &found[0], nil
}

func (r *Appointments) GetOpen(_ context.Context, fromDate string) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool {
		return a.Date >= fromDate && !a.Completed && !a.HasBeenAssigned
	}), nil
}

func (r *Appointments) GetByCleaner(_ context.Context, cleanerID, fromDate string) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool {
		if !contains(a.EmployeesAssigned, cleanerID) {
			return false
		}
		return fromDate == "" || (a.Date >= fromDate && !a.Completed)
	}), nil
}

// Put stores a as is. Tests use it to seed state.
func (r *Appointments) Put(a models.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = cloneAppt(a)
}

func (r *Appointments) SetReminderTask(_ context.Context, id, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return notFound("appointment", id)
	}
	a.ReminderTaskID = taskID
	r.byID[id] = a
	return nil
}

func (r *Appointments) ApplyChange(_ context.Context, id string, change models.AppointmentChange) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.Paid || a.Completed {
		return nil, notFound("appointment", id)
	}
	if change.BringSheets != nil && a.BringSheets == *change.BringSheets {
		return nil, notFound("appointment", id)
	}
	if change.BringTowels != nil && a.BringTowels == *change.BringTowels {
		return nil, notFound("appointment", id)
	}
	if change.ToWindow != "" && a.TimeToBeCompleted != change.FromWindow {
		return nil, notFound("appointment", id)
	}

	a = cloneAppt(a)
	if change.BringSheets != nil {
		a.BringSheets = *change.BringSheets
	}
	if change.BringTowels != nil {
		a.BringTowels = *change.BringTowels
	}
	if change.ToWindow != "" {
		a.TimeToBeCompleted = change.ToWindow
	}
	if change.Delta != 0 {
		a.Price += change.Delta
		a.PaymentIntentID = ""
	}
	a.UpdatedAt = time.Now().UTC()
	r.byID[id] = a
	out := cloneAppt(a)
	return &out, nil
}

func (r *Appointments) setIf(id string, match func(models.Appointment) bool, apply func(a *models.Appointment)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || !match(a) {
		return false
	}
	apply(&a)
	a.UpdatedAt = time.Now().UTC()
	r.byID[id] = a
	return true
}

func (r *Appointments) SetPaymentIntent(_ context.Context, id, intentID string, price int64) (bool, error) {
	return r.setIf(id,
		func(a models.Appointment) bool { return !a.Paid && a.Price == price },
		func(a *models.Appointment) { a.PaymentIntentID = intentID }), nil
}

func (r *Appointments) MarkPaid(_ context.Context, id, intentID string, price int64) (bool, error) {
	return r.setIf(id,
		func(a models.Appointment) bool { return !a.Paid && a.PaymentIntentID == intentID && a.Price == price },
		func(a *models.Appointment) { a.Paid = true }), nil
}

func (r *Appointments) MarkCompleted(_ context.Context, id string, at time.Time) (bool, error) {
	return r.setIf(id,
		func(a models.Appointment) bool { return !a.Completed },
		func(a *models.Appointment) {
			a.Completed = true
			a.CompletedAt = &at
		}), nil
}

func (r *Appointments) AssignCleaner(_ context.Context, id, cleanerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok || a.Completed || contains(a.EmployeesAssigned, cleanerID) || len(a.EmployeesAssigned) >= a.EmployeesNeeded {
		return false, nil
	}
	a.EmployeesAssigned = append(append([]string{}, a.EmployeesAssigned...), cleanerID)
	a.HasBeenAssigned = len(a.EmployeesAssigned) >= a.EmployeesNeeded
	r.byID[id] = a
	return true, nil
}

func (r *Appointments) UnassignCleaner(_ context.Context, id, cleanerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil
	}
	kept := []string{}
	for _, c := range a.EmployeesAssigned {
		if c != cleanerID {
			kept = append(kept, c)
		}
	}
	a.EmployeesAssigned = kept
	a.HasBeenAssigned = false
	r.byID[id] = a
	return nil
}

func (r *Appointments) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return notFound("appointment", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *Appointments) Stats(_ context.Context, today string) (models.AppointmentStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var s models.AppointmentStats
	for _, a := range r.byID {
		upcoming := a.Date >= today && !a.Completed
		if upcoming {
			s.Upcoming++
			if !a.HasBeenAssigned {
				s.UnassignedUpcoming++
			}
		}
		if a.Completed {
			s.Completed++
		}
		s.BookedVolume += a.Price
		if a.Paid {
			s.CollectedVolume += a.Price
		}
	}
	return s, nil
}

// Bills

type Bills struct {
	mu     sync.Mutex
	byUser map[string]models.Bill
}

func NewBills() *Bills { return &Bills{byUser: map[string]models.Bill{}} }

func (r *Bills) Create(_ context.Context, b *models.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[b.UserID]; ok {
		return fmt.Errorf("failed to create bill: duplicate key")
	}
	b.UpdatedAt = time.Now().UTC()
	r.byUser[b.UserID] = *b
	return nil
}

func (r *Bills) GetByUserID(_ context.Context, userID string) (*models.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byUser[userID]
	if !ok {
		return nil, notFound("bill", userID)
	}
	return &b, nil
}

func (r *Bills) Adjust(_ context.Context, userID string, d models.BillDelta) (*models.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byUser[userID]
	if !ok {
		b = models.Bill{ID: uuid.New().String(), UserID: userID}
	}
	b.Apply(d)
	b.UpdatedAt = time.Now().UTC()
	r.byUser[userID] = b
	return &b, nil
}

// Requests

type Requests struct {
	mu   sync.Mutex
	byID map[string]models.PendingRequest
}

func NewRequests() *Requests { return &Requests{byID: map[string]models.PendingRequest{}} }

func (r *Requests) Create(_ context.Context, req *models.PendingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.CreatedAt = time.Now().UTC()
	r.byID[req.ID] = *req
	return nil
}

func (r *Requests) GetByID(_ context.Context, id string) (*models.PendingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, notFound("pending request", id)
	}
	return &req, nil
}

func (r *Requests) filter(match func(models.PendingRequest) bool) []models.PendingRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.PendingRequest{}
	for _, req := range r.byID {
		if match(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Requests) FindActive(_ context.Context, appointmentID, cleanerID string) (*models.PendingRequest, error) {
	found := r.filter(func(req models.PendingRequest) bool {
		return req.AppointmentID == appointmentID && req.CleanerID == cleanerID && req.Status == models.RequestPending
	})
	if len(found) == 0 {
		return nil, notFound("pending request", appointmentID+"/"+cleanerID)
	}
	return &found[0], nil
}

func (r *Requests) GetPendingByAppointment(_ context.Context, appointmentID string) ([]models.PendingRequest, error) {
	return r.filter(func(req models.PendingRequest) bool {
		return req.AppointmentID == appointmentID && req.Status == models.RequestPending
	}), nil
}

func (r *Requests) GetPendingForHomeowner(_ context.Context, homeownerID string) ([]models.PendingRequest, error) {
	return r.filter(func(req models.PendingRequest) bool {
		return req.HomeownerID == homeownerID && req.Status == models.RequestPending
	}), nil
}

func (r *Requests) GetByCleaner(_ context.Context, cleanerID, status string) ([]models.PendingRequest, error) {
	return r.filter(func(req models.PendingRequest) bool {
		return req.CleanerID == cleanerID && (status == "" || req.Status == status)
	}), nil
}

func (r *Requests) setWhere(match func(models.PendingRequest) bool, status string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	var n int64
	for id, req := range r.byID {
		if req.Status == models.RequestPending && match(req) {
			req.Status = status
			req.DecidedAt = &now
			r.byID[id] = req
			n++
		}
	}
	return n
}

func (r *Requests) UpdateStatus(_ context.Context, id, status string) (bool, error) {
	return r.setWhere(func(req models.PendingRequest) bool { return req.ID == id }, status) == 1, nil
}

func (r *Requests) SetStatusForAppointment(_ context.Context, appointmentID, exceptID, status string) (int64, error) {
	return r.setWhere(func(req models.PendingRequest) bool {
		return req.AppointmentID == appointmentID && req.ID != exceptID
	}, status), nil
}

func (r *Requests) SetStatusForCleaner(_ context.Context, cleanerID, status string) (int64, error) {
	return r.setWhere(func(req models.PendingRequest) bool { return req.CleanerID == cleanerID }, status), nil
}

func (r *Requests) ExpireBefore(_ context.Context, date string) (int64, error) {
	return r.setWhere(func(req models.PendingRequest) bool { return req.AppointmentDate < date }, models.RequestExpired), nil
}

// Reviews

type Reviews struct {
	mu   sync.Mutex
	list []models.Review
}

func NewReviews() *Reviews { return &Reviews{} }

func (r *Reviews) Create(_ context.Context, rev *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev.CreatedAt = time.Now().UTC()
	r.list = append(r.list, *rev)
	return nil
}

func (r *Reviews) GetByCleaner(_ context.Context, cleanerID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Review{}
	for i := len(r.list) - 1; i >= 0; i-- {
		if r.list[i].CleanerID == cleanerID {
			out = append(out, r.list[i])
		}
	}
	return out, nil
}

func (r *Reviews) Exists(_ context.Context, appointmentID, cleanerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rev := range r.list {
		if rev.AppointmentID == appointmentID && rev.CleanerID == cleanerID {
			return true, nil
		}
	}
	return false, nil
}

// Payouts

type Payouts struct {
	mu   sync.Mutex
	byID map[string]models.Payout
}

func NewPayouts() *Payouts { return &Payouts{byID: map[string]models.Payout{}} }

func (r *Payouts) Create(_ context.Context, p *models.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.AppointmentID == p.AppointmentID && existing.CleanerID == p.CleanerID {
			return fmt.Errorf("failed to create payout: duplicate key")
		}
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.byID[p.ID] = *p
	return nil
}

func (r *Payouts) filter(match func(models.Payout) bool) []models.Payout {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Payout{}
	for _, p := range r.byID {
		if match(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Payouts) GetByCleaner(_ context.Context, cleanerID string) ([]models.Payout, error) {
	return r.filter(func(p models.Payout) bool { return p.CleanerID == cleanerID }), nil
}

func (r *Payouts) GetDue(_ context.Context, now time.Time) ([]models.Payout, error) {
	return r.filter(func(p models.Payout) bool {
		return p.Status == models.PayoutPending && !p.AvailableAt.After(now)
	}), nil
}

func (r *Payouts) Update(_ context.Context, p *models.Payout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[p.ID]; !ok {
		return notFound("payout", p.ID)
	}
	p.UpdatedAt = time.Now().UTC()
	r.byID[p.ID] = *p
	return nil
}

func (r *Payouts) Totals(_ context.Context) (models.PayoutTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t models.PayoutTotals
	for _, p := range r.byID {
		t.PlatformFees += p.PlatformFee
		switch p.Status {
		case models.PayoutPending, models.PayoutProcessing:
			t.PendingAmount += p.Amount
		case models.PayoutPaid:
			t.PaidAmount += p.Amount
		}
	}
	return t, nil
}

// Withdrawals

type Withdrawals struct {
	mu   sync.Mutex
	list []models.PlatformWithdrawal
}

func NewWithdrawals() *Withdrawals { return &Withdrawals{} }

func (r *Withdrawals) Create(_ context.Context, w *models.PlatformWithdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now
	r.list = append(r.list, *w)
	return nil
}

func (r *Withdrawals) Update(_ context.Context, w *models.PlatformWithdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.list {
		if r.list[i].ID == w.ID {
			w.UpdatedAt = time.Now().UTC()
			r.list[i] = *w
			return nil
		}
	}
	return notFound("withdrawal", w.ID)
}

func (r *Withdrawals) List(_ context.Context) ([]models.PlatformWithdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.PlatformWithdrawal{}
	for i := len(r.list) - 1; i >= 0; i-- {
		out = append(out, r.list[i])
	}
	return out, nil
}

// Conversations

type Conversations struct {
	mu   sync.Mutex
	byID map[string]models.Conversation
}

func NewConversations() *Conversations {
	return &Conversations{byID: map[string]models.Conversation{}}
}

func (r *Conversations) Create(_ context.Context, c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	c.CreatedAt = now
	if c.LastMessageAt.IsZero() {
		c.LastMessageAt = now
	}
	stored := *c
	stored.ParticipantIDs = cloneStrings(c.ParticipantIDs)
	r.byID[c.ID] = stored
	return nil
}

func (r *Conversations) GetByID(_ context.Context, id string) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, notFound("conversation", id)
	}
	c.ParticipantIDs = cloneStrings(c.ParticipantIDs)
	return &c, nil
}

func (r *Conversations) filter(match func(models.Conversation) bool) []models.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Conversation{}
	for _, c := range r.byID {
		if match(c) {
			c.ParticipantIDs = cloneStrings(c.ParticipantIDs)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageAt.After(out[j].LastMessageAt) })
	return out
}

func (r *Conversations) GetByParticipant(_ context.Context, userID string) ([]models.Conversation, error) {
	return r.filter(func(c models.Conversation) bool { return c.HasParticipant(userID) }), nil
}

func (r *Conversations) FindDirect(_ context.Context, a, b string) (*models.Conversation, error) {
	found := r.filter(func(c models.Conversation) bool {
		return c.Type == models.ConversationDirect && len(c.ParticipantIDs) == 2 && c.HasParticipant(a) && c.HasParticipant(b)
	})
	if len(found) == 0 {
		return nil, notFound("conversation", a+"/"+b)
	}
	return &found[0], nil
}

func (r *Conversations) FindSupport(_ context.Context, userID string) (*models.Conversation, error) {
	found := r.filter(func(c models.Conversation) bool {
		return c.Type == models.ConversationSupport && c.CreatedBy == userID
	})
	if len(found) == 0 {
		return nil, notFound("conversation", "support/"+userID)
	}
	return &found[0], nil
}

func (r *Conversations) Touch(_ context.Context, id string, at time.Time, preview string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil
	}
	c.LastMessageAt = at
	c.LastMessagePreview = preview
	r.byID[id] = c
	return nil
}

func (r *Conversations) AddParticipants(_ context.Context, id string, userIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil
	}
	ids := cloneStrings(c.ParticipantIDs)
	for _, u := range userIDs {
		if !contains(ids, u) {
			ids = append(ids, u)
		}
	}
	c.ParticipantIDs = ids
	r.byID[id] = c
	return nil
}

// Messages

type Messages struct {
	mu   sync.Mutex
	list []models.Message
}

func NewMessages() *Messages { return &Messages{} }

func (r *Messages) Create(_ context.Context, m *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.ReadBy == nil {
		m.ReadBy = []string{}
	}
	stored := *m
	stored.ReadBy = cloneStrings(m.ReadBy)
	r.list = append(r.list, stored)
	return nil
}

func (r *Messages) GetByConversation(_ context.Context, conversationID string) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Message{}
	for _, m := range r.list {
		if m.ConversationID == conversationID {
			m.ReadBy = cloneStrings(m.ReadBy)
			out = append(out, m)
		}
	}
	return out, nil
}

func isUnread(m models.Message, userID string) bool {
	return m.SenderID != userID && !contains(m.ReadBy, userID)
}

func (r *Messages) MarkRead(_ context.Context, conversationID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.list {
		if m.ConversationID == conversationID && isUnread(m, userID) {
			r.list[i].ReadBy = append(cloneStrings(m.ReadBy), userID)
		}
	}
	return nil
}

func (r *Messages) CountUnread(_ context.Context, conversationID, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.list {
		if m.ConversationID == conversationID && isUnread(m, userID) {
			n++
		}
	}
	return n, nil
}

func (r *Messages) CountUnreadIn(_ context.Context, conversationIDs []string, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.list {
		if contains(conversationIDs, m.ConversationID) && isUnread(m, userID) {
			n++
		}
	}
	return n, nil
}

// Terms

type Terms struct {
	mu          sync.Mutex
	list        []models.Terms
	Acceptances []models.TermsAcceptance
}

func NewTerms() *Terms { return &Terms{} }

func (r *Terms) Create(_ context.Context, t *models.Terms) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.list {
		if existing.Type == t.Type && existing.Version == t.Version {
			return fmt.Errorf("failed to create terms: duplicate key")
		}
	}
	t.CreatedAt = time.Now().UTC()
	r.list = append(r.list, *t)
	return nil
}

func (r *Terms) GetByID(_ context.Context, id string) (*models.Terms, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.list {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, notFound("terms", id)
}

func (r *Terms) GetLatest(_ context.Context, termsType string) (*models.Terms, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Terms
	for i := range r.list {
		t := r.list[i]
		if t.Type == termsType && (latest == nil || t.Version > latest.Version) {
			latest = &t
		}
	}
	if latest == nil {
		return nil, notFound("terms", termsType)
	}
	return latest, nil
}

func (r *Terms) ListByType(_ context.Context, termsType string) ([]models.Terms, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Terms{}
	for _, t := range r.list {
		if t.Type == termsType {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r *Terms) CreateAcceptance(_ context.Context, a *models.TermsAcceptance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.AcceptedAt = time.Now().UTC()
	r.Acceptances = append(r.Acceptances, *a)
	return nil
}

// Settings

type Settings struct {
	mu          sync.Mutex
	serviceArea *models.ServiceAreaConfig
	tiers       *models.TierConfig
}

func NewSettings() *Settings { return &Settings{} }

func (r *Settings) GetServiceArea(_ context.Context) (*models.ServiceAreaConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.serviceArea == nil {
		return nil, notFound("settings", "service_area")
	}
	cfg := *r.serviceArea
	return &cfg, nil
}

func (r *Settings) SaveServiceArea(_ context.Context, cfg *models.ServiceAreaConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *cfg
	r.serviceArea = &c
	return nil
}

func (r *Settings) GetTiers(_ context.Context) (*models.TierConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tiers == nil {
		return nil, notFound("settings", "tiers")
	}
	cfg := *r.tiers
	return &cfg, nil
}

func (r *Settings) SaveTiers(_ context.Context, cfg *models.TierConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *cfg
	r.tiers = &c
	return nil
}

// Interface checks.
var (
	_ repository.UserRepository         = (*Users)(nil)
	_ repository.HomeRepository         = (*Homes)(nil)
	_ repository.AppointmentRepository  = (*Appointments)(nil)
	_ repository.BillRepository         = (*Bills)(nil)
	_ repository.RequestRepository      = (*Requests)(nil)
	_ repository.ReviewRepository       = (*Reviews)(nil)
	_ repository.PayoutRepository       = (*Payouts)(nil)
	_ repository.WithdrawalRepository   = (*Withdrawals)(nil)
	_ repository.ConversationRepository = (*Conversations)(nil)
	_ repository.MessageRepository      = (*Messages)(nil)
	_ repository.TermsRepository        = (*Terms)(nil)
	_ repository.SettingsRepository     = (*Settings)(nil)
)
