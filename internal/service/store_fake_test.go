package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ruddypp/Paramata-System/internal/domain"
	"github.com/ruddypp/Paramata-System/internal/repository"
)

// fakeStore is an in-memory repository.Store. It is guarded by one mutex
// because the async executor may touch it from another goroutine.
type fakeStore struct {
	mu sync.Mutex

	items       map[string]*domain.Item
	histories   []*domain.ItemHistory
	rentals     map[string]*domain.Rental
	rentalLogs  []*domain.RentalStatusLog
	cals        map[string]*domain.Calibration
	calLogs     []*domain.CalibrationStatusLog
	certs       map[string]*domain.CalibrationCertificate
	maints      map[string]*domain.Maintenance
	maintLogs   []*domain.MaintenanceStatusLog
	svcReports  map[string]*domain.ServiceReport
	techReports map[string]*domain.TechnicalReport
	activities  []*domain.ActivityLog
	reminders   map[string]*domain.Reminder
	notifs      map[string]*domain.Notification
	schedules   map[string]*domain.InventorySchedule
	users       map[string]*domain.User
	customers   map[string]*domain.Customer
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:       make(map[string]*domain.Item),
		rentals:     make(map[string]*domain.Rental),
		cals:        make(map[string]*domain.Calibration),
		certs:       make(map[string]*domain.CalibrationCertificate),
		maints:      make(map[string]*domain.Maintenance),
		svcReports:  make(map[string]*domain.ServiceReport),
		techReports: make(map[string]*domain.TechnicalReport),
		reminders:   make(map[string]*domain.Reminder),
		notifs:      make(map[string]*domain.Notification),
		schedules:   make(map[string]*domain.InventorySchedule),
		users:       make(map[string]*domain.User),
		customers:   make(map[string]*domain.Customer),
	}
}

func (f *fakeStore) Items() repository.ItemRepository                 { return &fakeItems{f} }
func (f *fakeStore) Rentals() repository.RentalRepository             { return &fakeRentals{f} }
func (f *fakeStore) Calibrations() repository.CalibrationRepository   { return &fakeCals{f} }
func (f *fakeStore) Maintenances() repository.MaintenanceRepository   { return &fakeMaints{f} }
func (f *fakeStore) Activities() repository.ActivityLogRepository     { return &fakeActivities{f} }
func (f *fakeStore) Reminders() repository.ReminderRepository         { return &fakeReminders{f} }
func (f *fakeStore) Notifications() repository.NotificationRepository { return &fakeNotifs{f} }
func (f *fakeStore) Schedules() repository.ScheduleRepository         { return &fakeSchedules{f} }
func (f *fakeStore) Users() repository.UserRepository                 { return &fakeUsers{f} }
func (f *fakeStore) Customers() repository.CustomerRepository         { return &fakeCustomers{f} }

func (f *fakeStore) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(f)
}

func (f *fakeStore) addItem(serial string, status domain.ItemStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[serial] = &domain.Item{SerialNumber: serial, Name: "Gas Detector " + serial, Status: status}
}

func (f *fakeStore) itemStatus(serial string) domain.ItemStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[serial].Status
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
}

type fakeItems struct{ f *fakeStore }

func (r *fakeItems) Create(_ context.Context, item *domain.Item) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.items[item.SerialNumber] = item
	return nil
}

func (r *fakeItems) GetBySerial(_ context.Context, serial string) (*domain.Item, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	item, ok := r.f.items[serial]
	if !ok {
		return nil, notFound("item", serial)
	}
	cp := *item
	return &cp, nil
}

func (r *fakeItems) GetBySerialForUpdate(ctx context.Context, serial string) (*domain.Item, error) {
	return r.GetBySerial(ctx, serial)
}

func (r *fakeItems) UpdateStatus(_ context.Context, serial string, status domain.ItemStatus) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	item, ok := r.f.items[serial]
	if !ok {
		return notFound("item", serial)
	}
	item.Status = status
	return nil
}

func (r *fakeItems) SetLastVerified(_ context.Context, serial string, verifiedAt time.Time) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	item, ok := r.f.items[serial]
	if !ok {
		return notFound("item", serial)
	}
	item.LastVerifiedAt = &verifiedAt
	return nil
}

func (r *fakeItems) List(_ context.Context, status domain.ItemStatus, _, _ int32) ([]domain.Item, int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.Item
	for _, item := range r.f.items {
		if status == "" || item.Status == status {
			out = append(out, *item)
		}
	}
	return out, int32(len(out)), nil
}

func (r *fakeItems) OpenHistory(_ context.Context, h *domain.ItemHistory) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	h.ID = uuid.NewString()
	r.f.histories = append(r.f.histories, h)
	return nil
}

func (r *fakeItems) CloseHistoryByRental(_ context.Context, rentalID string, endDate time.Time) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, h := range r.f.histories {
		if h.RentalID != nil && *h.RentalID == rentalID && h.EndDate == nil {
			h.EndDate = &endDate
		}
	}
	return nil
}

func (r *fakeItems) ListHistory(_ context.Context, serial string) ([]domain.ItemHistory, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.ItemHistory
	for _, h := range r.f.histories {
		if h.ItemSerial == serial {
			out = append(out, *h)
		}
	}
	return out, nil
}

type fakeRentals struct{ f *fakeStore }

func (r *fakeRentals) Create(_ context.Context, rt *domain.Rental) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	cp := *rt
	r.f.rentals[rt.ID] = &cp
	return nil
}

func (r *fakeRentals) GetByID(_ context.Context, id string) (*domain.Rental, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rt, ok := r.f.rentals[id]
	if !ok {
		return nil, notFound("rental", id)
	}
	cp := *rt
	return &cp, nil
}

func (r *fakeRentals) GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRentals) Update(_ context.Context, rt *domain.Rental) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.rentals[rt.ID]; !ok {
		return notFound("rental", rt.ID)
	}
	cp := *rt
	r.f.rentals[rt.ID] = &cp
	return nil
}

func (r *fakeRentals) List(_ context.Context, userID string, status domain.RequestStatus, _, _ int32) ([]domain.Rental, int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.Rental
	for _, rt := range r.f.rentals {
		if userID != "" && rt.UserID != userID {
			continue
		}
		if status != "" && rt.Status != status {
			continue
		}
		out = append(out, *rt)
	}
	return out, int32(len(out)), nil
}

func (r *fakeRentals) CreateStatusLog(_ context.Context, log *domain.RentalStatusLog) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	log.ID = uuid.NewString()
	r.f.rentalLogs = append(r.f.rentalLogs, log)
	return nil
}

func (r *fakeRentals) ListStatusLogs(_ context.Context, rentalID string) ([]domain.RentalStatusLog, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.RentalStatusLog
	for _, log := range r.f.rentalLogs {
		if log.RentalID == rentalID {
			out = append(out, *log)
		}
	}
	return out, nil
}

type fakeCals struct{ f *fakeStore }

func (r *fakeCals) Create(_ context.Context, cal *domain.Calibration) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if cal.ID == "" {
		cal.ID = uuid.NewString()
	}
	cp := *cal
	r.f.cals[cal.ID] = &cp
	return nil
}

func (r *fakeCals) GetByID(_ context.Context, id string) (*domain.Calibration, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cal, ok := r.f.cals[id]
	if !ok {
		return nil, notFound("calibration", id)
	}
	cp := *cal
	return &cp, nil
}

func (r *fakeCals) GetByIDForUpdate(ctx context.Context, id string) (*domain.Calibration, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeCals) Update(_ context.Context, cal *domain.Calibration) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.cals[cal.ID]; !ok {
		return notFound("calibration", cal.ID)
	}
	cp := *cal
	r.f.cals[cal.ID] = &cp
	return nil
}

func (r *fakeCals) List(_ context.Context, userID string, status domain.RequestStatus, _, _ int32) ([]domain.Calibration, int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.Calibration
	for _, cal := range r.f.cals {
		if userID != "" && cal.UserID != userID {
			continue
		}
		if status != "" && cal.Status != status {
			continue
		}
		out = append(out, *cal)
	}
	return out, int32(len(out)), nil
}

func (r *fakeCals) CreateStatusLog(_ context.Context, log *domain.CalibrationStatusLog) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	log.ID = uuid.NewString()
	r.f.calLogs = append(r.f.calLogs, log)
	return nil
}

func (r *fakeCals) ListStatusLogs(_ context.Context, calibrationID string) ([]domain.CalibrationStatusLog, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.CalibrationStatusLog
	for _, log := range r.f.calLogs {
		if log.CalibrationID == calibrationID {
			out = append(out, *log)
		}
	}
	return out, nil
}

func (r *fakeCals) SaveCertificate(_ context.Context, cert *domain.CalibrationCertificate) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if cert.ID == "" {
		cert.ID = uuid.NewString()
	}
	cp := *cert
	r.f.certs[cert.CalibrationID] = &cp
	return nil
}

func (r *fakeCals) GetCertificate(_ context.Context, calibrationID string) (*domain.CalibrationCertificate, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cert, ok := r.f.certs[calibrationID]
	if !ok {
		return nil, notFound("certificate for calibration", calibrationID)
	}
	cp := *cert
	return &cp, nil
}

type fakeMaints struct{ f *fakeStore }

func (r *fakeMaints) Create(_ context.Context, m *domain.Maintenance) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	cp := *m
	r.f.maints[m.ID] = &cp
	return nil
}

func (r *fakeMaints) GetByID(_ context.Context, id string) (*domain.Maintenance, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	m, ok := r.f.maints[id]
	if !ok {
		return nil, notFound("maintenance", id)
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaints) GetByIDForUpdate(ctx context.Context, id string) (*domain.Maintenance, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeMaints) Update(_ context.Context, m *domain.Maintenance) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.maints[m.ID]; !ok {
		return notFound("maintenance", m.ID)
	}
	cp := *m
	r.f.maints[m.ID] = &cp
	return nil
}

func (r *fakeMaints) List(_ context.Context, userID string, status domain.RequestStatus, _, _ int32) ([]domain.Maintenance, int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.Maintenance
	for _, m := range r.f.maints {
		if userID != "" && m.UserID != userID {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		out = append(out, *m)
	}
	return out, int32(len(out)), nil
}

func (r *fakeMaints) CreateStatusLog(_ context.Context, log *domain.MaintenanceStatusLog) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	log.ID = uuid.NewString()
	r.f.maintLogs = append(r.f.maintLogs, log)
	return nil
}

func (r *fakeMaints) ListStatusLogs(_ context.Context, maintenanceID string) ([]domain.MaintenanceStatusLog, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.MaintenanceStatusLog
	for _, log := range r.f.maintLogs {
		if log.MaintenanceID == maintenanceID {
			out = append(out, *log)
		}
	}
	return out, nil
}

func (r *fakeMaints) SaveServiceReport(_ context.Context, report *domain.ServiceReport) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	cp := *report
	r.f.svcReports[report.MaintenanceID] = &cp
	return nil
}

func (r *fakeMaints) GetServiceReport(_ context.Context, maintenanceID string) (*domain.ServiceReport, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rep, ok := r.f.svcReports[maintenanceID]
	if !ok {
		return nil, notFound("service report for maintenance", maintenanceID)
	}
	cp := *rep
	return &cp, nil
}

func (r *fakeMaints) SaveTechnicalReport(_ context.Context, report *domain.TechnicalReport) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	cp := *report
	r.f.techReports[report.MaintenanceID] = &cp
	return nil
}

func (r *fakeMaints) GetTechnicalReport(_ context.Context, maintenanceID string) (*domain.TechnicalReport, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rep, ok := r.f.techReports[maintenanceID]
	if !ok {
		return nil, notFound("technical report for maintenance", maintenanceID)
	}
	cp := *rep
	return &cp, nil
}

type fakeActivities struct{ f *fakeStore }

func (r *fakeActivities) Create(_ context.Context, entry *domain.ActivityLog) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	entry.ID = uuid.NewString()
	cp := *entry
	r.f.activities = append(r.f.activities, &cp)
	return nil
}

func (r *fakeActivities) List(_ context.Context, _, _ int32) ([]domain.ActivityLog, int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.ActivityLog
	for _, entry := range r.f.activities {
		out = append(out, *entry)
	}
	return out, int32(len(out)), nil
}

type fakeReminders struct{ f *fakeStore }

// Upsert mirrors the partial-unique-index semantics: at most one
// non-acknowledged reminder per (type, origin), refreshed in place.
func (r *fakeReminders) Upsert(_ context.Context, rem *domain.Reminder) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, existing := range r.f.reminders {
		if existing.Type == rem.Type && existing.OriginID() == rem.OriginID() &&
			existing.Status != domain.ReminderStatusAcknowledged {
			existing.Title = rem.Title
			existing.Message = rem.Message
			existing.DueDate = rem.DueDate
			existing.ReminderDate = rem.ReminderDate
			existing.Status = domain.ReminderStatusPending
			*rem = *existing
			return nil
		}
	}
	rem.ID = uuid.NewString()
	rem.Status = domain.ReminderStatusPending
	cp := *rem
	r.f.reminders[rem.ID] = &cp
	return nil
}

func (r *fakeReminders) GetByID(_ context.Context, id string) (*domain.Reminder, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rem, ok := r.f.reminders[id]
	if !ok {
		return nil, notFound("reminder", id)
	}
	cp := *rem
	return &cp, nil
}

func (r *fakeReminders) ListDue(_ context.Context, now time.Time) ([]domain.Reminder, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.Reminder
	for _, rem := range r.f.reminders {
		if rem.Status != domain.ReminderStatusAcknowledged && !rem.ReminderDate.After(now) {
			out = append(out, *rem)
		}
	}
	return out, nil
}

func (r *fakeReminders) ListOverdueByUser(_ context.Context, userID string, now time.Time) ([]domain.Reminder, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.Reminder
	for _, rem := range r.f.reminders {
		if rem.UserID == userID && rem.Status != domain.ReminderStatusAcknowledged && rem.DueDate.Before(now) {
			out = append(out, *rem)
		}
	}
	return out, nil
}

func (r *fakeReminders) MarkSent(_ context.Context, id string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rem, ok := r.f.reminders[id]
	if !ok {
		return notFound("reminder", id)
	}
	if rem.Status == domain.ReminderStatusPending {
		rem.Status = domain.ReminderStatusSent
	}
	return nil
}

func (r *fakeReminders) MarkEmailSent(_ context.Context, id string, at time.Time) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rem, ok := r.f.reminders[id]
	if !ok {
		return notFound("reminder", id)
	}
	rem.EmailSent = true
	rem.EmailSentAt = &at
	return nil
}

func (r *fakeReminders) Acknowledge(_ context.Context, id string, at time.Time) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rem, ok := r.f.reminders[id]
	if !ok {
		return notFound("reminder", id)
	}
	rem.Status = domain.ReminderStatusAcknowledged
	rem.AcknowledgedAt = &at
	return nil
}

func (r *fakeReminders) AcknowledgeActiveByOrigin(_ context.Context, remType domain.ReminderType, originID string, at time.Time) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, rem := range r.f.reminders {
		if rem.Type == remType && rem.OriginID() == originID && rem.Status != domain.ReminderStatusAcknowledged {
			rem.Status = domain.ReminderStatusAcknowledged
			rem.AcknowledgedAt = &at
		}
	}
	return nil
}

type fakeNotifs struct{ f *fakeStore }

// Create mirrors the at-most-one-unread-per-reminder index.
func (r *fakeNotifs) Create(_ context.Context, n *domain.Notification) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if n.ReminderID != nil {
		for _, existing := range r.f.notifs {
			if existing.ReminderID != nil && *existing.ReminderID == *n.ReminderID && !existing.IsRead {
				return repository.ErrDuplicate
			}
		}
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	cp := *n
	r.f.notifs[n.ID] = &cp
	return nil
}

func (r *fakeNotifs) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	n, ok := r.f.notifs[id]
	if !ok {
		return nil, notFound("notification", id)
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotifs) List(_ context.Context, userID string, _, _ int32) ([]domain.Notification, int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.f.notifs {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int32(len(out)), nil
}

func (r *fakeNotifs) CountUnread(_ context.Context, userID string) (int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var count int32
	for _, n := range r.f.notifs {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotifs) MarkAsRead(_ context.Context, id, userID string, at time.Time) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	n, ok := r.f.notifs[id]
	if !ok || n.UserID != userID {
		return notFound("notification", id)
	}
	n.IsRead = true
	n.ReadAt = &at
	return nil
}

func (r *fakeNotifs) MarkAllRead(_ context.Context, userID string, at time.Time) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, n := range r.f.notifs {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &at
		}
	}
	return nil
}

func (r *fakeNotifs) DeleteRead(_ context.Context, userID string) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var deleted int64
	for id, n := range r.f.notifs {
		if n.UserID == userID && n.IsRead {
			delete(r.f.notifs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeNotifs) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var deleted int64
	for id, n := range r.f.notifs {
		if n.IsRead && n.ReadAt != nil && n.ReadAt.Before(cutoff) {
			delete(r.f.notifs, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeSchedules struct{ f *fakeStore }

func (r *fakeSchedules) Create(_ context.Context, s *domain.InventorySchedule) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	cp := *s
	r.f.schedules[s.ID] = &cp
	return nil
}

func (r *fakeSchedules) GetByID(_ context.Context, id string) (*domain.InventorySchedule, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	s, ok := r.f.schedules[id]
	if !ok {
		return nil, notFound("schedule", id)
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSchedules) Update(_ context.Context, s *domain.InventorySchedule) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.schedules[s.ID]; !ok {
		return notFound("schedule", s.ID)
	}
	cp := *s
	r.f.schedules[s.ID] = &cp
	return nil
}

func (r *fakeSchedules) List(_ context.Context, _, _ int32) ([]domain.InventorySchedule, int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.InventorySchedule
	for _, s := range r.f.schedules {
		out = append(out, *s)
	}
	return out, int32(len(out)), nil
}

func (r *fakeSchedules) ListDue(_ context.Context, now time.Time) ([]domain.InventorySchedule, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.InventorySchedule
	for _, s := range r.f.schedules {
		if !s.NextDate.After(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeUsers struct{ f *fakeStore }

func (r *fakeUsers) Create(_ context.Context, user *domain.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.f.users[user.ID] = &cp
	return nil
}

func (r *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	user, ok := r.f.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, user := range r.f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, notFound("user", email)
}

type fakeCustomers struct{ f *fakeStore }

func (r *fakeCustomers) Create(_ context.Context, customer *domain.Customer) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	cp := *customer
	r.f.customers[customer.ID] = &cp
	return nil
}

func (r *fakeCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	customer, ok := r.f.customers[id]
	if !ok {
		return nil, notFound("customer", id)
	}
	cp := *customer
	return &cp, nil
}

func (r *fakeCustomers) List(_ context.Context, _, _ int32) ([]domain.Customer, int32, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []domain.Customer
	for _, customer := range r.f.customers {
		out = append(out, *customer)
	}
	return out, int32(len(out)), nil
}

// fixedClock pins time for deterministic due-date arithmetic.
type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }
