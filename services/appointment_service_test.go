package services

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"
	"time"

	"citadental.pe/configs/configslog"
	"citadental.pe/models"
	"citadental.pe/pkg/whatsapp"
	"citadental.pe/repositories"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	os.Exit(m.Run())
}

// fakeRepo is an in-memory IAppointmentRepository.
type fakeRepo struct {
	nextID  uint
	records map[uint]models.Appointment

	// injectable failures
	findBySlotErr error
	updateErr     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[uint]models.Appointment)}
}

func (f *fakeRepo) Create(_ context.Context, a *models.Appointment) error {
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	f.records[a.ID] = *a
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	a, ok := f.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := a
	return &copied, nil
}

func (f *fakeRepo) FindBySlot(_ context.Context, date time.Time, timeOfDay string) ([]models.Appointment, error) {
	if f.findBySlotErr != nil {
		return nil, f.findBySlotErr
	}
	var out []models.Appointment
	for _, a := range f.records {
		if a.Date.Equal(date) && a.TimeOfDay == timeOfDay {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, a *models.Appointment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.records[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.records[a.ID] = *a
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.records[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRepo) ListOrdered(_ context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.records {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TimeOfDay < out[j].TimeOfDay
	})
	return out, nil
}

func (f *fakeRepo) ListRecent(_ context.Context, limit int) ([]models.Appointment, error) {
	out, _ := f.ListOrdered(context.Background())
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repositories.IAppointmentRepository = (*fakeRepo)(nil)

func newTestService(repo *fakeRepo) *AppointmentService {
	return &AppointmentService{
		repo: repo,
		notifier: whatsapp.LinkBuilder{
			ClinicName:    "Clínica Dental",
			ClinicAddress: "Av. Salaverry 1234, Lima",
			CountryCode:   "51",
		},
	}
}

func slotInput(name, phone string) BookingInput {
	return BookingInput{
		PatientName: name,
		Phone:       phone,
		Service:     "Limpieza dental",
		Date:        "2024-06-01",
		TimeOfDay:   "09:00",
	}
}

func TestCreateRequest_ValidationErrorsNameTheField(t *testing.T) {
	svc := newTestService(newFakeRepo())

	cases := []struct {
		mutate func(*BookingInput)
		field  string
	}{
		{func(in *BookingInput) { in.PatientName = "  " }, "patient_name"},
		{func(in *BookingInput) { in.Service = "" }, "service"},
		{func(in *BookingInput) { in.Date = "" }, "date"},
		{func(in *BookingInput) { in.Date = "01-06-2024" }, "date"},
		{func(in *BookingInput) { in.TimeOfDay = "" }, "time"},
		{func(in *BookingInput) { in.TimeOfDay = "9 en punto" }, "time"},
	}

	for _, tc := range cases {
		in := slotInput("María Pérez", "947236123")
		tc.mutate(&in)
		_, err := svc.CreateRequest(context.Background(), in)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("field %s: error = %v, want *ValidationError", tc.field, err)
		}
		if vErr.Field != tc.field {
			t.Fatalf("validation field = %q, want %q", vErr.Field, tc.field)
		}
	}
}

func TestCreateRequest_StoresRequestedWithReference(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	a, err := svc.CreateRequest(context.Background(), slotInput("  María Pérez ", "947 236 123"))
	if err != nil {
		t.Fatalf("CreateRequest error: %v", err)
	}
	if a.Status != models.StatusRequested {
		t.Fatalf("status = %s, want requested", a.Status)
	}
	if a.PatientName != "María Pérez" {
		t.Fatalf("patient name not trimmed: %q", a.PatientName)
	}
	if a.Reference.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("reference not assigned")
	}
	if _, ok := repo.records[a.ID]; !ok {
		t.Fatalf("record not persisted")
	}
}

func TestCreateRequest_TwoRequestedMayShareASlot(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	if _, err := svc.CreateRequest(ctx, slotInput("María", "")); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := svc.CreateRequest(ctx, slotInput("José", "")); err != nil {
		t.Fatalf("second request for same slot must not conflict: %v", err)
	}
}

func TestAuthorize_ConfirmsAndBuildsLink(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María Pérez", "947236123"))

	confirmed, link, err := svc.Authorize(ctx, a.ID)
	if err != nil {
		t.Fatalf("Authorize error: %v", err)
	}
	if confirmed.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", confirmed.Status)
	}
	if repo.records[a.ID].Status != models.StatusConfirmed {
		t.Fatalf("confirmed status not persisted")
	}
	if link == "" {
		t.Fatalf("expected a notification link for a record with a phone")
	}
}

func TestAuthorize_NoPhoneStillSucceeds(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))

	confirmed, link, err := svc.Authorize(ctx, a.ID)
	if err != nil {
		t.Fatalf("Authorize must not fail on a missing phone: %v", err)
	}
	if confirmed.Status != models.StatusConfirmed || link != "" {
		t.Fatalf("status = %s, link = %q", confirmed.Status, link)
	}
}

func TestAuthorize_SecondRequestConflictsNamingOccupant(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))
	b, _ := svc.CreateRequest(ctx, slotInput("José", ""))

	if _, _, err := svc.Authorize(ctx, a.ID); err != nil {
		t.Fatalf("authorize A: %v", err)
	}

	_, _, err := svc.Authorize(ctx, b.ID)
	var cErr *SlotConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("error = %v, want *SlotConflictError", err)
	}
	if cErr.Occupant.ID != a.ID {
		t.Fatalf("occupant id = %d, want %d", cErr.Occupant.ID, a.ID)
	}
	if repo.records[b.ID].Status != models.StatusRequested {
		t.Fatalf("failed authorize must leave B untouched, got %s", repo.records[b.ID].Status)
	}
}

func TestAuthorize_OnConfirmedIsStateError(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))
	if _, _, err := svc.Authorize(ctx, a.ID); err != nil {
		t.Fatalf("first authorize: %v", err)
	}

	_, _, err := svc.Authorize(ctx, a.ID)
	var sErr *StateError
	if !errors.As(err, &sErr) {
		t.Fatalf("error = %v, want *StateError", err)
	}
}

func TestAttend_FromRequestedAndConfirmed(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))
	if _, err := svc.Attend(ctx, a.ID); err != nil {
		t.Fatalf("attend from requested: %v", err)
	}
	if repo.records[a.ID].Status != models.StatusCompleted {
		t.Fatalf("status = %s, want completed", repo.records[a.ID].Status)
	}

	b, _ := svc.CreateRequest(ctx, BookingInput{
		PatientName: "José", Service: "Ortodoncia", Date: "2024-06-02", TimeOfDay: "10:00",
	})
	if _, _, err := svc.Authorize(ctx, b.ID); err != nil {
		t.Fatalf("authorize B: %v", err)
	}
	if _, err := svc.Attend(ctx, b.ID); err != nil {
		t.Fatalf("attend from confirmed: %v", err)
	}
}

func TestTerminalStatusesRejectEveryAction(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, _, err := svc.Authorize(ctx, a.ID); !isStateError(err) {
		t.Fatalf("authorize on cancelled: %v", err)
	}
	if _, err := svc.Attend(ctx, a.ID); !isStateError(err) {
		t.Fatalf("attend on cancelled: %v", err)
	}
	if _, err := svc.Cancel(ctx, a.ID); !isStateError(err) {
		t.Fatalf("cancel on cancelled: %v", err)
	}
	if repo.records[a.ID].Status != models.StatusCancelled {
		t.Fatalf("record must stay cancelled, got %s", repo.records[a.ID].Status)
	}
}

func isStateError(err error) bool {
	var sErr *StateError
	return errors.As(err, &sErr)
}

func TestCancel_FreesTheSlot(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))
	if _, _, err := svc.Authorize(ctx, a.ID); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Same slot, both paths must now succeed.
	b, err := svc.CreateRequest(ctx, slotInput("José", ""))
	if err != nil {
		t.Fatalf("rebooking a cancelled slot: %v", err)
	}
	if _, _, err := svc.Authorize(ctx, b.ID); err != nil {
		t.Fatalf("authorizing the rebooked slot: %v", err)
	}
}

func TestCreateConfirmed_OccupiedSlotPersistsNothing(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))
	if _, _, err := svc.Authorize(ctx, a.ID); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	before := len(repo.records)

	_, err := svc.CreateConfirmed(ctx, slotInput("José", ""))
	var cErr *SlotConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("error = %v, want *SlotConflictError", err)
	}
	if len(repo.records) != before {
		t.Fatalf("conflicting direct entry must not persist a record")
	}
}

func TestCreateConfirmed_FreeSlotStoresConfirmed(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	a, err := svc.CreateConfirmed(context.Background(), slotInput("María", "947236123"))
	if err != nil {
		t.Fatalf("CreateConfirmed error: %v", err)
	}
	if a.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", a.Status)
	}
	if repo.records[a.ID].Status != models.StatusConfirmed {
		t.Fatalf("confirmed status not persisted")
	}
}

func TestActiveSlotInvariantHolds(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// A confirmed, B requested on the same slot, B can never confirm.
	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))
	b, _ := svc.CreateRequest(ctx, slotInput("José", ""))
	if _, _, err := svc.Authorize(ctx, a.ID); err != nil {
		t.Fatalf("authorize A: %v", err)
	}
	if _, _, err := svc.Authorize(ctx, b.ID); err == nil {
		t.Fatalf("two confirmed appointments on one slot")
	}

	confirmed := 0
	for _, rec := range repo.records {
		if rec.Status == models.StatusConfirmed {
			confirmed++
		}
	}
	if confirmed != 1 {
		t.Fatalf("confirmed count = %d, want 1", confirmed)
	}
}

func TestDelete_RemovesPermanently(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))
	removed, err := svc.Delete(ctx, a.ID)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if removed.PatientName != "María" {
		t.Fatalf("deleted record = %q", removed.PatientName)
	}
	if _, ok := repo.records[a.ID]; ok {
		t.Fatalf("record still present after delete")
	}

	if _, err := svc.Delete(ctx, a.ID); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("second delete = %v, want ErrAppointmentNotFound", err)
	}
}

func TestTransitionOnMissingRecord(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, _, err := svc.Authorize(context.Background(), 42); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("error = %v, want ErrAppointmentNotFound", err)
	}
}

func TestStorageErrorPropagatesUnchanged(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))

	storageFailure := &repositories.StorageError{Op: "find by slot", Err: errors.New("connection reset")}
	repo.findBySlotErr = storageFailure

	_, _, err := svc.Authorize(ctx, a.ID)
	var sErr *repositories.StorageError
	if !errors.As(err, &sErr) {
		t.Fatalf("error = %v, want *StorageError passed through", err)
	}
	if repo.records[a.ID].Status != models.StatusRequested {
		t.Fatalf("storage failure must leave the record unchanged")
	}
}

func TestHasConflict_ExcludeID(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	a, _ := svc.CreateRequest(ctx, slotInput("María", ""))

	// Excluding itself, its own slot is free.
	occupant, err := svc.HasConflict(ctx, a.Date, a.TimeOfDay, &a.ID)
	if err != nil {
		t.Fatalf("HasConflict error: %v", err)
	}
	if occupant != nil {
		t.Fatalf("record must not conflict with itself")
	}

	// Without the exclusion it occupies the slot.
	occupant, err = svc.HasConflict(ctx, a.Date, a.TimeOfDay, nil)
	if err != nil {
		t.Fatalf("HasConflict error: %v", err)
	}
	if occupant == nil || occupant.ID != a.ID {
		t.Fatalf("occupant = %+v, want appointment %d", occupant, a.ID)
	}
}
