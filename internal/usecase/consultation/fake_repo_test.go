package consultation

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

var errNotFound = errors.New("not found")

// fakeRepo replica o contrato do repositório com um mapa em memória;
// CreateIfSlotFree mantém a mesma atomicidade (checagem + insert sob
// o mesmo lock) que a versão de banco garante via transação.
type fakeRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Consultation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*models.Consultation{}}
}

func (f *fakeRepo) CreateIfSlotFree(
	_ context.Context,
	cons *models.Consultation,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.byID {
		if existing.CaregiverID == cons.CaregiverID &&
			domain.IsActive(domain.Status(existing.Status)) &&
			existing.ScheduledTime.Equal(cons.ScheduledTime) {
			return httperr.ErrBusiness("slot_conflict")
		}
	}

	cp := *cons
	f.byID[cons.ID] = &cp
	return nil
}

func (f *fakeRepo) GetConsultation(
	_ context.Context,
	id string,
) (*models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cons, ok := f.byID[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *cons
	return &cp, nil
}

func (f *fakeRepo) UpdateConsultation(
	_ context.Context,
	cons *models.Consultation,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[cons.ID]; !ok {
		return errNotFound
	}
	cp := *cons
	f.byID[cons.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateConsultationStatus(
	_ context.Context,
	cons *models.Consultation,
	from domain.Status,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// mesma escrita condicional da versão de banco
	cur, ok := f.byID[cons.ID]
	if !ok || cur.Status != string(from) {
		return httperr.ErrBusiness("invalid_transition")
	}
	cp := *cons
	f.byID[cons.ID] = &cp
	return nil
}

func (f *fakeRepo) ListForCaregiver(
	_ context.Context,
	caregiverID string,
	from time.Time,
	to time.Time,
) ([]models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Consultation
	for _, cons := range f.byID {
		if cons.CaregiverID == caregiverID &&
			!cons.ScheduledTime.Before(from) &&
			cons.ScheduledTime.Before(to) {
			out = append(out, *cons)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListForPatient(
	_ context.Context,
	patientID string,
) ([]models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Consultation
	for _, cons := range f.byID {
		if cons.PatientID == patientID {
			out = append(out, *cons)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListBookedSlots(
	_ context.Context,
	caregiverID string,
	dayStart time.Time,
	dayEnd time.Time,
) ([]time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []time.Time
	for _, cons := range f.byID {
		if cons.CaregiverID == caregiverID &&
			domain.IsActive(domain.Status(cons.Status)) &&
			!cons.ScheduledTime.Before(dayStart) &&
			cons.ScheduledTime.Before(dayEnd) {
			out = append(out, cons.ScheduledTime)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListElapsedApproved(
	_ context.Context,
	now time.Time,
) ([]models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Consultation
	for _, cons := range f.byID {
		if cons.Status == string(domain.StatusApproved) && cons.EndTime.Before(now) {
			out = append(out, *cons)
		}
	}
	return out, nil
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

var _ domain.Repository = (*fakeRepo)(nil)
