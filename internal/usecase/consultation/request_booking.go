package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	"github.com/LabVitalis/consult-scheduler/internal/cache"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
	"github.com/LabVitalis/consult-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type RequestBookingInput struct {
	PatientID     string
	CaregiverID   string
	ScheduledTime time.Time
	Notes         string
}

// ======================================================
// USE CASE
// ======================================================

type RequestBooking struct {
	repo    domain.Repository
	catalog *domain.SlotCatalog
	slots   *cache.SlotCache
	audit   *audit.Dispatcher
}

func NewRequestBooking(
	repo domain.Repository,
	catalog *domain.SlotCatalog,
	slots *cache.SlotCache,
	audit *audit.Dispatcher,
) *RequestBooking {
	return &RequestBooking{
		repo:    repo,
		catalog: catalog,
		slots:   slots,
		audit:   audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RequestBooking) Execute(
	ctx context.Context,
	in RequestBookingInput,
) (*models.Consultation, error) {

	// --------------------------------------------------
	// 1. Horário precisa pertencer ao catálogo de slots
	// --------------------------------------------------
	if !uc.catalog.Contains(in.ScheduledTime) {
		return nil, httperr.ErrBusiness("invalid_slot")
	}

	// --------------------------------------------------
	// 2. E não pode estar no passado
	// --------------------------------------------------
	now := timezone.NowIn(uc.catalog.Timezone())
	if !in.ScheduledTime.After(now) {
		return nil, httperr.ErrBusiness("invalid_slot")
	}

	// --------------------------------------------------
	// 3. Checagem de conflito + insert em passo único
	// --------------------------------------------------
	cons := &models.Consultation{
		ID:            uuid.NewString(),
		PatientID:     in.PatientID,
		CaregiverID:   in.CaregiverID,
		ScheduledTime: in.ScheduledTime,
		EndTime:       uc.catalog.EndOf(in.ScheduledTime),
		Status:        string(domain.InitialStatus()),
		Notes:         in.Notes,
	}

	if err := uc.repo.CreateIfSlotFree(ctx, cons); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Projeção de slots ocupados mudou
	// --------------------------------------------------
	dayStart, _ := timezone.DayBounds(in.ScheduledTime, uc.catalog.Timezone())
	uc.slots.Invalidate(ctx, in.CaregiverID, dayStart)

	// --------------------------------------------------
	// 5. Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &cons.PatientID,
		Action:   "consultation_requested",
		Entity:   "consultation",
		EntityID: &cons.ID,
	})

	return cons, nil
}
