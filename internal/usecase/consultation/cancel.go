package consultation

import (
	"context"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	"github.com/LabVitalis/consult-scheduler/internal/cache"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
	"github.com/LabVitalis/consult-scheduler/internal/timezone"
)

type CancelConsultation struct {
	repo   domain.Repository
	slots  *cache.SlotCache
	audit  *audit.Dispatcher
	cutoff time.Duration
	tz     string
}

func NewCancelConsultation(
	repo domain.Repository,
	slots *cache.SlotCache,
	audit *audit.Dispatcher,
	cutoff time.Duration,
	tz string,
) *CancelConsultation {
	return &CancelConsultation{
		repo:   repo,
		slots:  slots,
		audit:  audit,
		cutoff: cutoff,
		tz:     tz,
	}
}

func (uc *CancelConsultation) Execute(
	ctx context.Context,
	consultationID string,
	actingUserID string,
) (*models.Consultation, error) {

	cons, err := uc.repo.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, httperr.ErrBusiness("consultation_not_found")
	}

	now := timezone.NowIn(uc.tz)
	prev := domain.Status(cons.Status)
	if err := domain.Cancel(cons, actingUserID, now, uc.cutoff); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateConsultationStatus(ctx, cons, prev); err != nil {
		return nil, err
	}

	// o slot voltou a ficar livre
	dayStart, _ := timezone.DayBounds(cons.ScheduledTime, uc.tz)
	uc.slots.Invalidate(ctx, cons.CaregiverID, dayStart)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actingUserID,
		Action:   "consultation_cancelled",
		Entity:   "consultation",
		EntityID: &cons.ID,
	})

	return cons, nil
}
