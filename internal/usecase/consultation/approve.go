package consultation

import (
	"context"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

type ApproveConsultation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewApproveConsultation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ApproveConsultation {
	return &ApproveConsultation{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ApproveConsultation) Execute(
	ctx context.Context,
	consultationID string,
	actingCaregiverID string,
) (*models.Consultation, error) {

	cons, err := uc.repo.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, httperr.ErrBusiness("consultation_not_found")
	}

	prev := domain.Status(cons.Status)
	if err := domain.Approve(cons, actingCaregiverID); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateConsultationStatus(ctx, cons, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actingCaregiverID,
		Action:   "consultation_approved",
		Entity:   "consultation",
		EntityID: &cons.ID,
	})

	return cons, nil
}
