package consultation

import (
	"context"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
	"github.com/LabVitalis/consult-scheduler/internal/timezone"
)

// CompleteConsultation é acionado pelo gerenciador de salas quando a
// sala encerra, e pelo sweeper quando o horário passa sem sala ativa.
type CompleteConsultation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewCompleteConsultation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	tz string,
) *CompleteConsultation {
	return &CompleteConsultation{
		repo:  repo,
		audit: audit,
		tz:    tz,
	}
}

func (uc *CompleteConsultation) Execute(
	ctx context.Context,
	consultationID string,
) (*models.Consultation, error) {

	cons, err := uc.repo.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, httperr.ErrBusiness("consultation_not_found")
	}

	now := timezone.NowIn(uc.tz)
	prev := domain.Status(cons.Status)
	if err := domain.Complete(cons, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateConsultationStatus(ctx, cons, prev); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "consultation_completed",
		Entity:   "consultation",
		EntityID: &cons.ID,
	})

	return cons, nil
}
