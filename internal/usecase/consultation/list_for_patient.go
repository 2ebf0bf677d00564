package consultation

import (
	"context"

	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/dto"
)

type ListForPatient struct {
	repo domain.Repository
}

func NewListForPatient(repo domain.Repository) *ListForPatient {
	return &ListForPatient{repo: repo}
}

func (uc *ListForPatient) Execute(
	ctx context.Context,
	patientID string,
) ([]dto.ConsultationListDTO, error) {

	list, err := uc.repo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConsultationListDTO, 0, len(list))
	for _, cons := range list {
		out = append(out, dto.ConsultationListDTO{
			ID:            cons.ID,
			PatientID:     cons.PatientID,
			CaregiverID:   cons.CaregiverID,
			ScheduledTime: cons.ScheduledTime,
			EndTime:       cons.EndTime,
			Status:        cons.Status,
			RoomID:        cons.RoomID,
		})
	}

	return out, nil
}
