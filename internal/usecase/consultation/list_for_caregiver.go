package consultation

import (
	"context"
	"time"

	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/dto"
)

type ListForCaregiver struct {
	repo domain.Repository
}

func NewListForCaregiver(repo domain.Repository) *ListForCaregiver {
	return &ListForCaregiver{repo: repo}
}

func (uc *ListForCaregiver) Execute(
	ctx context.Context,
	caregiverID string,
	from time.Time,
	to time.Time,
) ([]dto.ConsultationListDTO, error) {

	list, err := uc.repo.ListForCaregiver(ctx, caregiverID, from, to)
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
