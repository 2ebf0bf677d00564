package consultation

import (
	"context"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/cache"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/timezone"
)

// GetBookedSlots projeta os horários já ocupados de um cuidador num
// dia-calendário; é o que o cliente consulta antes de submeter um
// booking. Read path com cache best-effort.
type GetBookedSlots struct {
	repo  domain.Repository
	slots *cache.SlotCache
	tz    string
}

func NewGetBookedSlots(
	repo domain.Repository,
	slots *cache.SlotCache,
	tz string,
) *GetBookedSlots {
	return &GetBookedSlots{
		repo:  repo,
		slots: slots,
		tz:    tz,
	}
}

func (uc *GetBookedSlots) Execute(
	ctx context.Context,
	caregiverID string,
	date time.Time,
) ([]time.Time, error) {

	dayStart, dayEnd := timezone.DayBounds(date, uc.tz)

	if cached, ok := uc.slots.Get(ctx, caregiverID, dayStart); ok {
		return cached, nil
	}

	booked, err := uc.repo.ListBookedSlots(ctx, caregiverID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	uc.slots.Set(ctx, caregiverID, dayStart, booked)
	return booked, nil
}
