package room

import (
	"context"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

// ConsultationCompleter é a ponte estreita de volta para o motor de
// agendamento: encerrar a sala conclui a consulta, sem que este
// pacote toque no estado interno do outro.
type ConsultationCompleter interface {
	Execute(ctx context.Context, consultationID string) (*models.Consultation, error)
}

type EndRoom struct {
	rooms     domain.Repository
	completer ConsultationCompleter
	audit     *audit.Dispatcher
}

func NewEndRoom(
	rooms domain.Repository,
	completer ConsultationCompleter,
	audit *audit.Dispatcher,
) *EndRoom {
	return &EndRoom{
		rooms:     rooms,
		completer: completer,
		audit:     audit,
	}
}

func (uc *EndRoom) Execute(
	ctx context.Context,
	roomID string,
	actingUserID string,
) (*models.Room, error) {

	rm, err := uc.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	// encerrar é privilégio exclusivo do host
	if rm.HostID != actingUserID {
		return nil, httperr.ErrBusiness("not_authorized")
	}

	ended, err := uc.rooms.EndRoom(ctx, roomID, time.Now())
	if err != nil {
		return nil, err
	}

	if _, err := uc.completer.Execute(ctx, ended.ConsultationID); err != nil {
		// o sweeper pode ter concluído antes; qualquer outra falha sobe
		if !httperr.IsBusiness(err, "invalid_transition") {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actingUserID,
		Action:   "room_ended",
		Entity:   "room",
		EntityID: &roomID,
	})

	return ended, nil
}
