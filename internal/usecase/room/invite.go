package room

import (
	"context"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
)

// InviteToRoom não muda estado da sala: registra auditoria e delega o
// aviso ao colaborador de notificações. Só faz sentido quando a sala
// está configurada para mais que a chamada padrão de duas partes.
type InviteToRoom struct {
	rooms domain.Repository
	audit *audit.Dispatcher
}

func NewInviteToRoom(
	rooms domain.Repository,
	audit *audit.Dispatcher,
) *InviteToRoom {
	return &InviteToRoom{
		rooms: rooms,
		audit: audit,
	}
}

func (uc *InviteToRoom) Execute(
	ctx context.Context,
	roomID string,
	actingUserID string,
	inviteeID string,
) error {

	rm, err := uc.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if rm.HostID != actingUserID {
		return httperr.ErrBusiness("not_authorized")
	}

	if err := domain.CanJoin(domain.Status(rm.Status)); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actingUserID,
		Action:   "room_invite_sent",
		Entity:   "room",
		EntityID: &roomID,
		Metadata: map[string]string{"invitee_id": inviteeID},
	})

	return nil
}
