package room

import (
	"context"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
)

type LeaveRoom struct {
	rooms domain.Repository
	audit *audit.Dispatcher
}

func NewLeaveRoom(
	rooms domain.Repository,
	audit *audit.Dispatcher,
) *LeaveRoom {
	return &LeaveRoom{
		rooms: rooms,
		audit: audit,
	}
}

func (uc *LeaveRoom) Execute(
	ctx context.Context,
	roomID string,
	userID string,
) error {

	// a saída do host não encerra a sala: paciente pode estar
	// esperando; encerrar continua exigindo a identidade do host
	if err := uc.rooms.LeaveRoom(ctx, roomID, userID, time.Now()); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "room_left",
		Entity:   "room",
		EntityID: &roomID,
	})

	return nil
}
