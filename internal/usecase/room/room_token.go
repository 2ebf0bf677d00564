package room

import (
	"context"

	"github.com/LabVitalis/consult-scheduler/internal/accessgrant"
	consdomain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
)

// RoomToken emite um grant sem mexer no roster: atende o cliente que
// perdeu o token e precisa de outro para a mesma sala.
type RoomToken struct {
	rooms           domain.Repository
	cons            consdomain.Repository
	issuer          *accessgrant.Issuer
	grantTTLSeconds int
}

func NewRoomToken(
	rooms domain.Repository,
	cons consdomain.Repository,
	issuer *accessgrant.Issuer,
	grantTTLSeconds int,
) *RoomToken {
	return &RoomToken{
		rooms:           rooms,
		cons:            cons,
		issuer:          issuer,
		grantTTLSeconds: grantTTLSeconds,
	}
}

func (uc *RoomToken) Execute(
	ctx context.Context,
	roomID string,
	userID string,
) (*accessgrant.Grant, error) {

	rm, err := uc.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanJoin(domain.Status(rm.Status)); err != nil {
		return nil, err
	}

	cons, err := uc.cons.GetConsultation(ctx, rm.ConsultationID)
	if err != nil {
		return nil, httperr.ErrBusiness("consultation_not_found")
	}

	if cons.PatientID != userID && cons.CaregiverID != userID {
		return nil, httperr.ErrBusiness("not_a_participant")
	}

	return uc.issuer.Issue(roomID, userID, uc.grantTTLSeconds)
}
