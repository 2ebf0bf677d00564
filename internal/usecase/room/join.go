package room

import (
	"context"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/accessgrant"
	"github.com/LabVitalis/consult-scheduler/internal/audit"
	consdomain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

// ======================================================
// JOIN
// ======================================================
//
// Política adotada: Join NÃO cria sala implicitamente. Se a consulta
// ainda não tem sala, o chamador recebe room_not_found e deve passar
// antes por CreateOrGetRoom.

type JoinRoomOutput struct {
	Room  *models.Room       `json:"room"`
	Grant *accessgrant.Grant `json:"grant"`
}

type JoinRoom struct {
	rooms           domain.Repository
	cons            consdomain.Repository
	issuer          *accessgrant.Issuer
	audit           *audit.Dispatcher
	grantTTLSeconds int
	maxParticipants int
}

func NewJoinRoom(
	rooms domain.Repository,
	cons consdomain.Repository,
	issuer *accessgrant.Issuer,
	auditD *audit.Dispatcher,
	grantTTLSeconds int,
	maxParticipants int,
) *JoinRoom {
	return &JoinRoom{
		rooms:           rooms,
		cons:            cons,
		issuer:          issuer,
		audit:           auditD,
		grantTTLSeconds: grantTTLSeconds,
		maxParticipants: maxParticipants,
	}
}

func (uc *JoinRoom) Execute(
	ctx context.Context,
	roomID string,
	userID string,
) (*JoinRoomOutput, error) {

	rm, err := uc.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	cons, err := uc.cons.GetConsultation(ctx, rm.ConsultationID)
	if err != nil {
		return nil, httperr.ErrBusiness("consultation_not_found")
	}

	// só as partes da consulta entram na sala
	if cons.PatientID != userID && cons.CaregiverID != userID {
		return nil, httperr.ErrBusiness("not_a_participant")
	}

	joined, err := uc.rooms.JoinRoom(ctx, roomID, userID, time.Now(), uc.maxParticipants)
	if err != nil {
		return nil, err
	}

	grant, err := uc.issuer.Issue(roomID, userID, uc.grantTTLSeconds)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "room_joined",
		Entity:   "room",
		EntityID: &roomID,
	})

	return &JoinRoomOutput{
		Room:  joined,
		Grant: grant,
	}, nil
}
