package room

import (
	"context"

	"github.com/google/uuid"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	consdomain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

// ======================================================
// CREATE OR GET
// ======================================================

type CreateOrGetRoom struct {
	rooms domain.Repository
	cons  consdomain.Repository
	audit *audit.Dispatcher
}

func NewCreateOrGetRoom(
	rooms domain.Repository,
	cons consdomain.Repository,
	audit *audit.Dispatcher,
) *CreateOrGetRoom {
	return &CreateOrGetRoom{
		rooms: rooms,
		cons:  cons,
		audit: audit,
	}
}

func (uc *CreateOrGetRoom) Execute(
	ctx context.Context,
	consultationID string,
	requesterID string,
) (*models.Room, error) {

	cons, err := uc.cons.GetConsultation(ctx, consultationID)
	if err != nil {
		return nil, httperr.ErrBusiness("consultation_not_found")
	}

	if cons.PatientID != requesterID && cons.CaregiverID != requesterID {
		return nil, httperr.ErrBusiness("not_a_participant")
	}

	// sala só existe para consulta aprovada
	if cons.Status != string(consdomain.StatusApproved) {
		return nil, httperr.ErrBusiness("consultation_not_approved")
	}

	// já existe sala para esta consulta?
	if existing, err := uc.rooms.GetRoomByConsultation(ctx, consultationID); err == nil {
		return existing, nil
	} else if !httperr.IsBusiness(err, "room_not_found") {
		return nil, err
	}

	rm := &models.Room{
		ID:             uuid.NewString(),
		ConsultationID: consultationID,
		HostID:         cons.CaregiverID,
		Status:         string(domain.StatusOpen),
	}

	if err := uc.rooms.CreateRoom(ctx, rm); err != nil {
		// corrida com outro create: o índice único da consulta decide;
		// quem perdeu devolve a sala vencedora
		if existing, lookupErr := uc.rooms.GetRoomByConsultation(ctx, consultationID); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}

	roomID := rm.ID
	cons.RoomID = &roomID
	if err := uc.cons.UpdateConsultation(ctx, cons); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &requesterID,
		Action:   "room_created",
		Entity:   "room",
		EntityID: &rm.ID,
	})

	return rm, nil
}
