package room

import (
	"context"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/models"
)

type Repository interface {
	// -------- Lifecycle --------
	CreateRoom(
		ctx context.Context,
		rm *models.Room,
	) error

	GetRoom(
		ctx context.Context,
		id string,
	) (*models.Room, error)

	GetRoomByConsultation(
		ctx context.Context,
		consultationID string,
	) (*models.Room, error)

	ListRoomsForUser(
		ctx context.Context,
		userID string,
	) ([]models.Room, error)

	// -------- Roster (serializado por sala) --------

	// JoinRoom adiciona o participante se a sala está aberta e há vaga.
	// Checagem de status/lotação e insert ocorrem sob lock da linha da sala.
	JoinRoom(
		ctx context.Context,
		roomID string,
		userID string,
		now time.Time,
		maxParticipants int,
	) (*models.Room, error)

	LeaveRoom(
		ctx context.Context,
		roomID string,
		userID string,
		now time.Time,
	) error

	// EndRoom encerra a sala e fecha o roster inteiro.
	EndRoom(
		ctx context.Context,
		roomID string,
		now time.Time,
	) (*models.Room, error)
}
