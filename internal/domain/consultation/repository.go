package consultation

import (
	"context"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/models"
)

type Repository interface {
	// -------- Booking (create / conflict) --------

	// CreateIfSlotFree grava a consulta somente se nenhuma outra
	// pending/approved do mesmo cuidador ocupa o mesmo horário.
	// Verificação e insert formam uma única unidade atômica.
	CreateIfSlotFree(
		ctx context.Context,
		cons *models.Consultation,
	) error

	// -------- State change --------
	GetConsultation(
		ctx context.Context,
		id string,
	) (*models.Consultation, error)

	UpdateConsultation(
		ctx context.Context,
		cons *models.Consultation,
	) error

	// UpdateConsultationStatus persiste uma transição de status somente
	// se o status no banco ainda é `from`; outra transição concorrente
	// no meio vira invalid_transition em vez de sobrescrita.
	UpdateConsultationStatus(
		ctx context.Context,
		cons *models.Consultation,
		from Status,
	) error

	// -------- Projections --------
	ListForCaregiver(
		ctx context.Context,
		caregiverID string,
		from time.Time,
		to time.Time,
	) ([]models.Consultation, error)

	ListForPatient(
		ctx context.Context,
		patientID string,
	) ([]models.Consultation, error)

	ListBookedSlots(
		ctx context.Context,
		caregiverID string,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]time.Time, error)

	// -------- Sweeper --------
	ListElapsedApproved(
		ctx context.Context,
		now time.Time,
	) ([]models.Consultation, error)
}
