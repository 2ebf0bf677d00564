package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

type ConsultationGormRepository struct {
	db *gorm.DB
}

func NewConsultationGormRepository(db *gorm.DB) *ConsultationGormRepository {
	return &ConsultationGormRepository{db: db}
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

func (r *ConsultationGormRepository) CreateIfSlotFree(
	ctx context.Context,
	cons *models.Consultation,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// trava as consultas ativas que já ocupam o slot
		var taken []models.Consultation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where(
				"caregiver_id = ? AND status IN ('pending', 'approved') AND scheduled_time = ?",
				cons.CaregiverID,
				cons.ScheduledTime,
			).
			Find(&taken).Error; err != nil {
			return err
		}

		if len(taken) > 0 {
			return httperr.ErrBusiness("slot_conflict")
		}

		if err := tx.Create(cons).Error; err != nil {
			// índice parcial único segura a corrida que o lock não viu
			if isUniqueViolation(err) {
				return httperr.ErrBusiness("slot_conflict")
			}
			return err
		}

		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *ConsultationGormRepository) GetConsultation(
	ctx context.Context,
	id string,
) (*models.Consultation, error) {

	var cons models.Consultation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&cons).Error; err != nil {
		return nil, err
	}

	return &cons, nil
}

func (r *ConsultationGormRepository) UpdateConsultation(
	ctx context.Context,
	cons *models.Consultation,
) error {
	return r.db.WithContext(ctx).Save(cons).Error
}

func (r *ConsultationGormRepository) UpdateConsultationStatus(
	ctx context.Context,
	cons *models.Consultation,
	from domain.Status,
) error {

	// escrita condicionada ao status lido: uma transição concorrente
	// entre a leitura e este update zera RowsAffected
	res := r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ? AND status = ?", cons.ID, string(from)).
		Updates(map[string]any{
			"status":       cons.Status,
			"cancelled_at": cons.CancelledAt,
			"completed_at": cons.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("invalid_transition")
	}

	return nil
}

// --------------------------------------------------
// Projections
// --------------------------------------------------

func (r *ConsultationGormRepository) ListForCaregiver(
	ctx context.Context,
	caregiverID string,
	from time.Time,
	to time.Time,
) ([]models.Consultation, error) {

	var list []models.Consultation
	if err := r.db.WithContext(ctx).
		Where(
			"caregiver_id = ? AND scheduled_time >= ? AND scheduled_time < ?",
			caregiverID, from, to,
		).
		Order("scheduled_time ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}

	return list, nil
}

func (r *ConsultationGormRepository) ListForPatient(
	ctx context.Context,
	patientID string,
) ([]models.Consultation, error) {

	var list []models.Consultation
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("scheduled_time ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}

	return list, nil
}

func (r *ConsultationGormRepository) ListBookedSlots(
	ctx context.Context,
	caregiverID string,
	dayStart time.Time,
	dayEnd time.Time,
) ([]time.Time, error) {

	var slots []time.Time
	if err := r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where(
			"caregiver_id = ? AND status IN ('pending', 'approved') AND scheduled_time >= ? AND scheduled_time < ?",
			caregiverID, dayStart, dayEnd,
		).
		Order("scheduled_time ASC").
		Pluck("scheduled_time", &slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

// --------------------------------------------------
// Sweeper
// --------------------------------------------------

func (r *ConsultationGormRepository) ListElapsedApproved(
	ctx context.Context,
	now time.Time,
) ([]models.Consultation, error) {

	var list []models.Consultation
	if err := r.db.WithContext(ctx).
		Where("status = 'approved' AND end_time < ?", now).
		Find(&list).Error; err != nil {
		return nil, err
	}

	return list, nil
}

// Compile-time check
var _ domain.Repository = (*ConsultationGormRepository)(nil)
