package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

type RoomGormRepository struct {
	db *gorm.DB
}

func NewRoomGormRepository(db *gorm.DB) *RoomGormRepository {
	return &RoomGormRepository{db: db}
}

// --------------------------------------------------
// Lifecycle
// --------------------------------------------------

func (r *RoomGormRepository) CreateRoom(
	ctx context.Context,
	rm *models.Room,
) error {
	return r.db.WithContext(ctx).Create(rm).Error
}

func (r *RoomGormRepository) GetRoom(
	ctx context.Context,
	id string,
) (*models.Room, error) {

	var rm models.Room
	if err := r.db.WithContext(ctx).
		Preload("Participants", "left_at IS NULL").
		Where("id = ?", id).
		First(&rm).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("room_not_found")
		}
		return nil, err
	}

	return &rm, nil
}

func (r *RoomGormRepository) GetRoomByConsultation(
	ctx context.Context,
	consultationID string,
) (*models.Room, error) {

	var rm models.Room
	if err := r.db.WithContext(ctx).
		Preload("Participants", "left_at IS NULL").
		Where("consultation_id = ?", consultationID).
		First(&rm).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("room_not_found")
		}
		return nil, err
	}

	return &rm, nil
}

func (r *RoomGormRepository) ListRoomsForUser(
	ctx context.Context,
	userID string,
) ([]models.Room, error) {

	var rooms []models.Room
	if err := r.db.WithContext(ctx).
		Joins("JOIN consultations ON consultations.id = rooms.consultation_id").
		Where(
			"consultations.patient_id = ? OR consultations.caregiver_id = ?",
			userID, userID,
		).
		Preload("Participants", "left_at IS NULL").
		Order("rooms.created_at DESC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}

	return rooms, nil
}

// --------------------------------------------------
// Roster (serializado por sala via lock da linha)
// --------------------------------------------------

func (r *RoomGormRepository) lockRoom(
	tx *gorm.DB,
	roomID string,
) (*models.Room, error) {

	var rm models.Room
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", roomID).
		First(&rm).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("room_not_found")
		}
		return nil, err
	}

	return &rm, nil
}

func (r *RoomGormRepository) JoinRoom(
	ctx context.Context,
	roomID string,
	userID string,
	now time.Time,
	maxParticipants int,
) (*models.Room, error) {

	var joined *models.Room

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		rm, err := r.lockRoom(tx, roomID)
		if err != nil {
			return err
		}

		if err := domain.CanJoin(domain.Status(rm.Status)); err != nil {
			return err
		}

		var active []models.RoomParticipant
		if err := tx.
			Where("room_id = ? AND left_at IS NULL", roomID).
			Find(&active).Error; err != nil {
			return err
		}

		already := false
		for i := range active {
			if active[i].UserID == userID {
				// reconexão: atualiza o joined_at sem duplicar a vaga
				active[i].JoinedAt = now
				if err := tx.Save(&active[i]).Error; err != nil {
					return err
				}
				already = true
				break
			}
		}

		if !already {
			if len(active) >= maxParticipants {
				return httperr.ErrBusiness("room_full")
			}

			p := models.RoomParticipant{
				RoomID:   roomID,
				UserID:   userID,
				JoinedAt: now,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			active = append(active, p)
		}

		rm.Participants = active
		joined = rm
		return nil
	})

	if err != nil {
		return nil, err
	}

	return joined, nil
}

func (r *RoomGormRepository) LeaveRoom(
	ctx context.Context,
	roomID string,
	userID string,
	now time.Time,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		rm, err := r.lockRoom(tx, roomID)
		if err != nil {
			return err
		}

		if err := domain.CanJoin(domain.Status(rm.Status)); err != nil {
			return err
		}

		var p models.RoomParticipant
		if err := tx.
			Where("room_id = ? AND user_id = ? AND left_at IS NULL", roomID, userID).
			First(&p).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness("not_a_participant")
			}
			return err
		}

		p.LeftAt = &now
		return tx.Save(&p).Error
	})
}

func (r *RoomGormRepository) EndRoom(
	ctx context.Context,
	roomID string,
	now time.Time,
) (*models.Room, error) {

	var ended *models.Room

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		rm, err := r.lockRoom(tx, roomID)
		if err != nil {
			return err
		}

		if err := domain.CanEnd(domain.Status(rm.Status)); err != nil {
			return err
		}

		rm.Status = string(domain.StatusEnded)
		rm.EndedAt = &now
		if err := tx.Save(rm).Error; err != nil {
			return err
		}

		// fecha o roster inteiro junto com a sala
		if err := tx.
			Model(&models.RoomParticipant{}).
			Where("room_id = ? AND left_at IS NULL", roomID).
			Update("left_at", now).Error; err != nil {
			return err
		}

		rm.Participants = nil
		ended = rm
		return nil
	})

	if err != nil {
		return nil, err
	}

	return ended, nil
}

// Compile-time check
var _ domain.Repository = (*RoomGormRepository)(nil)
