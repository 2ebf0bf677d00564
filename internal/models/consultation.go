package models

import "time"

type Consultation struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	PatientID   string `gorm:"size:36;index" json:"patient_id"`
	CaregiverID string `gorm:"size:36;index:idx_caregiver_time" json:"caregiver_id"`

	ScheduledTime time.Time `gorm:"index:idx_caregiver_time" json:"scheduled_time"`
	EndTime       time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes string `gorm:"size:255" json:"notes"`

	// preenchido no primeiro join
	RoomID *string `gorm:"size:36" json:"room_id"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
