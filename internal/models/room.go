package models

import "time"

type Room struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ConsultationID string       `gorm:"size:36;uniqueIndex" json:"consultation_id"`
	Consultation   Consultation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"consultation"`

	HostID string `gorm:"size:36" json:"host_id"`

	Status string `gorm:"size:20;default:'open'" json:"status"`

	Participants []RoomParticipant `gorm:"foreignKey:RoomID" json:"participants"`

	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type RoomParticipant struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomID string `gorm:"size:36;index" json:"room_id"`
	UserID string `gorm:"size:36;index" json:"user_id"`

	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at"`
}
