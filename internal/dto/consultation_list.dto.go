package dto

import "time"

type ConsultationListDTO struct {
	ID            string    `json:"id"`
	PatientID     string    `json:"patient_id"`
	CaregiverID   string    `json:"caregiver_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	RoomID        *string   `json:"room_id"`
}
