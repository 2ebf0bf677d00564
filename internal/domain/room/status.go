package room

import "github.com/LabVitalis/consult-scheduler/internal/httperr"

// ===============================
// Room Status
// ===============================

type Status string

const (
	StatusOpen  Status = "open"
	StatusEnded Status = "ended"
)

// ===============================
// Validations
// ===============================

// CanJoin define se a sala ainda aceita participantes
func CanJoin(current Status) error {
	if current != StatusOpen {
		return httperr.ErrBusiness("room_ended")
	}
	return nil
}

// CanEnd define se a sala pode ser encerrada
func CanEnd(current Status) error {
	if current != StatusOpen {
		return httperr.ErrBusiness("room_ended")
	}
	return nil
}
