package consultation

import "github.com/LabVitalis/consult-scheduler/internal/httperr"

// ===============================
// Consultation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Validations
// ===============================

// CanApprove define se uma consulta pode ser aprovada
func CanApprove(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

// CanCancel define se uma consulta pode ser cancelada
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusApproved {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

// CanComplete define se uma consulta pode ser concluída
func CanComplete(current Status) error {
	if current != StatusApproved {
		return httperr.ErrBusiness("invalid_transition")
	}
	return nil
}

// IsActive indica se a consulta ainda ocupa o slot do cuidador
func IsActive(current Status) bool {
	return current == StatusPending || current == StatusApproved
}

func InitialStatus() Status {
	return StatusPending
}
