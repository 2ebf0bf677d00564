package consultation

import (
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Approve(cons *models.Consultation, actingCaregiverID string) error {
	if cons.CaregiverID != actingCaregiverID {
		return httperr.ErrBusiness("not_authorized")
	}

	if err := CanApprove(Status(cons.Status)); err != nil {
		return err
	}

	cons.Status = string(StatusApproved)
	return nil
}

func Cancel(cons *models.Consultation, actingUserID string, now time.Time, cutoff time.Duration) error {
	if cons.PatientID != actingUserID && cons.CaregiverID != actingUserID {
		return httperr.ErrBusiness("not_authorized")
	}

	if err := CanCancel(Status(cons.Status)); err != nil {
		return err
	}

	// cancelamento só até o corte antes do horário agendado
	if !now.Add(cutoff).Before(cons.ScheduledTime) {
		return httperr.ErrBusiness("too_late_to_cancel")
	}

	cons.Status = string(StatusCancelled)
	cons.CancelledAt = &now
	return nil
}

func Complete(cons *models.Consultation, now time.Time) error {
	if err := CanComplete(Status(cons.Status)); err != nil {
		return err
	}

	cons.Status = string(StatusCompleted)
	cons.CompletedAt = &now
	return nil
}
