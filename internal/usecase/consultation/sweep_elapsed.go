package consultation

import (
	"context"
	"log"
	"time"

	"github.com/LabVitalis/consult-scheduler/internal/audit"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	roomdomain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/timezone"
)

// ======================================================
// SWEEPER
// ======================================================
//
// Consultas aprovadas cujo horário terminou sem sala ativa são
// concluídas automaticamente. Sala ainda aberta depois do período
// de tolerância é tratada como abandonada: encerramos a sala e
// concluímos a consulta.

type SweepElapsed struct {
	repo     domain.Repository
	rooms    roomdomain.Repository
	complete *CompleteConsultation
	audit    *audit.Dispatcher
	grace    time.Duration
	tz       string
}

func NewSweepElapsed(
	repo domain.Repository,
	rooms roomdomain.Repository,
	complete *CompleteConsultation,
	auditD *audit.Dispatcher,
	grace time.Duration,
	tz string,
) *SweepElapsed {
	return &SweepElapsed{
		repo:     repo,
		rooms:    rooms,
		complete: complete,
		audit:    auditD,
		grace:    grace,
		tz:       tz,
	}
}

func (uc *SweepElapsed) Execute(ctx context.Context) {

	now := timezone.NowIn(uc.tz)

	elapsed, err := uc.repo.ListElapsedApproved(ctx, now)
	if err != nil {
		log.Println("sweep error:", err)
		return
	}

	for _, cons := range elapsed {

		rm, err := uc.rooms.GetRoomByConsultation(ctx, cons.ID)
		if err != nil && !httperr.IsBusiness(err, "room_not_found") {
			log.Println("sweep room lookup error:", err)
			continue
		}

		if err == nil && rm.Status == string(roomdomain.StatusOpen) {
			// chamada ainda em andamento dentro da tolerância
			if now.Sub(cons.EndTime) < uc.grace {
				continue
			}

			// sala abandonada
			if _, err := uc.rooms.EndRoom(ctx, rm.ID, now); err != nil {
				log.Println("sweep room end error:", err)
				continue
			}

			uc.audit.Dispatch(audit.Event{
				Action:   "room_force_ended",
				Entity:   "room",
				EntityID: &rm.ID,
			})
		}

		if _, err := uc.complete.Execute(ctx, cons.ID); err != nil {
			// outra rota pode ter concluído no meio: não é falha
			if !httperr.IsBusiness(err, "invalid_transition") {
				log.Println("sweep complete error:", err)
			}
		}
	}
}

// Run dispara o sweeper em intervalos fixos até o contexto fechar.
func (uc *SweepElapsed) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.Execute(ctx)
		}
	}
}
