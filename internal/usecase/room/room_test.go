package room

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/LabVitalis/consult-scheduler/internal/accessgrant"
	"github.com/LabVitalis/consult-scheduler/internal/audit"
	consdomain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
	consuc "github.com/LabVitalis/consult-scheduler/internal/usecase/consultation"
)

const testSecret = "unit-test-shared-secret"

type roomDeps struct {
	cons   *fakeConsRepo
	rooms  *fakeRoomRepo
	issuer *accessgrant.Issuer
	audit  *audit.Dispatcher
}

func newRoomDeps(t *testing.T) *roomDeps {
	t.Helper()

	cons := newFakeConsRepo()
	issuer, err := accessgrant.NewIssuer(testSecret)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return &roomDeps{
		cons:   cons,
		rooms:  newFakeRoomRepo(cons),
		issuer: issuer,
		audit:  audit.NewDispatcher(audit.New(nil)),
	}
}

func seedConsultation(t *testing.T, d *roomDeps, status consdomain.Status) *models.Consultation {
	t.Helper()

	start := time.Now().Add(-30 * time.Minute).Truncate(time.Minute)
	cons := &models.Consultation{
		ID:            uuid.NewString(),
		PatientID:     "patient-1",
		CaregiverID:   "nurse-1",
		ScheduledTime: start,
		EndTime:       start.Add(time.Hour),
		Status:        string(status),
	}
	if err := d.cons.CreateIfSlotFree(context.Background(), cons); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return cons
}

func mustCreateRoom(t *testing.T, d *roomDeps, consultationID, requesterID string) *models.Room {
	t.Helper()

	rm, err := NewCreateOrGetRoom(d.rooms, d.cons, d.audit).
		Execute(context.Background(), consultationID, requesterID)
	if err != nil {
		t.Fatalf("CreateOrGetRoom: %v", err)
	}
	return rm
}

func assertBusiness(t *testing.T, err error, code string) {
	t.Helper()

	if !httperr.IsBusiness(err, code) {
		t.Fatalf("esperava erro de negócio %q, veio %v", code, err)
	}
}

// ======================================================
// CREATE OR GET
// ======================================================

func TestCreateOrGetRoomGuards(t *testing.T) {
	tests := []struct {
		name      string
		status    consdomain.Status
		requester string
		wantCode  string
	}{
		{"consulta pendente", consdomain.StatusPending, "nurse-1", "consultation_not_approved"},
		{"consulta cancelada", consdomain.StatusCancelled, "nurse-1", "consultation_not_approved"},
		{"consulta concluída", consdomain.StatusCompleted, "nurse-1", "consultation_not_approved"},
		{"estranho à consulta", consdomain.StatusApproved, "intruder", "not_a_participant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newRoomDeps(t)
			cons := seedConsultation(t, d, tt.status)

			_, err := NewCreateOrGetRoom(d.rooms, d.cons, d.audit).
				Execute(context.Background(), cons.ID, tt.requester)
			assertBusiness(t, err, tt.wantCode)
		})
	}

	t.Run("consulta inexistente", func(t *testing.T) {
		d := newRoomDeps(t)
		_, err := NewCreateOrGetRoom(d.rooms, d.cons, d.audit).
			Execute(context.Background(), uuid.NewString(), "nurse-1")
		assertBusiness(t, err, "consultation_not_found")
	})
}

func TestCreateOrGetRoomIdempotent(t *testing.T) {
	d := newRoomDeps(t)
	cons := seedConsultation(t, d, consdomain.StatusApproved)

	uc := NewCreateOrGetRoom(d.rooms, d.cons, d.audit)

	first, err := uc.Execute(context.Background(), cons.ID, "patient-1")
	if err != nil {
		t.Fatalf("primeira chamada: %v", err)
	}
	if first.HostID != cons.CaregiverID {
		t.Errorf("host = %q, esperava o cuidador %q", first.HostID, cons.CaregiverID)
	}
	if first.Status != string(domain.StatusOpen) {
		t.Errorf("status = %q, esperava %q", first.Status, domain.StatusOpen)
	}

	// a consulta passa a apontar para a sala
	stored, _ := d.cons.GetConsultation(context.Background(), cons.ID)
	if stored.RoomID == nil || *stored.RoomID != first.ID {
		t.Errorf("RoomID da consulta = %v, esperava %q", stored.RoomID, first.ID)
	}

	second, err := uc.Execute(context.Background(), cons.ID, "nurse-1")
	if err != nil {
		t.Fatalf("segunda chamada: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("segunda chamada criou outra sala: %q != %q", second.ID, first.ID)
	}
}

// ======================================================
// JOIN
// ======================================================

func TestJoinRoomIssuesGrant(t *testing.T) {
	d := newRoomDeps(t)
	cons := seedConsultation(t, d, consdomain.StatusApproved)
	rm := mustCreateRoom(t, d, cons.ID, "nurse-1")

	uc := NewJoinRoom(d.rooms, d.cons, d.issuer, d.audit, 7200, 2)

	out, err := uc.Execute(context.Background(), rm.ID, "patient-1")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if got := len(out.Room.Participants); got != 1 {
		t.Errorf("participantes = %d, esperava 1", got)
	}
	if out.Grant == nil || out.Grant.Token == "" {
		t.Fatal("join sem grant")
	}

	payload, err := accessgrant.Parse(out.Grant.Token, testSecret)
	if err != nil {
		t.Fatalf("Parse do grant: %v", err)
	}
	if payload.RoomID != rm.ID || payload.UserID != "patient-1" {
		t.Errorf("grant para (%q,%q), esperava (%q,%q)",
			payload.RoomID, payload.UserID, rm.ID, "patient-1")
	}
}

func TestJoinRoomGuards(t *testing.T) {
	t.Run("sala inexistente", func(t *testing.T) {
		d := newRoomDeps(t)
		uc := NewJoinRoom(d.rooms, d.cons, d.issuer, d.audit, 7200, 2)
		_, err := uc.Execute(context.Background(), uuid.NewString(), "patient-1")
		assertBusiness(t, err, "room_not_found")
	})

	t.Run("estranho à consulta", func(t *testing.T) {
		d := newRoomDeps(t)
		cons := seedConsultation(t, d, consdomain.StatusApproved)
		rm := mustCreateRoom(t, d, cons.ID, "nurse-1")

		uc := NewJoinRoom(d.rooms, d.cons, d.issuer, d.audit, 7200, 2)
		_, err := uc.Execute(context.Background(), rm.ID, "intruder")
		assertBusiness(t, err, "not_a_participant")
	})

	t.Run("sala encerrada", func(t *testing.T) {
		d := newRoomDeps(t)
		cons := seedConsultation(t, d, consdomain.StatusApproved)
		rm := mustCreateRoom(t, d, cons.ID, "nurse-1")
		if _, err := d.rooms.EndRoom(context.Background(), rm.ID, time.Now()); err != nil {
			t.Fatalf("EndRoom: %v", err)
		}

		uc := NewJoinRoom(d.rooms, d.cons, d.issuer, d.audit, 7200, 2)
		_, err := uc.Execute(context.Background(), rm.ID, "patient-1")
		assertBusiness(t, err, "room_ended")
	})
}

func TestJoinRoomCapacity(t *testing.T) {
	d := newRoomDeps(t)
	cons := seedConsultation(t, d, consdomain.StatusApproved)
	rm := mustCreateRoom(t, d, cons.ID, "nurse-1")

	// capacidade 1: a segunda parte não entra
	uc := NewJoinRoom(d.rooms, d.cons, d.issuer, d.audit, 7200, 1)

	if _, err := uc.Execute(context.Background(), rm.ID, "patient-1"); err != nil {
		t.Fatalf("primeiro join: %v", err)
	}

	_, err := uc.Execute(context.Background(), rm.ID, "nurse-1")
	assertBusiness(t, err, "room_full")

	// re-join de quem já está dentro não conta vaga nova
	out, err := uc.Execute(context.Background(), rm.ID, "patient-1")
	if err != nil {
		t.Fatalf("re-join: %v", err)
	}
	if got := len(out.Room.Participants); got != 1 {
		t.Errorf("participantes após re-join = %d, esperava 1", got)
	}
}

// ======================================================
// LEAVE
// ======================================================

func TestLeaveRoom(t *testing.T) {
	d := newRoomDeps(t)
	cons := seedConsultation(t, d, consdomain.StatusApproved)
	rm := mustCreateRoom(t, d, cons.ID, "nurse-1")

	join := NewJoinRoom(d.rooms, d.cons, d.issuer, d.audit, 7200, 2)
	if _, err := join.Execute(context.Background(), rm.ID, "patient-1"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := join.Execute(context.Background(), rm.ID, "nurse-1"); err != nil {
		t.Fatalf("join host: %v", err)
	}

	leave := NewLeaveRoom(d.rooms, d.audit)

	// saída do host não encerra a sala
	if err := leave.Execute(context.Background(), rm.ID, "nurse-1"); err != nil {
		t.Fatalf("leave do host: %v", err)
	}
	after, _ := d.rooms.GetRoom(context.Background(), rm.ID)
	if after.Status != string(domain.StatusOpen) {
		t.Errorf("status após saída do host = %q, esperava open", after.Status)
	}
	if got := len(after.Participants); got != 1 {
		t.Errorf("participantes = %d, esperava 1", got)
	}

	// quem nunca entrou (ou já saiu) não sai de novo
	err := leave.Execute(context.Background(), rm.ID, "nurse-1")
	assertBusiness(t, err, "not_a_participant")
}

// ======================================================
// END
// ======================================================

func TestEndRoomHostOnly(t *testing.T) {
	d := newRoomDeps(t)
	cons := seedConsultation(t, d, consdomain.StatusApproved)
	rm := mustCreateRoom(t, d, cons.ID, "nurse-1")

	completer := consuc.NewCompleteConsultation(d.cons, d.audit, "UTC")
	uc := NewEndRoom(d.rooms, completer, d.audit)

	_, err := uc.Execute(context.Background(), rm.ID, "patient-1")
	assertBusiness(t, err, "not_authorized")

	// a tentativa negada não muda nada
	still, _ := d.rooms.GetRoom(context.Background(), rm.ID)
	if still.Status != string(domain.StatusOpen) {
		t.Fatalf("status mudou após end negado: %q", still.Status)
	}

	ended, err := uc.Execute(context.Background(), rm.ID, "nurse-1")
	if err != nil {
		t.Fatalf("end pelo host: %v", err)
	}
	if ended.Status != string(domain.StatusEnded) {
		t.Errorf("status = %q, esperava ended", ended.Status)
	}
	if ended.EndedAt == nil {
		t.Error("EndedAt não preenchido")
	}

	// encerrar a sala conclui a consulta
	stored, _ := d.cons.GetConsultation(context.Background(), cons.ID)
	if stored.Status != string(consdomain.StatusCompleted) {
		t.Errorf("consulta ficou %q, esperava completed", stored.Status)
	}

	// encerrar de novo é erro, não no-op
	_, err = uc.Execute(context.Background(), rm.ID, "nurse-1")
	assertBusiness(t, err, "room_ended")
}

func TestEndRoomToleratesCompletedConsultation(t *testing.T) {
	d := newRoomDeps(t)
	cons := seedConsultation(t, d, consdomain.StatusApproved)
	rm := mustCreateRoom(t, d, cons.ID, "nurse-1")

	// o sweeper chegou primeiro e já concluiu a consulta
	cons.Status = string(consdomain.StatusCompleted)
	if err := d.cons.UpdateConsultation(context.Background(), cons); err != nil {
		t.Fatalf("update: %v", err)
	}

	completer := consuc.NewCompleteConsultation(d.cons, d.audit, "UTC")
	ended, err := NewEndRoom(d.rooms, completer, d.audit).
		Execute(context.Background(), rm.ID, "nurse-1")
	if err != nil {
		t.Fatalf("end com consulta já concluída: %v", err)
	}
	if ended.Status != string(domain.StatusEnded) {
		t.Errorf("status = %q, esperava ended", ended.Status)
	}
}

// ======================================================
// INVITE / TOKEN AVULSO
// ======================================================

func TestInviteToRoom(t *testing.T) {
	d := newRoomDeps(t)
	cons := seedConsultation(t, d, consdomain.StatusApproved)
	rm := mustCreateRoom(t, d, cons.ID, "nurse-1")

	uc := NewInviteToRoom(d.rooms, d.audit)

	err := uc.Execute(context.Background(), rm.ID, "patient-1", "specialist-9")
	assertBusiness(t, err, "not_authorized")

	if err := uc.Execute(context.Background(), rm.ID, "nurse-1", "specialist-9"); err != nil {
		t.Fatalf("invite pelo host: %v", err)
	}

	if _, err := d.rooms.EndRoom(context.Background(), rm.ID, time.Now()); err != nil {
		t.Fatalf("EndRoom: %v", err)
	}
	err = uc.Execute(context.Background(), rm.ID, "nurse-1", "specialist-9")
	assertBusiness(t, err, "room_ended")
}

func TestRoomToken(t *testing.T) {
	d := newRoomDeps(t)
	cons := seedConsultation(t, d, consdomain.StatusApproved)
	rm := mustCreateRoom(t, d, cons.ID, "nurse-1")

	uc := NewRoomToken(d.rooms, d.cons, d.issuer, 600)

	grant, err := uc.Execute(context.Background(), rm.ID, "patient-1")
	if err != nil {
		t.Fatalf("RoomToken: %v", err)
	}
	payload, err := accessgrant.Parse(grant.Token, testSecret)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if payload.UserID != "patient-1" {
		t.Errorf("grant emitido para %q", payload.UserID)
	}

	// token avulso não altera o roster
	after, _ := d.rooms.GetRoom(context.Background(), rm.ID)
	if got := len(after.Participants); got != 0 {
		t.Errorf("roster mudou ao reemitir token: %d participantes", got)
	}

	if _, err := uc.Execute(context.Background(), rm.ID, "intruder"); !httperr.IsBusiness(err, "not_a_participant") {
		t.Errorf("estranho recebeu token: %v", err)
	}

	if _, err := d.rooms.EndRoom(context.Background(), rm.ID, time.Now()); err != nil {
		t.Fatalf("EndRoom: %v", err)
	}
	if _, err := uc.Execute(context.Background(), rm.ID, "patient-1"); !httperr.IsBusiness(err, "room_ended") {
		t.Errorf("token para sala encerrada: %v", err)
	}
}
