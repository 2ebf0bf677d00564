package room

import (
	"context"
	"errors"
	"sync"
	"time"

	consdomain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	domain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/models"
)

var errNotFound = errors.New("not found")

// ------------------------------
// fake do repositório de consultas
// ------------------------------

type fakeConsRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Consultation
}

func newFakeConsRepo() *fakeConsRepo {
	return &fakeConsRepo{byID: map[string]*models.Consultation{}}
}

func (f *fakeConsRepo) CreateIfSlotFree(_ context.Context, cons *models.Consultation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cons
	f.byID[cons.ID] = &cp
	return nil
}

func (f *fakeConsRepo) GetConsultation(_ context.Context, id string) (*models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cons, ok := f.byID[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *cons
	return &cp, nil
}

func (f *fakeConsRepo) UpdateConsultation(_ context.Context, cons *models.Consultation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[cons.ID]; !ok {
		return errNotFound
	}
	cp := *cons
	f.byID[cons.ID] = &cp
	return nil
}

func (f *fakeConsRepo) UpdateConsultationStatus(
	_ context.Context,
	cons *models.Consultation,
	from consdomain.Status,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.byID[cons.ID]
	if !ok || cur.Status != string(from) {
		return httperr.ErrBusiness("invalid_transition")
	}
	cp := *cons
	f.byID[cons.ID] = &cp
	return nil
}

func (f *fakeConsRepo) ListForCaregiver(_ context.Context, _ string, _, _ time.Time) ([]models.Consultation, error) {
	return nil, nil
}

func (f *fakeConsRepo) ListForPatient(_ context.Context, _ string) ([]models.Consultation, error) {
	return nil, nil
}

func (f *fakeConsRepo) ListBookedSlots(_ context.Context, _ string, _, _ time.Time) ([]time.Time, error) {
	return nil, nil
}

func (f *fakeConsRepo) ListElapsedApproved(_ context.Context, now time.Time) ([]models.Consultation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Consultation
	for _, cons := range f.byID {
		if cons.Status == string(consdomain.StatusApproved) && cons.EndTime.Before(now) {
			out = append(out, *cons)
		}
	}
	return out, nil
}

var _ consdomain.Repository = (*fakeConsRepo)(nil)

// ------------------------------
// fake do repositório de salas
// ------------------------------
//
// Mesmas regras que a versão gorm aplica sob lock da linha da sala.

type fakeRoomRepo struct {
	mu     sync.Mutex
	rooms  map[string]*models.Room
	roster map[string][]models.RoomParticipant
	cons   *fakeConsRepo
}

func newFakeRoomRepo(cons *fakeConsRepo) *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:  map[string]*models.Room{},
		roster: map[string][]models.RoomParticipant{},
		cons:   cons,
	}
}

func (f *fakeRoomRepo) CreateRoom(_ context.Context, rm *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.rooms {
		if existing.ConsultationID == rm.ConsultationID {
			return errors.New("duplicate room for consultation")
		}
	}

	cp := *rm
	cp.CreatedAt = time.Now()
	f.rooms[rm.ID] = &cp
	return nil
}

func (f *fakeRoomRepo) getLocked(id string) (*models.Room, error) {
	rm, ok := f.rooms[id]
	if !ok {
		return nil, httperr.ErrBusiness("room_not_found")
	}
	return rm, nil
}

func (f *fakeRoomRepo) snapshot(rm *models.Room) *models.Room {
	cp := *rm
	cp.Participants = append([]models.RoomParticipant(nil), f.roster[rm.ID]...)
	return &cp
}

func (f *fakeRoomRepo) GetRoom(_ context.Context, id string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rm, err := f.getLocked(id)
	if err != nil {
		return nil, err
	}
	return f.snapshot(rm), nil
}

func (f *fakeRoomRepo) GetRoomByConsultation(_ context.Context, consultationID string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, rm := range f.rooms {
		if rm.ConsultationID == consultationID {
			return f.snapshot(rm), nil
		}
	}
	return nil, httperr.ErrBusiness("room_not_found")
}

func (f *fakeRoomRepo) ListRoomsForUser(ctx context.Context, userID string) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Room
	for _, rm := range f.rooms {
		cons, err := f.cons.GetConsultation(ctx, rm.ConsultationID)
		if err != nil {
			continue
		}
		if cons.PatientID == userID || cons.CaregiverID == userID {
			out = append(out, *f.snapshot(rm))
		}
	}
	return out, nil
}

func (f *fakeRoomRepo) JoinRoom(
	_ context.Context,
	roomID string,
	userID string,
	now time.Time,
	maxParticipants int,
) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rm, err := f.getLocked(roomID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanJoin(domain.Status(rm.Status)); err != nil {
		return nil, err
	}

	active := f.roster[roomID]
	for i := range active {
		if active[i].UserID == userID {
			active[i].JoinedAt = now
			return f.snapshot(rm), nil
		}
	}

	if len(active) >= maxParticipants {
		return nil, httperr.ErrBusiness("room_full")
	}

	f.roster[roomID] = append(active, models.RoomParticipant{
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: now,
	})
	return f.snapshot(rm), nil
}

func (f *fakeRoomRepo) LeaveRoom(_ context.Context, roomID, userID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rm, err := f.getLocked(roomID)
	if err != nil {
		return err
	}

	if err := domain.CanJoin(domain.Status(rm.Status)); err != nil {
		return err
	}

	active := f.roster[roomID]
	for i := range active {
		if active[i].UserID == userID {
			f.roster[roomID] = append(active[:i], active[i+1:]...)
			return nil
		}
	}
	return httperr.ErrBusiness("not_a_participant")
}

func (f *fakeRoomRepo) EndRoom(_ context.Context, roomID string, now time.Time) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rm, err := f.getLocked(roomID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanEnd(domain.Status(rm.Status)); err != nil {
		return nil, err
	}

	rm.Status = string(domain.StatusEnded)
	rm.EndedAt = &now
	f.roster[roomID] = nil

	return f.snapshot(rm), nil
}

var _ domain.Repository = (*fakeRoomRepo)(nil)
