package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LabVitalis/consult-scheduler/internal/accessgrant"
	"github.com/LabVitalis/consult-scheduler/internal/audit"
	"github.com/LabVitalis/consult-scheduler/internal/cache"
	"github.com/LabVitalis/consult-scheduler/internal/config"
	consdomain "github.com/LabVitalis/consult-scheduler/internal/domain/consultation"
	"github.com/LabVitalis/consult-scheduler/internal/handlers"
	infraRepo "github.com/LabVitalis/consult-scheduler/internal/infra/repository"
	"github.com/LabVitalis/consult-scheduler/internal/middleware"
	ucConsultation "github.com/LabVitalis/consult-scheduler/internal/usecase/consultation"
	ucRoom "github.com/LabVitalis/consult-scheduler/internal/usecase/room"
)

// RegisterRoutes monta toda a árvore de dependências e devolve o
// sweeper para o main rodar em background.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	issuer *accessgrant.Issuer,
	catalog *consdomain.SlotCatalog,
) *ucConsultation.SweepElapsed {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	consultationRepo := infraRepo.NewConsultationGormRepository(db)
	roomRepo := infraRepo.NewRoomGormRepository(db)

	slotCache := cache.NewSlotCache(cfg.RedisURL)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	cutoff := time.Duration(cfg.CancelCutoffMinutes) * time.Minute
	grace := time.Duration(cfg.AbandonGraceMinutes) * time.Minute

	// ======================================================
	// 🧠 USE CASES — CONSULTATIONS
	// ======================================================
	requestBookingUC := ucConsultation.NewRequestBooking(
		consultationRepo,
		catalog,
		slotCache,
		auditDispatcher,
	)

	approveUC := ucConsultation.NewApproveConsultation(
		consultationRepo,
		auditDispatcher,
	)

	cancelUC := ucConsultation.NewCancelConsultation(
		consultationRepo,
		slotCache,
		auditDispatcher,
		cutoff,
		cfg.ClinicTimezone,
	)

	completeUC := ucConsultation.NewCompleteConsultation(
		consultationRepo,
		auditDispatcher,
		cfg.ClinicTimezone,
	)

	listForCaregiverUC := ucConsultation.NewListForCaregiver(consultationRepo)
	listForPatientUC := ucConsultation.NewListForPatient(consultationRepo)

	bookedSlotsUC := ucConsultation.NewGetBookedSlots(
		consultationRepo,
		slotCache,
		cfg.ClinicTimezone,
	)

	sweeper := ucConsultation.NewSweepElapsed(
		consultationRepo,
		roomRepo,
		completeUC,
		auditDispatcher,
		grace,
		cfg.ClinicTimezone,
	)

	// ======================================================
	// 🧠 USE CASES — ROOMS
	// ======================================================
	createOrGetRoomUC := ucRoom.NewCreateOrGetRoom(
		roomRepo,
		consultationRepo,
		auditDispatcher,
	)

	joinRoomUC := ucRoom.NewJoinRoom(
		roomRepo,
		consultationRepo,
		issuer,
		auditDispatcher,
		cfg.GrantTTLSeconds,
		cfg.MaxParticipants,
	)

	leaveRoomUC := ucRoom.NewLeaveRoom(roomRepo, auditDispatcher)

	endRoomUC := ucRoom.NewEndRoom(
		roomRepo,
		completeUC,
		auditDispatcher,
	)

	inviteUC := ucRoom.NewInviteToRoom(roomRepo, auditDispatcher)

	roomTokenUC := ucRoom.NewRoomToken(
		roomRepo,
		consultationRepo,
		issuer,
		cfg.GrantTTLSeconds,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	consultationHandler := handlers.NewConsultationHandler(
		requestBookingUC,
		approveUC,
		cancelUC,
		listForCaregiverUC,
		listForPatientUC,
		bookedSlotsUC,
		roomTokenUC,
		cfg.ClinicTimezone,
	)

	roomHandler := handlers.NewRoomHandler(
		createOrGetRoomUC,
		joinRoomUC,
		leaveRoomUC,
		endRoomUC,
		inviteUC,
		roomRepo,
	)

	// ======================================================
	// 🔐 API (JSON, identidade obrigatória)
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		// ------------------------------
		// CONSULTATIONS
		// ------------------------------
		consultations := secured.Group("/consultations")
		{
			consultations.POST("/request", consultationHandler.Request)
			consultations.GET("/my-consultations", consultationHandler.MyConsultations)
			consultations.GET("/nurse/:caregiverId", consultationHandler.ForCaregiver)
			consultations.PUT("/status/:consultationId", consultationHandler.UpdateStatus)
			consultations.GET("/room-token", consultationHandler.RoomToken)
		}

		// ------------------------------
		// ROOMS
		// ------------------------------
		rooms := secured.Group("/rooms")
		{
			rooms.POST("/create", roomHandler.Create)
			rooms.POST("/:roomId/invite", roomHandler.Invite)
			rooms.POST("/:roomId/join", roomHandler.Join)
			rooms.POST("/:roomId/leave", roomHandler.Leave)
			rooms.POST("/:roomId/end", roomHandler.End)
			rooms.GET("/:roomId", roomHandler.Get)
			rooms.GET("/my/rooms", roomHandler.MyRooms)
		}
	}

	return sweeper
}
