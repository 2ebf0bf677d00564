package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/httpresp"
	"github.com/LabVitalis/consult-scheduler/internal/middleware"
	"github.com/LabVitalis/consult-scheduler/internal/timezone"
	ucConsultation "github.com/LabVitalis/consult-scheduler/internal/usecase/consultation"
	ucRoom "github.com/LabVitalis/consult-scheduler/internal/usecase/room"
)

// ======================================================
// HANDLER
// ======================================================

type ConsultationHandler struct {
	request     *ucConsultation.RequestBooking
	approve     *ucConsultation.ApproveConsultation
	cancel      *ucConsultation.CancelConsultation
	byCaregiver *ucConsultation.ListForCaregiver
	byPatient   *ucConsultation.ListForPatient
	booked      *ucConsultation.GetBookedSlots
	roomToken   *ucRoom.RoomToken
	tz          string
}

func NewConsultationHandler(
	request *ucConsultation.RequestBooking,
	approve *ucConsultation.ApproveConsultation,
	cancel *ucConsultation.CancelConsultation,
	byCaregiver *ucConsultation.ListForCaregiver,
	byPatient *ucConsultation.ListForPatient,
	booked *ucConsultation.GetBookedSlots,
	roomToken *ucRoom.RoomToken,
	tz string,
) *ConsultationHandler {
	return &ConsultationHandler{
		request:     request,
		approve:     approve,
		cancel:      cancel,
		byCaregiver: byCaregiver,
		byPatient:   byPatient,
		booked:      booked,
		roomToken:   roomToken,
		tz:          tz,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RequestBookingRequest struct {
	CaregiverID   string `json:"caregiver_id" binding:"required"`
	ScheduledTime string `json:"scheduled_time" binding:"required"` // RFC3339
	Notes         string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"` // approved | cancelled
}

// ======================================================
// BOOKING
// ======================================================

func (h *ConsultationHandler) Request(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(string)

	var req RequestBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	scheduled, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Data ou hora inválida.")
		return
	}

	cons, err := h.request.Execute(
		c.Request.Context(),
		ucConsultation.RequestBookingInput{
			PatientID:     patientID,
			CaregiverID:   req.CaregiverID,
			ScheduledTime: scheduled,
			Notes:         req.Notes,
		},
	)
	if err != nil {
		respondBusiness(c, err)
		return
	}

	c.JSON(http.StatusCreated, cons)
}

// ======================================================
// STATUS (approve / cancel)
// ======================================================

func (h *ConsultationHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	consultationID := c.Param("consultationId")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	switch req.Status {
	case "approved":
		cons, err := h.approve.Execute(c.Request.Context(), consultationID, userID)
		if err != nil {
			respondBusiness(c, err)
			return
		}
		c.JSON(http.StatusOK, cons)

	case "cancelled":
		cons, err := h.cancel.Execute(c.Request.Context(), consultationID, userID)
		if err != nil {
			respondBusiness(c, err)
			return
		}
		c.JSON(http.StatusOK, cons)

	default:
		httperr.BadRequest(c, "invalid_status", "Status deve ser approved ou cancelled.")
	}
}

// ======================================================
// LISTAGENS
// ======================================================

func (h *ConsultationHandler) MyConsultations(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	role := c.MustGet(middleware.ContextUserRole).(string)

	if role == "nurse" {
		from, to := h.rangeFromQuery(c)
		list, err := h.byCaregiver.Execute(c.Request.Context(), userID, from, to)
		if err != nil {
			httperr.Internal(c, "failed_to_list", "Erro ao listar consultas.")
			return
		}
		httpresp.List(c, list)
		return
	}

	list, err := h.byPatient.Execute(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list", "Erro ao listar consultas.")
		return
	}
	httpresp.List(c, list)
}

// ForCaregiver devolve a agenda de um cuidador junto com os slots já
// ocupados do dia: é o que o cliente usa para esmaecer horários antes
// de submeter um booking.
func (h *ConsultationHandler) ForCaregiver(c *gin.Context) {
	caregiverID := c.Param("caregiverId")

	date := timezone.NowIn(h.tz)
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, timezone.Location(h.tz))
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		date = parsed
	}

	from, to := timezone.DayBounds(date, h.tz)

	list, err := h.byCaregiver.Execute(c.Request.Context(), caregiverID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_list", "Erro ao listar consultas.")
		return
	}

	booked, err := h.booked.Execute(c.Request.Context(), caregiverID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list", "Erro ao calcular horários ocupados.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":          from.Format("2006-01-02"),
		"consultations": list,
		"booked_slots":  booked,
	})
}

func (h *ConsultationHandler) rangeFromQuery(c *gin.Context) (time.Time, time.Time) {
	loc := timezone.Location(h.tz)
	now := timezone.NowIn(h.tz)

	from := now.AddDate(0, -1, 0)
	to := now.AddDate(0, 1, 0)

	if s := c.Query("from"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
			from = t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
			to = t.Add(24 * time.Hour)
		}
	}

	return from, to
}

// ======================================================
// ROOM TOKEN
// ======================================================

func (h *ConsultationHandler) RoomToken(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	roomID := c.Query("roomId")
	if roomID == "" {
		httperr.BadRequest(c, "missing_room_id", "roomId é obrigatório.")
		return
	}

	grant, err := h.roomToken.Execute(c.Request.Context(), roomID, userID)
	if err != nil {
		respondBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, grant)
}
