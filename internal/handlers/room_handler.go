package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	roomdomain "github.com/LabVitalis/consult-scheduler/internal/domain/room"
	"github.com/LabVitalis/consult-scheduler/internal/httperr"
	"github.com/LabVitalis/consult-scheduler/internal/httpresp"
	"github.com/LabVitalis/consult-scheduler/internal/middleware"
	ucRoom "github.com/LabVitalis/consult-scheduler/internal/usecase/room"
)

// ======================================================
// HANDLER
// ======================================================

type RoomHandler struct {
	createOrGet *ucRoom.CreateOrGetRoom
	join        *ucRoom.JoinRoom
	leave       *ucRoom.LeaveRoom
	end         *ucRoom.EndRoom
	invite      *ucRoom.InviteToRoom
	rooms       roomdomain.Repository
}

func NewRoomHandler(
	createOrGet *ucRoom.CreateOrGetRoom,
	join *ucRoom.JoinRoom,
	leave *ucRoom.LeaveRoom,
	end *ucRoom.EndRoom,
	invite *ucRoom.InviteToRoom,
	rooms roomdomain.Repository,
) *RoomHandler {
	return &RoomHandler{
		createOrGet: createOrGet,
		join:        join,
		leave:       leave,
		end:         end,
		invite:      invite,
		rooms:       rooms,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateRoomRequest struct {
	ConsultationID string `json:"consultation_id" binding:"required"`
}

type InviteRequest struct {
	InviteeID string `json:"invitee_id" binding:"required"`
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *RoomHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	rm, err := h.createOrGet.Execute(c.Request.Context(), req.ConsultationID, userID)
	if err != nil {
		respondBusiness(c, err)
		return
	}

	c.JSON(http.StatusCreated, rm)
}

func (h *RoomHandler) Join(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	roomID := c.Param("roomId")

	out, err := h.join.Execute(c.Request.Context(), roomID, userID)
	if err != nil {
		respondBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *RoomHandler) Leave(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	roomID := c.Param("roomId")

	if err := h.leave.Execute(c.Request.Context(), roomID, userID); err != nil {
		respondBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

func (h *RoomHandler) End(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	roomID := c.Param("roomId")

	rm, err := h.end.Execute(c.Request.Context(), roomID, userID)
	if err != nil {
		respondBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, rm)
}

func (h *RoomHandler) Invite(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	roomID := c.Param("roomId")

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if err := h.invite.Execute(c.Request.Context(), roomID, userID, req.InviteeID); err != nil {
		respondBusiness(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "invited"})
}

// ======================================================
// CONSULTAS
// ======================================================

func (h *RoomHandler) Get(c *gin.Context) {
	roomID := c.Param("roomId")

	rm, err := h.rooms.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		respondBusiness(c, err)
		return
	}

	c.JSON(http.StatusOK, rm)
}

func (h *RoomHandler) MyRooms(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	rooms, err := h.rooms.ListRoomsForUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list", "Erro ao listar salas.")
		return
	}

	httpresp.List(c, rooms)
}
