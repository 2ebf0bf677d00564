package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/LabVitalis/consult-scheduler/internal/httperr"
)

// ======================================================
// BUSINESS ERROR → HTTP
// ======================================================
//
// Cada código de negócio tem um status estável para a UI
// renderizar a mensagem certa.

func respondBusiness(c *gin.Context, err error) {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	switch be.Code {
	case "invalid_slot":
		httperr.BadRequest(c, be.Code, "Horário inválido para agendamento.")
	case "slot_conflict":
		httperr.Conflict(c, be.Code, "Este horário já foi reservado.")
	case "invalid_transition":
		httperr.Unprocessable(c, be.Code, "Mudança de status não permitida.")
	case "too_late_to_cancel":
		httperr.Unprocessable(c, be.Code, "Cancelamento fora do prazo.")
	case "consultation_not_approved":
		httperr.Unprocessable(c, be.Code, "Consulta ainda não aprovada.")
	case "not_authorized":
		httperr.Forbidden(c, be.Code, "Você não tem permissão para esta ação.")
	case "not_a_participant":
		httperr.Forbidden(c, be.Code, "Você não participa desta consulta.")
	case "room_full":
		httperr.Conflict(c, be.Code, "A sala já está cheia.")
	case "room_ended":
		httperr.Gone(c, be.Code, "A sala já foi encerrada.")
	case "room_not_found":
		httperr.NotFound(c, be.Code, "Sala não encontrada.")
	case "consultation_not_found":
		httperr.NotFound(c, be.Code, "Consulta não encontrada.")
	case "misconfigured_credentials":
		httperr.Internal(c, be.Code, "Credenciais do provedor de mídia ausentes.")
	default:
		httperr.BadRequest(c, be.Code, "Requisição inválida.")
	}
}
