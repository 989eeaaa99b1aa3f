package handlers // handlers/panel

import (
	"errors"

	"citadental.pe/configs/configslog"
	"citadental.pe/models"
	"citadental.pe/pkg/flashmessages"
	"citadental.pe/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const recentEntriesLimit = 20

// PanelAppointmentHandler implements the front-desk actions. Every mutation
// flashes a notice and returns to the agenda listing.
type PanelAppointmentHandler struct {
	service services.IAppointmentService
}

func NewPanelAppointmentHandler() *PanelAppointmentHandler {
	return &PanelAppointmentHandler{service: services.NewAppointmentService()}
}

// ListAppointments shows the full agenda ordered by date and time.
func (h *PanelAppointmentHandler) ListAppointments(c *fiber.Ctx) error {
	appointments, err := h.service.List(c.UserContext())
	renderData := fiber.Map{
		"Title":        "Panel de citas",
		"Appointments": appointments,
		"Flash":        flashmessages.GetFlashMessages(c),
	}
	if err != nil {
		configslog.Log.Error("Panel - ListAppointments error", zap.Error(err))
		renderData["Appointments"] = []models.Appointment{}
		renderData["Error"] = "No se pudieron cargar las citas."
	}
	return c.Render("panel/appointments/list", renderData, "layouts/panel")
}

// ShowCreateAppointment renders the staff direct-entry form with the most
// recent records alongside.
func (h *PanelAppointmentHandler) ShowCreateAppointment(c *fiber.Ctx) error {
	recent, err := h.service.ListRecent(c.UserContext(), recentEntriesLimit)
	if err != nil {
		configslog.Log.Error("Panel - ShowCreateAppointment recent error", zap.Error(err))
		recent = []models.Appointment{}
	}
	return c.Render("panel/appointments/create", fiber.Map{
		"Title":  "Agregar paciente",
		"Recent": recent,
		"Flash":  flashmessages.GetFlashMessages(c),
	}, "layouts/panel")
}

// CreateAppointment performs the composed conflict-check + confirmed
// creation: when the slot is occupied, nothing is stored.
func (h *PanelAppointmentHandler) CreateAppointment(c *fiber.Ctx) error {
	input := services.BookingInput{
		PatientName: c.FormValue("patient_name"),
		Phone:       c.FormValue("phone"),
		Service:     c.FormValue("service"),
		Date:        c.FormValue("date"),
		TimeOfDay:   c.FormValue("time"),
		Note:        c.FormValue("note"),
	}

	appointment, err := h.service.CreateConfirmed(c.UserContext(), input)
	if err != nil {
		var vErr *services.ValidationError
		var cErr *services.SlotConflictError
		switch {
		case errors.As(err, &vErr):
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Datos inválidos: "+vErr.Error())
		case errors.As(err, &cErr):
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey,
				"Horario ocupado por "+cErr.Occupant.PatientName+" ("+cErr.Occupant.SlotLabel()+")")
		default:
			configslog.Log.Error("Panel - CreateAppointment error", zap.Error(err))
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Error al agregar paciente.")
		}
		return c.Redirect("/admin/appointments/create", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
		appointment.PatientName+" agregado exitosamente")
	return c.Redirect("/admin", fiber.StatusFound)
}

// Authorize confirms a requested appointment when its slot is free and
// flashes the WhatsApp notification link on success.
func (h *PanelAppointmentHandler) Authorize(c *fiber.Ctx) error {
	id, ok := h.paramID(c)
	if !ok {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	appointment, link, err := h.service.Authorize(c.UserContext(), id)
	if err != nil {
		h.flashActionError(c, "autorizar", err)
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	if link != "" {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
			appointment.PatientName+" autorizado. Notificar: "+link)
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey,
			appointment.PatientName+" autorizado (sin teléfono para notificar)")
	}
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

// Attend marks an active appointment as completed.
func (h *PanelAppointmentHandler) Attend(c *fiber.Ctx) error {
	id, ok := h.paramID(c)
	if !ok {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	appointment, err := h.service.Attend(c.UserContext(), id)
	if err != nil {
		h.flashActionError(c, "marcar como atendida", err)
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
		appointment.PatientName+" marcado como atendido")
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

// Cancel releases the appointment's slot.
func (h *PanelAppointmentHandler) Cancel(c *fiber.Ctx) error {
	id, ok := h.paramID(c)
	if !ok {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	appointment, err := h.service.Cancel(c.UserContext(), id)
	if err != nil {
		h.flashActionError(c, "cancelar", err)
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey,
		appointment.PatientName+" cancelado")
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

// Delete removes the record permanently.
func (h *PanelAppointmentHandler) Delete(c *fiber.Ctx) error {
	id, ok := h.paramID(c)
	if !ok {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	appointment, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		h.flashActionError(c, "eliminar", err)
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey,
		appointment.PatientName+" eliminado permanentemente")
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

func (h *PanelAppointmentHandler) paramID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "ID de cita inválido.")
		return 0, false
	}
	return uint(id), true
}

// flashActionError translates service errors into user-facing notices.
// Expected conditions (conflict, illegal state, missing record) flash as
// warnings; anything else is logged and reported generically.
func (h *PanelAppointmentHandler) flashActionError(c *fiber.Ctx, action string, err error) {
	var cErr *services.SlotConflictError
	var sErr *services.StateError
	switch {
	case errors.As(err, &cErr):
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey,
			"Horario ocupado por "+cErr.Occupant.PatientName+" ("+cErr.Occupant.SlotLabel()+")")
	case errors.As(err, &sErr):
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey,
			"No se puede "+action+" una cita en estado "+string(sErr.Status))
	case errors.Is(err, services.ErrAppointmentNotFound):
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "La cita no existe.")
	default:
		configslog.Log.Error("Panel - action error", zap.String("action", action), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey,
			"Error al "+action+" la cita.")
	}
}
