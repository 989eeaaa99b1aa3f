package handlers

import (
	"errors"

	"citadental.pe/configs/configsdatabase"
	"citadental.pe/configs/configslog"
	"citadental.pe/pkg/flashmessages"
	"citadental.pe/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PublicHandler serves the patient-facing pages and the booking form.
type PublicHandler struct {
	service services.IAppointmentService
}

func NewPublicHandler() *PublicHandler {
	return &PublicHandler{service: services.NewAppointmentService()}
}

func (h *PublicHandler) Index(c *fiber.Ctx) error {
	return c.Render("public/index", fiber.Map{"Title": "Inicio"}, "layouts/main")
}

func (h *PublicHandler) Services(c *fiber.Ctx) error {
	return c.Render("public/services", fiber.Map{"Title": "Servicios"}, "layouts/main")
}

func (h *PublicHandler) Contact(c *fiber.Ctx) error {
	return c.Render("public/contact", fiber.Map{"Title": "Contacto"}, "layouts/main")
}

func (h *PublicHandler) Team(c *fiber.Ctx) error {
	return c.Render("public/team", fiber.Map{"Title": "Equipo"}, "layouts/main")
}

// ShowBooking renders the public booking form.
func (h *PublicHandler) ShowBooking(c *fiber.Ctx) error {
	return c.Render("public/book", fiber.Map{"Title": "Reservar cita"}, "layouts/main")
}

func bookingInputFromForm(c *fiber.Ctx) services.BookingInput {
	return services.BookingInput{
		PatientName: c.FormValue("patient_name"),
		Phone:       c.FormValue("phone"),
		Service:     c.FormValue("service"),
		Date:        c.FormValue("date"),
		TimeOfDay:   c.FormValue("time"),
		Note:        c.FormValue("note"),
	}
}

// CreateBooking stores a public slot request with status requested.
// Validation failures re-render the form with 400; anything else is a 500.
func (h *PublicHandler) CreateBooking(c *fiber.Ctx) error {
	input := bookingInputFromForm(c)

	appointment, err := h.service.CreateRequest(c.UserContext(), input)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).Render("public/book", fiber.Map{
				"Title": "Reservar cita",
				"Error": vErr.Error(),
				"Form":  input,
			}, "layouts/main")
		}
		configslog.Log.Error("public booking failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).Render("errors/500", fiber.Map{
			"Title":   "Error",
			"Message": "Error interno. Inténtelo más tarde.",
		}, "layouts/error")
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
		"Tu solicitud fue registrada. Referencia: "+appointment.Reference.String())
	return c.Redirect("/book/success", fiber.StatusSeeOther)
}

// BookingSuccess confirms the request was received.
func (h *PublicHandler) BookingSuccess(c *fiber.Ctx) error {
	return c.Render("public/book_success", fiber.Map{
		"Title": "Reserva recibida",
		"Flash": flashmessages.GetFlashMessages(c),
	}, "layouts/main")
}

// Health reports application and database status for the platform probe.
func (h *PublicHandler) Health(c *fiber.Ctx) error {
	if err := configsdatabase.Ping(); err != nil {
		configslog.Log.Error("healthcheck failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error", "msg": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
