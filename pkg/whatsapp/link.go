// Package whatsapp builds wa.me deep links for notifying patients. It is
// pure formatting: nothing here performs a network call, and a link that
// cannot be built must never block the status change that wanted it.
package whatsapp

import (
	"fmt"
	"net/url"

	"citadental.pe/models"
	"citadental.pe/pkg/phonenumber"
)

// LinkBuilder carries the clinic details embedded in every message.
type LinkBuilder struct {
	ClinicName    string
	ClinicAddress string
	CountryCode   string
}

// ConfirmationLink returns the wa.me URL for telling a patient their
// appointment was authorized, or "" when the record has no usable phone.
func (b LinkBuilder) ConfirmationLink(a *models.Appointment) string {
	digits := phonenumber.DialDigits(a.Phone, b.CountryCode)
	if digits == "" {
		return ""
	}

	message := fmt.Sprintf(
		"✅ ¡Hola %s! Tu cita en *%s* ha sido autorizada.\n\n"+
			"📅 Fecha: %s\n"+
			"⏰ Hora: %s\n"+
			"🦷 Servicio: %s\n\n"+
			"¡Te esperamos!\n"+
			"📍 %s",
		a.PatientName,
		b.ClinicName,
		a.Date.Format("02/01/2006"),
		a.TimeOfDay,
		a.Service,
		b.ClinicAddress,
	)

	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}
