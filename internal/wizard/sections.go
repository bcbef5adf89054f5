package wizard

import (
	"strings"

	"invitame/internal/domains"
)

const (
	SectionHero      = "hero"
	SectionDetalles  = "detalles"
	SectionMensaje   = "mensaje"
	SectionGaleria   = "galeria"
	SectionUbicacion = "ubicacion"
	SectionRegistry  = "registry"
	SectionMusic     = "music"
	SectionRSVP      = "rsvp"
	SectionFooter    = "footer"
)

// SectionOrder builds the page skeleton. Registry and music are included only
// when the plan allows them and the buyer actually filled them in.
func SectionOrder(plan domains.Plan, registry, musicURL string) []string {
	order := []string{SectionHero, SectionDetalles, SectionMensaje, SectionGaleria, SectionUbicacion}
	if plan.AllowRegistry && strings.TrimSpace(registry) != "" {
		order = append(order, SectionRegistry)
	}
	if plan.AllowMusic && strings.TrimSpace(musicURL) != "" {
		order = append(order, SectionMusic)
	}
	return append(order, SectionRSVP, SectionFooter)
}
