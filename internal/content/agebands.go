package content

import (
	"fmt"

	"github.com/semillitas/semillitas-backend/internal/schemas"
)

// AgeBand is a half-open-inclusive range of child age in months.
type AgeBand struct {
	MinMonths int
	MaxMonths int
}

func (b AgeBand) Contains(months int) bool {
	return months >= b.MinMonths && months <= b.MaxMonths
}

func (b AgeBand) Label() string {
	return fmt.Sprintf("%d-%d", b.MinMonths, b.MaxMonths)
}

// BandVariant drives one generation request inside a band: a display
// domain, a target schema (or none) and a short focus phrase, per
// language.
type BandVariant struct {
	Band         AgeBand
	DomainES     string
	DomainEN     string
	SchemaTarget string // canonical schema key or "none"
	FocusES      string
	FocusEN      string
}

func (v BandVariant) Domain(language string) string {
	if language == "en" {
		return v.DomainEN
	}
	return v.DomainES
}

func (v BandVariant) Focus(language string) string {
	if language == "en" {
		return v.FocusEN
	}
	return v.FocusES
}

// Languages supported by the content inventory.
var Languages = []string{"es", "en"}

var bands = []AgeBand{
	{0, 4},
	{5, 8},
	{9, 13},
	{14, 24},
	{25, 36},
	{37, 60},
}

// Bands returns the full band list, youngest first.
func Bands() []AgeBand {
	out := make([]AgeBand, len(bands))
	copy(out, bands)
	return out
}

// BandFor returns the band containing the given age, or false when the
// age falls outside the catalog.
func BandFor(months int) (AgeBand, bool) {
	for _, b := range bands {
		if b.Contains(months) {
			return b, true
		}
	}
	return AgeBand{}, false
}

// ParseBandLabel resolves a "min-max" label back to a catalog band.
func ParseBandLabel(label string) (AgeBand, bool) {
	for _, b := range bands {
		if b.Label() == label {
			return b, true
		}
	}
	return AgeBand{}, false
}

// Variants returns the four generation variants of a band. The catalog
// intends one distinct schema target per variant but does not enforce it.
func Variants(band AgeBand) []BandVariant {
	out := make([]BandVariant, 0, 4)
	for _, v := range catalog {
		if v.Band == band {
			out = append(out, v)
		}
	}
	return out
}

var catalog = []BandVariant{
	// 0-4 months: sensory beginnings.
	{bands[0], "Sentidos", "Senses", "none", "seguimiento visual y contrastes", "visual tracking and high contrast"},
	{bands[0], "Movimiento", "Movement", schemas.Trajectory, "patear y alcanzar objetos colgantes", "kicking and reaching for hanging objects"},
	{bands[0], "Vínculo", "Bonding", "none", "rostros, voces y turnos de sonidos", "faces, voices and sound turn-taking"},
	{bands[0], "Tacto", "Touch", schemas.Enveloping, "texturas suaves sobre piel y manos", "soft textures on skin and hands"},

	// 5-8 months: grasp and drop.
	{bands[1], "Movimiento", "Movement", schemas.Trajectory, "soltar y dejar caer con intención", "intentional dropping and letting go"},
	{bands[1], "Exploración", "Exploration", schemas.Rotation, "girar objetos y ruedas con las manos", "turning objects and wheels by hand"},
	{bands[1], "Sentidos", "Senses", schemas.Enveloping, "esconder y descubrir bajo telas", "hiding and revealing under cloths"},
	{bands[1], "Causa y efecto", "Cause and effect", "none", "golpear, sacudir y escuchar", "banging, shaking and listening"},

	// 9-13 months: containers and crawling.
	{bands[2], "Exploración", "Exploration", schemas.Enclosure, "meter y sacar de recipientes", "putting in and taking out of containers"},
	{bands[2], "Movimiento", "Movement", schemas.Transporting, "llevar objetos mientras gatea o camina", "carrying objects while crawling or cruising"},
	{bands[2], "Construcción", "Building", schemas.Connecting, "apilar dos o tres piezas grandes", "stacking two or three large pieces"},
	{bands[2], "Sentidos", "Senses", schemas.Trajectory, "rodar pelotas y seguirlas", "rolling balls and chasing them"},

	// 14-24 months: schemas in full bloom.
	{bands[3], "Construcción", "Building", schemas.Connecting, "unir, encajar y apilar bloques", "joining, slotting and stacking blocks"},
	{bands[3], "Movimiento", "Movement", schemas.Transporting, "trasladar colecciones en cestas y carritos", "moving collections in baskets and carts"},
	{bands[3], "Orden", "Order", schemas.Positioning, "alinear juguetes y clasificar por lugar", "lining up toys and placing by spot"},
	{bands[3], "Arte", "Art", schemas.Transforming, "mezclar colores y masas seguras", "mixing safe colors and doughs"},

	// 25-36 months: pretend and process.
	{bands[4], "Juego simbólico", "Pretend play", schemas.Enveloping, "envolver muñecos y paquetes", "wrapping dolls and parcels"},
	{bands[4], "Construcción", "Building", schemas.Enclosure, "construir corrales, casas y cuevas", "building pens, houses and dens"},
	{bands[4], "Arte", "Art", schemas.Rotation, "círculos, molinetes y trazos giratorios", "circles, pinwheels and spinning marks"},
	{bands[4], "Orden", "Order", schemas.Positioning, "secuencias y patrones con objetos", "sequences and patterns with objects"},

	// 37-60 months: projects and planning.
	{bands[5], "Proyectos", "Projects", schemas.Connecting, "uniones con cinta, cuerda y broches", "joins with tape, string and fasteners"},
	{bands[5], "Ciencia", "Science", schemas.Transforming, "cocina simple y cambios de estado", "simple cooking and changes of state"},
	{bands[5], "Movimiento", "Movement", schemas.Trajectory, "puntería, rampas y circuitos", "aiming games, ramps and circuits"},
	{bands[5], "Orden", "Order", schemas.Positioning, "mapas, turnos y reglas propias", "maps, turns and invented rules"},
}
