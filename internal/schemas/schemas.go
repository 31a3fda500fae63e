package schemas

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/semillitas/semillitas-backend/internal/observability"
)

// Canonical developmental-schema keys. The set is closed: anything that
// does not map here is dropped by the normalizer.
const (
	Trajectory   = "trajectory"
	Rotation     = "rotation"
	Enclosure    = "enclosure"
	Enveloping   = "enveloping"
	Transporting = "transporting"
	Connecting   = "connecting"
	Transforming = "transforming"
	Positioning  = "positioning"
)

func Canonical() []string {
	return []string{
		Trajectory, Rotation, Enclosure, Enveloping,
		Transporting, Connecting, Transforming, Positioning,
	}
}

func IsCanonical(key string) bool {
	_, ok := aliases[key]
	return ok && aliases[key] == key
}

// aliases maps normalized legacy labels (English, Spanish, verb forms)
// to canonical keys. Keys here are already in post-pipeline form:
// lowercase, diacritics stripped, letters and single spaces only.
var aliases = map[string]string{
	Trajectory:   Trajectory,
	Rotation:     Rotation,
	Enclosure:    Enclosure,
	Enveloping:   Enveloping,
	Transporting: Transporting,
	Connecting:   Connecting,
	Transforming: Transforming,
	Positioning:  Positioning,

	// English verb/noun variants.
	"throwing":           Trajectory,
	"dropping":           Trajectory,
	"trajectories":       Trajectory,
	"spinning":           Rotation,
	"rotating":           Rotation,
	"enclosing":          Enclosure,
	"containing":         Enclosure,
	"wrapping":           Enveloping,
	"covering":           Enveloping,
	"hiding":             Enveloping,
	"carrying":           Transporting,
	"transport":          Transporting,
	"joining":            Connecting,
	"connection":         Connecting,
	"mixing":             Transforming,
	"transformation":     Transforming,
	"ordering":           Positioning,
	"lining up":          Positioning,
	"positioning things": Positioning,

	// Spanish variants (post-pipeline, diacritics already stripped).
	"trayectoria":     Trajectory,
	"lanzar":          Trajectory,
	"lanzamiento":     Trajectory,
	"rotacion":        Rotation,
	"girar":           Rotation,
	"giro":            Rotation,
	"cierre":          Enclosure,
	"encierro":        Enclosure,
	"contener":        Enclosure,
	"envolver":        Enveloping,
	"envolvimiento":   Enveloping,
	"envoltura":       Enveloping,
	"cubrir":          Enveloping,
	"transporte":      Transporting,
	"transportar":     Transporting,
	"llevar":          Transporting,
	"conexion":        Connecting,
	"conectar":        Connecting,
	"unir":            Connecting,
	"transformacion":  Transforming,
	"transformar":     Transforming,
	"mezclar":         Transforming,
	"posicionamiento": Positioning,
	"posicionar":      Positioning,
	"ordenar":         Positioning,
	"alinear":         Positioning,
}

var aliasesNoSpace = func() map[string]string {
	m := make(map[string]string, len(aliases))
	for k, v := range aliases {
		m[strings.ReplaceAll(k, " ", "")] = v
	}
	return m
}()

var (
	schemaWordRe = regexp.MustCompile(`(?i)\b(schema|esquema)s?\b`)
	nonLetterRe  = regexp.MustCompile(`[^a-z]+`)
	spacesRe     = regexp.MustCompile(`\s+`)

	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize maps an arbitrary label to a canonical schema key. The second
// return is false when the input cannot be mapped; callers drop such
// values silently, and the miss is recorded in the unmapped counter so
// the data loss stays observable.
func Normalize(input any) (string, bool) {
	s, ok := input.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}

	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(deaccent, s); err == nil {
		s = folded
	}
	s = schemaWordRe.ReplaceAllString(s, " ")
	s = nonLetterRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
	if s == "" {
		observability.Current().IncSchemaUnmapped()
		return "", false
	}

	if key, ok := aliases[s]; ok {
		return key, true
	}
	// Retry with internal whitespace removed ("lining up" vs "liningup").
	if key, ok := aliasesNoSpace[strings.ReplaceAll(s, " ", "")]; ok {
		return key, true
	}

	observability.Current().IncSchemaUnmapped()
	return "", false
}

// NormalizeList maps every element, drops misses, and deduplicates.
// Result order follows first successful match during iteration.
func NormalizeList(inputs []any) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, in := range inputs {
		key, ok := Normalize(in)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// NormalizeStrings is NormalizeList for a plain string slice.
func NormalizeStrings(inputs []string) []string {
	anys := make([]any, len(inputs))
	for i := range inputs {
		anys[i] = inputs[i]
	}
	return NormalizeList(anys)
}
