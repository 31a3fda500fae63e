package content

import (
	"regexp"
	"strconv"
	"strings"
)

// Title suffix markers, stripped in this exact order. Every dedup call
// site (generation-time check, read-time merge, pruning) must go through
// CanonicalTitleKey; a second implementation anywhere would make
// duplicate detection disagree with itself.
var (
	refillSuffixRe  = regexp.MustCompile(`(?i)\s*·\s*refill-[^·]*$`)
	versionSuffixRe = regexp.MustCompile(`(?i)\s*·\s*v\d+\s*$`)
	batchSuffixRe   = regexp.MustCompile(`(?i)\s*·\s*b\d+(?:-[^·]*)?\s*$`)
	trailingDigitRe = regexp.MustCompile(`\d{10,}\s*$`)
	nonAlnumRe      = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	multiSpaceRe    = regexp.MustCompile(`\s+`)

	batchMarkerRe = regexp.MustCompile(`B\d`)
	versionTailRe = regexp.MustCompile(`(?i)·\s*v\d+\s*$`)
)

// CanonicalTitleKey reduces a stored title to its content identity: two
// titles are the same item iff their keys are equal. Batch, refill and
// version suffixes, embedded timestamps, punctuation and case are all
// invisible to the key.
func CanonicalTitleKey(title string) string {
	s := strings.TrimSpace(title)
	s = refillSuffixRe.ReplaceAllString(s, "")
	s = versionSuffixRe.ReplaceAllString(s, "")
	s = batchSuffixRe.ReplaceAllString(s, "")
	s = trailingDigitRe.ReplaceAllString(s, "")
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, " ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NoiseScore ranks near-duplicate rows for pruning: higher means uglier.
// Within a duplicate group the lowest score (ties: oldest row) survives.
func NoiseScore(title string) float64 {
	score := 0.0
	if strings.Contains(strings.ToLower(title), "refill-") {
		score += 100
	}
	if batchMarkerRe.MatchString(title) {
		score += 30
	}
	if versionTailRe.MatchString(title) {
		score += 20
	}
	if trailingDigitRe.MatchString(strings.TrimSpace(title)) {
		score += 15
	}
	if n := len(title); n > 90 {
		score += float64(n-90) / 10
	}
	return score
}

// BatchTitle appends the storage-uniqueness suffix to a generated title.
// The suffix is deterministic for a (batch label, index) pair and is
// invisible to CanonicalTitleKey.
func BatchTitle(title, batchLabel string, index int) string {
	return strings.TrimSpace(title) + " · " + batchLabel + "-" + strconv.Itoa(index)
}
