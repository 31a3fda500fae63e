package content

import "testing"

func TestCanonicalTitleKeyIgnoresBatchSuffix(t *testing.T) {
	base := "Torres que caen"
	if got, want := CanonicalTitleKey(base+" · B123-4"), CanonicalTitleKey(base); got != want {
		t.Fatalf("batch suffix changed key: %q != %q", got, want)
	}
}

func TestCanonicalTitleKeyIgnoresRefillSuffix(t *testing.T) {
	base := "Torres que caen"
	if got, want := CanonicalTitleKey(base+" · refill-0-4-es"), CanonicalTitleKey(base); got != want {
		t.Fatalf("refill suffix changed key: %q != %q", got, want)
	}
}

func TestCanonicalTitleKeyIgnoresVersionAndTimestamp(t *testing.T) {
	base := "Cajas sorpresa"
	cases := []string{
		base + " · v2",
		base + " 1700000000123",
		base + " · B99-refill",
	}
	want := CanonicalTitleKey(base)
	for _, c := range cases {
		if got := CanonicalTitleKey(c); got != want {
			t.Fatalf("CanonicalTitleKey(%q) = %q, want %q", c, got, want)
		}
	}
}

func TestCanonicalTitleKeyIdempotent(t *testing.T) {
	titles := []string{
		"Torres que caen · B123-4",
		"¡Rueda, pelota! · refill-14-24-es",
		"Mix & Match Colors · v3",
		"Simple",
	}
	for _, title := range titles {
		once := CanonicalTitleKey(title)
		if twice := CanonicalTitleKey(once); twice != once {
			t.Fatalf("not idempotent for %q: %q -> %q", title, once, twice)
		}
	}
}

func TestCanonicalTitleKeyCaseAndPunctuation(t *testing.T) {
	if got, want := CanonicalTitleKey("  ¡Hola, Bebé!  "), CanonicalTitleKey("hola bebé"); got != want {
		t.Fatalf("case/punctuation changed key: %q != %q", got, want)
	}
}

func TestNoiseScoreOrdering(t *testing.T) {
	clean := "Torres que caen · B1-1"
	noisy := "Torres que caen · refill-x-1 · v2"
	if NoiseScore(noisy) <= NoiseScore(clean) {
		t.Fatalf("expected refill+version row to score above batch row: %v vs %v",
			NoiseScore(noisy), NoiseScore(clean))
	}
}

func TestNoiseScoreComponents(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  float64
	}{
		{name: "plain", title: "Torres que caen", want: 0},
		{name: "batch_marker", title: "Torres · B12-3", want: 30},
		{name: "refill_and_batch", title: "Torres · refill-a · B1-2", want: 130},
		{name: "version_tail", title: "Torres · v2", want: 20},
		{name: "timestamp_tail", title: "Torres 1700000000123", want: 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NoiseScore(tc.title); got != tc.want {
				t.Fatalf("NoiseScore(%q) = %v, want %v", tc.title, got, tc.want)
			}
		})
	}
}

func TestBatchTitleRoundTripsThroughKey(t *testing.T) {
	title := "Cestas de tesoros"
	stored := BatchTitle(title, "B170001", 3)
	if stored != "Cestas de tesoros · B170001-3" {
		t.Fatalf("unexpected stored title %q", stored)
	}
	if CanonicalTitleKey(stored) != CanonicalTitleKey(title) {
		t.Fatalf("batch title not invisible to canonical key")
	}
}
