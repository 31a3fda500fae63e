package content

import "testing"

func TestBandForBoundaries(t *testing.T) {
	cases := []struct {
		months int
		want   string
		ok     bool
	}{
		{0, "0-4", true},
		{4, "0-4", true},
		{5, "5-8", true},
		{13, "9-13", true},
		{14, "14-24", true},
		{24, "14-24", true},
		{25, "25-36", true},
		{60, "37-60", true},
		{61, "", false},
		{-1, "", false},
	}
	for _, tc := range cases {
		band, ok := BandFor(tc.months)
		if ok != tc.ok {
			t.Fatalf("BandFor(%d) ok=%v, want %v", tc.months, ok, tc.ok)
		}
		if ok && band.Label() != tc.want {
			t.Fatalf("BandFor(%d) = %s, want %s", tc.months, band.Label(), tc.want)
		}
	}
}

func TestEveryBandHasFourVariants(t *testing.T) {
	for _, band := range Bands() {
		vs := Variants(band)
		if len(vs) != 4 {
			t.Fatalf("band %s has %d variants, want 4", band.Label(), len(vs))
		}
		for _, v := range vs {
			if v.DomainES == "" || v.DomainEN == "" || v.FocusES == "" || v.FocusEN == "" {
				t.Fatalf("band %s variant missing language fields: %+v", band.Label(), v)
			}
		}
	}
}

func TestParseBandLabel(t *testing.T) {
	band, ok := ParseBandLabel("14-24")
	if !ok || band.MinMonths != 14 || band.MaxMonths != 24 {
		t.Fatalf("ParseBandLabel(14-24) = %+v, %v", band, ok)
	}
	if _, ok := ParseBandLabel("1-2"); ok {
		t.Fatalf("ParseBandLabel accepted unknown label")
	}
}
