package schemas

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
		ok    bool
	}{
		{name: "canonical_passthrough", input: "trajectory", want: "trajectory", ok: true},
		{name: "uppercase_accented_spanish", input: "ROTACIÓN", want: "rotation", ok: true},
		{name: "verb_form", input: "throwing", want: "trajectory", ok: true},
		{name: "schema_word_stripped", input: "rotation schema", want: "rotation", ok: true},
		{name: "esquema_word_stripped", input: "esquema conexión", want: "connecting", ok: true},
		{name: "trailing_space", input: "TRAJECTORY ", want: "trajectory", ok: true},
		{name: "spanish_enveloping", input: "envolver", want: "enveloping", ok: true},
		{name: "multiword_despace_retry", input: "lining  up", want: "positioning", ok: true},
		{name: "garbage", input: "unknown-garbage", want: "", ok: false},
		{name: "empty", input: "", want: "", ok: false},
		{name: "non_string", input: 42, want: "", ok: false},
		{name: "nil", input: nil, want: "", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Normalize(tc.input)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("Normalize(%v) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestNormalizeListDedupsAcrossAliases(t *testing.T) {
	got := NormalizeList([]any{"trajectory", "throwing", "TRAJECTORY "})
	want := []string{"trajectory"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
}

func TestNormalizeListDropsMissesKeepsOrder(t *testing.T) {
	got := NormalizeList([]any{"girar", "nonsense", "envolver", "spinning"})
	want := []string{"rotation", "enveloping"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
}

func TestNormalizeStrings(t *testing.T) {
	got := NormalizeStrings([]string{"conectar", "posicionamiento"})
	want := []string{"connecting", "positioning"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeStrings = %v, want %v", got, want)
	}
}
