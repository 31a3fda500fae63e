package apierr

import (
	"fmt"
	"net/http"
	"testing"
)

func TestFromUnwrapsThroughChain(t *testing.T) {
	inner := New(http.StatusNotFound, "child_not_found", fmt.Errorf("child not found"))
	wrapped := fmt.Errorf("loading feed: %w", inner)

	got, ok := From(wrapped)
	if !ok {
		t.Fatal("From must find the status error inside a wrapped chain")
	}
	if got.Status != http.StatusNotFound || got.Code != "child_not_found" {
		t.Errorf("got status=%d code=%q", got.Status, got.Code)
	}
}

func TestFromPlainError(t *testing.T) {
	if _, ok := From(fmt.Errorf("connection refused")); ok {
		t.Error("plain errors must not carry a status")
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{"wrapped error wins", New(400, "bad", fmt.Errorf("boom")), "boom"},
		{"code when no error", &Error{Status: 400, Code: "bad"}, "bad"},
		{"status when nothing else", &Error{Status: 418}, "api error (418)"},
		{"zero value", &Error{}, "api error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}
