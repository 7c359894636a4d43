package slug_test

import (
	"testing"

	"rehab/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"Ana Pérez", "ana-perez"},
		{"  O'Brien,  John ", "obrien-john"},
		{"Иван Петров", "иван-петров"},
		{"G‘ofur G‘ulom", "gofur-gulom"},
		{"", "patient"},
		{"***", "patient"},
	}
	for _, tc := range cases {
		if got := slug.Make(tc.in); got != tc.want {
			t.Fatalf("Make(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
