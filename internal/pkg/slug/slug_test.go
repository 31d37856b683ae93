package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain title", in: "Ujian Akhir Semester", want: "ujian-akhir-semester"},
		{name: "punctuation runs", in: "  Hari Guru!!  2024 -- Selamat  ", want: "hari-guru-2024-selamat"},
		{name: "diacritics", in: "Café Crème Brûlée", want: "cafe-creme-brulee"},
		{name: "already a slug", in: "lab-komputer-1", want: "lab-komputer-1"},
		{name: "upper case", in: "OSIS", want: "osis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.in); got != tt.want {
				t.Fatalf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMakeDeterministic(t *testing.T) {
	for _, in := range []string{"Pentas Seni 2024", "!!!", "", "日本語"} {
		a, b := Make(in), Make(in)
		if a != b {
			t.Fatalf("Make(%q) not deterministic: %q vs %q", in, a, b)
		}
		if a == "" {
			t.Fatalf("Make(%q) returned empty slug", in)
		}
	}
}

func TestMakePlaceholder(t *testing.T) {
	got := Make("???")
	if !strings.HasPrefix(got, "item-") || len(got) != len("item-")+8 {
		t.Fatalf("Make(???) = %q, want item-xxxxxxxx", got)
	}
	if Make("???") == Make("!!!") {
		t.Fatalf("different inputs should produce different placeholders")
	}
}

func TestMakeMaxLen(t *testing.T) {
	got := Make(strings.Repeat("abc ", 100))
	if len(got) > MaxLen {
		t.Fatalf("len = %d, want <= %d", len(got), MaxLen)
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("slug %q ends with a hyphen", got)
	}
}

func TestWithSuffix(t *testing.T) {
	if got := WithSuffix("pentas-seni", 1); got != "pentas-seni" {
		t.Fatalf("n=1: got %q", got)
	}
	if got := WithSuffix("pentas-seni", 3); got != "pentas-seni-3" {
		t.Fatalf("n=3: got %q", got)
	}
	long := strings.Repeat("a", MaxLen)
	got := WithSuffix(long, 12)
	if len(got) > MaxLen || !strings.HasSuffix(got, "-12") {
		t.Fatalf("long suffix: got %q (len %d)", got, len(got))
	}
}

func TestNewUUID(t *testing.T) {
	a, b := NewUUID(), NewUUID()
	if len(a) != 36 || a == b {
		t.Fatalf("unexpected uuids %q %q", a, b)
	}
}
