package htmltext

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "<p>Hello <strong>world</strong></p>", want: "Hello world"},
		{in: "<p>One</p><p>Two</p>", want: "One Two"},
		{in: "Fish &amp; chips", want: "Fish & chips"},
		{in: "<script>alert(1)</script>Safe", want: "Safe"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExcerptTruncates(t *testing.T) {
	content := "<p>" + strings.Repeat("é", 250) + "</p>"
	got := Excerpt(content, FormatHTML)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != ExcerptLength {
		t.Fatalf("excerpt has %d runes, want %d", n, ExcerptLength)
	}
}

func TestExcerptShortContent(t *testing.T) {
	if got := Excerpt("<p>Jadwal ujian</p>", FormatHTML); got != "Jadwal ujian" {
		t.Fatalf("got %q", got)
	}
}

func TestExcerptMarkdown(t *testing.T) {
	got := Excerpt("# Judul\n\nIni **penting**.", FormatMarkdown)
	if got != "Judul Ini penting." {
		t.Fatalf("got %q", got)
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<p onclick="x()">ok</p><script>bad()</script>`)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("unsafe markup kept: %q", got)
	}
	if !strings.Contains(got, "<p>ok</p>") {
		t.Fatalf("safe markup lost: %q", got)
	}
}
