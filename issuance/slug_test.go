package issuance

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Advanced Go Programming", "advanced-go-programming"},
		{"  José   Müller ", "jose-muller"},
		{"C++ & Rust: 101!", "c-rust-101"},
		{"Whitmore-Davenport", "whitmore-davenport"},
		{"Tabs\tand\nnewlines", "tabs-and-newlines"},
		{"数据库", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Jonathan Alexander Whitmore-Davenport",
		"Ça  va -- très bien",
		"--leading and trailing--",
		"ﬁnal Ｆｕｌｌｗｉｄｔｈ",
		"a - b",
	}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Fatalf("Slugify not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFilename(t *testing.T) {
	got := Filename("CERT-20240101-ab12", "Intro to Go", "Ada Lovelace")
	if got != "CERT-20240101-ab12-intro-to-go-ada-lovelace.png" {
		t.Fatalf("Filename = %q", got)
	}

	long := strings.Repeat("word ", 30)
	got = Filename("X 1", long, "n")
	if strings.ContainsAny(got, " \t") {
		t.Fatalf("whitespace not stripped: %q", got)
	}
	parts := strings.SplitN(strings.TrimPrefix(got, "X1-"), "-n.png", 2)
	if len(parts[0]) != 50 {
		t.Fatalf("course slug not truncated to 50: %q (%d)", parts[0], len(parts[0]))
	}
}

func TestFormatID(t *testing.T) {
	now := time.Date(2024, 7, 9, 23, 0, 0, 0, time.UTC)
	if got := FormatID("", now, "zz01"); got != "CERT-20240709-zz01" {
		t.Fatalf("FormatID = %q", got)
	}
	if got := FormatID("ACME-", now, "0000"); got != "ACME-20240709-0000" {
		t.Fatalf("FormatID = %q", got)
	}
}

func TestRandomIDs(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	id := RandomIDs{}.NewID("", now)
	if !strings.HasPrefix(id, "CERT-20240102-") {
		t.Fatalf("unexpected id %q", id)
	}
	suffix := strings.TrimPrefix(id, "CERT-20240102-")
	if len(suffix) != 4 {
		t.Fatalf("suffix length = %d", len(suffix))
	}
	for _, r := range suffix {
		if !strings.ContainsRune(base36, r) {
			t.Fatalf("suffix %q not base36", suffix)
		}
	}
}
