package astroprint

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTrimBody(t *testing.T) {
	short := "  printer busy  "
	if got := trimBody([]byte(short)); got != "printer busy" {
		t.Fatalf("trimBody(short) = %q", got)
	}

	exact := strings.Repeat("a", bodyLimit)
	if got := trimBody([]byte(exact)); got != exact {
		t.Fatalf("trimBody(exact) changed a body of %d bytes", bodyLimit)
	}

	// "é" is two bytes, so byte bodyLimit falls inside a rune.
	long := "x" + strings.Repeat("é", bodyLimit)
	got := trimBody([]byte(long))
	if !utf8.ValidString(got) {
		t.Fatalf("trimBody split a rune: %q", got[len(got)-8:])
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("trimBody(long) = %q, want ... suffix", got)
	}
	if body := strings.TrimSuffix(got, "..."); len(body) != bodyLimit-1 {
		t.Fatalf("kept %d bytes, want %d", len(body), bodyLimit-1)
	}
}
