package identity

import (
	"strings"
	"testing"
)

func TestNormalizeName_WhitespaceAndCase(t *testing.T) {
	got := NormalizeName("  Sign   Up\tNow  ")
	want := "sign up now"
	if got != want {
		t.Errorf("NormalizeName: got %q, want %q", got, want)
	}
}

func TestNormalizeName_StripsInvisible(t *testing.T) {
	raw := "sub​mit‌"
	got := NormalizeName(raw)
	if strings.ContainsAny(got, "​‌") {
		t.Errorf("NormalizeName: invisible characters survived: %q", got)
	}
	if got != "submit" {
		t.Errorf("NormalizeName: got %q, want %q", got, "submit")
	}
}

func TestNormalizeName_CapsAtMaxGraphemes(t *testing.T) {
	long := strings.Repeat("a", MaxNameLength+50)
	got := NormalizeName(long)
	if len([]rune(got)) != MaxNameLength {
		t.Errorf("NormalizeName: got length %d, want %d", len([]rune(got)), MaxNameLength)
	}
}

func TestNormalizeName_NFKC(t *testing.T) {
	// U+FF21 FULLWIDTH LATIN CAPITAL LETTER A should normalize toward
	// its compatibility decomposition and then lowercase to "a".
	got := NormalizeName("Ａ")
	if got != "a" {
		t.Errorf("NormalizeName: got %q, want %q", got, "a")
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	once := NormalizeName("  Checkout  Now ")
	twice := NormalizeName(once)
	if once != twice {
		t.Errorf("NormalizeName not idempotent: %q != %q", once, twice)
	}
}
