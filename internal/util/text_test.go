package util

import "testing"

func TestNormalize_StripsAccentsAndCase(t *testing.T) {
	cases := map[string]string{
		"Córdoba":              "cordoba",
		"  SAN MARTÍN  ":       "san martin",
		"Año de Creación":      "ano de creacion",
		"":                     "",
		"   ":                  "",
		"Entre Ríos":           "entre rios",
		"ñandú":                "nandu",
		"ya-normalizado 123":   "ya-normalizado 123",
		"ÁÉÍÓÚ áéíóú ÜÑ":       "aeiou aeiou un",
	}

	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q)=%q want %q", in, got, want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := "Instituto San Martín"
	once := Normalize(in)
	twice := Normalize(once)
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}
