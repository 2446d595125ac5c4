package card

import (
	"testing"

	"idcards/internal/models"
)

// TestMandateText covers the mandate line and its fallback.
func TestMandateText(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{name: "range", start: "2025-11", end: "2027-10", want: "Mandato: nov 2025 a out 2027"},
		{name: "january", start: "2024-01", end: "2026-12", want: "Mandato: jan 2024 a dez 2026"},
		{name: "missing start", start: "", end: "2027-10", want: FallbackMandate},
		{name: "missing end", start: "2025-11", end: "", want: FallbackMandate},
		{name: "bad month", start: "2025-13", end: "2027-10", want: FallbackMandate},
		{name: "bad year", start: "25-11", end: "2027-10", want: FallbackMandate},
		{name: "full date", start: "2025-11-01", end: "2027-10", want: FallbackMandate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MandateText(models.Management{MandateStart: tt.start, MandateEnd: tt.end})
			if got != tt.want {
				t.Errorf("MandateText(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

// TestFooterText covers address and CNPJ combinations.
func TestFooterText(t *testing.T) {
	addr := models.Address{Street: "Rua A", Number: "5", City: "Piraí", State: "RJ"}
	tests := []struct {
		name string
		a    models.Association
		want string
	}{
		{name: "empty", a: models.Association{}, want: "Endereço da Sede"},
		{name: "address", a: models.Association{Address: addr}, want: "Rua A, 5 - Piraí/RJ"},
		{name: "cnpj only", a: models.Association{CNPJ: "1"}, want: "Endereço da Sede • CNPJ: 1"},
		{name: "both", a: models.Association{Address: addr, CNPJ: "1"}, want: "Rua A, 5 - Piraí/RJ • CNPJ: 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FooterText(tt.a); got != tt.want {
				t.Errorf("FooterText() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestLocation falls back unless both city and state are set.
func TestLocation(t *testing.T) {
	if got := Location(models.Association{Address: models.Address{City: "Piraí"}}); got != DefaultLocation {
		t.Errorf("Location(city only) = %q", got)
	}
	if got := Location(models.Association{Address: models.Address{City: "Piraí", State: "RJ"}}); got != "Piraí - RJ" {
		t.Errorf("Location() = %q", got)
	}
}

// TestDisplayTextUppercase verifies accented upper-casing.
func TestDisplayTextUppercase(t *testing.T) {
	n := Node{Content: "joão", Style: Style{Uppercase: true}}
	if got := n.DisplayText(); got != "JOÃO" {
		t.Errorf("DisplayText() = %q, want JOÃO", got)
	}
}
