package slug

import "testing"

// TestGenerate exercises the slug generator with names as typed on cards.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "accented name", input: "João da Silva", want: "joao-da-silva"},
		{name: "cedilla and tilde", input: "Conceição Araújo", want: "conceicao-araujo"},
		{name: "punctuation marks", input: "Hello, World!", want: "hello-world"},
		{name: "multiple consecutive spaces collapsed", input: "a   b", want: "a-b"},
		{name: "leading and trailing spaces", input: "  Maria  ", want: "maria"},
		{name: "hyphens and spaces mixed", input: "Ana - Maria", want: "ana-maria"},
		{name: "only special characters", input: "!@#$%", want: ""},
		{name: "emoji stripped", input: "Zé 🎉", want: "ze"},
		{name: "empty string", input: "", want: ""},
		{name: "numbers", input: "Lote 12 Casa 3", want: "lote-12-casa-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFilename keeps case and spaces while dropping unsafe characters.
func TestFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "João da Silva", want: "Joao da Silva"},
		{input: "Ana Maria / Conceição", want: "Ana Maria Conceicao"},
		{input: `a"b\c`, want: "abc"},
		{input: "Dr. José-Luis", want: "Dr. Jose-Luis"},
		{input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Filename(tt.input); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestFold strips combining marks only.
func TestFold(t *testing.T) {
	if got := Fold("Piraí São Ñ"); got != "Pirai Sao N" {
		t.Errorf("Fold() = %q", got)
	}
}
