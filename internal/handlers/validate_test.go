package handlers

import (
	"strings"
	"testing"
	"time"

	"idcards/internal/models"
)

func strPtr(s string) *string { return &s }

func TestValidateTemplate(t *testing.T) {
	valid := func() *models.Layout {
		l := models.NewLayout(time.Now())
		l.Name = "Carteirinha"
		l.Elements = []models.Element{{
			ID: "a", Type: models.ElementText, Content: "Sócio", Width: 100, Height: 20, ZIndex: 1,
		}}
		return l
	}

	tests := []struct {
		name      string
		mutate    func(l *models.Layout)
		wantError bool
	}{
		{"valid", func(l *models.Layout) {}, false},
		{"empty name", func(l *models.Layout) { l.Name = "" }, true},
		{"whitespace name", func(l *models.Layout) { l.Name = "   " }, true},
		{"name too long", func(l *models.Layout) { l.Name = strings.Repeat("a", 201) }, true},
		{"zero canvas", func(l *models.Layout) { l.Width = 0 }, true},
		{"bad element", func(l *models.Layout) { l.Elements[0].Width = 0 }, true},
		{"too many elements", func(l *models.Layout) {
			for i := 0; i < maxElements; i++ {
				l.Elements = append(l.Elements, l.Elements[0])
			}
		}, true},
		{"data url background", func(l *models.Layout) { l.BackgroundURL = strPtr("data:image/png;base64,iVBORw0KGgo=") }, false},
		{"https background", func(l *models.Layout) { l.BackgroundURL = strPtr("https://cdn.example.com/bg.png") }, false},
		{"script background", func(l *models.Layout) { l.BackgroundURL = strPtr("javascript:alert(1)") }, true},
		{"text data url background", func(l *models.Layout) { l.BackgroundURL = strPtr("data:text/html;base64,PGI+") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := valid()
			tt.mutate(l)
			result := validateTemplate(l)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateFieldValue(t *testing.T) {
	if msg := validateFieldValue("João da Silva"); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
	// Limits count characters, not bytes.
	if msg := validateFieldValue(strings.Repeat("ã", maxFieldValueLen)); msg != "" {
		t.Errorf("300 accented characters rejected: %s", msg)
	}
	if validateFieldValue(strings.Repeat("a", maxFieldValueLen+1)) == "" {
		t.Error("expected an error for a 301 character value")
	}
}

func TestValidateRole(t *testing.T) {
	tests := []struct {
		role      string
		wantError bool
	}{
		{"Conselheiro", false},
		{"", true},
		{"   ", true},
		{strings.Repeat("a", 61), true},
	}
	for _, tt := range tests {
		result := validateRole(tt.role)
		if tt.wantError && result == "" {
			t.Errorf("validateRole(%q): expected an error", tt.role)
		}
		if !tt.wantError && result != "" {
			t.Errorf("validateRole(%q): unexpected error %s", tt.role, result)
		}
	}
}

func TestValidateSettings(t *testing.T) {
	s := &models.Settings{Association: models.Association{Name: "Associação de Moradores"}}
	if msg := validateSettings(s); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
	s.Logo = strPtr("ftp://example.com/logo.png")
	if validateSettings(s) == "" {
		t.Error("expected an error for an ftp logo")
	}
	s.Logo = strPtr("")
	if msg := validateSettings(s); msg != "" {
		t.Errorf("empty logo rejected: %s", msg)
	}
	s.Association.Name = strings.Repeat("a", 201)
	if validateSettings(s) == "" {
		t.Error("expected an error for a long name")
	}
}
