package models

import (
	"errors"
	"testing"
	"time"
)

// TestParseField verifies the closed field set.
func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{in: "cpf", want: FieldCPF},
		{in: " name ", want: FieldName},
		{in: "mandate", want: FieldMandate},
		{in: "associationName", want: FieldAssociationName},
		{in: "CPF", wantErr: true},
		{in: "", wantErr: true},
		{in: "nickname", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownField) {
					t.Errorf("ParseField(%q) error = %v, want ErrUnknownField", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseField(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

// TestFieldClassification checks Computed and Writable.
func TestFieldClassification(t *testing.T) {
	for _, f := range ResidentFields {
		if !f.Writable() || f.Computed() {
			t.Errorf("%s: Writable=%v Computed=%v", f, f.Writable(), f.Computed())
		}
	}
	for _, f := range []Field{FieldAssociationName, FieldMandate} {
		if f.Writable() || !f.Computed() {
			t.Errorf("%s: Writable=%v Computed=%v", f, f.Writable(), f.Computed())
		}
	}
	if FieldID.Writable() || FieldPhotoURL.Writable() {
		t.Error("id and photoUrl must not be writable")
	}
	if FieldBirthDate.Label() != "BIRTHDATE" {
		t.Errorf("Label() = %q", FieldBirthDate.Label())
	}
}

// TestResidentLookup verifies the explicit field lookup.
func TestResidentLookup(t *testing.T) {
	photo := "data:image/png;base64,AA"
	r := Resident{ID: "r1", Name: "Maria", CPF: "123.456.789-00", PhotoURL: &photo}

	tests := []struct {
		f      Field
		want   string
		wantOK bool
	}{
		{f: FieldName, want: "Maria", wantOK: true},
		{f: FieldCPF, want: "123.456.789-00", wantOK: true},
		{f: FieldRG, want: "", wantOK: false},
		{f: FieldPhotoURL, want: photo, wantOK: true},
		{f: FieldMandate, want: "", wantOK: false},
		{f: Field("bogus"), want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.f), func(t *testing.T) {
			got, ok := r.Lookup(tt.f)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup(%s) = %q, %v; want %q, %v", tt.f, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestResidentSet verifies that only writable fields change.
func TestResidentSet(t *testing.T) {
	r := NewResident(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	if r.Role != DefaultRole || r.RegistrationDate != "04/05/2026" || r.ID == "" {
		t.Fatalf("NewResident() = %+v", r)
	}

	if !r.Set(FieldName, "João") || r.Name != "João" {
		t.Errorf("Set(name) failed: %+v", r)
	}
	id := r.ID
	if r.Set(FieldID, "other") || r.ID != id {
		t.Error("Set(id) must be rejected")
	}
	if r.Set(FieldMandate, "x") {
		t.Error("Set(mandate) must be rejected")
	}
}

// TestPhotoSettingsClamped verifies the zoom bounds.
func TestPhotoSettingsClamped(t *testing.T) {
	tests := []struct {
		zoom, want float64
	}{
		{0, 1}, {0.1, MinPhotoZoom}, {1.5, 1.5}, {9, MaxPhotoZoom},
	}
	for _, tt := range tests {
		got := PhotoSettings{Zoom: tt.zoom, X: 3}.Clamped()
		if got.Zoom != tt.want || got.X != 3 {
			t.Errorf("Clamped(%v) = %+v, want zoom %v", tt.zoom, got, tt.want)
		}
	}
}

// TestIsNewRole covers role discovery: more than two characters and not
// already in the list.
func TestIsNewRole(t *testing.T) {
	known := DefaultRoles
	tests := []struct {
		role string
		want bool
	}{
		{"Conselheiro", true},
		{"Morador", false},
		{"Pr", false},
		{"Só", false},
		{"Sóc", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsNewRole(tt.role, known); got != tt.want {
			t.Errorf("IsNewRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}
