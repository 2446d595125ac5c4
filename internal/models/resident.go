// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultRole is assigned to newly registered residents.
const DefaultRole = "Morador"

// DefaultRoles seeds the role suggestion list.
var DefaultRoles = []string{"Morador", "Presidente", "Vice-Presidente", "Tesoureiro", "Secretário", "Diretor"}

// minRoleLength is the shortest typed role worth remembering; shorter
// values are usually a role still being typed.
const minRoleLength = 3

// IsNewRole reports whether role should be added to the suggestion list:
// it is long enough and not already known.
func IsNewRole(role string, known []string) bool {
	return utf8.RuneCountInString(role) >= minRoleLength && !slices.Contains(known, role)
}

// Resident is the card holder. Dates are kept as the free text the
// association types on the card (e.g. "01/02/1980").
type Resident struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Role             string  `json:"role"`
	CPF              string  `json:"cpf"`
	RG               string  `json:"rg"`
	Address          string  `json:"address"`
	BirthDate        string  `json:"birthDate"`
	RegistrationDate string  `json:"registrationDate"`
	PhotoURL         *string `json:"photoUrl"`
}

// NewResident returns a blank resident with a fresh identifier, the default
// role and today's registration stamp.
func NewResident(now time.Time) Resident {
	return Resident{
		ID:               uuid.NewString(),
		Role:             DefaultRole,
		RegistrationDate: now.Format("02/01/2006"),
	}
}

// HasPhoto reports whether a photo source is set.
func (r *Resident) HasPhoto() bool {
	return r.PhotoURL != nil && *r.PhotoURL != ""
}

// Lookup returns the value of a resident attribute. The boolean is false
// when the field is not a resident attribute or the value is absent.
func (r *Resident) Lookup(f Field) (string, bool) {
	var v string
	switch f {
	case FieldID:
		v = r.ID
	case FieldName:
		v = r.Name
	case FieldRole:
		v = r.Role
	case FieldCPF:
		v = r.CPF
	case FieldRG:
		v = r.RG
	case FieldAddress:
		v = r.Address
	case FieldBirthDate:
		v = r.BirthDate
	case FieldRegistrationDate:
		v = r.RegistrationDate
	case FieldPhotoURL:
		if r.PhotoURL == nil {
			return "", false
		}
		v = *r.PhotoURL
	default:
		return "", false
	}
	return v, v != ""
}

// Set writes a writable attribute. It returns false for read-only or
// computed fields and leaves the resident unchanged.
func (r *Resident) Set(f Field, value string) bool {
	switch f {
	case FieldName:
		r.Name = value
	case FieldRole:
		r.Role = value
	case FieldCPF:
		r.CPF = value
	case FieldRG:
		r.RG = value
	case FieldAddress:
		r.Address = value
	case FieldBirthDate:
		r.BirthDate = value
	case FieldRegistrationDate:
		r.RegistrationDate = value
	default:
		return false
	}
	return true
}
