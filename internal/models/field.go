// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned when a field name is not part of the closed
// set of bindable resident attributes and pseudo-fields.
var ErrUnknownField = errors.New("unknown field")

// Field names a value a card element can be bound to. The set is closed:
// every constant below is resolved by an explicit switch, so a typo in Go
// code fails to compile instead of silently rendering nothing.
type Field string

const (
	FieldID               Field = "id"
	FieldName             Field = "name"
	FieldRole             Field = "role"
	FieldCPF              Field = "cpf"
	FieldRG               Field = "rg"
	FieldAddress          Field = "address"
	FieldBirthDate        Field = "birthDate"
	FieldRegistrationDate Field = "registrationDate"
	FieldPhotoURL         Field = "photoUrl"

	// Pseudo-fields computed from the association data.
	FieldAssociationName Field = "associationName"
	FieldMandate         Field = "mandate"
)

// allFields lists every valid Field in declaration order.
var allFields = []Field{
	FieldID, FieldName, FieldRole, FieldCPF, FieldRG, FieldAddress,
	FieldBirthDate, FieldRegistrationDate, FieldPhotoURL,
	FieldAssociationName, FieldMandate,
}

// ResidentFields are the attributes offered as one-click bindings in the
// template editor.
var ResidentFields = []Field{
	FieldName, FieldRole, FieldCPF, FieldRG, FieldAddress,
	FieldBirthDate, FieldRegistrationDate,
}

// ParseField converts a raw name into a Field, rejecting unknown names.
func ParseField(s string) (Field, error) {
	f := Field(strings.TrimSpace(s))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	return f, nil
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	for _, known := range allFields {
		if f == known {
			return true
		}
	}
	return false
}

// Computed reports whether f is derived from association data rather than
// read from the resident.
func (f Field) Computed() bool {
	return f == FieldAssociationName || f == FieldMandate
}

// Writable reports whether direct edits on a card may change this field.
func (f Field) Writable() bool {
	switch f {
	case FieldName, FieldRole, FieldCPF, FieldRG, FieldAddress,
		FieldBirthDate, FieldRegistrationDate:
		return true
	}
	return false
}

// Label is the editor caption derived from the field name.
func (f Field) Label() string {
	return strings.ToUpper(string(f))
}
