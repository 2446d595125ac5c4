// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package card

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"idcards/internal/models"
)

// Fallback texts used when the association has not been configured.
const (
	DefaultAssociationName = "Associação de Moradores"
	DefaultLocation        = "Cacaria - Piraí - RJ"
	DefaultFooterAddress   = "Endereço da Sede"
	FallbackMandate        = "Mandato: Novembro 2025 / 2027"
	NoPhotoText            = "Sem Foto"
)

// Abbreviated month names as printed on Brazilian cards.
var monthAbbrev = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// MandateText formats the board mandate as "Mandato: nov 2025 a out 2027".
// Start and end use "YYYY-MM"; if either is missing or malformed the
// fallback line is returned instead of a broken range.
func MandateText(m models.Management) string {
	start, ok1 := formatMonth(m.MandateStart)
	end, ok2 := formatMonth(m.MandateEnd)
	if !ok1 || !ok2 {
		return FallbackMandate
	}
	return fmt.Sprintf("Mandato: %s a %s", start, end)
}

func formatMonth(s string) (string, bool) {
	year, month, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok || len(year) != 4 {
		return "", false
	}
	y, err := strconv.Atoi(year)
	if err != nil || y <= 0 {
		return "", false
	}
	mo, err := strconv.Atoi(month)
	if err != nil || mo < 1 || mo > 12 {
		return "", false
	}
	return fmt.Sprintf("%s %04d", monthAbbrev[mo-1], y), true
}

// FooterText is "street, number - city/state • CNPJ: x". The address part
// falls back to a placeholder; the CNPJ part is omitted when unset.
func FooterText(a models.Association) string {
	addr := DefaultFooterAddress
	if a.Address.Street != "" {
		addr = fmt.Sprintf("%s, %s - %s/%s", a.Address.Street, a.Address.Number, a.Address.City, a.Address.State)
	}
	if a.CNPJ == "" {
		return addr
	}
	return addr + " • CNPJ: " + a.CNPJ
}

// AssociationName returns the configured name or the default one.
func AssociationName(a models.Association) string {
	if strings.TrimSpace(a.Name) == "" {
		return DefaultAssociationName
	}
	return a.Name
}

// Location is "city - state", or the default location when either is unset.
func Location(a models.Association) string {
	if a.Address.City == "" || a.Address.State == "" {
		return DefaultLocation
	}
	return a.Address.City + " - " + a.Address.State
}

// data is the pre-resolved input shared by every layout branch.
type data struct {
	in       Input
	name     string
	location string
	footer   string
	mandate  string
}

func newData(in Input) *data {
	return &data{
		in:       in,
		name:     AssociationName(in.Association),
		location: Location(in.Association),
		footer:   FooterText(in.Association),
		mandate:  MandateText(in.Association.Management),
	}
}

// resolve looks a field up. Absent values resolve to the empty string.
func (d *data) resolve(f models.Field) string {
	switch f {
	case models.FieldAssociationName:
		return d.name
	case models.FieldMandate:
		return d.mandate
	}
	v, _ := d.in.Resident.Lookup(f)
	return v
}

func (d *data) photoURL() string {
	v, _ := d.in.Resident.Lookup(models.FieldPhotoURL)
	return v
}

func upper(s string) string {
	return cases.Upper(language.BrazilianPortuguese).String(s)
}
