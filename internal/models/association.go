// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Association is the organization issuing the cards. Only the parts used
// for card header, footer and mandate text are interpreted by the renderer;
// the rest is stored and returned as-is.
type Association struct {
	Name        string     `json:"name"`
	CNPJ        string     `json:"cnpj"`
	CompanyName string     `json:"companyName"`
	Address     Address    `json:"address"`
	Contact     Contact    `json:"contact"`
	Management  Management `json:"management"`
}

// Address is the association headquarters address.
type Address struct {
	Street string `json:"street"`
	Number string `json:"number"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Contact holds the association contact channels.
type Contact struct {
	Phone    string `json:"phone"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email"`
}

// Director is an elected board member without a named office.
type Director struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Management describes the elected board. Mandate bounds use month
// precision in "YYYY-MM" form.
type Management struct {
	President          string     `json:"president"`
	VicePresident      string     `json:"vicePresident"`
	Treasurer          string     `json:"treasurer"`
	Secretary          string     `json:"secretary"`
	Directors          []Director `json:"directors"`
	MandateStart       string     `json:"mandateStart"`
	MandateEnd         string     `json:"mandateEnd"`
	ElectionMinutesPDF *string    `json:"electionMinutesPdf"`
}

// Settings is the persisted association document plus its logo.
type Settings struct {
	Association Association `json:"data"`
	Logo        *string     `json:"logo"`
}

// LogoURL returns the logo source or an empty string.
func (s *Settings) LogoURL() string {
	if s.Logo == nil {
		return ""
	}
	return *s.Logo
}
