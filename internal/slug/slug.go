// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns resident names into ASCII file names and object keys.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// unsafeFilename matches characters not allowed in a quoted header
	// filename or on common filesystems.
	unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9 ._-]`)
	// multipleSpaces collapses runs of whitespace.
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// Fold removes diacritics: "João" becomes "Joao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate creates a URL-friendly slug from the given string.
// Example: "João da Silva 2026" → "joao-da-silva-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(Fold(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = multipleSpaces.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}

// Filename keeps the case and spacing of s but reduces it to characters
// safe in an ASCII file name. Example: "Ana Maria / Conceição" → "Ana Maria Conceicao"
func Filename(s string) string {
	result := unsafeFilename.ReplaceAllString(Fold(s), "")
	result = multipleSpaces.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
