// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package export

import (
	"fmt"
	"net/url"
	"strings"

	"idcards/internal/slug"
)

// FallbackName replaces a blank resident name in file names.
const FallbackName = "Residente"

// Filename is "Carteirinha-<name>.jpg".
func Filename(residentName string) string {
	name := strings.TrimSpace(residentName)
	if name == "" {
		name = FallbackName
	}
	return "Carteirinha-" + name + ".jpg"
}

// ContentDisposition builds an attachment header with an ASCII filename
// for old clients and the exact UTF-8 name in filename*.
func ContentDisposition(filename string) string {
	base := strings.TrimSuffix(filename, ".jpg")
	ascii := slug.Filename(base)
	if ascii == "" || ascii == "Carteirinha-" {
		ascii = "Carteirinha-" + FallbackName
	}
	return fmt.Sprintf(`attachment; filename="%s.jpg"; filename*=UTF-8''%s`, ascii, url.PathEscape(filename))
}
