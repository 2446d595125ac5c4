package handlers

import (
	"strings"
	"unicode/utf8"

	"idcards/internal/imaging"
	"idcards/internal/models"
)

// Validation limits for request inputs.
const (
	maxTemplateNameLen = 200
	maxElements        = 200
	maxFieldValueLen   = 300
	maxRoleLen         = 60
	maxAssocNameLen    = 200
	maxBackgroundBytes = 5 << 20
)

// validateTemplate checks a template document and returns the first error found.
func validateTemplate(l *models.Layout) string {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return "Template name is required."
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return "Template name is too long (max 200 characters)."
	}
	if len(l.Elements) > maxElements {
		return "Template has too many elements (max 200)."
	}
	if l.BackgroundURL != nil && *l.BackgroundURL != "" && !isImageSource(*l.BackgroundURL) {
		return "Background must be an image data URL or an http(s) URL."
	}
	if err := l.Validate(); err != nil {
		return err.Error()
	}
	return ""
}

// validateFieldValue checks a value typed into a card.
func validateFieldValue(value string) string {
	if utf8.RuneCountInString(value) > maxFieldValueLen {
		return "Value is too long (max 300 characters)."
	}
	return ""
}

// validateRole checks a role typed into the suggestion list.
func validateRole(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return "Role is required."
	}
	if utf8.RuneCountInString(role) > maxRoleLen {
		return "Role is too long (max 60 characters)."
	}
	return ""
}

// validateSettings checks the association document and logo.
func validateSettings(s *models.Settings) string {
	if utf8.RuneCountInString(s.Association.Name) > maxAssocNameLen {
		return "Association name is too long (max 200 characters)."
	}
	if s.Logo != nil && *s.Logo != "" && !isImageSource(*s.Logo) {
		return "Logo must be an image data URL or an http(s) URL."
	}
	return ""
}

// isImageSource accepts decodable-looking image data URLs and http(s) URLs.
func isImageSource(src string) bool {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return true
	}
	ct, _, err := imaging.ParseDataURL(src)
	return err == nil && strings.HasPrefix(ct, "image/")
}
