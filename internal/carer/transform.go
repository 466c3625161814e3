package carer

import (
	"strings"

	"github.com/janisto/carer-directory/internal/sanitize"
)

const (
	fallbackName = "Carer"

	maxUsernameLength    = 120
	maxEmailLength       = 255
	maxAddressLength     = 255
	maxDescriptionLength = 1000
)

var (
	photoFields       = []string{"photoURL", "photoUrl", "photo", "avatarUrl"}
	descriptionFields = []string{"bio", "about", "description"}
)

// Transform builds a Carer from the raw profile document stored under id.
// It never fails: unusable fields fall back to their zero values.
func Transform(id string, doc map[string]any) Carer {
	if doc == nil {
		doc = map[string]any{}
	}

	username := sanitize.SingleLineText(doc["username"], maxUsernameLength)
	email := sanitize.SingleLineText(doc["email"], maxEmailLength)
	if !strings.Contains(email, "@") {
		email = ""
	}

	return Carer{
		ID:          id,
		Name:        displayName(username, email),
		Email:       email,
		Photo:       firstNonEmpty(doc, photoFields, sanitize.URL),
		Description: firstNonEmpty(doc, descriptionFields, func(v any) string { return sanitize.MultilineText(v, maxDescriptionLength) }),
		Reviews:     ExtractRatings(doc["reviews"]),
		Address:     sanitize.SingleLineText(doc["address"], maxAddressLength),
		Location:    ResolveLocation(doc),
	}
}

func displayName(username, email string) string {
	if username != "" {
		return username
	}
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	return fallbackName
}

func firstNonEmpty(doc map[string]any, fields []string, clean func(any) string) string {
	for _, field := range fields {
		if v := clean(doc[field]); v != "" {
			return v
		}
	}
	return ""
}
