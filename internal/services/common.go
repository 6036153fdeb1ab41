package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/repository"
)

// loadErr classifies a failed single-row lookup.
func loadErr(err error, entity string, key interface{}) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("%s %v not found", entity, key)
	}
	return apperr.Storage(err, "failed to load %s", entity)
}

// writeErr classifies a failed insert or update.
func writeErr(err error, action string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Conflict("%s: a record with the same key already exists", action)
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Storage(err, "failed to %s", action)
}

// exists reports whether a lookup found a row, treating ErrNotFound as false.
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, err
}

// optional trims s and maps blank strings to nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of characters outside [a-z0-9]
// into a single dash.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

var nonSKUChars = regexp.MustCompile(`[^A-Z0-9]+`)

// GenerateSKU builds an SKU from up to three name fragments and a time based suffix,
// e.g. "SAM-GAL-S23-LQ4Z3K2A".
func GenerateSKU(name string, now time.Time) string {
	var parts []string
	for _, word := range strings.Fields(strings.ToUpper(name)) {
		word = nonSKUChars.ReplaceAllString(word, "")
		if word == "" {
			continue
		}
		if len(word) > 3 {
			word = word[:3]
		}
		parts = append(parts, word)
		if len(parts) == 3 {
			break
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "PRD")
	}
	suffix := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return fmt.Sprintf("%s-%s", strings.Join(parts, "-"), suffix)
}
