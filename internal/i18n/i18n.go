package i18n

import (
	"fmt"

	"golang.org/x/text/language"

	"marketplace-admin-service/internal/domain"
)

// Translatable field names recognized by Expand and FieldValue.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
)

// Key builds the flat form key used at the serialization boundary with the
// dashboard, e.g. Key("title", "en") == "title[en]".
func Key(field, locale string) string {
	return fmt.Sprintf("%s[%s]", field, locale)
}

// ValidateLocale checks that a locale is a well-formed BCP-47 tag.
func ValidateLocale(locale string) error {
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("i18n: invalid locale %q: %w", locale, err)
	}
	return nil
}

// Collate reshapes flat per-locale form values ("title[en]", "title[fr]", ...)
// into one entry per configured locale for a single field. The first non-empty
// value in locale order is remembered as the fallback; when replaceEmpty is
// set, locales without a value receive the fallback. A nil entry means the
// locale has no value; the key itself is always present for every configured
// locale.
func Collate(locales []string, values map[string]string, field string, replaceEmpty bool) map[string]*string {
	var fallback *string
	for _, locale := range locales {
		if v, ok := values[Key(field, locale)]; ok && v != "" {
			fallback = &v
			break
		}
	}

	out := make(map[string]*string, len(locales))
	for _, locale := range locales {
		if v, ok := values[Key(field, locale)]; ok && v != "" {
			v := v
			out[locale] = &v
			continue
		}
		if replaceEmpty {
			out[locale] = fallback
			continue
		}
		out[locale] = nil
	}
	return out
}

// Expand is the inverse of Collate: given a record's translations, it produces
// the flat per-locale form field set used to pre-populate an edit form. A
// locale with no translation entry contributes no key, so the form shows it
// blank.
func Expand(locales []string, translations []domain.Translation, fields ...string) map[string]string {
	byLocale := make(map[string]domain.Translation, len(translations))
	for _, t := range translations {
		byLocale[t.Locale] = t
	}

	out := make(map[string]string)
	for _, field := range fields {
		for _, locale := range locales {
			t, ok := byLocale[locale]
			if !ok {
				continue
			}
			if v, ok := FieldValue(t, field); ok {
				out[Key(field, locale)] = v
			}
		}
	}
	return out
}

// FieldValue returns the named translatable field from t. The second return
// is false for unknown field names.
func FieldValue(t domain.Translation, field string) (string, bool) {
	switch field {
	case FieldTitle:
		return t.Title, true
	case FieldDescription:
		return t.Description, true
	default:
		return "", false
	}
}

// BuildTranslations converts nested per-locale title/description maps (the
// server-side payload shape) into translation rows, one per configured locale.
// Empty locales are backfilled from the first non-empty value in locale order
// when replaceEmpty is set; fields with no value anywhere stay empty.
func BuildTranslations(locales []string, title, description map[string]string, replaceEmpty bool) []domain.Translation {
	titles := collateNested(locales, title, replaceEmpty)
	descriptions := collateNested(locales, description, replaceEmpty)

	out := make([]domain.Translation, 0, len(locales))
	for _, locale := range locales {
		out = append(out, domain.Translation{
			Locale:      locale,
			Title:       titles[locale],
			Description: descriptions[locale],
		})
	}
	return out
}

func collateNested(locales []string, values map[string]string, replaceEmpty bool) map[string]string {
	fallback := ""
	for _, locale := range locales {
		if v := values[locale]; v != "" {
			fallback = v
			break
		}
	}

	out := make(map[string]string, len(locales))
	for _, locale := range locales {
		if v := values[locale]; v != "" {
			out[locale] = v
		} else if replaceEmpty {
			out[locale] = fallback
		} else {
			out[locale] = ""
		}
	}
	return out
}

// DefaultLocale returns the designated default locale from the configured
// language list, falling back to the first entry when none is flagged.
func DefaultLocale(langs []domain.Language) string {
	for _, l := range langs {
		if l.Default {
			return l.Locale
		}
	}
	if len(langs) > 0 {
		return langs[0].Locale
	}
	return ""
}

// Locales extracts the ordered locale tags from the configured language list.
func Locales(langs []domain.Language) []string {
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		out = append(out, l.Locale)
	}
	return out
}
