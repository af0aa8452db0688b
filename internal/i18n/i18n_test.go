package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-admin-service/internal/domain"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "title[en]", Key(FieldTitle, "en"))
	assert.Equal(t, "description[pt-BR]", Key(FieldDescription, "pt-BR"))
}

func TestValidateLocale(t *testing.T) {
	require.NoError(t, ValidateLocale("en"))
	require.NoError(t, ValidateLocale("pt-BR"))
	require.Error(t, ValidateLocale("not a locale"))
}

func TestCollate_EveryLocaleGetsAnEntry(t *testing.T) {
	locales := []string{"en", "fr", "de"}
	values := map[string]string{
		"title[en]": "Shoes",
	}

	out := Collate(locales, values, FieldTitle, false)

	require.Len(t, out, 3)
	for _, locale := range locales {
		_, ok := out[locale]
		assert.True(t, ok, "locale %s should be present", locale)
	}
	require.NotNil(t, out["en"])
	assert.Equal(t, "Shoes", *out["en"])
	assert.Nil(t, out["fr"])
	assert.Nil(t, out["de"])
}

func TestCollate_FallbackIsFirstNonEmptyInLocaleOrder(t *testing.T) {
	locales := []string{"en", "fr", "de"}
	values := map[string]string{
		"title[fr]": "Chaussures",
		"title[de]": "Schuhe",
	}

	out := Collate(locales, values, FieldTitle, true)

	require.NotNil(t, out["en"])
	assert.Equal(t, "Chaussures", *out["en"], "empty en should fall back to fr, the first non-empty locale")
	require.NotNil(t, out["fr"])
	assert.Equal(t, "Chaussures", *out["fr"])
	require.NotNil(t, out["de"])
	assert.Equal(t, "Schuhe", *out["de"], "a locale with its own value keeps it")
}

func TestCollate_WithoutReplaceEmptyLeavesGaps(t *testing.T) {
	locales := []string{"en", "fr"}
	values := map[string]string{
		"title[fr]": "Chaussures",
	}

	out := Collate(locales, values, FieldTitle, false)

	assert.Nil(t, out["en"])
	require.NotNil(t, out["fr"])
	assert.Equal(t, "Chaussures", *out["fr"])
}

func TestCollate_AllEmpty(t *testing.T) {
	locales := []string{"en", "fr"}

	out := Collate(locales, map[string]string{}, FieldTitle, true)

	require.Len(t, out, 2)
	assert.Nil(t, out["en"])
	assert.Nil(t, out["fr"])
}

func TestExpand_MissingLocaleContributesNoKey(t *testing.T) {
	locales := []string{"en", "fr", "de"}
	translations := []domain.Translation{
		{Locale: "en", Title: "Shoes", Description: "Leather shoes"},
		{Locale: "fr", Title: "Chaussures"},
	}

	out := Expand(locales, translations, FieldTitle, FieldDescription)

	assert.Equal(t, "Shoes", out["title[en]"])
	assert.Equal(t, "Leather shoes", out["description[en]"])
	assert.Equal(t, "Chaussures", out["title[fr]"])
	_, ok := out["title[de]"]
	assert.False(t, ok, "a locale without a translation row should produce no key")
}

func TestExpandRoundTripsCollatedValues(t *testing.T) {
	locales := []string{"en", "fr"}
	form := map[string]string{
		"title[en]": "Shoes",
		"title[fr]": "Chaussures",
	}

	translations := BuildTranslations(locales,
		map[string]string{"en": "Shoes", "fr": "Chaussures"},
		nil, false)
	out := Expand(locales, translations, FieldTitle)

	assert.Equal(t, form, out)
}

func TestFieldValue(t *testing.T) {
	tr := domain.Translation{Locale: "en", Title: "Shoes", Description: "Leather"}

	v, ok := FieldValue(tr, FieldTitle)
	assert.True(t, ok)
	assert.Equal(t, "Shoes", v)

	v, ok = FieldValue(tr, FieldDescription)
	assert.True(t, ok)
	assert.Equal(t, "Leather", v)

	_, ok = FieldValue(tr, "price")
	assert.False(t, ok)
}

func TestBuildTranslations_BackfillsEmptyLocales(t *testing.T) {
	locales := []string{"en", "fr", "de"}
	title := map[string]string{"fr": "Chaussures"}
	description := map[string]string{"en": "Leather shoes"}

	out := BuildTranslations(locales, title, description, true)

	require.Len(t, out, 3)
	assert.Equal(t, domain.Translation{Locale: "en", Title: "Chaussures", Description: "Leather shoes"}, out[0])
	assert.Equal(t, domain.Translation{Locale: "fr", Title: "Chaussures", Description: "Leather shoes"}, out[1])
	assert.Equal(t, domain.Translation{Locale: "de", Title: "Chaussures", Description: "Leather shoes"}, out[2])
}

func TestBuildTranslations_NoBackfill(t *testing.T) {
	locales := []string{"en", "fr"}
	title := map[string]string{"en": "Shoes"}

	out := BuildTranslations(locales, title, nil, false)

	require.Len(t, out, 2)
	assert.Equal(t, "Shoes", out[0].Title)
	assert.Equal(t, "", out[1].Title)
}

func TestDefaultLocale(t *testing.T) {
	langs := []domain.Language{
		{Locale: "en"},
		{Locale: "fr", Default: true},
	}
	assert.Equal(t, "fr", DefaultLocale(langs))

	assert.Equal(t, "en", DefaultLocale([]domain.Language{{Locale: "en"}}), "no flag falls back to the first entry")
	assert.Equal(t, "", DefaultLocale(nil))
}

func TestLocales(t *testing.T) {
	langs := []domain.Language{{Locale: "en"}, {Locale: "fr"}}
	assert.Equal(t, []string{"en", "fr"}, Locales(langs))
}
