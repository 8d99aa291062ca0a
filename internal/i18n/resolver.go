package i18n

import (
	"github.com/mertkaraca/folio/internal/models"
)

// Resolver picks the best translation of an entity for a requested
// locale. The same rule backs page rendering and the sync engine's
// admin summaries, so it lives in exactly one place.
type Resolver struct {
	defaultLanguage string
}

// NewResolver returns a resolver falling back to defaultLanguage, or to
// DefaultLanguage when empty.
func NewResolver(defaultLanguage string) *Resolver {
	if defaultLanguage == "" {
		defaultLanguage = DefaultLanguage
	}
	return &Resolver{defaultLanguage: defaultLanguage}
}

// Resolve returns the translation for requested, else the default
// language, else the first translation in stored order. Nil only when
// the entity has no translations at all; callers treat that as "not
// found".
func (r *Resolver) Resolve(entity *models.Entity, requested string) *models.Translation {
	if entity == nil || len(entity.Translations) == 0 {
		return nil
	}
	if t := findLanguage(entity.Translations, requested); t != nil {
		return t
	}
	if t := findLanguage(entity.Translations, r.defaultLanguage); t != nil {
		return t
	}
	return &entity.Translations[0]
}

func findLanguage(translations []models.Translation, lang string) *models.Translation {
	if lang == "" {
		return nil
	}
	for i := range translations {
		if translations[i].Language == lang {
			return &translations[i]
		}
	}
	return nil
}
