package syncengine

import (
	"fmt"

	"github.com/mertkaraca/folio/internal/models"
)

// typePolicy captures everything type-specific about embedding one kind
// of content: whether an entity's publish state makes it eligible, and
// which translation fields act as title, description and content.
type typePolicy struct {
	titleKey       string
	descriptionKey string
	contentKey     string
	eligible       func(e *models.Entity) bool
}

func always(*models.Entity) bool { return true }

var typePolicies = map[string]typePolicy{
	models.SourceTypeProject: {
		titleKey:       "title",
		descriptionKey: "short_description",
		contentKey:     "full_description",
		eligible:       func(e *models.Entity) bool { return e.Status == "Completed" },
	},
	models.SourceTypeBlog: {
		titleKey:       "title",
		descriptionKey: "description",
		contentKey:     "content",
		eligible:       func(e *models.Entity) bool { return e.Status == "published" },
	},
	models.SourceTypeProfile: {
		titleKey:       "title",
		descriptionKey: "summary",
		contentKey:     "bio",
		eligible:       always,
	},
	models.SourceTypeExperience: {
		titleKey:       "position",
		descriptionKey: "company",
		contentKey:     "description",
		eligible:       always,
	},
}

func policyFor(sourceType string) (typePolicy, error) {
	p, ok := typePolicies[sourceType]
	if !ok {
		return typePolicy{}, fmt.Errorf("unknown source type: %q", sourceType)
	}
	return p, nil
}

// compositeText builds the text surface that gets chunked and embedded
// for one translation.
func (p typePolicy) compositeText(t models.Translation) string {
	return fmt.Sprintf("Title: %s\nDescription: %s\nContent: %s",
		t.Fields[p.titleKey], t.Fields[p.descriptionKey], t.Fields[p.contentKey])
}

// title extracts the display title of one translation, used for admin
// summaries.
func (p typePolicy) title(t *models.Translation) string {
	if t == nil {
		return ""
	}
	return t.Fields[p.titleKey]
}
