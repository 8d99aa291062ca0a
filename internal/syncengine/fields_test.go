package syncengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertkaraca/folio/internal/models"
)

func TestPolicyCoversEverySourceType(t *testing.T) {
	for _, st := range models.SourceTypes {
		_, err := policyFor(st)
		assert.NoError(t, err, st)
	}
	_, err := policyFor("banana")
	assert.Error(t, err)
}

func TestCompositeTextFormat(t *testing.T) {
	p, err := policyFor(models.SourceTypeProject)
	require.NoError(t, err)

	text := p.compositeText(models.Translation{
		Language: "en",
		Fields: map[string]string{
			"title":             "Folio",
			"short_description": "Portfolio engine",
			"full_description":  "Long story.",
		},
	})
	assert.Equal(t, "Title: Folio\nDescription: Portfolio engine\nContent: Long story.", text)
}

func TestEligibilityGates(t *testing.T) {
	tests := []struct {
		sourceType string
		status     string
		want       bool
	}{
		{models.SourceTypeProject, "Completed", true},
		{models.SourceTypeProject, "InProgress", false},
		{models.SourceTypeBlog, "published", true},
		{models.SourceTypeBlog, "draft", false},
		{models.SourceTypeProfile, "", true},
		{models.SourceTypeExperience, "", true},
	}

	for _, tt := range tests {
		p, err := policyFor(tt.sourceType)
		require.NoError(t, err)
		got := p.eligible(&models.Entity{Type: tt.sourceType, Status: tt.status})
		assert.Equal(t, tt.want, got, "%s/%s", tt.sourceType, tt.status)
	}
}

func TestPolicyTitle(t *testing.T) {
	p, err := policyFor(models.SourceTypeExperience)
	require.NoError(t, err)

	tr := models.Translation{Fields: map[string]string{"position": "Staff Engineer"}}
	assert.Equal(t, "Staff Engineer", p.title(&tr))
	assert.Equal(t, "", p.title(nil))
}
