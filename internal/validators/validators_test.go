package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neillmakeup/studio-api/internal/httperr"
	"github.com/neillmakeup/studio-api/internal/models"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Maquillage Mariée":          "maquillage-mariee",
		"  Cours d'auto-maquillage ": "cours-d-auto-maquillage",
		"Éclat & Glow!!":             "eclat-glow",
		"photo_2024.JPG":             "photo-2024-jpg",
		"---":                        "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("maquillage-mariee"))
	assert.False(t, IsSlug("Maquillage"))
	assert.False(t, IsSlug("a--b"))
	assert.False(t, IsSlug("-a"))
}

func TestValidateScope(t *testing.T) {
	id := uint(3)

	assert.NoError(t, ValidateScope(models.Scope{}))
	assert.NoError(t, ValidateScope(models.Scope{Global: true}))
	assert.NoError(t, ValidateScope(models.Scope{ServiceID: &id}))

	err := ValidateScope(models.Scope{Global: true, ServiceID: &id})
	assert.True(t, httperr.IsBusiness(err, "invalid_scope"))

	err = ValidateScope(models.Scope{ServicesGlobal: true, FormationsGlobal: true})
	assert.True(t, httperr.IsBusiness(err, "invalid_scope"))
}

func TestValidateRating(t *testing.T) {
	assert.NoError(t, ValidateRating(1))
	assert.NoError(t, ValidateRating(5))
	assert.Error(t, ValidateRating(0))
	assert.Error(t, ValidateRating(6))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "claire@example.fr", NormalizeEmail("  Claire@Example.fr "))
	assert.Equal(t, "", NormalizeEmail("not-an-email"))
	assert.Equal(t, "", NormalizeEmail("Claire <claire@example.fr>"))
}
