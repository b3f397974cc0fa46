package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/neillmakeup/studio-api/internal/db"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/testutil"
)

func TestSeedIsIdempotent(t *testing.T) {
	gdb := testutil.NewDB(t)
	opts := dbpkg.SeedOptions{AdminName: "Neill", AdminEmail: "admin@neillmakeup.fr", AdminPassword: "admin123"}

	first, err := dbpkg.Seed(context.Background(), gdb, opts)
	require.NoError(t, err)
	assert.True(t, first.SiteIdentity)
	assert.True(t, first.Admin)
	assert.Equal(t, 2, first.Services)
	assert.Equal(t, 1, first.Formations)

	second, err := dbpkg.Seed(context.Background(), gdb, opts)
	require.NoError(t, err)
	assert.False(t, second.SiteIdentity)
	assert.False(t, second.Admin)
	assert.Zero(t, second.Services)

	var svc models.Service
	require.NoError(t, gdb.Where("slug = ?", "maquillage-mariee").First(&svc).Error)
	assert.Equal(t, []string{"mariée", "mariage", "romantique", "longue tenue"}, svc.Tags)
	assert.Equal(t, "250", svc.Price.String())

	var admin models.User
	require.NoError(t, gdb.Where("email = ?", "admin@neillmakeup.fr").First(&admin).Error)
	assert.True(t, admin.IsAdmin())
}

func TestSeedSkipsAdminWithoutPassword(t *testing.T) {
	gdb := testutil.NewDB(t)

	report, err := dbpkg.Seed(context.Background(), gdb, dbpkg.SeedOptions{AdminEmail: "admin@neillmakeup.fr"})
	require.NoError(t, err)
	assert.False(t, report.Admin)

	var n int64
	gdb.Model(&models.User{}).Count(&n)
	assert.Zero(t, n)
}

func TestUniqueSlugIsTranslated(t *testing.T) {
	gdb := testutil.NewDB(t)
	testutil.CreateService(t, gdb, "Mariée", "mariee")

	err := gdb.Create(&models.Service{Name: "Autre", Slug: "mariee"}).Error
	require.Error(t, err)
	assert.True(t, dbpkg.IsUniqueViolation(err))
}
