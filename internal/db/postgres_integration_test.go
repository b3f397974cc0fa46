//go:build integration

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/neillmakeup/studio-api/internal/config"
	dbpkg "github.com/neillmakeup/studio-api/internal/db"
	"github.com/neillmakeup/studio-api/internal/models"
	"github.com/neillmakeup/studio-api/internal/testutil"
)

func openPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("studio"),
		postgres.WithUsername("studio"),
		postgres.WithPassword("studio"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gdb, err := dbpkg.Open(config.DBConfig{
		Driver:          "postgres",
		DSN:             dsn,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbpkg.Close(gdb) })
	return gdb
}

func TestPostgresUniqueSlug(t *testing.T) {
	gdb := openPostgres(t)
	testutil.CreateService(t, gdb, "Maquillage Mariée", "maquillage-mariee")

	err := gdb.Create(&models.Service{Name: "Autre", Slug: "maquillage-mariee", DurationMinutes: 60}).Error
	require.Error(t, err)
	assert.True(t, dbpkg.IsUniqueViolation(err))
}

func TestPostgresServiceDeleteCascades(t *testing.T) {
	gdb := openPostgres(t)
	svc := testutil.CreateService(t, gdb, "Maquillage Mariée", "maquillage-mariee")
	user := testutil.CreateUser(t, gdb, "sophie@example.fr", models.RoleClient)
	testutil.CreateReservation(t, gdb, user.ID, svc.ID, "2025-07-01", "10:00", "confirmed")
	require.NoError(t, gdb.Create(&models.Review{Author: "Léa", Comment: "Parfait", Rating: 5, ServiceID: &svc.ID}).Error)

	require.NoError(t, gdb.Delete(&models.Service{}, svc.ID).Error)

	var n int64
	require.NoError(t, gdb.Model(&models.Review{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, gdb.Model(&models.Reservation{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPostgresRatingCheck(t *testing.T) {
	gdb := openPostgres(t)

	err := gdb.Create(&models.Review{Author: "Léa", Comment: "Trop", Rating: 6, Global: true}).Error
	assert.Error(t, err)
}

func TestPostgresSeed(t *testing.T) {
	gdb := openPostgres(t)

	report, err := dbpkg.Seed(context.Background(), gdb, dbpkg.SeedOptions{
		AdminName:     "Neill",
		AdminEmail:    "admin@neillmakeup.fr",
		AdminPassword: "admin123",
	})
	require.NoError(t, err)
	assert.True(t, report.Admin)

	var svc models.Service
	require.NoError(t, gdb.Where("slug = ?", "maquillage-mariee").First(&svc).Error)
	assert.Equal(t, "250", svc.Price.String())
}
