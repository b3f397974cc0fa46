// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	dbpkg "github.com/neillmakeup/studio-api/internal/db"
	"github.com/neillmakeup/studio-api/internal/models"
)

// NewDB opens a fresh in-memory SQLite database named after the test and
// migrates every model into it.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbpkg.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func CreateUser(t *testing.T, gdb *gorm.DB, email, role string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{Name: strings.Split(email, "@")[0], Email: email, PasswordHash: string(hashed), Role: role}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreateService(t *testing.T, gdb *gorm.DB, name, slug string) *models.Service {
	t.Helper()
	s := &models.Service{
		Name:            name,
		Slug:            slug,
		Price:           decimal.NewFromInt(100),
		DurationMinutes: 60,
		IsActive:        true,
	}
	if err := gdb.Create(s).Error; err != nil {
		t.Fatalf("create service: %v", err)
	}
	return s
}

func CreateFormation(t *testing.T, gdb *gorm.DB, title, slug string) *models.Formation {
	t.Helper()
	f := &models.Formation{Title: title, Slug: slug, Price: decimal.NewFromInt(900), IsActive: true}
	if err := gdb.Create(f).Error; err != nil {
		t.Fatalf("create formation: %v", err)
	}
	return f
}

func CreateReservation(t *testing.T, gdb *gorm.DB, userID, serviceID uint, date, hm, status string) *models.Reservation {
	t.Helper()
	r := &models.Reservation{
		UserID:          userID,
		ServiceID:       serviceID,
		Date:            date,
		Time:            hm,
		DurationMinutes: models.DefaultReservationMinutes,
		Status:          status,
	}
	if err := gdb.Create(r).Error; err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return r
}
