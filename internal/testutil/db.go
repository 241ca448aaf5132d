// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"ecofinds/internal/database"

	"gorm.io/gorm"
)

// NewDB opens a fresh in-memory SQLite database with the schema applied.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.New("sqlite://file::memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db.DB
}
