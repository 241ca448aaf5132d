package database

import (
	"fmt"
	"strings"
	"time"

	"ecofinds/internal/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}

	isSQLite := strings.HasPrefix(databaseURL, "sqlite://")
	if isSQLite {
		// SQLite for development and tests
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), cfg)
	} else {
		// PostgreSQL for production, through lib/pq
		db, err = gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        databaseURL,
		}), cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if isSQLite {
		// in-memory databases are per connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &Database{DB: db}, nil
}

// Migrate creates or updates every table the marketplace uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Purchase{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
