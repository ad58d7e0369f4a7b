package config

import (
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/kendall-kelly/printshop-orders/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// activeUniqueIndexes enforce business-key uniqueness among rows whose
// deleted_at is NULL, so a soft-deleted key can be reused.
var activeUniqueIndexes = []struct {
	model  interface{}
	name   string
	table  string
	column string
}{
	{&models.Order{}, "idx_orders_log_active", "orders", "log"},
	{&models.User{}, "idx_users_username_active", "users", "username"},
	{&models.User{}, "idx_users_email_active", "users", "email"},
}

// Dialector returns the gorm dialector for driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// ConnectDatabase opens the configured database and applies pool settings
func ConnectDatabase(cfg *Config) error {
	dialector, err := Dialector(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	DB = db
	log.Info().Str("driver", cfg.DBDriver).Msg("Database connection established successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance (used by tests)
func SetDB(db *gorm.DB) {
	DB = db
}

// Migrate creates or updates the schema and the active-row unique indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Customer{}, &models.Order{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, idx := range activeUniqueIndexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		if err := db.Exec(activeUniqueIndexSQL(db.Dialector.Name(), idx.name, idx.table, idx.column)).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// activeUniqueIndexSQL builds the DDL for a unique index over active rows.
// MySQL has no partial indexes, so it indexes an expression that is NULL for
// deleted rows instead; NULLs never collide in a unique index.
func activeUniqueIndexSQL(dialect, name, table, column string) string {
	if dialect == "mysql" {
		return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s ((CASE WHEN deleted_at IS NULL THEN %s END))", name, table, column)
	}
	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s) WHERE deleted_at IS NULL", name, table, column)
}
