package database

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"dmapi/internal/domain"
)

// SchemaVersionKey is the settings row recording the download store's schema
// version, checked by the compatibility gate at startup.
const (
	SchemaVersionKey     = "schema_version"
	CurrentSchemaVersion = "4.4.13"
)

// Setting is a key/value row owned by the download store.
type Setting struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string
}

func (Setting) TableName() string { return "dm_settings" }

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the store tables and stamps the schema version.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.Download{}, &domain.Version{}, &Setting{}); err != nil {
		return err
	}

	var current Setting
	err := db.Where("key = ?", SchemaVersionKey).First(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&Setting{Key: SchemaVersionKey, Value: CurrentSchemaVersion}).Error
	}
	return err
}

// SchemaVersion reads the stored schema version. An empty string means the
// store has never been migrated.
func SchemaVersion(ctx context.Context, db *gorm.DB) (string, error) {
	if !db.Migrator().HasTable(&Setting{}) {
		return "", nil
	}

	var setting Setting
	err := db.WithContext(ctx).Where("key = ?", SchemaVersionKey).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// SchemaInfo adapts the store to the compatibility gate's collaborator
// interface.
type SchemaInfo struct {
	db *gorm.DB
}

func NewSchemaInfo(db *gorm.DB) SchemaInfo {
	return SchemaInfo{db: db}
}

func (s SchemaInfo) SchemaVersion(ctx context.Context) (string, error) {
	return SchemaVersion(ctx, s.db)
}
