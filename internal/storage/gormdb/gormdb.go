// Package gormdb persists run reports to Postgres, falling back to SQLite
// when the server is unreachable.
package gormdb

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/radiomesh/scenesynth/pkg/core"
)

// AreaReportRow is the database row for one area's synthesis report.
type AreaReportRow struct {
	ID                uint   `gorm:"primarykey"`
	Area              string `gorm:"index"`
	Status            string
	Error             string
	FootprintsTotal   int
	FootprintsClipped int
	FootprintsDropped int
	BuildingVertices  int
	BuildingFaces     int
	Artifacts         datatypes.JSON
	DurationMs        int64
	ProcessedAt       time.Time
}

// Backend writes reports through gorm.
type Backend struct {
	typ    string // "postgres" or "sqlite"
	db     *gorm.DB
	Logger zerolog.Logger
}

// New creates a gorm-backed report store of the given type.
func New(typ string, log zerolog.Logger) *Backend {
	return &Backend{typ: typ, Logger: log}
}

// Init connects and migrates the report table. A postgres backend that
// cannot reach the server falls back to local SQLite.
func (b *Backend) Init() error {
	var err error

	switch b.typ {
	case "postgres":
		b.db, err = openPostgres()
		if err == nil {
			err = ping(b.db)
		}
		if err != nil {
			b.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
			b.db, err = openSqlite(viper.GetString("db.sqlitePath"))
		}
	case "sqlite":
		b.db, err = openSqlite(viper.GetString("db.sqlitePath"))
	default:
		return fmt.Errorf("unknown database type: %s", b.typ)
	}
	if err != nil {
		return fmt.Errorf("failed to open report database: %w", err)
	}

	if err := b.db.AutoMigrate(&AreaReportRow{}); err != nil {
		return fmt.Errorf("failed to migrate report table: %w", err)
	}
	b.Logger.Info().Msg("Connected to report database")
	return nil
}

// Close releases the underlying connection.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordArea inserts one area's report.
func (b *Backend) RecordArea(r *core.AreaReport) error {
	artifacts, err := json.Marshal(r.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to encode artifacts: %w", err)
	}

	row := AreaReportRow{
		Area:              r.Area,
		Status:            string(r.Status),
		Error:             r.Error,
		FootprintsTotal:   r.FootprintsTotal,
		FootprintsClipped: r.FootprintsClipped,
		FootprintsDropped: r.FootprintsDropped,
		BuildingVertices:  r.BuildingVertices,
		BuildingFaces:     r.BuildingFaces,
		Artifacts:         datatypes.JSON(artifacts),
		DurationMs:        r.Duration.Milliseconds(),
		ProcessedAt:       r.ProcessedAt,
	}
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert area report: %w", err)
	}
	return nil
}

// Export is a no-op: rows are persisted as they are recorded.
func (b *Backend) Export() error {
	return nil
}

func openPostgres() (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// openSqlite opens a file database, or an in-memory one when path is empty.
func openSqlite(path string) (*gorm.DB, error) {
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	return gorm.Open(sqlite.Open(path), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
