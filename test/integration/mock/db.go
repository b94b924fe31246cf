// Package mock provides shared in-memory infrastructure for the integration
// suite.
package mock

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbOnce sync.Once
var db *Db

// Db wraps a shared in-memory SQLite connection migrated with the given
// models.
type Db struct {
	DbConn *gorm.DB
	models []any
}

// NewDb opens (once per process) the in-memory database and migrates the
// models.
func NewDb(models ...any) *Db {
	dbOnce.Do(func() {
		db = open(models)
	})
	return db
}

func open(models []any) *Db {
	// Shared cache keeps the in-memory database alive across the pool's
	// single connection.
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}
	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	if err := dbConn.AutoMigrate(models...); err != nil {
		panic("failed to migrate database. err: " + err.Error())
	}

	return &Db{DbConn: dbConn, models: models}
}

// Reset empties every table and restarts the autoincrement counters so each
// scenario starts from id 1.
func (d *Db) Reset() error {
	for _, model := range d.models {
		if err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}

		stmt := &gorm.Statement{DB: d.DbConn}
		if err := stmt.Parse(model); err != nil {
			return err
		}
		err := d.DbConn.Exec("DELETE FROM sqlite_sequence WHERE name = ?", stmt.Schema.Table).Error
		if err != nil && !strings.Contains(err.Error(), "no such table: sqlite_sequence") {
			return fmt.Errorf("failed to reset sequence for %s: %w", stmt.Schema.Table, err)
		}
	}
	return nil
}
