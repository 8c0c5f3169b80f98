package database

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lordralex/ballot/api/env"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Dialect opens the gorm dialector for one SQL backend.
type Dialect interface {
	Load() gorm.Dialector
}

var dialects = make(map[string]Dialect)

var databaseConn *gorm.DB
var locker sync.Mutex

// Get lazily opens the shared connection for the dialect named by DATABASE_DIALECT.
func Get() (*gorm.DB, error) {
	var err error

	locker.Lock()
	defer locker.Unlock()
	if databaseConn == nil {
		databaseConn, err = load()
	}

	return databaseConn, err
}

func Close() {
	locker.Lock()
	defer locker.Unlock()

	if databaseConn == nil {
		return
	}
	if sqlDb, err := databaseConn.DB(); err == nil {
		_ = sqlDb.Close()
	}
	databaseConn = nil
}

func load() (db *gorm.DB, err error) {
	name := strings.ToLower(env.GetOr("database.dialect", "mysql"))
	dialect, exists := dialects[name]
	if !exists {
		return nil, fmt.Errorf("unknown database dialect %q", name)
	}

	logLevel := logger.Warn
	if env.GetBool("debug") {
		logLevel = logger.Info
	}

	db, err = gorm.Open(dialect.Load(), &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, err
	}

	sqlDb, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDb.SetConnMaxLifetime(time.Minute * 5)
	sqlDb.SetMaxIdleConns(2)
	sqlDb.SetMaxOpenConns(10)
	return db, nil
}
